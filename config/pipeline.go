package config

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/indigo-web/facet/http/codec"
	"github.com/indigo-web/facet/http/decorator"
	"github.com/indigo-web/facet/http/headers"
)

// PipelineOptions converts the pipeline settings into decorator options. The Server
// header defaults to the server name.
func (c *Config) PipelineOptions() (decorator.Options, error) {
	defaults := headers.NewMap()

	for _, h := range c.Pipeline.DefaultHeaders {
		value, err := headers.Parse(h.Name, h.Value)
		if err != nil {
			return decorator.Options{}, fmt.Errorf("default header: %w", err)
		}

		defaults = defaults.Add(h.Name, value)
	}

	if !defaults.Has(headers.Server) {
		defaults = defaults.Add(headers.Server, headers.Text(c.Server.Name))
	}

	gzip, err := codec.NewGZIP(c.Pipeline.GzipLevel)
	if err != nil {
		return decorator.Options{}, err
	}

	return decorator.Options{
		DefaultHeaders: defaults,
		Codec:          gzip,
		MaxRanges:      c.Pipeline.MaxRanges,
	}, nil
}

// Logger returns the logger writing to w in the configured format, dropping records
// below the configured level.
func (l Log) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
