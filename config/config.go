package config

import (
	"time"

	"github.com/klauspost/compress/gzip"
)

type (
	Server struct {
		// Addr is the address the server listens on, in the host:port form.
		Addr string `yaml:"addr" mapstructure:"addr" validate:"required,hostname_port"`
		// Name is sent in the Server header, unless the default headers override it.
		Name string `yaml:"name" mapstructure:"name" validate:"required"`
		// ReadTimeout limits the time spent reading the request, including its body.
		ReadTimeout time.Duration `yaml:"read_timeout" mapstructure:"read_timeout" validate:"gte=1ms"`
	}

	Header struct {
		Name  string `yaml:"name" mapstructure:"name" validate:"required"`
		Value string `yaml:"value" mapstructure:"value"`
	}

	Pipeline struct {
		// DefaultHeaders complete every response lacking them. Content headers aren't
		// allowed here, as they describe a particular body.
		DefaultHeaders []Header `yaml:"default_headers" mapstructure:"default_headers" validate:"dive" test:"nullable"`
		// GzipLevel is the compression level, from gzip.HuffmanOnly (-2) to gzip.BestCompression (9).
		GzipLevel int `yaml:"gzip_level" mapstructure:"gzip_level" validate:"min=-2,max=9"`
		// MaxRanges limits the number of byte ranges served at once. Requests asking for
		// more are answered with the whole body. Zero disables the limit.
		MaxRanges int `yaml:"max_ranges" mapstructure:"max_ranges" validate:"min=0"`
	}

	Log struct {
		Level  string `yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`
		Format string `yaml:"format" mapstructure:"format" validate:"oneof=text json"`
	}

	Metrics struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path" validate:"required,startswith=/"`
	}
)

// Config holds everything the facet server needs: the listener, the response pipeline,
// logging, metrics and the route table.
//
// Always start from Default() and modify it: the zero value isn't a valid config.
type Config struct {
	Server   Server   `yaml:"server" mapstructure:"server"`
	Pipeline Pipeline `yaml:"pipeline" mapstructure:"pipeline"`
	Log      Log      `yaml:"log" mapstructure:"log"`
	Metrics  Metrics  `yaml:"metrics" mapstructure:"metrics"`
	// Routes are matched in order, the first matching one serves the request.
	Routes []Route `yaml:"routes" mapstructure:"routes" validate:"dive" test:"nullable"`
}

// Default returns the default config. It has no routes, so every request results in 404.
func Default() *Config {
	return &Config{
		Server: Server{
			Addr:        "localhost:8080",
			Name:        "facet",
			ReadTimeout: 90 * time.Second,
		},
		Pipeline: Pipeline{
			GzipLevel: gzip.DefaultCompression,
			// a few ranges cover every sane client, while hundreds of them are a known
			// way to amplify the response size
			MaxRanges: 16,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
		Metrics: Metrics{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
