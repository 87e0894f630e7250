// Package decorator implements the response pipeline: a fixed sequence of responses,
// each wrapping the next one and enforcing a single piece of HTTP semantics.
package decorator

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/indigo-web/facet/http/codec"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/status"
)

var (
	// ErrTextUnsupported is raised (as a panic) by decorators placed after the charset one,
	// where every body must already be in its byte form.
	ErrTextUnsupported = errors.New("text bodies must be encoded before this stage")
	// ErrNoContentType is raised (as a panic) when a text body is set without Content-Type.
	ErrNoContentType = errors.New("text body requires Content-Type to be set first")
)

// Hasher computes an entity tag of a body.
type Hasher func(body []byte) headers.EntityTag

// XXHash is the default Hasher. It produces strong tags made of 16 hex digits.
func XXHash(body []byte) headers.EntityTag {
	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], xxhash.Sum64(body))
	return headers.StrongTag(hex.EncodeToString(sum[:]))
}

// Observer is notified about every status rewrite made by the pipeline.
type Observer interface {
	ObserveRewrite(decorator string, code status.Code)
}

// Options configure the pipeline. The zero value is usable.
type Options struct {
	// DefaultHeaders complete the first entity with the headers it doesn't set itself.
	DefaultHeaders headers.Map
	// Codec compresses bodies for clients accepting its coding. Gzip with the default
	// compression level is used if nil.
	Codec codec.Codec
	// Hasher computes entity tags for conditional requests. XXHash is used if nil.
	Hasher Hasher
	// MaxRanges limits the number of ranges served at once. Requests asking for more are
	// answered with the whole body. Zero means no limit.
	MaxRanges int
	Logger   *slog.Logger
	Observer Observer
}

func (o Options) withDefaults() Options {
	if o.Codec == nil {
		o.Codec = codec.DefaultGZIP()
	}

	if o.Hasher == nil {
		o.Hasher = XXHash
	}

	if o.Logger == nil {
		o.Logger = slog.Default().WithGroup("pipeline")
	}

	return o
}

// env must only be called on options passed through withDefaults.
func (o Options) env() env {
	return env{log: o.Logger, observer: o.Observer}
}

type env struct {
	log      *slog.Logger
	observer Observer
}

func (e env) rewrite(decorator string, from, to status.Code) {
	e.log.Debug("status rewritten",
		slog.String("decorator", decorator),
		slog.Int("from", int(from)),
		slog.Int("to", int(to)),
	)

	if e.observer != nil {
		e.observer.ObserveRewrite(decorator, to)
	}
}
