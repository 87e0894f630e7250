package codec

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/indigo-web/facet/http/headers"
	"github.com/klauspost/compress/gzip"
)

var _ Codec = new(GZIP)

var defaultGZIP = sync.OnceValue(func() *GZIP {
	g, _ := NewGZIP(gzip.DefaultCompression)
	return g
})

// DefaultGZIP returns a shared gzip codec with the default compression level.
func DefaultGZIP() *GZIP {
	return defaultGZIP()
}

// GZIP is safe for concurrent use: writers are pooled and reset per body.
type GZIP struct {
	level   int
	writers sync.Pool
}

// NewGZIP returns a gzip codec with the compression level in range from gzip.HuffmanOnly
// to gzip.BestCompression.
func NewGZIP(level int) (*GZIP, error) {
	if _, err := gzip.NewWriterLevel(nil, level); err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}

	g := &GZIP{level: level}
	g.writers.New = func() any {
		w, _ := gzip.NewWriterLevel(nil, level)
		return w
	}

	return g, nil
}

func (g *GZIP) Coding() headers.Coding {
	return headers.Gzip
}

func (g *GZIP) Level() int {
	return g.level
}

func (g *GZIP) Encode(body []byte) ([]byte, error) {
	var buff bytes.Buffer
	buff.Grow(len(body)/2 + 32)

	w := g.writers.Get().(*gzip.Writer)
	defer g.writers.Put(w)
	w.Reset(&buff)

	if _, err := w.Write(body); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}
