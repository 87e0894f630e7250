package codec

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func gunzip(t *testing.T, data []byte) string {
	r, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	text, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(text)
}

func TestGZIP(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		g, err := NewGZIP(gzip.DefaultCompression)
		require.NoError(t, err)

		text := strings.Repeat("Hello, world! Lorem ipsum! ", 100)
		compressed, err := g.Encode([]byte(text))
		require.NoError(t, err)
		require.Less(t, len(compressed), len(text))
		require.Equal(t, text, gunzip(t, compressed))
	})

	t.Run("concurrent", func(t *testing.T) {
		g, err := NewGZIP(gzip.BestSpeed)
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make([][]byte, 8)
		errs := make([]error, len(results))
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], errs[i] = g.Encode([]byte("concurrent"))
			}()
		}

		wg.Wait()

		for i := range results {
			require.NoError(t, errs[i])
			require.Equal(t, "concurrent", gunzip(t, results[i]))
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := NewGZIP(42)
		require.Error(t, err)
	})
}
