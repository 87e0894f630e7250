package decorator

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/method"
	"github.com/indigo-web/facet/http/proto"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func newRequest(m method.Method, hdrs ...string) *http.Request {
	r := http.NewRequest("/")
	r.Method = m
	for i := 0; i+1 < len(hdrs); i += 2 {
		r.Headers.Add(hdrs[i], hdrs[i+1])
	}

	return r
}

type rewrites []string

func (r *rewrites) ObserveRewrite(decorator string, code status.Code) {
	*r = append(*r, fmt.Sprintf("%s:%d", decorator, code))
}

func quiet() Options {
	return Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func fields(pairs ...any) headers.Map {
	var f []headers.Field
	for i := 0; i+1 < len(pairs); i += 2 {
		f = append(f, headers.Field{Name: pairs[i].(string), Value: pairs[i+1].(headers.Value)})
	}

	return headers.NewMap(f...)
}

func first(t *testing.T, sink *response.Sink) entity.Entity {
	e, found := sink.Entity()
	require.True(t, found, "no entity reached the sink")
	return e
}

func header(t *testing.T, e entity.Entity, name string) string {
	value, found := e.Header(name)
	require.Truef(t, found, "%s is missing", name)
	return value.String()
}

func gunzip(t *testing.T, data []byte) string {
	r, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	text, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(text)
}

func TestXXHash(t *testing.T) {
	tag := XXHash([]byte("hello"))
	require.True(t, tag.IsStrong())
	require.Len(t, tag.Opaque, 16)
	require.Equal(t, tag, XXHash([]byte("hello")))
	require.NotEqual(t, tag, XXHash([]byte("hello!")))
}

func TestContentLength(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		sink := response.NewSink()
		r := ContentLength(sink)
		require.NoError(t, r.SetBody([]byte("hello")))
		require.NoError(t, r.SetBody([]byte("more")))

		require.Equal(t, "5", header(t, first(t, sink), headers.ContentLength))
		require.False(t, sink.Entities()[1].HasHeader(headers.ContentLength))
	})

	t.Run("matching", func(t *testing.T) {
		sink := response.NewSink()
		r := ContentLength(sink)
		require.NoError(t, r.AddEntity(entity.New(fields(headers.ContentLength, headers.Number(2)), []byte("hi"))))
		require.Equal(t, "2", header(t, first(t, sink), headers.ContentLength))
	})

	t.Run("mismatch", func(t *testing.T) {
		r := ContentLength(response.NewSink())
		err := r.AddEntity(entity.New(fields(headers.ContentLength, headers.Number(3)), []byte("hi")))
		require.ErrorIs(t, err, status.ErrContentLengthMismatch)
		require.ErrorIs(t, err, status.ErrNotAcceptable)
	})
}

func TestGzip(t *testing.T) {
	text := bytes.Repeat([]byte("Hello, world! "), 50)

	t.Run("not accepted", func(t *testing.T) {
		sink := response.NewSink()
		for _, hdrs := range [][]string{nil, {"Accept-Encoding", "br"}, {"Accept-Encoding", "gzip;q=0"}} {
			r, err := Gzip(newRequest(method.GET, hdrs...), sink, Options{})
			require.NoError(t, err)
			require.True(t, r == response.Response(sink))
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Gzip(newRequest(method.GET, "Accept-Encoding", "gzip;q=x"), response.NewSink(), Options{})
		require.ErrorIs(t, err, headers.ErrMalformed)
	})

	for _, accept := range []string{"gzip", "br, *"} {
		t.Run("compress "+accept, func(t *testing.T) {
			sink := response.NewSink()
			r, err := Gzip(newRequest(method.GET, "Accept-Encoding", accept), sink, Options{})
			require.NoError(t, err)

			require.NoError(t, r.AddEntity(entity.New(fields(headers.ContentLength, headers.Number(len(text))), text)))
			require.NoError(t, r.SetBody([]byte("second part")))

			e := first(t, sink)
			require.Equal(t, "gzip", header(t, e, headers.ContentEncoding))
			require.Equal(t, fmt.Sprint(len(e.Body())), header(t, e, headers.ContentLength))
			require.Equal(t, string(text), gunzip(t, e.Body()))
			require.Equal(t, "second part", string(sink.Entities()[1].Body()))
		})
	}

	t.Run("declared gzip", func(t *testing.T) {
		sink := response.NewSink()
		r, err := Gzip(newRequest(method.GET, "Accept-Encoding", "gzip"), sink, Options{})
		require.NoError(t, err)
		require.NoError(t, r.AddHeader(headers.ContentEncoding, headers.Coding("GZIP")))
		require.NoError(t, r.SetBody(text))
		require.Equal(t, string(text), gunzip(t, first(t, sink).Body()))
	})

	t.Run("other coding", func(t *testing.T) {
		sink := response.NewSink()
		r, err := Gzip(newRequest(method.GET, "Accept-Encoding", "gzip"), sink, Options{})
		require.NoError(t, err)
		require.NoError(t, r.AddEntity(entity.New(fields(headers.ContentEncoding, headers.Coding("br")), []byte("x"))))
		require.Equal(t, "x", string(first(t, sink).Body()))
	})

	t.Run("empty body", func(t *testing.T) {
		sink := response.NewSink()
		r, err := Gzip(newRequest(method.GET, "Accept-Encoding", "gzip"), sink, Options{})
		require.NoError(t, err)
		require.NoError(t, r.SetBody(nil))
		require.False(t, first(t, sink).HasHeader(headers.ContentEncoding))
	})

	t.Run("wildcard", func(t *testing.T) {
		r, err := Gzip(newRequest(method.GET, "Accept-Encoding", "gzip"), response.NewSink(), Options{})
		require.NoError(t, err)
		require.ErrorIs(t, r.AddHeader("content-encoding", headers.AnyCode), status.ErrUnsupportedEncoding)
		err = r.AddEntity(entity.New(fields(headers.ContentEncoding, headers.AnyCode), text))
		require.ErrorIs(t, err, status.ErrNotAcceptable)
	})
}

func TestCharset(t *testing.T) {
	plain := func(cs string) headers.MediaType {
		return headers.NewMediaType("text/plain").WithParam("charset", cs)
	}

	t.Run("negotiation", func(t *testing.T) {
		r, err := Charset(newRequest(method.GET, "Accept-Charset", "utf-8, windows-1252;q=0.5"), response.NewSink())
		require.NoError(t, err)

		require.NoError(t, r.AddHeader(headers.ContentType, plain("UTF-8")))
		require.NoError(t, r.AddHeader(headers.ContentType, plain("cp1252")))
		require.ErrorIs(t, r.AddHeader(headers.ContentType, plain("windows-1251")), status.ErrCharsetNotAcceptable)
		require.ErrorIs(t, r.AddHeader(headers.ContentType, headers.NewMediaType("text/plain")), status.ErrNotAcceptable)
		require.NoError(t, r.AddHeader("X-Other", headers.Text("1")))
	})

	t.Run("no accept-charset", func(t *testing.T) {
		r, err := Charset(newRequest(method.GET), response.NewSink())
		require.NoError(t, err)
		require.NoError(t, r.AddHeader(headers.ContentType, headers.NewMediaType("image/png")))
	})

	t.Run("text in utf-8", func(t *testing.T) {
		sink := response.NewSink()
		r, err := Charset(newRequest(method.GET), sink)
		require.NoError(t, err)
		require.NoError(t, r.AddHeader(headers.ContentType, headers.NewMediaType("text/plain")))
		require.NoError(t, r.SetBodyText("привіт"))

		e := first(t, sink)
		require.Equal(t, "привіт", string(e.Body()))
		require.Equal(t, "text/plain; charset=utf-8", header(t, e, headers.ContentType))
		require.Equal(t, "12", header(t, e, headers.ContentLength))
	})

	t.Run("text in windows-1251", func(t *testing.T) {
		sink := response.NewSink()
		r, err := Charset(newRequest(method.GET), sink)
		require.NoError(t, err)
		require.NoError(t, r.AddHeader(headers.ContentType, plain("windows-1251")))
		require.NoError(t, r.SetBodyText("привіт"))
		require.Equal(t, []byte{0xEF, 0xF0, 0xE8, 0xE2, 0xB3, 0xF2}, first(t, sink).Body())
	})

	t.Run("unknown charset", func(t *testing.T) {
		r, err := Charset(newRequest(method.GET), response.NewSink())
		require.NoError(t, err)
		require.NoError(t, r.AddHeader(headers.ContentType, plain("klingon")))
		require.ErrorIs(t, r.SetBodyText("hi"), status.ErrCharsetNotAcceptable)
	})

	t.Run("text without content type", func(t *testing.T) {
		r, err := Charset(newRequest(method.GET), response.NewSink())
		require.NoError(t, err)
		require.PanicsWithValue(t, ErrNoContentType, func() {
			_ = r.SetBodyText("hi")
		})
	})

	t.Run("declared length", func(t *testing.T) {
		sink := response.NewSink()
		r, err := Charset(newRequest(method.GET), sink)
		require.NoError(t, err)
		require.NoError(t, r.AddHeader(headers.ContentType, headers.NewMediaType("text/plain")))
		require.NoError(t, r.AddHeader(headers.ContentLength, headers.Number(2)))
		require.NoError(t, r.SetBodyText("hi"))
		require.Equal(t, "2", header(t, first(t, sink), headers.ContentLength))

		r, err = Charset(newRequest(method.GET), response.NewSink())
		require.NoError(t, err)
		require.NoError(t, r.AddHeader(headers.ContentType, headers.NewMediaType("text/plain")))
		require.NoError(t, r.AddHeader(headers.ContentLength, headers.Number(99)))
		require.ErrorIs(t, r.SetBodyText("hi"), status.ErrContentLengthMismatch)
	})

	t.Run("text after bytes", func(t *testing.T) {
		for name, write := range map[string]func(r response.Response) error{
			"body":   func(r response.Response) error { return r.SetBody([]byte("a")) },
			"entity": func(r response.Response) error { return r.AddEntity(entity.FromBody([]byte("a"))) },
			"text":   func(r response.Response) error { return r.SetBodyText("a") },
		} {
			r, err := Charset(newRequest(method.GET), response.NewSink())
			require.NoError(t, err)
			require.NoError(t, r.AddHeader(headers.ContentType, headers.NewMediaType("text/plain")))
			require.NoError(t, write(r), name)
			require.NoError(t, r.AddHeader(headers.ContentType, headers.NewMediaType("text/plain")))
			require.PanicsWithValue(t, response.ErrTextAfterBytes, func() {
				_ = r.SetBodyText("b")
			}, name)
		}
	})
}

func TestDefaultHeaders(t *testing.T) {
	defaults := fields(headers.Server, headers.Text("facet"), "X-Frame-Options", headers.Text("DENY"))

	t.Run("empty", func(t *testing.T) {
		sink := response.NewSink()
		require.True(t, DefaultHeaders(sink, headers.Map{}) == response.Response(sink))
	})

	t.Run("never override", func(t *testing.T) {
		sink := response.NewSink()
		r := DefaultHeaders(sink, defaults)
		require.NoError(t, r.AddHeader(headers.Server, headers.Text("custom")))
		require.NoError(t, r.SetBody([]byte("a")))
		require.NoError(t, r.SetBody([]byte("b")))

		e := first(t, sink)
		require.Equal(t, "custom", header(t, e, headers.Server))
		require.Equal(t, "DENY", header(t, e, "x-frame-options"))
		require.True(t, sink.Entities()[1].Headers().Empty())
	})

	t.Run("text", func(t *testing.T) {
		sink := response.NewSink()
		r := DefaultHeaders(sink, defaults)
		require.NoError(t, r.SetBodyText("a"))
		require.Equal(t, "facet", header(t, first(t, sink), headers.Server))
	})
}

func TestHead(t *testing.T) {
	sink := response.NewSink()
	require.True(t, Head(newRequest(method.GET), sink) == response.Response(sink))

	r := Head(newRequest(method.HEAD), sink)
	require.NoError(t, r.AddEntity(entity.New(fields(headers.ContentLength, headers.Number(2)), []byte("hi"))))
	require.NoError(t, r.SetBody([]byte("dropped")))

	require.Len(t, sink.Entities(), 1)
	e := first(t, sink)
	require.Empty(t, e.Body())
	require.Equal(t, "2", header(t, e, headers.ContentLength))
}

func TestScope(t *testing.T) {
	t.Run("request header", func(t *testing.T) {
		r := Scope(response.NewSink())
		require.PanicsWithError(t, "header is out of its scope: Cookie is not allowed in response", func() {
			_ = r.AddHeader("cookie", headers.Text("a=b"))
		})
	})

	t.Run("wildcard", func(t *testing.T) {
		r := Scope(response.NewSink())
		require.Panics(t, func() {
			_ = r.AddEntity(entity.New(fields(headers.ContentType, headers.NewMediaType("text/*")), nil))
		})
	})

	t.Run("multipart part", func(t *testing.T) {
		r := Scope(response.NewSink())
		require.NoError(t, r.AddEntity(entity.New(fields(headers.Server, headers.Text("facet")), nil)))
		require.NoError(t, r.AddEntity(entity.New(fields(headers.ContentRange, headers.Text("bytes 0-0/1")), nil)))
		require.Panics(t, func() {
			_ = r.AddEntity(entity.New(fields(headers.Server, headers.Text("facet")), nil))
		})
	})
}

func TestServerRequired(t *testing.T) {
	t.Run("not installed", func(t *testing.T) {
		sink := response.NewSink()
		req := newRequest(method.GET)
		req.Protocol = proto.HTTP10
		require.True(t, ServerRequired(req, sink, quiet()) == response.Response(sink))
	})

	t.Run("missing", func(t *testing.T) {
		var observed rewrites
		opts := quiet()
		opts.Observer = &observed

		sink := response.NewSink()
		r := ServerRequired(newRequest(method.GET), sink, opts)
		r.SetStatus(status.OK)
		require.NoError(t, r.SetBody([]byte("hi")))
		require.NoError(t, r.SetBody([]byte("dropped")))

		require.Equal(t, status.InternalServerError, sink.Status())
		require.Len(t, sink.Entities(), 1)
		require.Empty(t, sink.Body())
		require.Equal(t, rewrites{"server-required:500"}, observed)
	})

	t.Run("present", func(t *testing.T) {
		sink := response.NewSink()
		r := ServerRequired(newRequest(method.GET), sink, quiet())
		r.SetStatus(status.MovedPermanently)
		require.NoError(t, r.AddEntity(entity.New(fields(headers.Server, headers.Text("facet")), []byte("hi"))))
		require.Equal(t, status.MovedPermanently, sink.Status())
		require.Equal(t, "hi", string(sink.Body()))
	})

	t.Run("client error", func(t *testing.T) {
		sink := response.NewSink()
		r := ServerRequired(newRequest(method.GET), sink, quiet())
		r.SetStatus(status.NotFound)
		require.NoError(t, r.SetBody([]byte("nope")))
		require.Equal(t, status.NotFound, sink.Status())
		require.Equal(t, "nope", string(sink.Body()))
	})
}

func TestStatusRequired(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		sink := response.NewSink()
		r := StatusRequired(sink, quiet())
		r.SetStatus(status.Found)
		require.NoError(t, r.SetBody([]byte("moved")))
		require.NoError(t, r.SetBody([]byte("dropped")))
		require.Equal(t, status.InternalServerError, sink.Status())
		require.Empty(t, sink.Body())
	})

	t.Run("present", func(t *testing.T) {
		sink := response.NewSink()
		r := StatusRequired(sink, quiet())
		r.SetStatus(status.Found)
		require.NoError(t, r.AddEntity(entity.New(fields(headers.Location, headers.Text("/new")), nil)))
		require.Equal(t, status.Found, sink.Status())
	})

	t.Run("none required", func(t *testing.T) {
		sink := response.NewSink()
		r := StatusRequired(sink, quiet())
		r.SetStatus(status.OK)
		require.NoError(t, r.SetBody([]byte("ok")))
		require.Equal(t, status.OK, sink.Status())
	})

	t.Run("missing with text body", func(t *testing.T) {
		sink := response.NewSink()
		r := StatusRequired(sink, quiet())
		r.SetStatus(status.MovedPermanently)
		require.NoError(t, r.SetBodyText("moved"))
		require.Equal(t, status.InternalServerError, sink.Status())
		require.Empty(t, sink.Body())
	})
}

func TestETag(t *testing.T) {
	body := []byte("hello")
	tag := XXHash(body)

	t.Run("not installed", func(t *testing.T) {
		sink := response.NewSink()
		for _, req := range []*http.Request{
			newRequest(method.GET),
			newRequest(method.GET, "If-None-Match", `W/"x"`),
			newRequest(method.GET, "If-None-Match", "*"),
			newRequest(method.POST, "If-None-Match", tag.String()),
		} {
			r, err := ETag(req, sink, quiet())
			require.NoError(t, err)
			require.True(t, r == response.Response(sink))
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := ETag(newRequest(method.GET, "If-None-Match", "nope"), response.NewSink(), quiet())
		require.ErrorIs(t, err, headers.ErrMalformed)
	})

	t.Run("match", func(t *testing.T) {
		var observed rewrites
		opts := quiet()
		opts.Observer = &observed

		sink := response.NewSink()
		r, err := ETag(newRequest(method.GET, "If-None-Match", `"other", `+tag.String()), sink, opts)
		require.NoError(t, err)
		r.SetStatus(status.OK)
		require.NoError(t, r.AddEntity(entity.New(fields(
			headers.ContentType, headers.NewMediaType("text/plain"),
			headers.ContentLength, headers.Number(len(body)),
		), body)))
		require.NoError(t, r.SetBody([]byte("dropped")))

		require.Equal(t, status.NotModified, sink.Status())
		require.Len(t, sink.Entities(), 1)
		e := first(t, sink)
		require.Empty(t, e.Body())
		require.Equal(t, []string{headers.ETag}, e.Headers().Names())
		require.Equal(t, tag.String(), header(t, e, headers.ETag))
		require.Equal(t, rewrites{"etag:304"}, observed)
	})

	t.Run("mismatch", func(t *testing.T) {
		sink := response.NewSink()
		r, err := ETag(newRequest(method.GET, "If-None-Match", `"other"`), sink, quiet())
		require.NoError(t, err)
		r.SetStatus(status.OK)
		require.NoError(t, r.SetBody(body))

		require.Equal(t, status.OK, sink.Status())
		require.Equal(t, tag.String(), header(t, first(t, sink), headers.ETag))
		require.Equal(t, "hello", string(sink.Body()))
	})

	t.Run("declared tag", func(t *testing.T) {
		sink := response.NewSink()
		r, err := ETag(newRequest(method.HEAD, "If-None-Match", `"v1"`), sink, quiet())
		require.NoError(t, err)
		r.SetStatus(status.OK)
		require.NoError(t, r.AddEntity(entity.New(fields(headers.ETag, headers.StrongTag("v1")), body)))
		require.Equal(t, status.NotModified, sink.Status())
	})

	t.Run("weak declared tag", func(t *testing.T) {
		sink := response.NewSink()
		r, err := ETag(newRequest(method.GET, "If-None-Match", `"v1"`), sink, quiet())
		require.NoError(t, err)
		r.SetStatus(status.OK)
		require.NoError(t, r.AddEntity(entity.New(fields(headers.ETag, headers.WeakTag("v1")), body)))
		require.Equal(t, status.OK, sink.Status())
	})

	t.Run("custom hasher", func(t *testing.T) {
		opts := quiet()
		opts.Hasher = func([]byte) headers.EntityTag { return headers.StrongTag("fixed") }

		sink := response.NewSink()
		r, err := ETag(newRequest(method.GET, "If-None-Match", `"fixed"`), sink, opts)
		require.NoError(t, err)
		r.SetStatus(status.OK)
		require.NoError(t, r.SetBody(body))
		require.Equal(t, status.NotModified, sink.Status())
	})

	t.Run("not successful", func(t *testing.T) {
		sink := response.NewSink()
		r, err := ETag(newRequest(method.GET, "If-None-Match", tag.String()), sink, quiet())
		require.NoError(t, err)
		r.SetStatus(status.NotFound)
		require.NoError(t, r.SetBody(body))
		require.Equal(t, status.NotFound, sink.Status())
		require.False(t, first(t, sink).HasHeader(headers.ETag))
	})

	t.Run("text", func(t *testing.T) {
		r, err := ETag(newRequest(method.GET, "If-None-Match", tag.String()), response.NewSink(), quiet())
		require.NoError(t, err)
		require.PanicsWithValue(t, ErrTextUnsupported, func() {
			_ = r.SetBodyText("hello")
		})
	})
}

func TestLastModified(t *testing.T) {
	const since = "Sun, 06 Nov 1994 08:49:37 GMT"
	modified := func(raw string) entity.Entity {
		ts, err := headers.ParseTimestamp(raw)
		require.NoError(t, err)
		return entity.New(fields(
			headers.LastModified, ts,
			headers.ContentLength, headers.Number(2),
		), []byte("hi"))
	}

	t.Run("not installed", func(t *testing.T) {
		sink := response.NewSink()
		for _, req := range []*http.Request{
			newRequest(method.GET),
			newRequest(method.POST, "If-Modified-Since", since),
			newRequest(method.GET, "If-Modified-Since", since, "If-None-Match", `W/"x"`),
		} {
			r, err := LastModified(req, sink, quiet())
			require.NoError(t, err)
			require.True(t, r == response.Response(sink))
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := LastModified(newRequest(method.GET, "If-Modified-Since", "yesterday"), response.NewSink(), quiet())
		require.ErrorIs(t, err, headers.ErrMalformed)
	})

	for _, tc := range []struct {
		Name, LastModified string
		Want               status.Code
	}{
		{"older", "Sat, 05 Nov 1994 08:49:37 GMT", status.NotModified},
		{"equal", since, status.NotModified},
		{"newer", "Sun, 06 Nov 1994 08:49:38 GMT", status.OK},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			sink := response.NewSink()
			r, err := LastModified(newRequest(method.GET, "If-Modified-Since", since), sink, quiet())
			require.NoError(t, err)
			r.SetStatus(status.OK)
			require.NoError(t, r.AddEntity(modified(tc.LastModified)))
			require.Equal(t, tc.Want, sink.Status())

			if tc.Want == status.NotModified {
				e := first(t, sink)
				require.Empty(t, e.Body())
				require.False(t, e.HasHeader(headers.ContentLength))
				require.True(t, e.HasHeader(headers.LastModified))
			}
		})
	}

	t.Run("text keeps the status", func(t *testing.T) {
		sink := response.NewSink()
		r, err := LastModified(newRequest(method.GET, "If-Modified-Since", since), sink, quiet())
		require.NoError(t, err)
		r.SetStatus(status.NotFound)
		require.NoError(t, r.SetBodyText("gone"))
		require.Equal(t, status.NotFound, sink.Status())
		require.Equal(t, "gone", string(sink.Body()))
	})

	t.Run("no last-modified", func(t *testing.T) {
		sink := response.NewSink()
		r, err := LastModified(newRequest(method.GET, "If-Modified-Since", since), sink, quiet())
		require.NoError(t, err)
		r.SetStatus(status.OK)
		require.NoError(t, r.SetBody([]byte("hi")))
		require.Equal(t, status.OK, sink.Status())
	})
}

func TestRanges(t *testing.T) {
	serveMethod := func(t *testing.T, m method.Method, rng string, opts Options) *response.Sink {
		sink := response.NewSink()
		r, err := Ranges(newRequest(m, "Range", rng), sink, opts)
		require.NoError(t, err)
		r.SetStatus(status.OK)
		require.NoError(t, r.AddEntity(entity.New(fields(
			headers.ContentType, headers.NewMediaType("text/plain"),
			headers.ContentLength, headers.Number(4),
		), []byte("abcd"))))

		return sink
	}
	serve := func(t *testing.T, rng string, opts Options) *response.Sink {
		return serveMethod(t, method.GET, rng, opts)
	}

	for _, tc := range []struct {
		Range, Body string
	}{
		{"bytes=0-0,2-2", "ac"},
		{"bytes=2-3,0-0", "cda"},
		{"bytes=0-1,1-2", "abbc"},
		{"bytes=-2", "cd"},
		{"bytes=1-", "bcd"},
		{"bytes=0-3", "abcd"},
	} {
		t.Run(tc.Range, func(t *testing.T) {
			sink := serve(t, tc.Range, quiet())
			require.Equal(t, status.PartialContent, sink.Status())
			require.Equal(t, tc.Body, string(sink.Body()))
			require.Equal(t, fmt.Sprint(len(tc.Body)), header(t, first(t, sink), headers.ContentLength))
		})
	}

	t.Run("content range", func(t *testing.T) {
		e := first(t, serve(t, "bytes=1-2", quiet()))
		require.Equal(t, "bytes 1-2/4", header(t, e, headers.ContentRange))

		e = first(t, serve(t, "bytes=0-0,2-2", quiet()))
		require.False(t, e.HasHeader(headers.ContentRange))
	})

	for _, rng := range []string{"bytes=0-4", "bytes=1-1,4-", "bytes=-0"} {
		t.Run("unsatisfiable "+rng, func(t *testing.T) {
			sink := serve(t, rng, quiet())
			require.Equal(t, status.RequestedRangeNotSatisfiable, sink.Status())
			require.Empty(t, sink.Body())

			e := first(t, sink)
			require.Equal(t, "bytes */4", header(t, e, headers.ContentRange))
			require.False(t, e.HasHeader(headers.ContentType))
		})
	}

	t.Run("too many ranges", func(t *testing.T) {
		opts := quiet()
		opts.MaxRanges = 1
		sink := serve(t, "bytes=0-0,1-1", opts)
		require.Equal(t, status.OK, sink.Status())
		require.Equal(t, "abcd", string(sink.Body()))
	})

	t.Run("not successful", func(t *testing.T) {
		sink := response.NewSink()
		r, err := Ranges(newRequest(method.GET, "Range", "bytes=0-0"), sink, quiet())
		require.NoError(t, err)
		r.SetStatus(status.NotFound)
		require.NoError(t, r.SetBody([]byte("missing")))
		require.Equal(t, status.NotFound, sink.Status())
		require.Equal(t, "missing", string(sink.Body()))
	})

	t.Run("any method", func(t *testing.T) {
		for _, m := range []method.Method{method.HEAD, method.POST, method.PUT} {
			sink := serveMethod(t, m, "bytes=0-0", quiet())
			require.Equal(t, status.PartialContent, sink.Status(), m)
			require.Equal(t, "a", string(sink.Body()), m)
		}
	})

	t.Run("not installed", func(t *testing.T) {
		sink := response.NewSink()
		for _, req := range []*http.Request{
			newRequest(method.GET),
			newRequest(method.POST),
		} {
			r, err := Ranges(req, sink, quiet())
			require.NoError(t, err)
			require.True(t, r == response.Response(sink))
		}
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Ranges(newRequest(method.GET, "Range", "bytes=2-1"), response.NewSink(), quiet())
		require.ErrorIs(t, err, headers.ErrMalformed)
	})

	t.Run("text", func(t *testing.T) {
		r, err := Ranges(newRequest(method.GET, "Range", "bytes=0-0"), response.NewSink(), quiet())
		require.NoError(t, err)
		require.PanicsWithValue(t, ErrTextUnsupported, func() {
			_ = r.SetBodyText("abcd")
		})
	})
}

func TestMultipart(t *testing.T) {
	t.Run("single part", func(t *testing.T) {
		sink := response.NewSink()
		r := Multipart(sink)
		require.NoError(t, r.AddEntity(entity.New(fields(headers.ContentType, headers.NewMediaType("text/plain")), []byte("a"))))
		require.NoError(t, r.SetBody([]byte("b")))
		require.Len(t, sink.Entities(), 1)
	})

	t.Run("byteranges", func(t *testing.T) {
		sink := response.NewSink()
		r := Multipart(sink)
		ct := headers.NewMediaType("multipart/byteranges").WithParam("boundary", "xyz")
		require.NoError(t, r.AddEntity(entity.New(fields(headers.ContentType, ct), nil)))
		require.NoError(t, r.SetBody([]byte("part 1")))
		require.NoError(t, r.SetBody([]byte("part 2")))
		require.Len(t, sink.Entities(), 3)
	})

	t.Run("other multipart", func(t *testing.T) {
		sink := response.NewSink()
		r := Multipart(sink)
		ct := headers.NewMediaType("multipart/form-data").WithParam("boundary", "xyz")
		require.NoError(t, r.AddEntity(entity.New(fields(headers.ContentType, ct), nil)))
		require.NoError(t, r.SetBody([]byte("part 1")))
		require.Len(t, sink.Entities(), 1)
	})
}
