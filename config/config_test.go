package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/decorator"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/method"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
	"github.com/indigo-web/facet/router/attribute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoZeroFields(t *testing.T) {
	cfg := Default()

	for _, field := range visit(newVar(*cfg), "Config", false) {
		assert.Fail(t, "zero-value field", field)
	}
}

type variable struct {
	Type  reflect.Type
	Value reflect.Value
}

func newVar(a any) variable {
	return variable{reflect.TypeOf(a), reflect.ValueOf(a)}
}

func visit(a variable, name string, nullable bool) (fields []string) {
	if a.Type.Kind() == reflect.Struct {
		for field := range a.Value.NumField() {
			v1 := variable{a.Type.Field(field).Type, a.Value.Field(field)}
			fieldname := a.Type.Field(field).Name
			isNullable := a.Type.Field(field).Tag.Get("test") == "nullable"
			fields = append(fields, visit(v1, name+"."+fieldname, isNullable)...)
		}

		return fields
	}

	if a.Value.IsZero() && !nullable {
		return []string{name}
	}

	return nil
}

func TestDefault(t *testing.T) {
	require.NoError(t, Default().Validate())

	tbl, err := Default().Table()
	require.NoError(t, err)
	require.Zero(t, tbl.Len())
}

func TestLoad(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		cfg, err := Load("testdata/facet.yaml")
		require.NoError(t, err)

		require.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
		require.Equal(t, "facet-test", cfg.Server.Name)
		require.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
		require.Equal(t, []Header{{Name: "Cache-Control", Value: "no-cache"}}, cfg.Pipeline.DefaultHeaders)
		require.Equal(t, 5, cfg.Pipeline.GzipLevel)
		require.Equal(t, 4, cfg.Pipeline.MaxRanges)
		require.Equal(t, Log{Level: "debug", Format: "json"}, cfg.Log)
		require.Equal(t, Metrics{Enabled: false, Path: "/internal/metrics"}, cfg.Metrics)

		require.Len(t, cfg.Routes, 3)
		require.Equal(t, []string{"api", "users", "*"}, cfg.Routes[0].Path)
		require.Equal(t, []Match{{Name: "X-Beta"}}, cfg.Routes[1].Headers)
		require.Equal(t, "query:version", cfg.Routes[1].Expr[0].Attribute)
		require.Equal(t, 204, cfg.Routes[2].Response.Status)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("FACET_SERVER_ADDR", "127.0.0.1:7070")
		t.Setenv("FACET_METRICS_ENABLED", "true")
		t.Setenv("FACET_SERVER_READ_TIMEOUT", "5s")

		cfg, err := Load("testdata/facet.yaml")
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1:7070", cfg.Server.Addr)
		require.True(t, cfg.Metrics.Enabled)
		require.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
		require.Equal(t, "facet-test", cfg.Server.Name)
	})

	t.Run("environment only", func(t *testing.T) {
		t.Setenv("FACET_LOG_LEVEL", "warn")

		cfg, err := Load("")
		require.NoError(t, err)
		require.Equal(t, "warn", cfg.Log.Level)
		require.Equal(t, Default().Server, cfg.Server)
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Setenv("FACET_LOG_FORMAT", "xml")

		_, err := Load("")
		require.ErrorContains(t, err, "Config.Log.Format must be one of: text json")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

func TestMarshal(t *testing.T) {
	cfg, err := Load("testdata/facet.yaml")
	require.NoError(t, err)

	data, err := Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "facet.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, reloaded)
}

func TestValidate(t *testing.T) {
	route := func() Route {
		return Route{
			Name:     "root",
			Methods:  []string{"GET"},
			Response: Response{Status: 200},
		}
	}

	for _, tc := range []struct {
		Name   string
		Modify func(cfg *Config)
		Error  string
	}{
		{
			Name:   "address",
			Modify: func(cfg *Config) { cfg.Server.Addr = "nowhere" },
			Error:  "Config.Server.Addr must be a valid host:port",
		},
		{
			Name:   "gzip level",
			Modify: func(cfg *Config) { cfg.Pipeline.GzipLevel = 10 },
			Error:  "Config.Pipeline.GzipLevel must be at most 9",
		},
		{
			Name:   "metrics path",
			Modify: func(cfg *Config) { cfg.Metrics.Path = "metrics" },
			Error:  `Config.Metrics.Path must start with "/"`,
		},
		{
			Name: "content default header",
			Modify: func(cfg *Config) {
				cfg.Pipeline.DefaultHeaders = []Header{{Name: "Content-Length", Value: "10"}}
			},
			Error: "describes a body",
		},
		{
			Name: "request-only default header",
			Modify: func(cfg *Config) {
				cfg.Pipeline.DefaultHeaders = []Header{{Name: "Host", Value: "localhost"}}
			},
			Error: "is not allowed in response",
		},
		{
			Name: "method",
			Modify: func(cfg *Config) {
				r := route()
				r.Methods = []string{"FETCH"}
				cfg.Routes = []Route{r}
			},
			Error: "Config.Routes[0].Methods[0] must be one of",
		},
		{
			Name: "attribute",
			Modify: func(cfg *Config) {
				r := route()
				r.Expr = []Expression{{Attribute: "body", Expr: "true"}}
				cfg.Routes = []Route{r}
			},
			Error: `"body" is not an attribute`,
		},
		{
			Name: "body without content type",
			Modify: func(cfg *Config) {
				r := route()
				r.Response.Body = "hello"
				cfg.Routes = []Route{r}
			},
			Error: "Config.Routes[0].Response.ContentType is required when Body is set",
		},
		{
			Name: "body and file",
			Modify: func(cfg *Config) {
				r := route()
				r.Response.ContentType = "text/plain"
				r.Response.Body = "hello"
				r.Response.File = "testdata/facet.yaml"
				cfg.Routes = []Route{r}
			},
			Error: "Config.Routes[0].Response.Body can't be set together with File",
		},
		{
			Name: "missing file",
			Modify: func(cfg *Config) {
				r := route()
				r.Response.File = "testdata/absent.html"
				cfg.Routes = []Route{r}
			},
			Error: `Config.Routes[0].Response.File: "testdata/absent.html" is not an existing file`,
		},
		{
			Name: "status",
			Modify: func(cfg *Config) {
				r := route()
				r.Response.Status = 700
				cfg.Routes = []Route{r}
			},
			Error: "Config.Routes[0].Response.Status must be at most 599",
		},
		{
			Name: "duplicate route names",
			Modify: func(cfg *Config) {
				cfg.Routes = []Route{route(), route()}
			},
			Error: `routes[1]: name "root" is already used by routes[0]`,
		},
	} {
		t.Run(tc.Name, func(t *testing.T) {
			cfg := Default()
			tc.Modify(cfg)
			require.ErrorContains(t, cfg.Validate(), tc.Error)
		})
	}
}

func TestTable(t *testing.T) {
	cfg, err := Load("testdata/facet.yaml")
	require.NoError(t, err)

	tbl, err := cfg.Table()
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Len())

	match := func(m method.Method, path string, hdrs ...string) string {
		req := http.NewRequest(path)
		req.Method = m
		for i := 0; i+1 < len(hdrs); i += 2 {
			req.Headers.Add(hdrs[i], hdrs[i+1])
		}

		route, found := tbl.Match(attribute.NewView(req))
		if !found {
			return ""
		}

		return route.Name
	}

	require.Equal(t, "users", match(method.GET, "/api/users/42"))
	require.Equal(t, "users", match(method.HEAD, "/api/users/42/avatar"))
	require.Empty(t, match(method.POST, "/api/users/42"))
	require.Empty(t, match(method.GET, "/api/users"))
	require.Equal(t, "health", match(method.GET, "/healthz"))
	require.Empty(t, match(method.GET, "/api"))

	req := http.NewRequest("/api")
	req.Method = method.POST
	req.Headers.Add("x-beta", "1")
	req.Query.Add("version", "1").Add("version", "2.1")
	route, found := tbl.Match(attribute.NewView(req))
	require.True(t, found)
	require.Equal(t, "beta", route.Name)

	t.Run("broken route", func(t *testing.T) {
		cfg := Default()
		cfg.Routes = []Route{{
			Name:     "broken",
			Expr:     []Expression{{Attribute: "path[0]", Expr: "value +"}},
			Response: Response{Status: 200},
		}}

		_, err := cfg.Table()
		require.ErrorContains(t, err, "route broken")
	})

	t.Run("no conditions", func(t *testing.T) {
		r := Route{Name: "empty", Response: Response{Status: 200}}
		_, err := r.Compile()
		require.Error(t, err)
	})
}

func TestRouteWrite(t *testing.T) {
	cfg, err := Load("testdata/facet.yaml")
	require.NoError(t, err)

	opts, err := cfg.PipelineOptions()
	require.NoError(t, err)

	serve := func(route *Route) *response.Sink {
		sink := response.NewSink()
		resp, err := decorator.Chain(http.NewRequest("/"), sink, opts)
		require.NoError(t, err)
		require.NoError(t, route.Write(resp))
		return sink
	}

	t.Run("text body", func(t *testing.T) {
		sink := serve(&cfg.Routes[0])
		require.Equal(t, status.OK, sink.Status())
		require.Equal(t, `{"user":true}`, string(sink.Body()))

		e, found := sink.Entity()
		require.True(t, found)
		contentType, found := e.Header(headers.ContentType)
		require.True(t, found)
		require.Equal(t, "application/json; charset=utf-8", contentType.String())
		server, _ := e.Header(headers.Server)
		require.Equal(t, "facet-test", server.String())
		cacheControl, _ := e.Header(headers.CacheControl)
		require.Equal(t, "no-cache", cacheControl.String())
	})

	t.Run("no body", func(t *testing.T) {
		sink := serve(&cfg.Routes[2])
		require.Equal(t, status.NoContent, sink.Status())
		require.Empty(t, sink.Body())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "index.html")
		require.NoError(t, os.WriteFile(path, []byte("<h1>hi</h1>"), 0o600))
		route := &Route{Name: "index", Response: Response{Status: 200, File: path}}

		sink := serve(route)
		require.Equal(t, status.OK, sink.Status())
		require.Equal(t, "<h1>hi</h1>", string(sink.Body()))

		e, _ := sink.Entity()
		contentType, _ := e.Header(headers.ContentType)
		require.Equal(t, "text/html; charset=utf-8", contentType.String())
		require.True(t, e.HasHeader(headers.LastModified))

		req := http.NewRequest("/")
		req.Headers.Add(headers.IfModifiedSince, time.Now().Add(time.Hour).UTC().Format(httpDate))
		sink = response.NewSink()
		resp, err := decorator.Chain(req, sink, opts)
		require.NoError(t, err)
		require.NoError(t, route.Write(resp))
		require.Equal(t, status.NotModified, sink.Status())
		require.Empty(t, sink.Body())
	})

	t.Run("missing file", func(t *testing.T) {
		route := &Route{Name: "gone", Response: Response{Status: 200, File: "testdata/absent.html"}}
		resp, err := decorator.Chain(http.NewRequest("/"), response.NewSink(), opts)
		require.NoError(t, err)
		require.ErrorIs(t, route.Write(resp), os.ErrNotExist)
	})
}

const httpDate = "Mon, 02 Jan 2006 15:04:05 GMT"

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.DefaultHeaders = []Header{{Name: "server", Value: "custom"}}
	cfg.Pipeline.GzipLevel = 1

	opts, err := cfg.PipelineOptions()
	require.NoError(t, err)
	require.Equal(t, []string{headers.Server}, opts.DefaultHeaders.Names())
	server, _ := opts.DefaultHeaders.Get(headers.Server)
	require.Equal(t, "custom", server.String())
	require.Equal(t, headers.Gzip, opts.Codec.Coding())
	require.Equal(t, 16, opts.MaxRanges)
}

func TestLogger(t *testing.T) {
	var buff bytes.Buffer

	logger := Log{Level: "warn", Format: "json"}.Logger(&buff)
	logger.Info("dropped")
	logger.Warn("kept", "answer", 42)

	require.NotContains(t, buff.String(), "dropped")
	require.Contains(t, buff.String(), `"msg":"kept"`)
	require.Contains(t, buff.String(), `"answer":42`)
}
