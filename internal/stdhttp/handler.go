package stdhttp

import (
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/facet/http"
	"github.com/indigo-web/facet/http/decorator"
	"github.com/indigo-web/facet/http/entity"
	"github.com/indigo-web/facet/http/headers"
	"github.com/indigo-web/facet/http/response"
	"github.com/indigo-web/facet/http/status"
	"github.com/indigo-web/facet/internal/metrics"
	"github.com/indigo-web/facet/router/attribute"
	"github.com/indigo-web/facet/router/table"
	json "github.com/json-iterator/go"
)

// RequestIDHeader carries the id the request was logged with.
const RequestIDHeader = "X-Request-Id"

const defaultMaxForm = 1 << 20

var plainText = headers.NewMediaType("text/plain").WithParam("charset", "utf-8")

// Target is what routings of the served table point at.
type Target interface {
	// String names the target in logs and metrics.
	String() string
	Write(resp response.Response) error
}

type Options struct {
	Pipeline decorator.Options
	// Logger receives a line per request. slog.Default() is used if nil.
	Logger *slog.Logger
	// Metrics, if set, count requests and pipeline rewrites.
	Metrics *metrics.Metrics
	// MaxForm limits url-encoded form bodies, 1MiB by default.
	MaxForm int64
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default().WithGroup("server")
	}

	if o.MaxForm <= 0 {
		o.MaxForm = defaultMaxForm
	}

	if o.Metrics != nil && o.Pipeline.Observer == nil {
		o.Pipeline.Observer = o.Metrics
	}

	return o
}

// serveFunc writes the response for the converted request and names what served it.
type serveFunc func(request *http.Request, resp response.Response) (target string, err error)

type server struct {
	opts Options
}

func (s server) handle(w nethttp.ResponseWriter, r *nethttp.Request, serve serveFunc) {
	start := time.Now()
	id := uniuri.New()
	sink := response.NewSink()
	target := s.run(sink, r, serve)

	w.Header().Set(RequestIDHeader, id)
	if err := Flush(w, sink); err != nil {
		s.opts.Logger.Warn("response write failed", "id", id, "error", err)
	}

	took := time.Since(start)
	s.opts.Logger.Info("request",
		"id", id,
		"method", r.Method,
		"path", http.Escape(r.URL.Path),
		"target", target,
		"status", int(sink.Status()),
		"duration", took,
	)

	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveRequest(target, sink.Status(), took)
	}
}

func (s server) run(sink *response.Sink, r *nethttp.Request, serve serveFunc) (target string) {
	defer func() {
		if p := recover(); p != nil {
			s.opts.Logger.Error("handler panic recovered",
				"error", p,
				"method", r.Method,
				"path", http.Escape(r.URL.Path),
			)
			s.fail(sink, status.ErrInternalServerError)
		}
	}()

	request, err := NewRequest(r, s.opts.MaxForm)
	if err != nil {
		s.fail(sink, err)
		return target
	}

	resp, err := decorator.Chain(request, sink, s.opts.Pipeline)
	if err != nil {
		s.fail(sink, err)
		return target
	}

	if target, err = serve(request, resp); err != nil {
		s.fail(sink, err)
	}

	return target
}

// fail discards everything written so far and responds with the error in plain text,
// bypassing the pipeline. Errors other than status.HTTPError become 500.
func (s server) fail(sink *response.Sink, err error) {
	var httpErr status.HTTPError
	if !errors.As(err, &httpErr) {
		s.opts.Logger.Error("target failed", "error", err)
		httpErr = status.ErrInternalServerError.(status.HTTPError)
	}

	body := []byte(httpErr.Message)
	hdrs := s.opts.Pipeline.DefaultHeaders.
		With(headers.ContentType, plainText).
		With(headers.ContentLength, headers.Number(len(body)))

	sink.Reset()
	sink.SetStatus(httpErr.Code)
	_ = sink.AddEntity(entity.New(hdrs, body))
}

// Handler matches requests against the table and lets the matched target write the
// response through the pipeline. Unmatched requests result in 404.
type Handler[T Target] struct {
	server
	table *table.Table[T]
}

func NewHandler[T Target](tbl *table.Table[T], opts Options) *Handler[T] {
	return &Handler[T]{
		server: server{opts: opts.withDefaults()},
		table:  tbl,
	}
}

func (h *Handler[T]) ServeHTTP(w nethttp.ResponseWriter, r *nethttp.Request) {
	h.handle(w, r, h.serve)
}

func (h *Handler[T]) serve(request *http.Request, resp response.Response) (string, error) {
	target, found := h.table.Match(attribute.NewView(request))
	if !found {
		return "", status.ErrNotFound
	}

	return target.String(), target.Write(resp)
}

// Inspect responds with the attributes of the request as routings see them, in JSON.
func Inspect(opts Options) nethttp.Handler {
	s := server{opts: opts.withDefaults()}

	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s.handle(w, r, func(request *http.Request, resp response.Response) (string, error) {
			view, err := json.Marshal(attribute.NewView(request))
			if err != nil {
				return "inspect", fmt.Errorf("marshal view: %w", err)
			}

			resp.SetStatus(status.OK)
			if err = resp.AddHeader(headers.ContentType, headers.NewMediaType("application/json")); err != nil {
				return "inspect", err
			}

			return "inspect", resp.SetBody(view)
		})
	})
}
