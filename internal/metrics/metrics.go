// Package metrics exposes the server and the response pipeline as prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/indigo-web/facet/http/decorator"
	"github.com/indigo-web/facet/http/status"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "facet"

var _ decorator.Observer = new(Metrics)

type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RewritesTotal   *prometheus.CounterVec
}

// New creates and registers all the metrics with the registerer.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of served requests by the final response status",
			},
			[]string{"route", "code"}, // route is empty for unmatched requests
		),
		RequestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Time spent routing the request and running the response pipeline",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		RewritesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_rewrites_total",
				Help:      "Total number of response statuses rewritten by the pipeline",
			},
			[]string{"decorator", "code"},
		),
	}
}

func (m *Metrics) ObserveRewrite(decorator string, code status.Code) {
	m.RewritesTotal.WithLabelValues(decorator, strconv.Itoa(int(code))).Inc()
}

func (m *Metrics) ObserveRequest(route string, code status.Code, took time.Duration) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(int(code))).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(took.Seconds())
}

// Handler serves the metrics gathered by the registry in the text exposition format.
func Handler(reg prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
