package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the portfolio.
type Metrics struct {
	registry *prometheus.Registry

	FeedFetches  *prometheus.CounterVec
	FeedDuration *prometheus.HistogramVec
	FeedRows     *prometheus.GaugeVec
	PageRenders  *prometheus.CounterVec
	ModalOpens   *prometheus.CounterVec
}

// NewMetrics registers the collectors on a private registry so several
// apps (tests, the render command) can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FeedFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_feed_fetches_total",
			Help: "Feed fetches by feed and outcome.",
		}, []string{"feed", "outcome"}), // outcome: ok, failed
		FeedDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portfolio_feed_fetch_duration_seconds",
			Help:    "Duration of feed fetches.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		}, []string{"feed"}),
		FeedRows: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "portfolio_feed_rows",
			Help: "Rows returned by the last fetch of each feed.",
		}, []string{"feed"}),
		PageRenders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_page_renders_total",
			Help: "Completed load passes by result.",
		}, []string{"result"}), // result: complete, partial, recovered
		ModalOpens: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portfolio_modal_opens_total",
			Help: "Modal opens by project category.",
		}, []string{"category"}),
	}
}

func (m *Metrics) ObserveFetch(feed Feed, rows int, err error, took time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.FeedFetches.WithLabelValues(string(feed), outcome).Inc()
	m.FeedDuration.WithLabelValues(string(feed)).Observe(took.Seconds())
	m.FeedRows.WithLabelValues(string(feed)).Set(float64(rows))
}

func (m *Metrics) IncPageRenders(result string) {
	m.PageRenders.WithLabelValues(result).Inc()
}

func (m *Metrics) IncModalOpens(category Category) {
	m.ModalOpens.WithLabelValues(string(category)).Inc()
}

// Handler exposes the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
