package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gbxml_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})
	ExportsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gbxml_exports_total",
		Help: "Total exports by detail mode",
	}, []string{"mode"})
	ExportDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "gbxml_export_duration_ms",
		Help:    "Export duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	SurfacesEmittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gbxml_surfaces_emitted_total",
		Help: "Total surfaces written to documents",
	})
	SurfacesSuppressedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gbxml_surfaces_suppressed_total",
		Help: "Total shared partitions left to the other side",
	})
	ImportsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gbxml_imports_total",
		Help: "Total gbXML documents reconstructed",
	})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gbxml_cache_hits_total",
		Help: "Total export cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gbxml_cache_misses_total",
		Help: "Total export cache misses",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(ExportsTotal)
	prometheus.MustRegister(ExportDurationMs)
	prometheus.MustRegister(SurfacesEmittedTotal)
	prometheus.MustRegister(SurfacesSuppressedTotal)
	prometheus.MustRegister(ImportsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
}

// Handler exposes the registered metrics for scraping.
func Handler() http.Handler { return promhttp.Handler() }
