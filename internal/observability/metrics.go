package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stay_syncer", Name: "sync_runs_total", Help: "Sync runs by result."},
		[]string{"result"}, // result: ok|error|busy
	)
	SyncPages = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "stay_syncer", Name: "sync_pages_total", Help: "Feed pages fetched."},
	)
	SyncItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stay_syncer", Name: "sync_items_total", Help: "Feed items by outcome."},
		[]string{"outcome"}, // outcome: inserted|out_of_area|inactive|duplicate|error
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "stay_syncer", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
)

func init() {
	prometheus.MustRegister(SyncRuns, SyncPages, SyncItems, HTTPRequests)
}

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
