package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courserec_requests_total",
			Help: "Total number of recommendation requests by outcome reason",
		},
		[]string{"reason"}, // ok, error 或无推荐原因码
	)

	requestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "courserec_request_duration_seconds",
			Help:    "Duration of recommendation requests in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	candidatesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "courserec_candidates",
			Help:    "Number of recommendations returned per request",
			Buckets: prometheus.LinearBuckets(0, 5, 11),
		},
	)

	skippedReferences = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "courserec_skipped_references_total",
			Help: "Total number of course references skipped because catalog or embedding data was missing",
		},
		[]string{"stage"}, // interest, recall, content
	)
)

func outcomeLabel(reason string, err error) string {
	switch {
	case err != nil:
		return "error"
	case reason == "":
		return "ok"
	default:
		return reason
	}
}
