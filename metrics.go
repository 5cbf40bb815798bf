package resolver

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_resolutions_total",
			Help: "Number of Resolve calls by outcome.",
		},
		[]string{"result"},
	)
	metricResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resolver_resolve_duration_seconds",
			Help:    "Duration of Resolve calls.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.100, 0.5, 1, 5, 10, 20, 30, 65},
		},
		[]string{"result"},
	)
	metricServerAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_server_attempts_total",
			Help: "Number of per-root query attempts by server address.",
		},
		[]string{"server"},
	)
	metricCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolver_cache_requests_total",
			Help: "Number of cached resolver lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// outcomeLabel folds a Resolve error into the metric label vocabulary.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrResolverClosed):
		return "closed"
	case errors.Is(err, ErrInvalidParameters):
		return "invalid"
	case errors.Is(err, ErrInvalidName):
		return "badname"
	case errors.Is(err, ErrQueryBuild):
		return "buildfail"
	case errors.Is(err, ErrNoResponse):
		return "exhausted"
	case errors.Is(err, ErrUnparsableResponse):
		return "parsefail"
	}
	return "error"
}
