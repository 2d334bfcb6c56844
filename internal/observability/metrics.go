package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	MatchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quickcar", Name: "match_requests_total", Help: "Nearby-driver lookups, by variant"},
		[]string{"variant"},
	)
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quickcar", Name: "matches_total", Help: "Candidates returned to callers, by variant"},
		[]string{"variant"},
	)
	NoDriversTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quickcar", Name: "no_drivers_total", Help: "Lookups that found no drivers in range, by variant"},
		[]string{"variant"},
	)
	TripsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "quickcar", Name: "trips_created_total", Help: "Trips successfully booked"},
	)
)
