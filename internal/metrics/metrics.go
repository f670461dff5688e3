package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters are registered on the default registry, exposed by the
// /metrics route via promhttp.
var (
	AvailabilityRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "someday_availability_requests_total",
		Help: "Number of availability queries served.",
	})

	Bookings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "someday_bookings_total",
		Help: "Booking attempts by outcome.",
	}, []string{"outcome"})
)

// Booking outcome label values.
const (
	OutcomeCommitted   = "committed"
	OutcomeInvalid     = "invalid"
	OutcomeConflict    = "conflict"
	OutcomeSinkFailure = "sink_failure"
)
