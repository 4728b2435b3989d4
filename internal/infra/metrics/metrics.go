package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsCommitted counts successfully committed bookings.
	BookingsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotlink_bookings_committed_total",
		Help: "Number of bookings committed.",
	})

	// BookingsRejected counts rejected booking attempts by reason.
	BookingsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slotlink_bookings_rejected_total",
		Help: "Number of rejected booking attempts.",
	}, []string{"reason"})

	// ScheduleComputations counts availability computations that missed the cache.
	ScheduleComputations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slotlink_schedule_computations_total",
		Help: "Number of availability computations served from Postgres.",
	})
)
