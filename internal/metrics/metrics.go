package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Notifications counts payment notifications by event and how they were handled.
	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "ipn_notifications_total", Help: "Payment notifications by event and outcome."},
		[]string{"event", "outcome"},
	)

	// CommerceRequests counts commerce api calls by operation and response status.
	CommerceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "commerce_requests_total", Help: "Commerce api requests by operation and status."},
		[]string{"operation", "status"},
	)

	Checkouts = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "checkouts_total", Help: "Checkout requests by outcome."},
		[]string{"outcome"},
	)
)
