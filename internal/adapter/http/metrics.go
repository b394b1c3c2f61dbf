package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkout_attempts_total",
			Help: "Checkout initiations by provider and outcome",
		},
		[]string{"provider", "status"},
	)

	paymentCallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_callbacks_total",
			Help: "Gateway callbacks by resolved outcome",
		},
		[]string{"status"},
	)
)
