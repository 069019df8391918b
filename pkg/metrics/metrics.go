package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReservationAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopcore",
		Name:      "inventory_reservation_attempts_total",
		Help:      "Stock reservation attempts by result.",
	}, []string{"result"})

	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopcore",
		Name:      "orders_created_total",
		Help:      "Orders successfully created at checkout.",
	})

	CheckoutRollbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopcore",
		Name:      "checkout_rollbacks_total",
		Help:      "Checkouts that released reservations after a downstream failure.",
	})

	WebhooksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopcore",
		Name:      "payment_webhooks_total",
		Help:      "Inbound payment notifications by processing outcome.",
	}, []string{"outcome"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
