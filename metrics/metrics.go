package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg                    *prometheus.Registry
	CartMutations          *prometheus.CounterVec
	RecommendationsServed  *prometheus.CounterVec
	CheckoutTransitions    *prometheus.CounterVec
	PaymentsDeclined       prometheus.Counter
	OrdersPlaced           prometheus.Counter
	OrderValue             prometheus.Histogram
	ActiveSessions         prometheus.Gauge
	TicketPublishFailures  prometheus.Counter
	RequestDurationSeconds *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "bbq_cart_mutations_total"}, []string{"op"})
	recs := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "bbq_recommendations_served_total"}, []string{"rule"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "bbq_checkout_transitions_total"}, []string{"step"})
	declined := prometheus.NewCounter(prometheus.CounterOpts{Name: "bbq_payments_declined_total"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{Name: "bbq_orders_placed_total"})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bbq_order_value_dollars",
		Buckets: []float64{10, 20, 30, 50, 75, 100, 150, 250},
	})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{Name: "bbq_active_sessions"})
	ticketFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "bbq_kitchen_ticket_failures_total"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bbq_http_request_duration_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	r.MustRegister(cartMutations, recs, transitions, declined, orders, orderValue, sessions, ticketFailures, duration)
	return &Registry{
		reg:                    r,
		CartMutations:          cartMutations,
		RecommendationsServed:  recs,
		CheckoutTransitions:    transitions,
		PaymentsDeclined:       declined,
		OrdersPlaced:           orders,
		OrderValue:             orderValue,
		ActiveSessions:         sessions,
		TicketPublishFailures:  ticketFailures,
		RequestDurationSeconds: duration,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
