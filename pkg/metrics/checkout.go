package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics counts checkout outcomes under the shoplux_checkout_*
// metric names: orders placed by payment method, and failed submissions by
// error code.
type CheckoutMetrics struct {
	placed *prometheus.CounterVec
	failed *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided
// registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shoplux",
		Subsystem: "checkout",
		Name:      "orders_placed_total",
		Help:      "Orders placed through checkout, by payment method.",
	}, []string{"payment_method"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shoplux",
		Subsystem: "checkout",
		Name:      "orders_failed_total",
		Help:      "Checkout submissions that did not produce a paid or pending order, by error code.",
	}, []string{"code"})
	reg.MustRegister(placed, failed)
	return &CheckoutMetrics{placed: placed, failed: failed}
}

// IncPlaced counts a successful order placement for the payment method.
func (c *CheckoutMetrics) IncPlaced(paymentMethod string) {
	if c == nil || c.placed == nil {
		return
	}
	c.placed.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncFailed counts a failed submission under its error code.
func (c *CheckoutMetrics) IncFailed(code string) {
	if c == nil || c.failed == nil {
		return
	}
	c.failed.WithLabelValues(normalizeLabel(code)).Inc()
}
