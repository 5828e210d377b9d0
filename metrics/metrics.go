package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CheckoutMetrics struct {
	Completed  prometheus.Counter
	Failed     *prometheus.CounterVec
	Reconciled prometheus.Counter
}

func NewCheckoutMetrics() *CheckoutMetrics {
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "completed_total",
		Help:      "Checkouts that reached the completed state.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "failed_total",
		Help:      "Checkouts absorbed into the failed state, by stage.",
	}, []string{"stage"})
	reconciled := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "reconciled_total",
		Help:      "Pending orders persisted by the reconciler.",
	})

	prometheus.MustRegister(completed, failed, reconciled)
	return &CheckoutMetrics{Completed: completed, Failed: failed, Reconciled: reconciled}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
