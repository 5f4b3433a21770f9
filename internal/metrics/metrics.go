// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CartMutations counts cart store mutations by operation
	// (add, increment, decrement, remove, clear).
	CartMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "milletcart_cart_mutations_total",
		Help: "Number of cart mutations by operation.",
	}, []string{"operation"})

	// OrdersConfirmed counts confirmed checkout orders.
	OrdersConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "milletcart_orders_confirmed_total",
		Help: "Number of confirmed orders.",
	})

	// CheckoutsBlocked counts refused confirmation attempts.
	CheckoutsBlocked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "milletcart_checkouts_blocked_total",
		Help: "Number of checkout confirmations refused.",
	})
)
