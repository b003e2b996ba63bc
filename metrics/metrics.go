package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stratbook_orders_submitted_total",
			Help: "Total number of orders submitted (by strategy and side).",
		},
		[]string{"strategy", "side"},
	)

	OrdersRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stratbook_orders_rejected_total",
			Help: "Orders refused by the executor.",
		},
		[]string{"strategy"},
	)

	ProtectionTriggered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stratbook_protection_triggered_total",
			Help: "Positions closed by stop-loss, take-profit or trailing stop.",
		},
		[]string{"strategy", "kind"},
	)

	CandlesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stratbook_candles_processed_total",
			Help: "Finished candles delivered to strategy logic.",
		},
		[]string{"strategy"},
	)

	StrategyPanics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stratbook_strategy_panics_total",
			Help: "Recovered panics inside strategy callbacks.",
		},
		[]string{"strategy"},
	)

	Position = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stratbook_position",
			Help: "Signed position size per strategy and symbol.",
		},
		[]string{"strategy", "symbol"},
	)

	EquityGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stratbook_equity",
			Help: "Current equity of the executor (paper or live).",
		},
	)

	QuotesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "stratbook_feed_quotes_dropped_total",
			Help: "Quotes dropped because the consumer channel was full.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		OrdersSubmitted,
		OrdersRejected,
		ProtectionTriggered,
		CandlesProcessed,
		StrategyPanics,
		Position,
		EquityGauge,
		QuotesDropped,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
