package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

var (
	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disaster_dispatches_total",
			Help: "Total number of auto-dispatch operations, by outcome.",
		},
		[]string{"outcome"},
	)

	SOSReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disaster_sos_reports_total",
			Help: "Total number of SOS reports created, by emergency type.",
		},
		[]string{"emergency_type"},
	)

	AlertsBroadcastTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disaster_alerts_broadcast_total",
			Help: "Total number of recorded alert broadcasts, by scope.",
		},
		[]string{"scope"},
	)

	WSActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "disaster_ws_active_connections",
			Help: "Number of live websocket connections.",
		},
	)

	WSDeliveryFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "disaster_ws_delivery_failures_total",
			Help: "Messages that could not be delivered to a subscriber.",
		},
	)
)

// Handler exposes the prometheus registry on /metrics.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
