package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_deliveries_total",
			Help: "Outbound notifications by channel and result",
		},
		[]string{"channel", "result"},
	)
)

func observe(channel string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	deliveriesTotal.WithLabelValues(channel, result).Inc()
}
