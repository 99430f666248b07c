package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_attempts_total",
		Help: "Total number of admin authentication attempts, labelled by result.",
	},
	[]string{"result"},
)

func recordAuthAttempt(result string) {
	authAttemptsTotal.WithLabelValues(result).Inc()
}
