package middleware

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "activityform",
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by method, route pattern and status.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route", "status"})

func init() {
	prometheus.MustRegister(requestDuration)
}

func observeRequest(method, route string, status int, seconds float64) {
	requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
