package notify

import "github.com/prometheus/client_golang/prometheus"

var (
	sentCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activityform",
		Subsystem: "notify",
		Name:      "messages_total",
		Help:      "Notification deliveries, labeled by kind (text/file) and result.",
	}, []string{"kind", "result"})

	droppedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activityform",
		Subsystem: "notify",
		Name:      "jobs_dropped_total",
		Help:      "Notification jobs rejected because the queue was full or closed.",
	})

	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "activityform",
		Subsystem: "notify",
		Name:      "queue_depth",
		Help:      "Notification jobs waiting for the worker.",
	})
)

func init() {
	prometheus.MustRegister(sentCounter, droppedCounter, queueDepth)
}
