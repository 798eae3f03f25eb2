package service

import "github.com/prometheus/client_golang/prometheus"

var (
	submissionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activityform",
		Name:      "submissions_total",
		Help:      "Activity form submissions by result (created, invalid, error).",
	}, []string{"result"})

	reviewCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activityform",
		Name:      "review_transitions_total",
		Help:      "Review state changes by resulting state.",
	}, []string{"state"})

	archiveCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activityform",
		Name:      "attachments_archived_total",
		Help:      "Attachment archive uploads by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(submissionCounter, reviewCounter, archiveCounter)
}
