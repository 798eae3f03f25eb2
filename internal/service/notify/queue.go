package notify

import (
	"log/slog"
	"sync"
	"time"

	"github.com/scoutreport/activityform/internal/model"
)

// Job is one unit of outbound notification work: an optional text message
// followed by one upload per file.
type Job struct {
	ActivityID *int64
	Text       string
	Caption    string
	Files      []File
}

// FailureRecorder persists the notifier's failure log.
type FailureRecorder interface {
	Create(failure *model.NotificationFailure) error
}

// Queue decouples notification delivery from request handling. A single
// worker drains the buffer; sends are attempted once and failures are
// logged and recorded, never retried.
type Queue struct {
	sender   Sender
	failures FailureRecorder
	jobs     chan Job
	done     chan struct{}
	now      func() time.Time

	mu      sync.RWMutex
	closed  bool
	started bool
}

func NewQueue(sender Sender, failures FailureRecorder, size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		sender:   sender,
		failures: failures,
		jobs:     make(chan Job, size),
		done:     make(chan struct{}),
		now:      time.Now,
	}
}

// Start launches the worker goroutine.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.started || q.closed {
		return
	}
	q.started = true

	go q.run()
}

// Enqueue hands a job to the worker without blocking. It reports false when
// the job was dropped; the drop is recorded as a failure.
func (q *Queue) Enqueue(job Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		droppedCounter.Inc()
		q.recordFailure(job, kindOf(job), "", "notification queue closed")
		return false
	}

	select {
	case q.jobs <- job:
		queueDepth.Set(float64(len(q.jobs)))
		return true
	default:
		droppedCounter.Inc()
		q.recordFailure(job, kindOf(job), "", "notification queue full")
		return false
	}
}

// Close stops accepting jobs and waits for queued ones to be delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	started := q.started
	q.mu.Unlock()

	if started {
		<-q.done
	}
}

func (q *Queue) run() {
	defer close(q.done)

	for job := range q.jobs {
		queueDepth.Set(float64(len(q.jobs)))
		q.deliver(job)
	}
}

// deliver sends the text, split to Telegram's message limit, then each file.
func (q *Queue) deliver(job Job) {
	if job.Text != "" {
		for _, part := range SplitMessage(job.Text, MaxMessageLength) {
			err := q.sender.SendText(part)
			q.observe(job, model.NotificationKindText, "", err)
		}
	}

	caption := clipRunes(job.Caption, MaxCaptionLength)
	for _, file := range job.Files {
		err := q.sender.SendFile(caption, file)
		q.observe(job, model.NotificationKindFile, file.Name, err)
	}
}

func (q *Queue) observe(job Job, kind, target string, err error) {
	if err == nil {
		sentCounter.WithLabelValues(kind, "success").Inc()
		return
	}

	sentCounter.WithLabelValues(kind, "failure").Inc()
	slog.Error("failed to send notification",
		"error", err,
		"sender", q.sender.Name(),
		"kind", kind,
		"target", target,
		"activity_id", job.ActivityID,
	)
	q.recordFailure(job, kind, target, err.Error())
}

func (q *Queue) recordFailure(job Job, kind, target, reason string) {
	if q.failures == nil {
		return
	}

	err := q.failures.Create(&model.NotificationFailure{
		Kind:       kind,
		ActivityID: job.ActivityID,
		Target:     target,
		Error:      reason,
		CreatedAt:  q.now().UTC(),
	})
	if err != nil {
		slog.Error("failed to record notification failure", "error", err, "reason", reason)
	}
}

func kindOf(job Job) string {
	if job.Text == "" && len(job.Files) > 0 {
		return model.NotificationKindFile
	}
	return model.NotificationKindText
}
