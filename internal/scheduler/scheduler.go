package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DigestSender queues the unreviewed-activities digest.
type DigestSender interface {
	SendDigest() (int, error)
}

// FailurePruner trims the notification failure log.
type FailurePruner interface {
	DeleteOlderThan(cutoff time.Time) (int64, error)
}

type Config struct {
	DigestSpec string // e.g. "0 20 * * *", empty disables the job
	PruneSpec  string // e.g. "0 3 * * *", empty disables the job
	Retention  time.Duration
	Location   *time.Location
}

type Scheduler struct {
	cron     *cron.Cron
	digest   DigestSender
	failures FailurePruner
	cfg      Config
	now      func() time.Time
}

func New(digest DigestSender, failures FailurePruner, cfg Config) *Scheduler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		digest:   digest,
		failures: failures,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Start registers the jobs and starts the cron loop. An invalid spec is
// returned as an error and nothing is started.
func (s *Scheduler) Start() error {
	if s.cfg.DigestSpec != "" {
		_, err := s.cron.AddFunc(s.cfg.DigestSpec, func() { s.RunDigest() })
		if err != nil {
			return fmt.Errorf("invalid digest schedule %q: %w", s.cfg.DigestSpec, err)
		}
	}

	if s.cfg.PruneSpec != "" && s.cfg.Retention > 0 {
		_, err := s.cron.AddFunc(s.cfg.PruneSpec, func() { s.PruneFailures() })
		if err != nil {
			return fmt.Errorf("invalid failure prune schedule %q: %w", s.cfg.PruneSpec, err)
		}
	}

	s.cron.Start()
	slog.Info("scheduler started", "jobs", len(s.cron.Entries()), "digest", s.cfg.DigestSpec, "prune", s.cfg.PruneSpec)
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("scheduler stopped")
}

func (s *Scheduler) RunDigest() {
	n, err := s.digest.SendDigest()
	if err != nil {
		slog.Error("failed to send unreviewed digest", "error", err)
		return
	}
	slog.Info("unreviewed digest processed", "activities", n)
}

func (s *Scheduler) PruneFailures() {
	cutoff := s.now().UTC().Add(-s.cfg.Retention)

	n, err := s.failures.DeleteOlderThan(cutoff)
	if err != nil {
		slog.Error("failed to prune notification failures", "error", err)
		return
	}
	slog.Info("notification failures pruned", "deleted", n, "cutoff", cutoff)
}
