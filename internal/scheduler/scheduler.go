package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the work run on each tick.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc is a function adapter for Job.
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Config holds scheduler configuration.
type Config struct {
	Spec       string // Standard 5-field cron expression (default: daily 06:00)
	RunOnStart bool   // Run once immediately on Start
	Location   *time.Location
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Spec:     "0 6 * * *",
		Location: time.UTC,
	}
}

// Stats holds scheduler counters.
type Stats struct {
	Runs    int64     `json:"runs"`
	Failed  int64     `json:"failed"`
	Skipped int64     `json:"skipped"`
	Running bool      `json:"running"`
	Next    time.Time `json:"next"`
}

// Scheduler runs a Job on a cron schedule.
type Scheduler struct {
	cfg    Config
	job    Job
	logger *slog.Logger

	cron    *cron.Cron
	entryID cron.EntryID

	running atomic.Bool
	runs    atomic.Int64
	failed  atomic.Int64
	skipped atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Scheduler.
func New(cfg Config, job Job, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Spec == "" {
		cfg.Spec = DefaultConfig().Spec
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Scheduler{
		cfg:    cfg,
		job:    job,
		logger: logger,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.cron = cron.New(
		cron.WithLocation(s.cfg.Location),
		cron.WithChain(cron.Recover(cronLogger{s.logger})),
	)

	id, err := s.cron.AddFunc(s.cfg.Spec, s.tick)
	if err != nil {
		s.cancel()
		return fmt.Errorf("parse cron spec %q: %w", s.cfg.Spec, err)
	}
	s.entryID = id

	s.cron.Start()

	if s.cfg.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.tick()
		}()
	}

	s.logger.Info("scheduler started",
		"spec", s.cfg.Spec,
		"next", s.cron.Entry(id).Next,
		"run_on_start", s.cfg.RunOnStart,
	)

	return nil
}

// Stop cancels the running job and waits for it to finish.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		if s.cron != nil {
			<-s.cron.Stop().Done()
		}
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped", "runs", s.runs.Load(), "skipped", s.skipped.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current counters.
func (s *Scheduler) Stats() Stats {
	st := Stats{
		Runs:    s.runs.Load(),
		Failed:  s.failed.Load(),
		Skipped: s.skipped.Load(),
		Running: s.running.Load(),
	}
	if s.cron != nil {
		st.Next = s.cron.Entry(s.entryID).Next
	}
	return st
}

// tick runs the job unless a run is already in progress.
func (s *Scheduler) tick() {
	if s.ctx.Err() != nil {
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		s.skipped.Add(1)
		s.logger.Warn("previous run still in progress, skipping tick")
		return
	}
	defer s.running.Store(false)

	start := time.Now()
	s.runs.Add(1)

	if err := s.job.Run(s.ctx); err != nil {
		s.failed.Add(1)
		s.logger.Error("scheduled run failed", "error", err, "duration", time.Since(start))
		return
	}

	s.logger.Info("scheduled run complete", "duration", time.Since(start))
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
