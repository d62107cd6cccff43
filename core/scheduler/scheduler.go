package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bling-sync/core/walker"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner runs one kind in the foreground.
type Runner interface {
	Enabled() ([]string, error)
	Run(ctx context.Context, kind string) (walker.Report, error)
}

// Scheduler runs every enabled kind on each tick.
type Scheduler struct {
	runner     Runner
	interval   time.Duration
	runOnStart bool
	logger     *zap.Logger
}

// New creates a scheduler.
func New(runner Runner, cfg Config, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		runner:     runner,
		interval:   cfg.Interval(),
		runOnStart: cfg.RunOnStart,
		logger:     logger,
	}
}

// Start blocks, ticking until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if s.runOnStart {
		s.tick(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.Tick(ctx); err != nil {
		s.logger.Error("Scheduled sync failed", zap.Error(err))
	}
}

// Tick runs every enabled kind once and returns their reports. Only a
// failure to list the enabled kinds is returned as an error.
func (s *Scheduler) Tick(ctx context.Context) (map[string]walker.Report, error) {
	kinds, err := s.runner.Enabled()
	if err != nil {
		return nil, fmt.Errorf("enabled kinds: %w", err)
	}

	reports := make([]walker.Report, len(kinds))
	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			report, err := s.runner.Run(ctx, kind)
			reports[i] = report
			switch {
			case errors.Is(err, walker.ErrAlreadyRunning):
				s.logger.Info("Kind still running, skipped", zap.String("kind", kind))
			case err != nil:
				s.logger.Error("Kind failed",
					zap.String("kind", kind),
					zap.String("state", string(report.State)),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]walker.Report, len(kinds))
	for i, kind := range kinds {
		out[kind] = reports[i]
	}
	return out, nil
}
