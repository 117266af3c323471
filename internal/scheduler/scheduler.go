// Package scheduler runs the periodic analytics report.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"persona-bot/internal/analytics"
	"persona-bot/internal/observe"
)

// Scheduler runs a report function on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
	obs        *observe.Observer
}

// New creates a scheduler for a standard five-field cron spec evaluated in UTC.
func New(spec string, obs *observe.Observer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	if obs == nil {
		obs = observe.Discard()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		spec:   spec,
		ctx:    ctx,
		cancel: cancel,
		obs:    obs,
	}
}

func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// Start registers the report. An empty spec or missing report function
// leaves the scheduler idle.
func (s *Scheduler) Start() error {
	if s.reportFunc == nil || s.spec == "" {
		s.obs.Log().Warn().Msg("analytics report disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return fmt.Errorf("invalid report schedule %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.obs.Log().Info().Str("schedule", s.spec).Msg("scheduler started")
	return nil
}

func (s *Scheduler) run() {
	s.obs.Log().Info().Msg("generating scheduled report")
	if err := s.reportFunc(s.ctx); err != nil {
		s.obs.Log().Error().Err(err).Msg("scheduled report failed")
	}
}

// Stop waits for a running report to finish.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.obs.Log().Info().Msg("scheduler stopped")
}

// AnalyticsReport logs a summary of the current statistics at warn level,
// so it is written under the default log level.
func AnalyticsReport(stats *analytics.Aggregator, obs *observe.Observer) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap := stats.Snapshot()
		obs.Log().Warn().
			Int("conversations", snap.TotalConversations).
			Int("messages", snap.TotalMessages).
			Int("feedback_positive", snap.Feedback.Positive).
			Int("feedback_negative", snap.Feedback.Negative).
			Str("summary", snap.Summary()).
			Msg("analytics report")
		return nil
	}
}
