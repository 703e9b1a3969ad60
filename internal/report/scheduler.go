package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler fires the daily report on a crontab expression.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	logger  *slog.Logger
}

// NewScheduler registers the daily report with the given crontab expression
// (standard five-field syntax).
func NewScheduler(service *Service, crontab string, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New()
	s := &Scheduler{cron: c, service: service, logger: logger}

	if _, err := c.AddFunc(crontab, s.run); err != nil {
		return nil, fmt.Errorf("invalid report crontab %q: %w", crontab, err)
	}
	return s, nil
}

func (s *Scheduler) run() {
	s.logger.Info("generating scheduled daily report")
	if _, err := s.service.DailyReport(context.Background()); err != nil {
		if errors.Is(err, ErrNoData) {
			s.logger.Info("no review data for today, skipping report")
			return
		}
		s.logger.Error("scheduled daily report failed", "error", err)
	}
}

// Start begins the cron loop. It does not block.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the cron loop and waits for a running report to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
