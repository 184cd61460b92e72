package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"disaster-response/internal/resource"
)

// Sweeper periodically marks resources with stale heartbeats offline so the
// dispatcher never claims a unit that stopped reporting.
type Sweeper struct {
	resources  resource.Service
	staleAfter time.Duration
	schedule   string
	cron       *cron.Cron
	logger     *slog.Logger
}

func NewSweeper(resources resource.Service, staleAfter time.Duration, schedule string, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		resources:  resources,
		staleAfter: staleAfter,
		schedule:   schedule,
		cron:       cron.New(),
		logger:     logger,
	}
}

func (s *Sweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweep)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("resource sweeper started", "schedule", s.schedule, "stale_after", s.staleAfter)
	return nil
}

func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	marked, err := s.resources.MarkStaleOffline(ctx, s.staleAfter)
	if err != nil {
		s.logger.Error("resource sweep failed", "error", err)
		return
	}
	if marked > 0 {
		s.logger.Info("resource sweep complete", "marked_offline", marked)
	}
}
