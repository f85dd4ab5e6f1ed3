package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/bobmcallan/kabutaro/internal/interfaces"
)

// pushTimeout bounds a single fetch-then-push run.
const pushTimeout = 2 * time.Minute

// Scheduler pushes the ranking digest on a cron schedule. Schedules are
// evaluated in UTC, so "0 0 * * *" fires at 09:00 JST.
type Scheduler struct {
	ranking interfaces.RankingService
	target  string
	cron    *cron.Cron
	logger  arbor.ILogger
}

// NewScheduler creates a new ranking push scheduler
func NewScheduler(ranking interfaces.RankingService, target string, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		ranking: ranking,
		target:  target,
		cron:    cron.New(cron.WithLocation(time.UTC)),
		logger:  logger,
	}
}

// Start registers the push job and starts the cron runner
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, func() {
		s.runPush("")
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Msg("Ranking push scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running push to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Ranking push scheduler stopped")
}

// RunNow triggers an immediate push in the background
func (s *Scheduler) RunNow(header string) {
	s.logger.Info().Msg("Triggering immediate ranking push")
	go s.runPush(header)
}

// runPush never returns an error; a failed run is logged and the next
// scheduled run proceeds as usual.
func (s *Scheduler) runPush(header string) {
	ctx, cancel := contextWithTimeout(pushTimeout)
	defer cancel()

	start := time.Now()
	if err := s.ranking.Push(ctx, s.target, header); err != nil {
		s.logger.Error().Err(err).Msg("Scheduled ranking push failed")
		return
	}

	s.logger.Info().
		Dur("elapsed", time.Since(start)).
		Msg("Scheduled ranking push complete")
}
