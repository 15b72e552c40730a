package coordinator

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"dashboardfetcher/internal/logging"
)

// Scheduler refreshes every domain on a fixed interval
type Scheduler struct {
	coord    *Coordinator
	interval time.Duration
	cron     *cron.Cron
}

// NewScheduler creates a scheduler running coord.RefreshAll every interval
func NewScheduler(coord *Coordinator, interval time.Duration) (*Scheduler, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("refresh interval %s is below one second", interval)
	}

	log := cronLogger{logging.Component("scheduler")}
	c := cron.New(cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)))

	return &Scheduler{coord: coord, interval: interval, cron: c}, nil
}

// Start runs an initial refresh in the background, then schedules the
// periodic one. Jobs stop when ctx is cancelled; the returned channel is
// closed once the last running job has returned.
func (s *Scheduler) Start(ctx context.Context) (<-chan struct{}, error) {
	job := func() { s.coord.RefreshAll(ctx) }

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), job); err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}

	done := make(chan struct{})
	initial := make(chan struct{})
	go func() {
		defer close(initial)
		job()
	}()

	s.cron.Start()
	logging.Info().Dur("interval", s.interval).Msg("refresh scheduler started")

	go func() {
		<-ctx.Done()
		stopped := s.cron.Stop()
		<-stopped.Done()
		<-initial
		logging.Info().Msg("refresh scheduler stopped")
		close(done)
	}()

	return done, nil
}

// cronLogger routes cron's own logging to zerolog
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
