package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

type TokenRefresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler keeps the catalog access token fresh: one refresh at Start, then
// one every interval.
type Scheduler struct {
	cron     *cron.Cron
	tokens   TokenRefresher
	interval time.Duration
	timeout  time.Duration
	log      zerolog.Logger
}

func NewScheduler(tokens TokenRefresher, interval, timeout time.Duration, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger{log}),
		cron.SkipIfStillRunning(cronLogger{log}),
	))
	return &Scheduler{
		cron:     c,
		tokens:   tokens,
		interval: interval,
		timeout:  timeout,
		log:      log,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("token refresh interval must be positive, got %s", s.interval)
	}

	s.refresh(ctx)

	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), func() {
		s.refresh(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule token refresh: %w", err)
	}

	s.cron.Start()
	s.log.Info().Dur("interval", s.interval).Msg("token refresh scheduled")
	return nil
}

// Stop halts scheduling and waits for a running refresh, at most until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.tokens.Refresh(ctx); err != nil {
		// The previous token stays in place until the next tick.
		s.log.Error().Err(err).Msg("catalog token refresh failed")
	}
}

// cronLogger routes cron's own messages into zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
