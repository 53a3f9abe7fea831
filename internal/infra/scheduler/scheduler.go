package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Pr1ority/homework-bot/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// PollScheduler drives the polling loop: one poll right after Start, then
// one every interval. Iterations never overlap; a tick that fires while the
// previous poll is still running is skipped.
type PollScheduler struct {
	cronEngine *cron.Cron
	service    app.StatusService
	interval   time.Duration
	logger     *logrus.Entry
	wg         sync.WaitGroup
}

func NewPollScheduler(service app.StatusService, interval time.Duration, logger *logrus.Entry) *PollScheduler {
	return &PollScheduler{
		cronEngine: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.PrintfLogger(logger)),
		)),
		service:  service,
		interval: interval,
		logger:   logger,
	}
}

// Start registers the polling job and launches the first poll right away.
// The immediate run goes through the same skip-if-still-running chain as
// the scheduled ticks, so the first tick cannot overlap it.
func (s *PollScheduler) Start() error {
	spec := "@every " + s.interval.String()
	id, err := s.cronEngine.AddFunc(spec, s.step)
	if err != nil {
		return fmt.Errorf("failed to register polling job %q: %w", spec, err)
	}

	firstRun := s.cronEngine.Entry(id).WrappedJob
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		firstRun.Run()
	}()

	s.cronEngine.Start()
	s.logger.WithField("interval", s.interval.String()).Info("Poll scheduler started")
	return nil
}

// step runs one poll iteration; the context expires after one interval.
func (s *PollScheduler) step() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()
	s.service.Poll(ctx)
}

// Stop prevents further ticks and waits for any in-flight poll to finish.
// Safe to call more than once and without a prior Start.
func (s *PollScheduler) Stop() {
	s.logger.Info("Stopping poll scheduler...")
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.wg.Wait()
	s.logger.Info("Poll scheduler stopped")
}
