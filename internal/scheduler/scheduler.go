// Package scheduler wraps gocron with panic recovery and singleton jobs so a
// slow price poll can never pile up on itself.
package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/JoeOster/stock-tracker-app-v2-sub001/utils"
	"github.com/go-co-op/gocron/v2"
)

type jobFn func(ctx context.Context) error

type Scheduler struct {
	inner gocron.Scheduler
}

func New() *Scheduler {
	inner, err := gocron.NewScheduler()
	if err != nil {
		panic(err.Error())
	}
	return &Scheduler{inner: inner}
}

func (s *Scheduler) Start() {
	s.inner.Start()
}

func (s *Scheduler) Stop() {
	_ = s.inner.Shutdown()
}

func (s *Scheduler) NewIntervalJob(name string, fn jobFn, interval time.Duration, startImmediately bool) {
	s.add(gocron.DurationJob(interval), name, fn, startImmediately)
}

func (s *Scheduler) NewCrontabJob(name string, fn jobFn, crontab string, startImmediately bool) {
	s.add(gocron.CronJob(crontab, true), name, fn, startImmediately)
}

// A tick that lands while the previous run is still going is rescheduled,
// not stacked.
func (s *Scheduler) add(def gocron.JobDefinition, name string, fn jobFn, startImmediately bool) {
	opts := []gocron.JobOption{gocron.WithSingletonMode(gocron.LimitModeReschedule)}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	if _, err := s.inner.NewJob(def, gocron.NewTask(s.wrap(name, fn)), opts...); err != nil {
		slog.Error("failed to register job", slog.String("job", name), slog.String("err", err.Error()))
		panic(err.Error())
	}
}

// wrap gives every run its own rqID so job log lines correlate the same way
// handler log lines do.
func (s *Scheduler) wrap(name string, fn jobFn) func(ctx context.Context) {
	return func(ctx context.Context) {
		ctx = utils.WithRqID(ctx)
		rqID := utils.GetRequestIDFromCtx(ctx)

		defer func() {
			if r := recover(); r != nil {
				slog.Error(
					"panic recovered in job",
					slog.String("job", name),
					slog.String("rqID", rqID),
					slog.Any("panic", r),
					slog.String("stacktrace", string(debug.Stack())),
				)
			}
		}()

		slog.Info("job start", slog.String("job", name), slog.String("rqID", rqID))

		if err := fn(ctx); err != nil {
			slog.Error("job failed", slog.String("job", name), slog.String("rqID", rqID), slog.String("err", err.Error()))
			return
		}

		slog.Info("job finished", slog.String("job", name), slog.String("rqID", rqID))
	}
}
