package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"vertex/internal/domain/ports"
	"vertex/internal/usecase"
)

const (
	jobTimeout  = 2 * time.Minute
	stopTimeout = 5 * time.Second
)

// Job is one scheduled unit of work, the progress digest in production.
type Job interface {
	Run(ctx context.Context) error
}

var _ Job = (*usecase.ProgressDigest)(nil)

// App manages the lifecycle of the progress digest scheduler.
type App struct {
	cron     *cron.Cron
	job      Job
	logger   ports.Logger
	schedule string
}

// New constructs an App instance.
func New(job Job, logger ports.Logger, schedule string) *App {
	return &App{
		cron:     cron.New(),
		job:      job,
		logger:   logger,
		schedule: schedule,
	}
}

// Run executes the job once immediately and then according to the cron
// schedule until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.scheduleJob(); err != nil {
		return err
	}

	a.logger.Info(ctx, "running first digest immediately")
	if err := a.job.Run(ctx); err != nil {
		a.logger.Error(ctx, "initial digest run failed", "error", err)
	}

	a.logger.Info(ctx, "starting scheduler", "cron", a.schedule)
	a.cron.Start()

	<-ctx.Done()
	stopCtx := a.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(stopTimeout):
		a.logger.Error(context.Background(), "scheduled digest did not finish before shutdown")
	}
	a.logger.Info(context.Background(), "scheduler stopped")
	return nil
}

func (a *App) scheduleJob() error {
	_, err := a.cron.AddFunc(a.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		if err := a.job.Run(ctx); err != nil {
			a.logger.Error(ctx, "scheduled digest run failed", "error", err)
		}
	})
	return err
}
