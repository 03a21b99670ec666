package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RefreshJobName is the name of the periodic Gateway refresh
const RefreshJobName = "gateway_refresh"

// Refresher reloads customers and mechanics from the Gateway
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshJob pulls fresh data into the store on a schedule
type RefreshJob struct {
	refresher Refresher
	timeout   time.Duration
	observe   func(error)
	logger    *zap.Logger
}

// NewRefreshJob creates the job. observe may be nil.
func NewRefreshJob(refresher Refresher, timeout time.Duration, observe func(error), logger *zap.Logger) *RefreshJob {
	return &RefreshJob{
		refresher: refresher,
		timeout:   timeout,
		observe:   observe,
		logger:    logger,
	}
}

// Run performs one refresh bounded by the job timeout. Failures are logged
// and the store keeps its previous contents.
func (j *RefreshJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	err := j.refresher.Refresh(ctx)
	if j.observe != nil {
		j.observe(err)
	}
	if err != nil {
		j.logger.Warn("Gateway refresh failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}
	j.logger.Info("Gateway refresh completed", zap.Duration("duration", time.Since(start)))
}

// RegisterRefreshJob schedules the refresh. With runOnStartup the first
// refresh starts immediately in the background so it does not block startup.
func RegisterRefreshJob(scheduler *Scheduler, job *RefreshJob, cronExpr string, runOnStartup bool) error {
	if err := scheduler.AddJob(RefreshJobName, cronExpr, job.Run); err != nil {
		return err
	}
	if runOnStartup {
		return scheduler.RunNow(RefreshJobName)
	}
	return nil
}
