package jobs

import (
	"context"
	"time"

	"accommodation/services"
	"accommodation/services/logger"

	"github.com/robfig/cron/v3"
)

// CheckInRunner is the daily sweep over bookings whose check-in has arrived
type CheckInRunner interface {
	AutoCheckIn(ctx context.Context) (services.CheckInSummary, error)
}

const sweepTimeout = 10 * time.Minute

// RunAutoCheckIn runs one sweep and logs its summary
func RunAutoCheckIn(ctx context.Context, runner CheckInRunner, log logger.Logger) {
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	start := time.Now()
	log.Info("auto check-in started")
	summary, err := runner.AutoCheckIn(ctx)
	if err != nil {
		log.Error("auto check-in failed: %v", err)
		return
	}
	log.Info("auto check-in finished in %s: checked_in=%d cancelled=%d failed=%d",
		time.Since(start), summary.CheckedIn, summary.Cancelled, summary.Failed)
	if summary.Failed > 0 {
		log.Error("auto check-in could not process bookings %v", summary.FailedIDs)
	}
}

// InitCronJobs registers the auto check-in sweep on schedule and starts the scheduler
func InitCronJobs(c *cron.Cron, schedule string, runner CheckInRunner, log logger.Logger) error {
	_, err := c.AddFunc(schedule, func() {
		RunAutoCheckIn(context.Background(), runner, log)
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Info("cron jobs initialized, auto check-in at %q", schedule)
	return nil
}
