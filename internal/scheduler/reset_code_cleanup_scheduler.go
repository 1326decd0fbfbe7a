package scheduler

import (
	"context"
	"time"

	"github.com/cravings-app/cravings-backend/internal/metrics"
	"github.com/cravings-app/cravings-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const cleanupTimeout = time.Minute

// ExpiredCodeDeleter removes reset codes that expired before a cutoff.
type ExpiredCodeDeleter interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ResetCodeCleanupScheduler periodically purges expired password reset codes
type ResetCodeCleanupScheduler struct {
	cron     *cron.Cron
	schedule string
	codes    ExpiredCodeDeleter
	now      func() time.Time
}

func NewResetCodeCleanupScheduler(codes ExpiredCodeDeleter, schedule string) *ResetCodeCleanupScheduler {
	return &ResetCodeCleanupScheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		schedule: schedule,
		codes:    codes,
		now:      time.Now,
	}
}

func (s *ResetCodeCleanupScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
		defer cancel()
		s.RunOnce(ctx)
	}); err != nil {
		logger.Error("Failed to add cron job for reset code cleanup", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Reset code cleanup scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce deletes every code whose expiry has passed and returns how many were removed.
func (s *ResetCodeCleanupScheduler) RunOnce(ctx context.Context) int64 {
	n, err := s.codes.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		logger.Error("Failed to delete expired reset codes", err)
		return 0
	}
	metrics.ExpiredCodesDeleted.Add(float64(n))
	if n > 0 {
		logger.Info("Deleted expired reset codes", map[string]interface{}{
			"count": n,
		})
	}
	return n
}

// Stop waits for a running cleanup to finish.
func (s *ResetCodeCleanupScheduler) Stop() {
	<-s.cron.Stop().Done()
	logger.Info("Reset code cleanup scheduler stopped")
}
