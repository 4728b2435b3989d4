package service

import (
	"context"
	"time"

	apprepository "github.com/jmadden452/SlotLink/internal/app/repository"
	"go.uber.org/zap"
)

// NotifyTimeoutChecker periodically sweeps booking events stuck in pending
// and marks them as failed.
type NotifyTimeoutChecker struct {
	logger   *zap.Logger
	repo     apprepository.BookingEventRepository
	ttl      time.Duration
	interval time.Duration
	stopChan chan struct{}
}

// NewNotifyTimeoutChecker creates a new notification timeout checker.
func NewNotifyTimeoutChecker(logger *zap.Logger, repo apprepository.BookingEventRepository, ttl time.Duration) *NotifyTimeoutChecker {
	return &NotifyTimeoutChecker{
		logger:   logger,
		repo:     repo,
		ttl:      ttl,
		interval: 30 * time.Second, // Check every 30 seconds
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (c *NotifyTimeoutChecker) Start() {
	go c.run()
}

// Stop stops the periodic sweep.
func (c *NotifyTimeoutChecker) Stop() {
	close(c.stopChan)
}

func (c *NotifyTimeoutChecker) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweepStalePendingEvents()
		case <-c.stopChan:
			c.logger.Info("notification timeout checker stopped")
			return
		}
	}
}

func (c *NotifyTimeoutChecker) sweepStalePendingEvents() {
	ctx := context.Background()
	expiredBefore := time.Now().Add(-c.ttl)

	affected, err := c.repo.UpdateExpiredPendingStatus(ctx, expiredBefore)
	if err != nil {
		c.logger.Error("failed to update stale pending booking events", zap.Error(err))
		return
	}

	if affected > 0 {
		c.logger.Info("marked stale pending booking events as failed",
			zap.Int64("count", affected),
			zap.Time("expired_before", expiredBefore),
		)
	}
}
