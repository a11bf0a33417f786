// util/notification_service.go

package util

import (
	"context"
	"sync"

	"go.uber.org/zap"

	logger "github.com/phishnheat/backend/logging"
)

// NotificationService alerts operators about data-pipeline health. It tracks
// consecutive refresh failures and escalates once a streak builds up, so one
// flaky upstream call does not page anyone.
type NotificationService struct {
	mu               sync.Mutex
	failureStreak    int
	escalationStreak int
}

func NewNotificationService() *NotificationService {
	return &NotificationService{
		escalationStreak: 3,
	}
}

// NotifyRefreshSucceeded resets the failure streak.
func (n *NotificationService) NotifyRefreshSucceeded(ctx context.Context, source string, incidentCount int) error {
	n.mu.Lock()
	recovered := n.failureStreak >= n.escalationStreak
	n.failureStreak = 0
	n.mu.Unlock()

	if recovered {
		logger.Info("NOTIFICATION: Upstream data feed recovered",
			zap.String("source", source),
			zap.Int("incidentCount", incidentCount))
	}
	return nil
}

// NotifyRefreshFailed records a failed refresh and notifies admins once the
// streak reaches the escalation threshold.
func (n *NotificationService) NotifyRefreshFailed(ctx context.Context, source string, cause error) error {
	n.mu.Lock()
	n.failureStreak++
	streak := n.failureStreak
	n.mu.Unlock()

	if streak == n.escalationStreak {
		return n.NotifyAdmins(ctx, "Upstream data feed degraded, serving stale data")
	}
	logger.Warn("NOTIFICATION: Refresh failed",
		zap.String("source", source),
		zap.Int("streak", streak),
		zap.Error(cause))
	return nil
}

// NotifyAdmins notifies all system administrators.
func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	// Here you would implement the actual notification logic
	// This could involve sending messages to a queue, calling an external API, etc.
	logger.Warn("NOTIFICATION: Notifying admins", zap.String("message", message))
	return nil
}
