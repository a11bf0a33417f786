// audit/service.go
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	logger "github.com/phishnheat/backend/logging"
)

type Service interface {
	LogRefresh(ctx context.Context, log RefreshLog) error
	QueryLogs(ctx context.Context, from, to time.Time, source, action string) ([]RefreshLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogRefresh(ctx context.Context, log RefreshLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	return s.repo.LogRefresh(ctx, log)
}

func (s *service) QueryLogs(ctx context.Context, from, to time.Time, source, action string) ([]RefreshLog, error) {
	return s.repo.QueryLogs(ctx, from, to, source, action)
}

// nopService is wired when audit.enabled is false; refresh records are only
// mirrored into the application log.
type nopService struct{}

func NewNopService() Service {
	return nopService{}
}

func (nopService) LogRefresh(ctx context.Context, log RefreshLog) error {
	logger.Debug("Audit disabled, dropping refresh record",
		zap.String("action", log.Action),
		zap.String("outcome", log.Outcome))
	return nil
}

func (nopService) QueryLogs(ctx context.Context, from, to time.Time, source, action string) ([]RefreshLog, error) {
	return nil, nil
}
