// test/mock/audit.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/phishnheat/backend/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogRefresh(ctx context.Context, log audit.RefreshLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditService) QueryLogs(ctx context.Context, from, to time.Time, source, action string) ([]audit.RefreshLog, error) {
	args := m.Called(ctx, from, to, source, action)
	return args.Get(0).([]audit.RefreshLog), args.Error(1)
}
