// service/services.go
package service

import (
	"gorm.io/gorm"

	"github.com/phishnheat/backend/audit"
	"github.com/phishnheat/backend/cache"
	"github.com/phishnheat/backend/dao"
	"github.com/phishnheat/backend/fetch"
	"github.com/phishnheat/backend/util"
)

type Services struct {
	Phishing  IPhishingService
	Analytics IAnalyticsService
}

func InitializeServices(
	db *gorm.DB,
	coordinator *fetch.Coordinator,
	freshCache *cache.FreshnessCache,
	budget *fetch.Budget,
	auditService audit.Service,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	incidentDAO := dao.NewIncidentDAO(db)

	phishing := NewPhishingService(coordinator, freshCache, budget, incidentDAO, auditService, notificationSvc, eventBus)

	services := &Services{
		Phishing:  phishing,
		Analytics: NewAnalyticsService(phishing),
	}

	return services, nil
}
