// dao/incident_dao.go
package dao

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/phishnheat/backend/errors"
	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/model"
)

// IncidentDAO persists validated incidents so the historical dataset survives
// restarts and upstream outages.
type IncidentDAO struct {
	db *gorm.DB
}

func NewIncidentDAO(db *gorm.DB) *IncidentDAO {
	return &IncidentDAO{db: db}
}

// SaveIncidents replaces the stored snapshot for a source with the latest
// validated payload. The swap runs in one transaction so readers never see a
// half-written dataset.
func (d *IncidentDAO) SaveIncidents(ctx context.Context, source string, incidents []model.PhishingIncident) error {
	if len(incidents) == 0 {
		return nil
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.PhishingIncident{}).Error; err != nil {
			return err
		}
		// Batch inserts keep SQLite's variable limit out of the way.
		if err := tx.CreateInBatches(incidents, 100).Error; err != nil {
			return err
		}
		meta := model.CacheMetadata{
			APISource:     source,
			LastFetch:     time.Now(),
			IncidentCount: len(incidents),
			UpdatedAt:     time.Now(),
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "api_source"}},
			UpdateAll: true,
		}).Create(&meta).Error
	})
	if err != nil {
		logger.Error("Failed to save incidents", zap.Error(err), zap.Int("count", len(incidents)))
		return fmt.Errorf("%w: %v", apperrors.ErrDatabaseOperation, err)
	}

	logger.Info("Saved incident snapshot",
		zap.String("source", source),
		zap.Int("count", len(incidents)))
	return nil
}

// GetIncidents returns stored incidents matching the filter. A zero Limit
// means no limit.
func (d *IncidentDAO) GetIncidents(ctx context.Context, filter model.IncidentFilter) ([]model.PhishingIncident, error) {
	query := d.db.WithContext(ctx).Model(&model.PhishingIncident{})
	if filter.ThreatLevel != "" {
		query = query.Where("threat_level = ?", filter.ThreatLevel)
	}
	if filter.Company != "" {
		query = query.Where("company LIKE ?", "%"+filter.Company+"%")
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}
	if filter.ISP != "" {
		query = query.Where("isp LIKE ?", "%"+filter.ISP+"%")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var incidents []model.PhishingIncident
	if err := query.Order("detected_at DESC").Find(&incidents).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabaseOperation, err)
	}
	return incidents, nil
}

// CountIncidents counts stored incidents matching the filter.
func (d *IncidentDAO) CountIncidents(ctx context.Context, filter model.IncidentFilter) (int64, error) {
	query := d.db.WithContext(ctx).Model(&model.PhishingIncident{})
	if filter.ThreatLevel != "" {
		query = query.Where("threat_level = ?", filter.ThreatLevel)
	}
	if filter.Country != "" {
		query = query.Where("country = ?", filter.Country)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrDatabaseOperation, err)
	}
	return count, nil
}

// DeleteOlderThan removes incidents detected more than the given number of
// days ago. Used by retention cleanup.
func (d *IncidentDAO) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := d.db.WithContext(ctx).
		Where("detected_at < ?", cutoff).
		Delete(&model.PhishingIncident{})
	if result.Error != nil {
		return 0, fmt.Errorf("%w: %v", apperrors.ErrDatabaseOperation, result.Error)
	}
	if result.RowsAffected > 0 {
		logger.Info("Deleted old incidents",
			zap.Int64("deleted", result.RowsAffected),
			zap.Int("retentionDays", days))
	}
	return result.RowsAffected, nil
}

// GetCacheMetadata returns the fetch bookkeeping row for an upstream source.
func (d *IncidentDAO) GetCacheMetadata(ctx context.Context, source string) (*model.CacheMetadata, error) {
	var meta model.CacheMetadata
	err := d.db.WithContext(ctx).First(&meta, "api_source = ?", source).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDatabaseOperation, err)
	}
	return &meta, nil
}
