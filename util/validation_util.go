// util/validation_util.go

package util

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/phishnheat/backend/errors"
	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/model"
)

type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{
		validate: validator.New(),
	}
}

// ValidateIncident checks a single incident against the model rules.
func (v *ValidationUtil) ValidateIncident(incident model.PhishingIncident) error {
	if err := v.validate.Struct(incident); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidIncidentData, err)
	}
	return nil
}

// ValidateIncidents normalizes and validates a raw upstream payload.
// Individual invalid records are dropped and logged; the whole payload is
// rejected as malformed only when no record survives, so one bad row never
// discards an otherwise good fetch.
func (v *ValidationUtil) ValidateIncidents(raw []model.PhishingIncident) ([]model.PhishingIncident, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty incident list", apperrors.ErrMalformedResponse)
	}

	valid := make([]model.PhishingIncident, 0, len(raw))
	for _, incident := range raw {
		incident.ThreatLevel = NormalizeThreatLevel(incident.ThreatLevel)
		if err := v.validate.Struct(incident); err != nil {
			logger.Warn("Skipping invalid incident",
				zap.String("url", incident.URL),
				zap.Error(err))
			continue
		}
		valid = append(valid, incident)
	}

	if len(valid) == 0 {
		return nil, fmt.Errorf("%w: no valid incident in payload of %d", apperrors.ErrMalformedResponse, len(raw))
	}

	logger.Info("Validated upstream payload",
		zap.Int("valid", len(valid)),
		zap.Int("dropped", len(raw)-len(valid)))
	return valid, nil
}

// ValidateThreatLevel rejects filter values outside the known set.
func (v *ValidationUtil) ValidateThreatLevel(level string) error {
	switch strings.ToLower(level) {
	case model.ThreatLow, model.ThreatMedium, model.ThreatHigh, model.ThreatCritical, model.ThreatUnknown:
		return nil
	}
	return fmt.Errorf("%w: %q", apperrors.ErrInvalidThreatLevel, level)
}

// NormalizeThreatLevel lower-cases a feed value and maps anything outside
// the known set to "unknown".
func NormalizeThreatLevel(level string) string {
	switch strings.ToLower(level) {
	case model.ThreatLow:
		return model.ThreatLow
	case model.ThreatMedium:
		return model.ThreatMedium
	case model.ThreatHigh:
		return model.ThreatHigh
	case model.ThreatCritical:
		return model.ThreatCritical
	default:
		return model.ThreatUnknown
	}
}
