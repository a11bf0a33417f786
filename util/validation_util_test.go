// util/validation_util_test.go
package util_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/phishnheat/backend/errors"
	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/model"
	"github.com/phishnheat/backend/util"
)

func TestMain(m *testing.M) {
	dir, _ := os.MkdirTemp("", "util-test-logs")
	logger.InitLogger(dir)
	code := m.Run()
	logger.Sync()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestValidateIncidentsRejectsEmptyPayload(t *testing.T) {
	v := util.NewValidationUtil()

	_, err := v.ValidateIncidents(nil)
	assert.ErrorIs(t, err, apperrors.ErrMalformedResponse)
}

func TestValidateIncidentsDropsInvalidRecords(t *testing.T) {
	v := util.NewValidationUtil()

	raw := []model.PhishingIncident{
		{URL: "http://good.example", ThreatLevel: "high", Latitude: 10, Longitude: 20},
		{URL: "", ThreatLevel: "low"}, // missing URL
		{URL: "http://bad-coords.example", ThreatLevel: "low", Latitude: 200},
	}

	valid, err := v.ValidateIncidents(raw)
	require.NoError(t, err)
	require.Len(t, valid, 1)
	assert.Equal(t, "http://good.example", valid[0].URL)
}

func TestValidateIncidentsRejectsAllInvalidPayload(t *testing.T) {
	v := util.NewValidationUtil()

	raw := []model.PhishingIncident{
		{URL: ""},
		{URL: "", ThreatLevel: "low"},
	}

	_, err := v.ValidateIncidents(raw)
	assert.ErrorIs(t, err, apperrors.ErrMalformedResponse)
}

func TestValidateIncidentsNormalizesThreatLevels(t *testing.T) {
	v := util.NewValidationUtil()

	raw := []model.PhishingIncident{
		{URL: "http://a.example", ThreatLevel: "HIGH"},
		{URL: "http://b.example", ThreatLevel: "weird"},
		{URL: "http://c.example"},
	}

	valid, err := v.ValidateIncidents(raw)
	require.NoError(t, err)
	require.Len(t, valid, 3)
	assert.Equal(t, model.ThreatHigh, valid[0].ThreatLevel)
	assert.Equal(t, model.ThreatUnknown, valid[1].ThreatLevel)
	assert.Equal(t, model.ThreatUnknown, valid[2].ThreatLevel)
}

func TestValidateThreatLevel(t *testing.T) {
	v := util.NewValidationUtil()

	assert.NoError(t, v.ValidateThreatLevel("critical"))
	assert.NoError(t, v.ValidateThreatLevel("LOW"))
	assert.ErrorIs(t, v.ValidateThreatLevel("apocalyptic"), apperrors.ErrInvalidThreatLevel)
}
