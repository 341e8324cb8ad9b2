package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

func TestErrorReport(t *testing.T) {
	r := model.ErrorReport("openai", errors.New("connection refused"))

	assert.Equal(t, "openai", r.Provider)
	assert.Equal(t, model.StatusError, r.Status)
	assert.Equal(t, "connection refused", r.ErrorDetail)
	assert.Equal(t, model.UnknownCount, r.Remaining)
	assert.Equal(t, model.UnknownCount, r.Limit)
	assert.False(t, r.CheckedAt.IsZero())
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, model.LevelWarning, model.LevelFor(80))
	assert.Equal(t, model.LevelWarning, model.LevelFor(89.9))
	assert.Equal(t, model.LevelCritical, model.LevelFor(90))
	assert.Equal(t, model.LevelCritical, model.LevelFor(100))
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "42", model.FormatCount(42))
	assert.Equal(t, "unknown", model.FormatCount(model.UnknownCount))
}

func TestNewAlertEvent(t *testing.T) {
	firedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	report := model.UsageReport{
		Provider:     "github",
		UsagePercent: 92.5,
		Remaining:    375,
		Limit:        5000,
		Status:       model.StatusOK,
	}

	event := model.NewAlertEvent("github-prod", report, firedAt)

	assert.Equal(t, "github-prod", event.Checker)
	assert.Equal(t, model.LevelCritical, event.Level)
	assert.Equal(t, 92.5, event.UsagePercent)
	assert.Contains(t, event.Title, "github-prod")
	assert.Contains(t, event.Message, "92.5%")
	assert.Contains(t, event.Message, "Remaining: 375")
	assert.Contains(t, event.Message, "2025-06-01 12:00:00")
	assert.Equal(t, firedAt, event.FiredAt)
}

func TestNewAlertEvent_UnknownCounts(t *testing.T) {
	report := model.UsageReport{
		Provider:     "custom",
		UsagePercent: 85,
		Remaining:    model.UnknownCount,
		Limit:        model.UnknownCount,
		Status:       model.StatusOK,
	}

	event := model.NewAlertEvent("custom", report, time.Now())

	assert.Equal(t, model.LevelWarning, event.Level)
	assert.Contains(t, event.Message, "Remaining: unknown")
}
