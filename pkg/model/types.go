package model

import (
	"fmt"
	"strconv"
	"time"
)

// Status indicates whether a rate-limit check produced usable data.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Level indicates the severity of an alert.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// UnknownCount marks a remaining/limit value the provider did not report.
const UnknownCount int64 = -1

// UsageReport is an immutable snapshot of a single rate-limit check.
//
// UsagePercent is only meaningful when Status is StatusOK; checkers that
// cannot compute a valid percentage must return StatusError rather than
// a fabricated zero.
type UsageReport struct {
	Provider     string    `json:"provider" yaml:"provider"`
	UsagePercent float64   `json:"usage_percent" yaml:"usage_percent"`
	Remaining    int64     `json:"remaining" yaml:"remaining"`
	Limit        int64     `json:"limit" yaml:"limit"`
	ResetTime    string    `json:"reset_time,omitempty" yaml:"reset_time,omitempty"`
	Status       Status    `json:"status" yaml:"status"`
	ErrorDetail  string    `json:"error_detail,omitempty" yaml:"error_detail,omitempty"`
	CheckedAt    time.Time `json:"checked_at" yaml:"checked_at"`
}

// ErrorReport builds a StatusError report for the given provider.
func ErrorReport(provider string, err error) UsageReport {
	return UsageReport{
		Provider:    provider,
		Remaining:   UnknownCount,
		Limit:       UnknownCount,
		Status:      StatusError,
		ErrorDetail: err.Error(),
		CheckedAt:   time.Now().UTC(),
	}
}

// LevelFor returns the alert severity for a usage percentage that has
// crossed its threshold.
func LevelFor(usagePercent float64) Level {
	if usagePercent >= 90 {
		return LevelCritical
	}
	return LevelWarning
}

// FormatCount renders a remaining/limit value, mapping UnknownCount to a
// placeholder.
func FormatCount(n int64) string {
	if n == UnknownCount {
		return "unknown"
	}
	return strconv.FormatInt(n, 10)
}

// AlertEvent is a fired threshold alert, delivered to every notification
// channel and recorded in the alert history.
type AlertEvent struct {
	ID           string    `json:"id" yaml:"id"`
	Checker      string    `json:"checker" yaml:"checker"`
	Title        string    `json:"title" yaml:"title"`
	Message      string    `json:"message" yaml:"message"`
	Level        Level     `json:"level" yaml:"level"`
	UsagePercent float64   `json:"usage_percent" yaml:"usage_percent"`
	Remaining    int64     `json:"remaining" yaml:"remaining"`
	Limit        int64     `json:"limit" yaml:"limit"`
	FiredAt      time.Time `json:"fired_at" yaml:"fired_at"`
}

// NewAlertEvent builds the alert for a threshold crossing.
func NewAlertEvent(checker string, report UsageReport, firedAt time.Time) AlertEvent {
	message := fmt.Sprintf("API: %s\nUsage: %.1f%%\nRemaining: %s\nLimit: %s\n\nTime: %s",
		checker,
		report.UsagePercent,
		FormatCount(report.Remaining),
		FormatCount(report.Limit),
		firedAt.Format("2006-01-02 15:04:05"),
	)

	return AlertEvent{
		Checker:      checker,
		Title:        fmt.Sprintf("API rate limit warning - %s", checker),
		Message:      message,
		Level:        LevelFor(report.UsagePercent),
		UsagePercent: report.UsagePercent,
		Remaining:    report.Remaining,
		Limit:        report.Limit,
		FiredAt:      firedAt,
	}
}
