package storage

import (
	"context"

	"github.com/yapay-ai/api-rate-guardian/pkg/model"
)

// AlertFilter narrows alert history queries.
type AlertFilter struct {
	Checker string
	Level   model.Level
	Limit   int
}

// Store persists the alert history. It records only fired alerts, not
// per-tick usage samples.
type Store interface {
	// RecordAlert persists one fired alert, assigning an ID if unset.
	RecordAlert(ctx context.Context, event *model.AlertEvent) error

	// ListAlerts returns fired alerts matching the filter, newest first.
	ListAlerts(ctx context.Context, filter AlertFilter) ([]model.AlertEvent, error)

	// Close releases resources.
	Close() error
}
