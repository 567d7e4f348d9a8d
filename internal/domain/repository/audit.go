package repository

import (
	"context"

	"github.com/orderdesk/orderdesk/internal/domain/model"
)

// AuditRepository appends and reads the immutable audit trail.
type AuditRepository interface {
	Append(ctx context.Context, entry model.AuditEntry) error
	ListByTarget(ctx context.Context, targetType string, targetID int64) ([]model.AuditEntry, error)
}
