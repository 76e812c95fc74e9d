package ports

import (
	"context"
	"time"

	"github.com/peopleops/hrms-api/internal/core/domain"
)

// AuditEventInput is the DTO handed from services to the audit dispatcher.
type AuditEventInput struct {
	UserID    string
	ActorID   string
	Action    domain.AuditAction
	Fields    []string
	Timestamp time.Time
}

// AuditService processes a single audit event.
type AuditService interface {
	Process(ctx context.Context, event AuditEventInput) error
}

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditRecorder is the write side exposed to the user and auth services.
// The queue-backed implementation is asynchronous and never fails the
// originating request.
type AuditRecorder interface {
	Record(event AuditEventInput)
}
