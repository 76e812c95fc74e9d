package domain

import "time"

// AuditAction identifies the kind of change an audit event records.
type AuditAction string

const (
	AuditUserCreated     AuditAction = "user_created"
	AuditUserUpdated     AuditAction = "user_updated"
	AuditUserDeactivated AuditAction = "user_deactivated"
	AuditLogin           AuditAction = "login"
)

// AuditEvent is an immutable record of a change to a user record or a
// successful login, written asynchronously to the audit trail.
type AuditEvent struct {
	UserID    string      // target record
	ActorID   string      // who performed the action
	Action    AuditAction
	Fields    []string // profile fields touched, empty for logins
	Timestamp time.Time
}
