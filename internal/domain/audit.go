package domain

import "time"

// AuditAction names a user-management or authentication action.
type AuditAction string

const (
	AuditUserCreated     AuditAction = "user_created"
	AuditUserUpdated     AuditAction = "user_updated"
	AuditUserDeleted     AuditAction = "user_deleted"
	AuditRoleAssigned    AuditAction = "role_assigned"
	AuditPasswordChanged AuditAction = "password_changed"
	AuditLogin           AuditAction = "login"
	AuditLogout          AuditAction = "logout"
)

// AuditEntry is an immutable record of who did what to which user.
type AuditEntry struct {
	ID        string
	Action    AuditAction
	ActorID   string
	TargetID  string
	Details   map[string]any
	CreatedAt time.Time
}
