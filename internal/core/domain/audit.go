package domain

import "time"

// AuditEntry records one successful mutating request.
type AuditEntry struct {
	ID         string
	ActorID    int64 // zero for anonymous requests such as sign-up
	ActorRole  Role
	Method     string
	Path       string
	Resource   string
	Status     int
	RequestID  string
	OccurredAt time.Time
}
