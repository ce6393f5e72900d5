package ports

import (
	"context"

	"github.com/dars410/catalog-api/internal/core/domain"
)

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditService records a single audit entry.
type AuditService interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}

// AuditRecorder accepts entries for asynchronous recording.
type AuditRecorder interface {
	Enqueue(entry domain.AuditEntry) bool
}
