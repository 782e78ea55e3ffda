package services

import (
	"context"

	"github.com/openclerk/ledger/internal/core/domain"
)

// AuditSink receives structured audit records emitted by the posting engine.
// The engine only triggers emission; storage belongs to the sink owner.
type AuditSink interface {
	Record(ctx context.Context, rec domain.AuditRecord)
}
