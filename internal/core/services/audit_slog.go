package services

import (
	"context"
	"log/slog"

	"github.com/openclerk/ledger/internal/core/domain"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
)

// slogAuditSink emits audit records as structured log events. Durable audit
// storage is owned by whatever log pipeline consumes the process output; the
// engine's contract is only that a record is emitted per state transition.
type slogAuditSink struct {
	logger *slog.Logger
}

// NewSlogAuditSink creates an audit sink backed by the given logger.
func NewSlogAuditSink(logger *slog.Logger) portssvc.AuditSink {
	return &slogAuditSink{logger: logger}
}

var _ portssvc.AuditSink = (*slogAuditSink)(nil)

func (s *slogAuditSink) Record(ctx context.Context, rec domain.AuditRecord) {
	attrs := make([]any, 0, 3+len(rec.Metadata))
	attrs = append(attrs,
		slog.String("action", rec.Action),
		slog.String("target_type", rec.TargetType),
		slog.String("target_id", rec.TargetID),
	)
	for k, v := range rec.Metadata {
		attrs = append(attrs, slog.String(k, v))
	}
	s.logger.InfoContext(ctx, "audit", attrs...)
}
