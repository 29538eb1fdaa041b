package auditlog

import (
	"context"
	"log/slog"
)

// SyncRecorder writes the entry on the request goroutine. Failures are logged only.
type SyncRecorder struct {
	writer Writer
	logger *slog.Logger
}

func NewSyncRecorder(writer Writer, logger *slog.Logger) *SyncRecorder {
	return &SyncRecorder{writer: writer, logger: logger}
}

func (r *SyncRecorder) Record(ctx context.Context, entry Entry) {
	if err := r.writer.Write(context.WithoutCancel(ctx), entry); err != nil {
		entriesFailed.Inc()
		r.logger.Error("failed to write audit entry",
			"error", err,
			"user_id", entry.UserID,
			"action", entry.Action,
			"affected_table", entry.AffectedTable,
			"record_id", entry.RecordID)
		return
	}
	entriesWritten.Inc()
}
