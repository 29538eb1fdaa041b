// Package auditlog records who changed which row. Single-statement mutations
// go through a Recorder and never block or fail the request. Transactional
// handlers write through a TxWriter so the entry commits with the change.
package auditlog

import (
	"context"
	"time"

	auditDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/auditlog"
	"gorm.io/gorm"
)

type Action string

const (
	ActionCreate            Action = "create"
	ActionUpdate            Action = "update"
	ActionDelete            Action = "delete"
	ActionUpdatePermissions Action = "update_permissions"
)

func (a Action) Valid() bool {
	switch a {
	case ActionCreate, ActionUpdate, ActionDelete, ActionUpdatePermissions:
		return true
	}
	return false
}

type Entry struct {
	UserID        int64
	Action        Action
	AffectedTable string
	RecordID      int64
	CreatedAt     time.Time
}

func NewEntry(userID int64, action Action, table string, recordID int64) Entry {
	return Entry{
		UserID:        userID,
		Action:        action,
		AffectedTable: table,
		RecordID:      recordID,
		CreatedAt:     time.Now().UTC(),
	}
}

// Writer persists a single entry.
type Writer interface {
	Write(ctx context.Context, entry Entry) error
}

// TxWriter binds a Writer to an open transaction.
type TxWriter interface {
	WithTx(tx *gorm.DB) Writer
}

// Recorder is the best-effort path: failures are logged, never returned.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type Filter struct {
	UserID int64
	Action Action
	Table  string
	Limit  int
	Offset int
}

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Normalize clamps paging to sane bounds.
func (f Filter) Normalize() Filter {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// LogRecord is a stored entry joined with the acting staff name.
type LogRecord struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	UserName      string    `json:"user_name"`
	Action        string    `json:"action"`
	AffectedTable string    `json:"affected_table"`
	RecordID      int64     `json:"record_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func ToDataModel(e Entry) *auditDatamodel.Log {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return &auditDatamodel.Log{
		UserID:        e.UserID,
		Action:        string(e.Action),
		AffectedTable: e.AffectedTable,
		RecordID:      e.RecordID,
		CreatedAt:     createdAt,
	}
}
