package postgres

import (
	"context"

	"github.com/frahmantamala/childcare-management/internal/auditlog"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) auditlog.Writer {
	return &Repository{db: tx}
}

func (r *Repository) Write(ctx context.Context, entry auditlog.Entry) error {
	return r.db.WithContext(ctx).Create(auditlog.ToDataModel(entry)).Error
}

func (r *Repository) List(ctx context.Context, filter auditlog.Filter) ([]auditlog.LogRecord, error) {
	query := r.db.WithContext(ctx).
		Table("logs AS l").
		Select("l.id, l.user_id, COALESCE(s.name, '') AS user_name, l.action, l.affected_table, l.record_id, l.created_at").
		Joins("LEFT JOIN staffs s ON s.id = l.user_id")

	if filter.UserID > 0 {
		query = query.Where("l.user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("l.action = ?", string(filter.Action))
	}
	if filter.Table != "" {
		query = query.Where("l.affected_table = ?", filter.Table)
	}

	var records []auditlog.LogRecord
	err := query.
		Order("l.created_at DESC").
		Order("l.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Scan(&records).Error
	return records, err
}
