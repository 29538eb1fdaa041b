package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/childcare-management/internal/resource"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) List(ctx context.Context, table string) ([]resource.Row, error) {
	var rows []map[string]interface{}
	if err := r.db.WithContext(ctx).Table(table).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]resource.Row, len(rows))
	for i, row := range rows {
		out[i] = resource.Row(row)
	}
	return out, nil
}

func (r *Repository) Get(ctx context.Context, table string, id int64) (resource.Row, error) {
	row := map[string]interface{}{}
	err := r.db.WithContext(ctx).Table(table).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return resource.Row(row), nil
}

// Insert writes one row and reads the generated id back with RETURNING.
func (r *Repository) Insert(ctx context.Context, table string, values resource.Values) (int64, error) {
	columns := values.Columns()

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	if err := r.quote(&sb, table); err != nil {
		return 0, err
	}
	sb.WriteString(" (")
	args := make([]interface{}, 0, len(columns))
	for i, col := range columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		if err := r.quote(&sb, col); err != nil {
			return 0, err
		}
		args = append(args, values[col])
	}
	sb.WriteString(") VALUES (")
	sb.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "))
	sb.WriteString(") RETURNING id")

	var id int64
	if err := r.db.WithContext(ctx).Raw(sb.String(), args...).Row().Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) Update(ctx context.Context, table string, id int64, values resource.Values) (int64, error) {
	if !resource.IsIdentifier(table) {
		return 0, fmt.Errorf("invalid table name %q", table)
	}
	result := r.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(map[string]interface{}(values))
	return result.RowsAffected, result.Error
}

func (r *Repository) Delete(ctx context.Context, table string, id int64) (int64, error) {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	if err := r.quote(&sb, table); err != nil {
		return 0, err
	}
	sb.WriteString(" WHERE id = ?")

	result := r.db.WithContext(ctx).Exec(sb.String(), id)
	return result.RowsAffected, result.Error
}

func (r *Repository) quote(sb *strings.Builder, name string) error {
	if !resource.IsIdentifier(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	r.db.Dialector.QuoteTo(sb, name)
	return nil
}
