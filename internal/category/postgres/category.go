package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/childcare-management/internal/category"
	categoryDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/category"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) category.RepositoryAPI {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context, table string) ([]*categoryDatamodel.Lookup, error) {
	var rows []*categoryDatamodel.Lookup
	err := r.db.WithContext(ctx).Table(table).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *CategoryRepository) FindByName(ctx context.Context, table, name string) (*categoryDatamodel.Lookup, error) {
	var row categoryDatamodel.Lookup
	err := r.db.WithContext(ctx).Table(table).Where("name = ?", name).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *CategoryRepository) Ensure(ctx context.Context, table string, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	rows := make([]categoryDatamodel.Lookup, len(names))
	for i, n := range names {
		rows[i] = categoryDatamodel.Lookup{Name: n}
	}
	result := r.db.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows)
	return result.RowsAffected, result.Error
}
