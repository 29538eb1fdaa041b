package postgres

import (
	"context"

	permissionDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/permission"
	staffDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/staff"
	"github.com/frahmantamala/childcare-management/internal/permission"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) permission.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) permission.RepositoryAPI {
	return &Repository{db: tx}
}

func (r *Repository) CountGrants(ctx context.Context, userID int64, tableName string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("perms AS p").
		Joins("JOIN tables t ON t.id = p.table_id").
		Where("p.user_id = ? AND t.name = ?", userID, tableName).
		Count(&count).Error
	return count, err
}

func (r *Repository) GrantedTableNames(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("perms AS p").
		Joins("JOIN tables t ON t.id = p.table_id").
		Where("p.user_id = ?", userID).
		Order("t.name").
		Pluck("t.name", &names).Error
	return names, err
}

func (r *Repository) ListTables(ctx context.Context) ([]*permissionDatamodel.Table, error) {
	var tables []*permissionDatamodel.Table
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tables).Error
	return tables, err
}

func (r *Repository) FindTablesByName(ctx context.Context, names []string) ([]*permissionDatamodel.Table, error) {
	var tables []*permissionDatamodel.Table
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&tables).Error
	return tables, err
}

func (r *Repository) StaffExists(ctx context.Context, staffID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&staffDatamodel.Staff{}).Where("id = ?", staffID).Count(&count).Error
	return count > 0, err
}

func (r *Repository) DeleteGrants(ctx context.Context, userID int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&permissionDatamodel.Grant{})
	return result.RowsAffected, result.Error
}

func (r *Repository) InsertGrants(ctx context.Context, grants []*permissionDatamodel.Grant) error {
	if len(grants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&grants).Error
}
