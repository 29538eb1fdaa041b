package postgres

import (
	"context"
	"errors"

	permissionDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/permission"
	staffDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/staff"
	"github.com/frahmantamala/childcare-management/internal/employee"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) WithTx(tx *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: tx}
}

func (r *EmployeeRepository) List(ctx context.Context) ([]*staffDatamodel.Staff, error) {
	var staffs []*staffDatamodel.Staff
	err := r.db.WithContext(ctx).Omit("password").Order("id ASC").Find(&staffs).Error
	return staffs, err
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*staffDatamodel.Staff, error) {
	var s staffDatamodel.Staff
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// EmailTaken compares case-insensitively. excludeID skips the row being updated.
func (r *EmployeeRepository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&staffDatamodel.Staff{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *EmployeeRepository) Create(ctx context.Context, s *staffDatamodel.Staff) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *EmployeeRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&staffDatamodel.Staff{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&staffDatamodel.Staff{})
	return result.RowsAffected, result.Error
}

func (r *EmployeeRepository) DeleteGrants(ctx context.Context, staffID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", staffID).Delete(&permissionDatamodel.Grant{}).Error
}
