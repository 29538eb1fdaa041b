package auth

import (
	"context"
	"errors"

	"github.com/frahmantamala/childcare-management/internal/auth"
	staffDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/staff"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var s staffDatamodel.Staff
	err := r.db.WithContext(ctx).
		Select("id", "name", "email", "password").
		Where("email = ?", email).
		Take(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &auth.Credentials{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		PasswordHash: s.Password,
	}, nil
}

func (r *Repository) GrantedTableNames(ctx context.Context, userID int64) ([]string, error) {
	query := `SELECT t.name
	          FROM perms p
	          JOIN tables t ON t.id = p.table_id
	          WHERE p.user_id = ?
	          ORDER BY t.name`

	rows, err := r.db.WithContext(ctx).Raw(query, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
