package employee

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"log/slog"
	"strings"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/auditlog"
	staffDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/staff"
	"github.com/frahmantamala/childcare-management/internal/store"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// maxAvatarBytes bounds a decoded profile picture.
const maxAvatarBytes = 2 << 20

type RepositoryAPI interface {
	List(ctx context.Context) ([]*staffDatamodel.Staff, error)
	// GetByID returns nil without error when no row matches.
	GetByID(ctx context.Context, id int64) (*staffDatamodel.Staff, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, staff *staffDatamodel.Staff) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteGrants(ctx context.Context, staffID int64) error
	WithTx(tx *gorm.DB) RepositoryAPI
}

type CreateResult struct {
	ID                int64
	TemporaryPassword string
}

type Service struct {
	repo       RepositoryAPI
	tx         store.TxManager
	audit      auditlog.TxWriter
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tx store.TxManager, audit auditlog.TxWriter, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tx:         tx,
		audit:      audit,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) List(ctx context.Context) ([]*Employee, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}

	employees := make([]*Employee, len(rows))
	for i, row := range rows {
		employees[i] = FromDataModel(row)
	}
	return employees, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get employee", "id", id, "error", err)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	if row == nil {
		return nil, internal.ErrEmployeeNotFound
	}
	return FromDataModel(row), nil
}

// Create inserts a staff row with a random temporary credential. The plain
// credential is returned once and only its hash is stored.
func (s *Service) Create(ctx context.Context, actorID int64, dto CreateEmployeeDTO) (*CreateResult, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	temporary, err := GenerateTemporaryPassword()
	if err != nil {
		return nil, internal.NewInternalError("failed to generate credential", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temporary), s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash credential", err)
	}

	staff := &staffDatamodel.Staff{
		Name:     dto.Name,
		Email:    dto.Email,
		Phone:    dto.Phone,
		Position: dto.Position,
		Password: string(hash),
	}

	err = s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		taken, err := repo.EmailTaken(ctx, staff.Email, 0)
		if err != nil {
			return internal.NewInternalError("failed to check email", err)
		}
		if taken {
			return internal.ErrDuplicateEmail
		}

		if err := repo.Create(ctx, staff); err != nil {
			if store.IsUniqueViolation(err) {
				return internal.ErrDuplicateEmail
			}
			return internal.NewInternalError("failed to create employee", err)
		}

		return s.writeAudit(ctx, tx, auditlog.NewEntry(actorID, auditlog.ActionCreate, AuditTable, staff.ID))
	})
	if err != nil {
		s.logger.Warn("employee create rolled back", "email", dto.Email, "error", err)
		return nil, err
	}

	s.logger.Info("employee created", "id", staff.ID, "actor_id", actorID)
	return &CreateResult{ID: staff.ID, TemporaryPassword: temporary}, nil
}

func (s *Service) Update(ctx context.Context, actorID, id int64, dto UpdateEmployeeDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	fields := dto.Fields()
	if len(fields) == 0 {
		return internal.ErrEmptyPayload
	}

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if email, ok := fields["email"].(string); ok {
			taken, err := repo.EmailTaken(ctx, email, id)
			if err != nil {
				return internal.NewInternalError("failed to check email", err)
			}
			if taken {
				return internal.ErrDuplicateEmail
			}
		}

		affected, err := repo.Update(ctx, id, fields)
		if err != nil {
			if store.IsUniqueViolation(err) {
				return internal.ErrDuplicateEmail
			}
			return internal.NewInternalError("failed to update employee", err)
		}
		if affected == 0 {
			return internal.ErrEmployeeNotFound
		}

		return s.writeAudit(ctx, tx, auditlog.NewEntry(actorID, auditlog.ActionUpdate, AuditTable, id))
	})
	if err != nil {
		s.logger.Warn("employee update rolled back", "id", id, "error", err)
		return err
	}
	return nil
}

// Delete removes the employee's grants before the staff row.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.DeleteGrants(ctx, id); err != nil {
			return internal.NewInternalError("failed to delete employee permissions", err)
		}

		affected, err := repo.Delete(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to delete employee", err)
		}
		if affected == 0 {
			return internal.ErrEmployeeNotFound
		}

		return s.writeAudit(ctx, tx, auditlog.NewEntry(actorID, auditlog.ActionDelete, AuditTable, id))
	})
	if err != nil {
		s.logger.Warn("employee delete rolled back", "id", id, "error", err)
		return err
	}
	return nil
}

// UpdateProfile lets a staff member change their own name, email, avatar and password.
func (s *Service) UpdateProfile(ctx context.Context, actorID, id int64, dto UpdateProfileDTO) error {
	if actorID != id {
		return internal.ErrAccessDenied
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if dto.Name != nil {
		fields["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Email != nil {
		fields["email"] = strings.TrimSpace(*dto.Email)
	}
	if dto.Avatar != nil {
		avatar, err := DecodeAvatar(*dto.Avatar)
		if err != nil {
			return err
		}
		fields["avatar"] = avatar
	}

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to load profile", err)
		}
		if current == nil {
			return internal.ErrEmployeeNotFound
		}

		if dto.NewPassword != "" {
			if bcrypt.CompareHashAndPassword([]byte(current.Password), []byte(dto.CurrentPassword)) != nil {
				return internal.NewValidationFieldError("currentPassword", "current password is incorrect", internal.ErrCodeInvalidCredentials)
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
			if err != nil {
				return internal.NewInternalError("failed to hash password", err)
			}
			fields["password"] = string(hash)
		}

		if len(fields) == 0 {
			return internal.ErrEmptyPayload
		}

		if email, ok := fields["email"].(string); ok {
			taken, err := repo.EmailTaken(ctx, email, id)
			if err != nil {
				return internal.NewInternalError("failed to check email", err)
			}
			if taken {
				return internal.ErrDuplicateEmail
			}
		}

		if _, err := repo.Update(ctx, id, fields); err != nil {
			if store.IsUniqueViolation(err) {
				return internal.ErrDuplicateEmail
			}
			return internal.NewInternalError("failed to update profile", err)
		}

		return s.writeAudit(ctx, tx, auditlog.NewEntry(actorID, auditlog.ActionUpdate, AuditTable, id))
	})
	if err != nil {
		s.logger.Warn("profile update rolled back", "id", id, "error", err)
		return err
	}
	return nil
}

func (s *Service) writeAudit(ctx context.Context, tx *gorm.DB, entry auditlog.Entry) error {
	if err := s.audit.WithTx(tx).Write(ctx, entry); err != nil {
		return internal.NewInternalError("failed to write audit entry", err)
	}
	return nil
}

// GenerateTemporaryPassword returns 32 hex characters from crypto/rand.
func GenerateTemporaryPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// DecodeAvatar accepts raw base64 or a data URL. An empty string clears the avatar.
func DecodeAvatar(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}
	if i := strings.Index(encoded, ","); strings.HasPrefix(encoded, "data:") && i >= 0 {
		encoded = encoded[i+1:]
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, internal.NewValidationFieldError("avatar", "avatar must be base64 encoded", internal.ErrCodeInvalidBody)
	}
	if len(data) > maxAvatarBytes {
		return nil, internal.NewValidationFieldError("avatar", "avatar exceeds 2 MiB", internal.ErrCodeInvalidBody)
	}
	return data, nil
}
