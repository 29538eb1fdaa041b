package permission

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/auditlog"
	permissionDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/permission"
	"github.com/frahmantamala/childcare-management/internal/store"
	"gorm.io/gorm"
)

// AuditTable is the affected_table recorded for grant replacements.
const AuditTable = "perms"

type RepositoryAPI interface {
	CountGrants(ctx context.Context, userID int64, tableName string) (int64, error)
	GrantedTableNames(ctx context.Context, userID int64) ([]string, error)
	ListTables(ctx context.Context) ([]*permissionDatamodel.Table, error)
	FindTablesByName(ctx context.Context, names []string) ([]*permissionDatamodel.Table, error)
	StaffExists(ctx context.Context, staffID int64) (bool, error)
	DeleteGrants(ctx context.Context, userID int64) (int64, error)
	InsertGrants(ctx context.Context, grants []*permissionDatamodel.Grant) error
	WithTx(tx *gorm.DB) RepositoryAPI
}

type Service struct {
	repo   RepositoryAPI
	tx     store.TxManager
	audit  auditlog.TxWriter
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, tx store.TxManager, audit auditlog.TxWriter, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		audit:  audit,
		logger: logger,
	}
}

// Check reports whether userID holds a grant on tableName. A missing identifier
// is an error distinct from a denied grant.
func (s *Service) Check(ctx context.Context, userID int64, tableName string) (bool, error) {
	if userID <= 0 || tableName == "" {
		return false, internal.ErrMissingIdentifier
	}

	count, err := s.repo.CountGrants(ctx, userID, tableName)
	if err != nil {
		s.logger.Error("permission check failed", "user_id", userID, "table", tableName, "error", err)
		return false, internal.NewInternalError("permission check failed", err)
	}
	return count > 0, nil
}

func (s *Service) Permissions(ctx context.Context, employeeID int64) ([]string, error) {
	names, err := s.repo.GrantedTableNames(ctx, employeeID)
	if err != nil {
		s.logger.Error("failed to load permissions", "employee_id", employeeID, "error", err)
		return nil, internal.NewInternalError("failed to load permissions", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *Service) Tables(ctx context.Context) ([]Table, error) {
	rows, err := s.repo.ListTables(ctx)
	if err != nil {
		s.logger.Error("failed to list resource tables", "error", err)
		return nil, internal.NewInternalError("failed to list resource tables", err)
	}

	tables := make([]Table, len(rows))
	for i, row := range rows {
		tables[i] = FromDataModel(row)
	}
	return tables, nil
}

// Replace discards every grant of the employee and inserts the new set in one
// transaction. One update_permissions entry is written regardless of overlap.
func (s *Service) Replace(ctx context.Context, actorID, employeeID int64, names []string) ([]string, error) {
	names = dedupe(names)

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		exists, err := repo.StaffExists(ctx, employeeID)
		if err != nil {
			return internal.NewInternalError("failed to load employee", err)
		}
		if !exists {
			return internal.ErrEmployeeNotFound
		}

		var tables []*permissionDatamodel.Table
		if len(names) > 0 {
			tables, err = repo.FindTablesByName(ctx, names)
			if err != nil {
				return internal.NewInternalError("failed to resolve resource tables", err)
			}
			if unknown := missingNames(names, tables); len(unknown) > 0 {
				return internal.NewValidationError(
					fmt.Sprintf("unknown resource tables: %s", strings.Join(unknown, ", ")),
					internal.ErrCodeInvalidTable,
				).WithDetails(map[string][]string{"unknown": unknown})
			}
		}

		if _, err := repo.DeleteGrants(ctx, employeeID); err != nil {
			return internal.NewInternalError("failed to delete permissions", err)
		}

		if len(tables) > 0 {
			if err := repo.InsertGrants(ctx, NewGrants(employeeID, tables)); err != nil {
				return internal.NewInternalError("failed to insert permissions", err)
			}
		}

		entry := auditlog.NewEntry(actorID, auditlog.ActionUpdatePermissions, AuditTable, employeeID)
		if err := s.audit.WithTx(tx).Write(ctx, entry); err != nil {
			return internal.NewInternalError("failed to write audit entry", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("permission replace rolled back", "employee_id", employeeID, "error", err)
		return nil, err
	}

	s.logger.Info("permissions replaced", "employee_id", employeeID, "actor_id", actorID, "count", len(names))
	sort.Strings(names)
	return names, nil
}

func missingNames(names []string, tables []*permissionDatamodel.Table) []string {
	found := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		found[t.Name] = struct{}{}
	}
	var missing []string
	for _, n := range names {
		if _, ok := found[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
