package inventory

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/auditlog"
	inventoryDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/childcare-management/internal/store"
	"gorm.io/gorm"
)

type RepositoryAPI interface {
	List(ctx context.Context) ([]Item, error)
	ListCategories(ctx context.Context) ([]*inventoryDatamodel.Category, error)
	// FindCategoryByName matches case-insensitively and returns nil when nothing matches.
	FindCategoryByName(ctx context.Context, name string) (*inventoryDatamodel.Category, error)
	Create(ctx context.Context, item *inventoryDatamodel.Item) error
	Update(ctx context.Context, id int64, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
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

func (s *Service) List(ctx context.Context) ([]Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list inventory", "error", err)
		return nil, internal.NewInternalError("failed to list inventory", err)
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		s.logger.Error("failed to list inventory categories", "error", err)
		return nil, internal.NewInternalError("failed to list inventory categories", err)
	}

	categories := make([]Category, len(rows))
	for i, row := range rows {
		categories[i] = CategoryFromDataModel(row)
	}
	s.logger.Debug("retrieved inventory categories", "count", len(categories))
	return categories, nil
}

func (s *Service) Create(ctx context.Context, actorID int64, dto CreateItemDTO) (int64, error) {
	if err := dto.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		categoryID, err := resolveCategory(ctx, repo, dto.Category)
		if err != nil {
			return err
		}

		item := dto.ToDataModel(categoryID)
		if err := repo.Create(ctx, item); err != nil {
			return internal.NewInternalError("failed to create inventory item", err)
		}
		id = item.ID

		return s.writeAudit(ctx, tx, auditlog.NewEntry(actorID, auditlog.ActionCreate, AuditTable, id))
	})
	if err != nil {
		s.logger.Warn("inventory create rolled back", "item_name", dto.ItemName, "error", err)
		return 0, err
	}

	s.logger.Info("inventory item created", "id", id, "actor_id", actorID)
	return id, nil
}

// Update resolves the category only when the body names one.
func (s *Service) Update(ctx context.Context, actorID, id int64, dto UpdateItemDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	fields := dto.Fields()
	if len(fields) == 0 && dto.Category == nil {
		return internal.ErrEmptyPayload
	}

	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if dto.Category != nil {
			categoryID, err := resolveCategory(ctx, repo, *dto.Category)
			if err != nil {
				return err
			}
			fields["category_id"] = categoryID
		}

		affected, err := repo.Update(ctx, id, fields)
		if err != nil {
			return internal.NewInternalError("failed to update inventory item", err)
		}
		if affected == 0 {
			return internal.ErrItemNotFound
		}

		return s.writeAudit(ctx, tx, auditlog.NewEntry(actorID, auditlog.ActionUpdate, AuditTable, id))
	})
	if err != nil {
		s.logger.Warn("inventory update rolled back", "id", id, "error", err)
		return err
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		affected, err := repo.Delete(ctx, id)
		if err != nil {
			return internal.NewInternalError("failed to delete inventory item", err)
		}
		if affected == 0 {
			return internal.ErrItemNotFound
		}

		return s.writeAudit(ctx, tx, auditlog.NewEntry(actorID, auditlog.ActionDelete, AuditTable, id))
	})
	if err != nil {
		s.logger.Warn("inventory delete rolled back", "id", id, "error", err)
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

func resolveCategory(ctx context.Context, repo RepositoryAPI, name string) (int64, error) {
	name = strings.TrimSpace(name)
	category, err := repo.FindCategoryByName(ctx, name)
	if err != nil {
		return 0, internal.NewInternalError("failed to resolve category", err)
	}
	if category == nil {
		return 0, internal.ErrInvalidCategory.WithDetails(map[string]string{"category": name})
	}
	return category.ID, nil
}
