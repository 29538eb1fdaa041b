package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/childcare-management/internal"
	categoryDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	List(ctx context.Context, table string) ([]*categoryDatamodel.Lookup, error)
	// FindByName returns nil without error when no row matches.
	FindByName(ctx context.Context, table, name string) (*categoryDatamodel.Lookup, error)
	// Ensure inserts the missing names and reports how many were new.
	Ensure(ctx context.Context, table string, names []string) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, kind Kind) ([]Category, error) {
	if !kind.Valid() {
		return nil, internal.ErrResourceNotFound
	}

	rows, err := s.repo.List(ctx, kind.Table())
	if err != nil {
		s.logger.Error("failed to list catalog", "kind", kind, "error", err)
		return nil, internal.NewInternalError(fmt.Sprintf("failed to list %s", kind), err)
	}

	categories := make([]Category, len(rows))
	for i, row := range rows {
		categories[i] = FromDataModel(row)
	}
	s.logger.Debug("retrieved catalog", "kind", kind, "count", len(categories))
	return categories, nil
}

// Lookup finds a catalog entry by exact name. It returns nil when none matches.
func (s *Service) Lookup(ctx context.Context, kind Kind, name string) (*Category, error) {
	if !kind.Valid() {
		return nil, internal.ErrResourceNotFound
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	row, err := s.repo.FindByName(ctx, kind.Table(), name)
	if err != nil {
		s.logger.Warn("error checking catalog entry", "kind", kind, "name", name, "error", err)
		return nil, internal.NewInternalError(fmt.Sprintf("failed to look up %s", kind), err)
	}
	if row == nil {
		return nil, nil
	}
	c := FromDataModel(row)
	return &c, nil
}

// Seed writes the default names of every catalog. Existing names are kept.
func (s *Service) Seed(ctx context.Context) error {
	for _, kind := range []Kind{CaseCategories, EducationLevels} {
		inserted, err := s.repo.Ensure(ctx, kind.Table(), Defaults[kind])
		if err != nil {
			return fmt.Errorf("failed to seed %s: %w", kind, err)
		}
		s.logger.Info("seeded catalog", "kind", kind, "inserted", inserted)
	}
	return nil
}
