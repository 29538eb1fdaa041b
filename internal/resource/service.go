package resource

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/auditlog"
	"github.com/frahmantamala/childcare-management/internal/store"
)

type RepositoryAPI interface {
	List(ctx context.Context, table string) ([]Row, error)
	// Get returns nil without error when no row matches.
	Get(ctx context.Context, table string, id int64) (Row, error)
	Insert(ctx context.Context, table string, values Values) (int64, error)
	Update(ctx context.Context, table string, id int64, values Values) (int64, error)
	Delete(ctx context.Context, table string, id int64) (int64, error)
}

type Service struct {
	repo     RepositoryAPI
	recorder auditlog.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder auditlog.Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		recorder: recorder,
		logger:   logger,
	}
}

func (s *Service) List(ctx context.Context, def Definition) ([]Row, error) {
	rows, err := s.repo.List(ctx, def.Table)
	if err != nil {
		s.logger.Error("failed to list rows", "resource", def.Name, "error", err)
		return nil, internal.NewInternalError("failed to list "+def.Name, err)
	}
	if rows == nil {
		rows = []Row{}
	}
	for _, row := range rows {
		def.Strip(row)
	}
	return rows, nil
}

func (s *Service) Get(ctx context.Context, def Definition, id int64) (Row, error) {
	row, err := s.repo.Get(ctx, def.Table, id)
	if err != nil {
		s.logger.Error("failed to get row", "resource", def.Name, "id", id, "error", err)
		return nil, internal.NewInternalError("failed to get "+def.Name, err)
	}
	if row == nil {
		return nil, internal.ErrRecordNotFound
	}
	return def.Strip(row), nil
}

// Create inserts body as one row and returns the generated id.
func (s *Service) Create(ctx context.Context, actorID int64, def Definition, body map[string]interface{}) (int64, error) {
	values, err := s.prepare(def, body)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Insert(ctx, def.Table, values)
	if store.IsUniqueViolation(err) {
		return 0, def.conflictError().WithCause(err)
	}
	if err != nil {
		s.logger.Error("failed to insert row", "resource", def.Name, "error", err)
		return 0, internal.NewInternalError("failed to create "+def.Name, err)
	}

	s.recorder.Record(ctx, auditlog.NewEntry(actorID, auditlog.ActionCreate, def.Name, id))
	s.logger.Info("row created", "resource", def.Name, "id", id, "actor_id", actorID)
	return id, nil
}

// Update applies body as a partial SET on the row with id.
func (s *Service) Update(ctx context.Context, actorID int64, def Definition, id int64, body map[string]interface{}) error {
	values, err := s.prepare(def, body)
	if err != nil {
		return err
	}

	affected, err := s.repo.Update(ctx, def.Table, id, values)
	if store.IsUniqueViolation(err) {
		return def.conflictError().WithCause(err)
	}
	if err != nil {
		s.logger.Error("failed to update row", "resource", def.Name, "id", id, "error", err)
		return internal.NewInternalError("failed to update "+def.Name, err)
	}
	if affected == 0 {
		return internal.ErrRecordNotFound
	}

	s.recorder.Record(ctx, auditlog.NewEntry(actorID, auditlog.ActionUpdate, def.Name, id))
	return nil
}

func (s *Service) Delete(ctx context.Context, actorID int64, def Definition, id int64) error {
	affected, err := s.repo.Delete(ctx, def.Table, id)
	if err != nil {
		s.logger.Error("failed to delete row", "resource", def.Name, "id", id, "error", err)
		return internal.NewInternalError("failed to delete "+def.Name, err)
	}
	if affected == 0 {
		return internal.ErrRecordNotFound
	}

	s.recorder.Record(ctx, auditlog.NewEntry(actorID, auditlog.ActionDelete, def.Name, id))
	return nil
}

func (s *Service) prepare(def Definition, body map[string]interface{}) (Values, error) {
	values, err := NormalizeValues(body)
	if err != nil {
		return nil, err
	}
	if def.Prepare != nil {
		if err := def.Prepare(values); err != nil {
			return nil, err
		}
	}
	return values, nil
}
