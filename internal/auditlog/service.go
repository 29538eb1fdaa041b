package auditlog

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/childcare-management/internal"
)

type RepositoryAPI interface {
	List(ctx context.Context, filter Filter) ([]LogRecord, error)
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

func (s *Service) List(ctx context.Context, filter Filter) ([]LogRecord, error) {
	if filter.Action != "" && !filter.Action.Valid() {
		return nil, internal.NewValidationFieldError("action", "unknown action", internal.ErrCodeValidationFailed)
	}

	records, err := s.repo.List(ctx, filter.Normalize())
	if err != nil {
		s.logger.Error("failed to list audit logs", "error", err)
		return nil, internal.NewInternalError("failed to list audit logs", err)
	}
	if records == nil {
		records = []LogRecord{}
	}
	return records, nil
}

// Export renders the filtered logs as an xlsx workbook.
func (s *Service) Export(ctx context.Context, filter Filter) ([]byte, error) {
	if filter.Limit <= 0 {
		filter.Limit = MaxLimit
	}
	records, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := BuildWorkbook(records)
	if err != nil {
		s.logger.Error("failed to build audit workbook", "error", err)
		return nil, internal.NewInternalError("failed to export audit logs", err)
	}
	return data, nil
}
