package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/childcare-management/internal"
)

type RepositoryAPI interface {
	Counts(ctx context.Context, since time.Time) (Counts, error)
	DonationTotal(ctx context.Context) (float64, error)
	AdmissionsByMonth(ctx context.Context, year int) ([]MonthTotal, error)
	DonationsByMonth(ctx context.Context, year int) ([]MonthTotal, error)
	ChildBirthDates(ctx context.Context) ([]ChildBirth, error)
	EventsBetween(ctx context.Context, from, to time.Time) ([]Event, error)
	CaseCategoryCounts(ctx context.Context) ([]CategoryCount, error)
}

// Service answers the read-only dashboard aggregates. Any failing query aborts
// the whole aggregate.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.Counts(ctx, s.now())
	if err != nil {
		return nil, s.fail("stats", err)
	}
	total, err := s.repo.DonationTotal(ctx)
	if err != nil {
		return nil, s.fail("stats", err)
	}
	return &Stats{Counts: counts, DonationTotal: total}, nil
}

// ChartData returns twelve monthly buckets for year, defaulting to the current year.
func (s *Service) ChartData(ctx context.Context, year int) ([]ChartPoint, error) {
	if year <= 0 {
		year = s.now().Year()
	}
	admissions, err := s.repo.AdmissionsByMonth(ctx, year)
	if err != nil {
		return nil, s.fail("chart-data", err)
	}
	donations, err := s.repo.DonationsByMonth(ctx, year)
	if err != nil {
		return nil, s.fail("chart-data", err)
	}
	return MonthlySeries(admissions, donations), nil
}

func (s *Service) UpcomingBirthdays(ctx context.Context, days int) ([]Birthday, error) {
	days = clampWindow(days)
	children, err := s.repo.ChildBirthDates(ctx)
	if err != nil {
		return nil, s.fail("upcoming-birthdays", err)
	}
	return UpcomingBirthdays(children, s.now(), days), nil
}

func (s *Service) UpcomingEvents(ctx context.Context, days int) ([]Event, error) {
	days = clampWindow(days)
	from := truncateDay(s.now())
	events, err := s.repo.EventsBetween(ctx, from, from.AddDate(0, 0, days+1))
	if err != nil {
		return nil, s.fail("upcoming-events", err)
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

func (s *Service) ChildrenDistribution(ctx context.Context) (*Distribution, error) {
	children, err := s.repo.ChildBirthDates(ctx)
	if err != nil {
		return nil, s.fail("children-distribution", err)
	}
	categories, err := s.repo.CaseCategoryCounts(ctx)
	if err != nil {
		return nil, s.fail("children-distribution", err)
	}
	if categories == nil {
		categories = []CategoryCount{}
	}

	births := make([]time.Time, len(children))
	for i, c := range children {
		births[i] = c.DateOfBirth
	}
	return &Distribution{
		AgeGroups:      AgeBuckets(births, s.now()),
		CaseCategories: categories,
	}, nil
}

func (s *Service) fail(aggregate string, err error) error {
	s.logger.Error("dashboard query failed", "aggregate", aggregate, "error", err)
	return internal.NewInternalError("failed to load "+aggregate, err)
}

func clampWindow(days int) int {
	if days <= 0 {
		return DefaultWindowDays
	}
	if days > MaxWindowDays {
		return MaxWindowDays
	}
	return days
}
