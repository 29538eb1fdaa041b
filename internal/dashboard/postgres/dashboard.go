package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/childcare-management/internal/dashboard"
	"github.com/jmoiron/sqlx"
)

const (
	countsQuery = `SELECT
	(SELECT COUNT(*) FROM children) AS children,
	(SELECT COUNT(*) FROM staffs) AS staffs,
	(SELECT COUNT(*) FROM volunteers) AS volunteers,
	(SELECT COUNT(*) FROM events) AS events,
	(SELECT COUNT(*) FROM appointments WHERE appointment_date >= $1) AS upcoming_appointments`

	donationTotalQuery = `SELECT COALESCE(SUM(amount), 0) FROM donations`

	admissionsByMonthQuery = `SELECT EXTRACT(MONTH FROM admission_date)::int AS month, COUNT(*)::float8 AS total
	FROM children
	WHERE admission_date IS NOT NULL AND EXTRACT(YEAR FROM admission_date) = $1
	GROUP BY 1
	ORDER BY 1`

	donationsByMonthQuery = `SELECT EXTRACT(MONTH FROM donation_date)::int AS month, COALESCE(SUM(amount), 0)::float8 AS total
	FROM donations
	WHERE donation_date IS NOT NULL AND EXTRACT(YEAR FROM donation_date) = $1
	GROUP BY 1
	ORDER BY 1`

	childBirthDatesQuery = `SELECT id, name, date_of_birth FROM children WHERE date_of_birth IS NOT NULL ORDER BY id`

	eventsBetweenQuery = `SELECT id, title, event_date, COALESCE(location, '') AS location
	FROM events
	WHERE event_date >= $1 AND event_date < $2
	ORDER BY event_date, id`

	caseCategoryCountsQuery = `SELECT COALESCE(cc.name, 'Uncategorized') AS category, COUNT(*) AS total
	FROM children c
	LEFT JOIN case_categories cc ON cc.id = c.case_category_id
	GROUP BY 1
	ORDER BY 1`
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Counts(ctx context.Context, since time.Time) (dashboard.Counts, error) {
	var c dashboard.Counts
	err := r.db.GetContext(ctx, &c, countsQuery, since)
	return c, err
}

func (r *Repository) DonationTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total, donationTotalQuery)
	return total, err
}

func (r *Repository) AdmissionsByMonth(ctx context.Context, year int) ([]dashboard.MonthTotal, error) {
	var rows []dashboard.MonthTotal
	err := r.db.SelectContext(ctx, &rows, admissionsByMonthQuery, year)
	return rows, err
}

func (r *Repository) DonationsByMonth(ctx context.Context, year int) ([]dashboard.MonthTotal, error) {
	var rows []dashboard.MonthTotal
	err := r.db.SelectContext(ctx, &rows, donationsByMonthQuery, year)
	return rows, err
}

func (r *Repository) ChildBirthDates(ctx context.Context) ([]dashboard.ChildBirth, error) {
	var rows []dashboard.ChildBirth
	err := r.db.SelectContext(ctx, &rows, childBirthDatesQuery)
	return rows, err
}

func (r *Repository) EventsBetween(ctx context.Context, from, to time.Time) ([]dashboard.Event, error) {
	var rows []dashboard.Event
	err := r.db.SelectContext(ctx, &rows, eventsBetweenQuery, from, to)
	return rows, err
}

func (r *Repository) CaseCategoryCounts(ctx context.Context) ([]dashboard.CategoryCount, error) {
	var rows []dashboard.CategoryCount
	err := r.db.SelectContext(ctx, &rows, caseCategoryCountsQuery)
	return rows, err
}
