package dashboard

import (
	"sort"
	"time"
)

// DefaultWindowDays bounds the upcoming-birthday and upcoming-event lookahead.
const (
	DefaultWindowDays = 30
	MaxWindowDays     = 366
)

type Counts struct {
	Children             int64 `db:"children" json:"children"`
	Staffs               int64 `db:"staffs" json:"staffs"`
	Volunteers           int64 `db:"volunteers" json:"volunteers"`
	Events               int64 `db:"events" json:"events"`
	UpcomingAppointments int64 `db:"upcoming_appointments" json:"upcomingAppointments"`
}

type Stats struct {
	Counts
	DonationTotal float64 `json:"donationTotal"`
}

// MonthTotal is one month of an aggregate. Month is 1-12.
type MonthTotal struct {
	Month int     `db:"month"`
	Total float64 `db:"total"`
}

type ChartPoint struct {
	Month      string  `json:"month"`
	Admissions int64   `json:"admissions"`
	Donations  float64 `json:"donations"`
}

type ChildBirth struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	DateOfBirth time.Time `db:"date_of_birth"`
}

type Birthday struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DateOfBirth  string `json:"dateOfBirth"`
	NextBirthday string `json:"nextBirthday"`
	TurningAge   int    `json:"turningAge"`
	DaysUntil    int    `json:"daysUntil"`
}

type Event struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	EventDate time.Time `db:"event_date" json:"eventDate"`
	Location  string    `db:"location" json:"location,omitempty"`
}

type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Total    int64  `db:"total" json:"total"`
}

type Bucket struct {
	Label string `json:"label"`
	Total int64  `json:"total"`
}

type Distribution struct {
	AgeGroups      []Bucket        `json:"ageGroups"`
	CaseCategories []CategoryCount `json:"caseCategories"`
}

type ageGroup struct {
	label    string
	min, max int
}

var ageGroups = []ageGroup{
	{"0-2", 0, 2},
	{"3-5", 3, 5},
	{"6-9", 6, 9},
	{"10-12", 10, 12},
	{"13-17", 13, 17},
	{"18+", 18, -1},
}

// AgeOn returns the completed years between dob and day.
func AgeOn(dob, day time.Time) int {
	years := day.Year() - dob.Year()
	if day.Month() < dob.Month() || (day.Month() == dob.Month() && day.Day() < dob.Day()) {
		years--
	}
	return years
}

// NextBirthday returns the first anniversary of dob on or after today.
// A 29 February birthday falls on 1 March in common years.
func NextBirthday(dob, today time.Time) time.Time {
	today = truncateDay(today)
	next := time.Date(today.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, today.Location())
	if next.Before(today) {
		next = time.Date(today.Year()+1, dob.Month(), dob.Day(), 0, 0, 0, 0, today.Location())
	}
	return next
}

// AgeBuckets counts births per age group on today. Future dates of birth are ignored.
func AgeBuckets(births []time.Time, today time.Time) []Bucket {
	buckets := make([]Bucket, len(ageGroups))
	for i, g := range ageGroups {
		buckets[i].Label = g.label
	}
	for _, dob := range births {
		age := AgeOn(dob, today)
		if age < 0 {
			continue
		}
		for i, g := range ageGroups {
			if age >= g.min && (g.max < 0 || age <= g.max) {
				buckets[i].Total++
				break
			}
		}
	}
	return buckets
}

// UpcomingBirthdays keeps the children whose next birthday is within days of today,
// soonest first.
func UpcomingBirthdays(children []ChildBirth, today time.Time, days int) []Birthday {
	today = truncateDay(today)
	out := make([]Birthday, 0)
	for _, c := range children {
		next := NextBirthday(c.DateOfBirth, today)
		until := int(next.Sub(today).Hours() / 24)
		if until > days {
			continue
		}
		out = append(out, Birthday{
			ID:           c.ID,
			Name:         c.Name,
			DateOfBirth:  c.DateOfBirth.Format("2006-01-02"),
			NextBirthday: next.Format("2006-01-02"),
			TurningAge:   next.Year() - c.DateOfBirth.Year(),
			DaysUntil:    until,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysUntil != out[j].DaysUntil {
			return out[i].DaysUntil < out[j].DaysUntil
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// MonthlySeries merges per-month admissions and donations into twelve points.
func MonthlySeries(admissions, donations []MonthTotal) []ChartPoint {
	points := make([]ChartPoint, 12)
	for i := range points {
		points[i].Month = time.Month(i + 1).String()[:3]
	}
	for _, a := range admissions {
		if a.Month >= 1 && a.Month <= 12 {
			points[a.Month-1].Admissions = int64(a.Total)
		}
	}
	for _, d := range donations {
		if d.Month >= 1 && d.Month <= 12 {
			points[d.Month-1].Donations = d.Total
		}
	}
	return points
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
