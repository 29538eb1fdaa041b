package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/testutil"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestDashboard(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Dashboard Suite")
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type stubRepository struct {
	counts     Counts
	total      float64
	admissions []MonthTotal
	donations  []MonthTotal
	children   []ChildBirth
	events     []Event
	categories []CategoryCount
	err        error
	failOn     string

	eventsFrom, eventsTo time.Time
	year                 int
}

func (s *stubRepository) fail(op string) error {
	if s.failOn == op {
		return s.err
	}
	return nil
}

func (s *stubRepository) Counts(ctx context.Context, since time.Time) (Counts, error) {
	return s.counts, s.fail("counts")
}

func (s *stubRepository) DonationTotal(ctx context.Context) (float64, error) {
	return s.total, s.fail("donations")
}

func (s *stubRepository) AdmissionsByMonth(ctx context.Context, year int) ([]MonthTotal, error) {
	s.year = year
	return s.admissions, s.fail("admissions")
}

func (s *stubRepository) DonationsByMonth(ctx context.Context, year int) ([]MonthTotal, error) {
	return s.donations, s.fail("monthly-donations")
}

func (s *stubRepository) ChildBirthDates(ctx context.Context) ([]ChildBirth, error) {
	return s.children, s.fail("children")
}

func (s *stubRepository) EventsBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	s.eventsFrom, s.eventsTo = from, to
	return s.events, s.fail("events")
}

func (s *stubRepository) CaseCategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	return s.categories, s.fail("categories")
}

var _ = ginkgo.Describe("Dashboard aggregates", func() {
	ginkgo.Describe("AgeOn", func() {
		ginkgo.It("should count completed years only", func() {
			gomega.Expect(AgeOn(date(2020, 6, 15), date(2025, 6, 14))).To(gomega.Equal(4))
			gomega.Expect(AgeOn(date(2020, 6, 15), date(2025, 6, 15))).To(gomega.Equal(5))
		})
	})

	ginkgo.Describe("NextBirthday", func() {
		ginkgo.It("should return today when the birthday is today", func() {
			gomega.Expect(NextBirthday(date(2019, 3, 10), date(2025, 3, 10))).To(gomega.Equal(date(2025, 3, 10)))
		})

		ginkgo.It("should roll over to next year once passed", func() {
			gomega.Expect(NextBirthday(date(2019, 1, 2), date(2025, 3, 10))).To(gomega.Equal(date(2026, 1, 2)))
		})

		ginkgo.It("should move a leap day birthday to 1 March in common years", func() {
			gomega.Expect(NextBirthday(date(2020, 2, 29), date(2025, 2, 1))).To(gomega.Equal(date(2025, 3, 1)))
		})
	})

	ginkgo.Describe("AgeBuckets", func() {
		ginkgo.It("should place every child in exactly one group", func() {
			today := date(2025, 1, 1)
			births := []time.Time{
				date(2024, 6, 1), // 0
				date(2022, 1, 1), // 3
				date(2019, 1, 2), // 5
				date(2016, 1, 1), // 9
				date(2013, 1, 1), // 12
				date(2010, 1, 1), // 15
				date(2000, 1, 1), // 25
				date(2026, 1, 1), // future, ignored
			}

			buckets := AgeBuckets(births, today)

			gomega.Expect(buckets).To(gomega.Equal([]Bucket{
				{Label: "0-2", Total: 1},
				{Label: "3-5", Total: 2},
				{Label: "6-9", Total: 1},
				{Label: "10-12", Total: 1},
				{Label: "13-17", Total: 1},
				{Label: "18+", Total: 1},
			}))
		})
	})

	ginkgo.Describe("UpcomingBirthdays", func() {
		ginkgo.It("should keep birthdays inside the window, soonest first", func() {
			today := date(2025, 5, 20)
			children := []ChildBirth{
				{ID: 1, Name: "Later", DateOfBirth: date(2018, 6, 10)},
				{ID: 2, Name: "Soon", DateOfBirth: date(2019, 5, 22)},
				{ID: 3, Name: "Outside", DateOfBirth: date(2017, 8, 1)},
				{ID: 4, Name: "Today", DateOfBirth: date(2020, 5, 20)},
			}

			got := UpcomingBirthdays(children, today, 30)

			gomega.Expect(got).To(gomega.HaveLen(3))
			gomega.Expect(got[0].Name).To(gomega.Equal("Today"))
			gomega.Expect(got[0].DaysUntil).To(gomega.Equal(0))
			gomega.Expect(got[0].TurningAge).To(gomega.Equal(5))
			gomega.Expect(got[1].Name).To(gomega.Equal("Soon"))
			gomega.Expect(got[1].NextBirthday).To(gomega.Equal("2025-05-22"))
			gomega.Expect(got[2].Name).To(gomega.Equal("Later"))
			gomega.Expect(got[2].DaysUntil).To(gomega.Equal(21))
		})
	})

	ginkgo.Describe("MonthlySeries", func() {
		ginkgo.It("should always produce twelve months", func() {
			points := MonthlySeries(
				[]MonthTotal{{Month: 1, Total: 3}, {Month: 12, Total: 1}},
				[]MonthTotal{{Month: 6, Total: 250.5}, {Month: 13, Total: 99}},
			)

			gomega.Expect(points).To(gomega.HaveLen(12))
			gomega.Expect(points[0]).To(gomega.Equal(ChartPoint{Month: "Jan", Admissions: 3}))
			gomega.Expect(points[5]).To(gomega.Equal(ChartPoint{Month: "Jun", Donations: 250.5}))
			gomega.Expect(points[11].Admissions).To(gomega.Equal(int64(1)))
		})
	})

	ginkgo.Describe("Service", func() {
		var (
			repo    *stubRepository
			service *Service
			ctx     context.Context
			now     = time.Date(2025, 5, 20, 15, 30, 0, 0, time.UTC)
		)

		ginkgo.BeforeEach(func() {
			ctx = context.Background()
			repo = &stubRepository{}
			service = NewService(repo, testutil.DiscardLogger()).WithClock(func() time.Time { return now })
		})

		ginkgo.It("should merge counts and the donation total", func() {
			repo.counts = Counts{Children: 12, Staffs: 4}
			repo.total = 1500

			stats, err := service.Stats(ctx)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stats.Children).To(gomega.Equal(int64(12)))
			gomega.Expect(stats.DonationTotal).To(gomega.Equal(1500.0))
		})

		ginkgo.It("should abort the aggregate when any query fails", func() {
			repo.failOn = "donations"
			repo.err = errors.New("connection reset")

			stats, err := service.Stats(ctx)

			gomega.Expect(stats).To(gomega.BeNil())
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.StatusCode).To(gomega.Equal(500))
		})

		ginkgo.It("should default the chart year to the current year", func() {
			_, err := service.ChartData(ctx, 0)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.year).To(gomega.Equal(2025))
		})

		ginkgo.It("should query events from the start of today through the window", func() {
			events, err := service.UpcomingEvents(ctx, 7)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(events).ToNot(gomega.BeNil())
			gomega.Expect(repo.eventsFrom).To(gomega.Equal(date(2025, 5, 20)))
			gomega.Expect(repo.eventsTo).To(gomega.Equal(date(2025, 5, 28)))
		})

		ginkgo.It("should fall back to the default window for non-positive days", func() {
			_, err := service.UpcomingEvents(ctx, -3)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(repo.eventsTo).To(gomega.Equal(date(2025, 5, 20).AddDate(0, 0, DefaultWindowDays+1)))
		})

		ginkgo.It("should combine age groups with case categories", func() {
			repo.children = []ChildBirth{{ID: 1, DateOfBirth: date(2021, 1, 1)}}
			repo.categories = []CategoryCount{{Category: "Orphan", Total: 1}}

			dist, err := service.ChildrenDistribution(ctx)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(dist.AgeGroups[1]).To(gomega.Equal(Bucket{Label: "3-5", Total: 1}))
			gomega.Expect(dist.CaseCategories).To(gomega.HaveLen(1))
		})
	})
})
