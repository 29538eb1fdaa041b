package category_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/category"
	categoryPostgres "github.com/frahmantamala/childcare-management/internal/category/postgres"
	"github.com/frahmantamala/childcare-management/internal/testutil"
	"github.com/frahmantamala/childcare-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestCategory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Category Suite")
}

var catalogDDL = []string{
	`CREATE TABLE case_categories (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE)`,
	`CREATE TABLE education_levels (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT NOT NULL UNIQUE)`,
}

var _ = Describe("Category Service", func() {
	var (
		db      *gorm.DB
		service *category.Service
		ctx     context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testutil.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		for _, ddl := range catalogDDL {
			Expect(db.Exec(ddl).Error).To(Succeed())
		}
		service = category.NewService(categoryPostgres.NewCategoryRepository(db), testutil.DiscardLogger())
	})

	Describe("Seed", func() {
		It("should write the defaults once", func() {
			Expect(service.Seed(ctx)).To(Succeed())
			Expect(service.Seed(ctx)).To(Succeed())

			levels, err := service.List(ctx, category.EducationLevels)
			Expect(err).NotTo(HaveOccurred())
			Expect(levels).To(HaveLen(len(category.Defaults[category.EducationLevels])))
		})
	})

	Describe("List", func() {
		It("should order by name", func() {
			Expect(db.Exec(`INSERT INTO case_categories (name) VALUES ('Neglect'), ('Abuse')`).Error).To(Succeed())

			cats, err := service.List(ctx, category.CaseCategories)
			Expect(err).NotTo(HaveOccurred())
			Expect(cats).To(HaveLen(2))
			Expect(cats[0].Name).To(Equal("Abuse"))
		})

		It("should refuse a table outside the catalog", func() {
			_, err := service.List(ctx, category.Kind("staffs"))
			Expect(errors.Is(err, internal.ErrResourceNotFound)).To(BeTrue())
		})
	})

	Describe("Lookup", func() {
		BeforeEach(func() {
			Expect(service.Seed(ctx)).To(Succeed())
		})

		It("should find an existing name", func() {
			c, err := service.Lookup(ctx, category.CaseCategories, " Orphan ")
			Expect(err).NotTo(HaveOccurred())
			Expect(c).NotTo(BeNil())
			Expect(c.Name).To(Equal("Orphan"))
		})

		It("should return nil for an unknown name", func() {
			c, err := service.Lookup(ctx, category.CaseCategories, "Unknown")
			Expect(err).NotTo(HaveOccurred())
			Expect(c).To(BeNil())
		})
	})
})

var _ = Describe("Category Handler", func() {
	It("should return the catalog with its kind", func() {
		db, err := testutil.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		for _, ddl := range catalogDDL {
			Expect(db.Exec(ddl).Error).To(Succeed())
		}
		service := category.NewService(categoryPostgres.NewCategoryRepository(db), testutil.DiscardLogger())
		Expect(service.Seed(context.Background())).To(Succeed())

		handler := category.NewHandler(transport.NewBaseHandler(testutil.DiscardLogger()), service)
		rec := httptest.NewRecorder()
		handler.GetCaseCategories(rec, httptest.NewRequest(http.MethodGet, "/catalog/case-categories", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		var body category.CategoriesResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Success).To(BeTrue())
		Expect(body.Kind).To(Equal(category.CaseCategories))
		Expect(body.Categories).To(HaveLen(5))
	})
})
