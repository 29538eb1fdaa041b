package postgres_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/frahmantamala/childcare-management/internal"
	"github.com/frahmantamala/childcare-management/internal/auditlog"
	"github.com/frahmantamala/childcare-management/internal/resource"
	resourcePostgres "github.com/frahmantamala/childcare-management/internal/resource/postgres"
	"github.com/frahmantamala/childcare-management/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestResourcePostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Resource Postgres Suite")
}

const childrenDDL = `CREATE TABLE children (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	date_of_birth TEXT,
	remarks TEXT
)`

const staffsDDL = `CREATE TABLE staffs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	password TEXT NOT NULL DEFAULT ''
)`

type countingRecorder struct {
	entries []auditlog.Entry
}

func (r *countingRecorder) Record(_ context.Context, entry auditlog.Entry) {
	r.entries = append(r.entries, entry)
}

var _ = Describe("Resource Repository", func() {
	var (
		db   *gorm.DB
		repo *resourcePostgres.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testutil.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Exec(childrenDDL).Error).To(Succeed())
		repo = resourcePostgres.NewRepository(db)
	})

	It("should insert a row and return the generated id", func() {
		id, err := repo.Insert(ctx, "children", resource.Values{"name": "Ana", "date_of_birth": "2018-04-02"})
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(int64(1)))

		row, err := repo.Get(ctx, "children", id)
		Expect(err).NotTo(HaveOccurred())
		Expect(row["name"]).To(Equal("Ana"))
	})

	It("should apply a partial update", func() {
		id, err := repo.Insert(ctx, "children", resource.Values{"name": "Ana", "remarks": "new"})
		Expect(err).NotTo(HaveOccurred())

		affected, err := repo.Update(ctx, "children", id, resource.Values{"remarks": "settled"})
		Expect(err).NotTo(HaveOccurred())
		Expect(affected).To(Equal(int64(1)))

		row, err := repo.Get(ctx, "children", id)
		Expect(err).NotTo(HaveOccurred())
		Expect(row["name"]).To(Equal("Ana"))
		Expect(row["remarks"]).To(Equal("settled"))
	})

	It("should report zero rows for a missing id", func() {
		affected, err := repo.Update(ctx, "children", 99, resource.Values{"remarks": "x"})
		Expect(err).NotTo(HaveOccurred())
		Expect(affected).To(BeZero())

		affected, err = repo.Delete(ctx, "children", 99)
		Expect(err).NotTo(HaveOccurred())
		Expect(affected).To(BeZero())

		row, err := repo.Get(ctx, "children", 99)
		Expect(err).NotTo(HaveOccurred())
		Expect(row).To(BeNil())
	})

	It("should list rows in id order", func() {
		for _, name := range []string{"Ana", "Ben", "Cai"} {
			_, err := repo.Insert(ctx, "children", resource.Values{"name": name})
			Expect(err).NotTo(HaveOccurred())
		}

		rows, err := repo.List(ctx, "children")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[2]["name"]).To(Equal("Cai"))
	})

	It("should fail on an unknown column instead of dropping it", func() {
		_, err := repo.Insert(ctx, "children", resource.Values{"name": "Ana", "shoe_size": int64(30)})
		Expect(err).To(HaveOccurred())

		rows, err := repo.List(ctx, "children")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	It("should refuse identifiers that cannot be quoted safely", func() {
		_, err := repo.Insert(ctx, "children; --", resource.Values{"name": "Ana"})
		Expect(err).To(HaveOccurred())
		_, err = repo.Delete(ctx, "children\"", 1)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Resource Service unique constraints", func() {
	var (
		db       *gorm.DB
		service  *resource.Service
		recorder *countingRecorder
		staffs   resource.Definition
		ctx      context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testutil.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())
		Expect(db.Exec(staffsDDL).Error).To(Succeed())
		Expect(db.Exec(`CREATE UNIQUE INDEX idx_staffs_email ON staffs (email)`).Error).To(Succeed())
		Expect(db.Exec(childrenDDL).Error).To(Succeed())
		Expect(db.Exec(`CREATE UNIQUE INDEX idx_children_name ON children (name)`).Error).To(Succeed())

		recorder = &countingRecorder{}
		service = resource.NewService(resourcePostgres.NewRepository(db), recorder, testutil.DiscardLogger())

		var ok bool
		staffs, ok = resource.DefaultRegistry(bcrypt.MinCost).LookupGeneric("staffs")
		Expect(ok).To(BeTrue())

		_, err = service.Create(ctx, 1, staffs, map[string]interface{}{"name": "Ana", "email": "ana@example.com", "password": "pw"})
		Expect(err).NotTo(HaveOccurred())
		recorder.entries = nil
	})

	It("should answer a duplicate staff email on create with 400", func() {
		_, err := service.Create(ctx, 1, staffs, map[string]interface{}{"name": "Copy", "email": "ana@example.com", "password": "pw"})
		Expect(err).To(MatchError(internal.ErrDuplicateEmail))

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		Expect(recorder.entries).To(BeEmpty())

		var n int64
		Expect(db.Table("staffs").Count(&n).Error).To(Succeed())
		Expect(n).To(Equal(int64(1)))
	})

	It("should answer a duplicate staff email on update with 400", func() {
		id, err := service.Create(ctx, 1, staffs, map[string]interface{}{"name": "Ben", "email": "ben@example.com", "password": "pw"})
		Expect(err).NotTo(HaveOccurred())
		recorder.entries = nil

		err = service.Update(ctx, 1, staffs, id, map[string]interface{}{"email": "ana@example.com"})
		Expect(err).To(MatchError(internal.ErrDuplicateEmail))
		Expect(recorder.entries).To(BeEmpty())
	})

	It("should use the generic conflict code for other resources", func() {
		children := resource.Definition{Name: "children", Table: "children", Generic: true}
		_, err := service.Create(ctx, 1, children, map[string]interface{}{"name": "Ana"})
		Expect(err).NotTo(HaveOccurred())

		_, err = service.Create(ctx, 1, children, map[string]interface{}{"name": "Ana"})
		Expect(err).To(MatchError(internal.ErrDuplicateValue))
	})
})
