package auth_test

import (
	"context"
	"testing"

	authPostgres "github.com/frahmantamala/childcare-management/internal/auth/postgres"
	permissionDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/permission"
	staffDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/staff"
	"github.com/frahmantamala/childcare-management/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

var _ = Describe("Auth Repository", func() {
	var (
		db   *gorm.DB
		repo *authPostgres.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testutil.OpenSQLite(&staffDatamodel.Staff{}, &permissionDatamodel.Table{}, &permissionDatamodel.Grant{})
		Expect(err).NotTo(HaveOccurred())
		repo = authPostgres.NewRepository(db)

		Expect(db.Create(&staffDatamodel.Staff{ID: 1, Name: "Admin", Email: "admin@example.com", Password: "hash"}).Error).To(Succeed())
		Expect(db.Create(&[]permissionDatamodel.Table{{ID: 1, Name: "staffs"}, {ID: 2, Name: "children"}, {ID: 3, Name: "events"}}).Error).To(Succeed())
		Expect(db.Create(&[]permissionDatamodel.Grant{{UserID: 1, TableID: 1}, {UserID: 1, TableID: 2}}).Error).To(Succeed())
	})

	Describe("FindByEmail", func() {
		It("should return the stored credentials", func() {
			creds, err := repo.FindByEmail(ctx, "admin@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(creds).NotTo(BeNil())
			Expect(creds.ID).To(Equal(int64(1)))
			Expect(creds.PasswordHash).To(Equal("hash"))
		})

		It("should return nil for an unknown email", func() {
			creds, err := repo.FindByEmail(ctx, "nobody@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(creds).To(BeNil())
		})
	})

	Describe("GrantedTableNames", func() {
		It("should join grants to the catalog in name order", func() {
			names, err := repo.GrantedTableNames(ctx, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"children", "staffs"}))
		})

		It("should return nothing for a user without grants", func() {
			names, err := repo.GrantedTableNames(ctx, 99)
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(BeEmpty())
		})
	})
})
