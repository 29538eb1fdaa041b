package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/frahmantamala/childcare-management/internal"
	auditPostgres "github.com/frahmantamala/childcare-management/internal/auditlog/postgres"
	auditDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/auditlog"
	inventoryDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/childcare-management/internal/inventory"
	inventoryPostgres "github.com/frahmantamala/childcare-management/internal/inventory/postgres"
	"github.com/frahmantamala/childcare-management/internal/store"
	"github.com/frahmantamala/childcare-management/internal/testutil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestInventory(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Inventory Suite")
}

func floatPtr(f float64) *float64 { return &f }
func strPtr(s string) *string     { return &s }

var _ = Describe("Inventory Service", func() {
	var (
		db      *gorm.DB
		service *inventory.Service
		ctx     context.Context
	)

	count := func(model interface{}) int64 {
		var n int64
		Expect(db.Model(model).Count(&n).Error).To(Succeed())
		return n
	}

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testutil.OpenSQLite(&inventoryDatamodel.Category{}, &inventoryDatamodel.Item{}, &auditDatamodel.Log{})
		Expect(err).NotTo(HaveOccurred())

		service = inventory.NewService(inventoryPostgres.NewInventoryRepository(db), store.NewTransactor(db), auditPostgres.NewRepository(db), testutil.DiscardLogger())

		Expect(db.Create(&[]inventoryDatamodel.Category{{ID: 1, Name: "Food"}, {ID: 2, Name: "Hygiene"}}).Error).To(Succeed())
	})

	Describe("Create", func() {
		It("should resolve the category by name regardless of case", func() {
			id, err := service.Create(ctx, 4, inventory.CreateItemDTO{ItemName: "Rice", Category: "food", Quantity: floatPtr(25), Unit: "kg", ExpiryDate: "2030-01-31"})
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(BeNumerically(">", 0))

			items, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].CategoryName).To(Equal("Food"))
			Expect(items[0].Quantity).To(Equal(25.0))
			Expect(items[0].ExpiryDate).NotTo(BeNil())
			Expect(items[0].ExpiryDate.Format("2006-01-02")).To(Equal("2030-01-31"))

			var entry auditDatamodel.Log
			Expect(db.First(&entry).Error).To(Succeed())
			Expect(entry.AffectedTable).To(Equal(inventory.AuditTable))
			Expect(entry.RecordID).To(Equal(id))
			Expect(entry.UserID).To(Equal(int64(4)))
		})

		It("should reject an unknown category with no row and no audit entry", func() {
			_, err := service.Create(ctx, 4, inventory.CreateItemDTO{ItemName: "Chalk", Category: "Stationery", Quantity: floatPtr(3)})

			Expect(errors.Is(err, internal.ErrInvalidCategory)).To(BeTrue())
			appErr, _ := internal.IsAppError(err)
			Expect(appErr.StatusCode).To(Equal(400))
			Expect(count(&inventoryDatamodel.Item{})).To(BeZero())
			Expect(count(&auditDatamodel.Log{})).To(BeZero())
		})

		It("should reject a negative quantity", func() {
			_, err := service.Create(ctx, 4, inventory.CreateItemDTO{ItemName: "Rice", Category: "Food", Quantity: floatPtr(-1)})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(400))
		})

		It("should require a quantity", func() {
			_, err := service.Create(ctx, 4, inventory.CreateItemDTO{ItemName: "Rice", Category: "Food"})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a malformed expiry date", func() {
			_, err := service.Create(ctx, 4, inventory.CreateItemDTO{ItemName: "Rice", Category: "Food", Quantity: floatPtr(1), ExpiryDate: "31/01/2030"})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Update", func() {
		var id int64

		BeforeEach(func() {
			var err error
			id, err = service.Create(ctx, 4, inventory.CreateItemDTO{ItemName: "Soap", Category: "Hygiene", Quantity: floatPtr(10)})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should move the item to another category", func() {
			Expect(service.Update(ctx, 4, id, inventory.UpdateItemDTO{Category: strPtr("Food"), Quantity: floatPtr(7)})).To(Succeed())

			items, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items[0].CategoryID).To(Equal(int64(1)))
			Expect(items[0].Quantity).To(Equal(7.0))
			Expect(count(&auditDatamodel.Log{})).To(Equal(int64(2)))
		})

		It("should leave the row untouched for an unknown category", func() {
			err := service.Update(ctx, 4, id, inventory.UpdateItemDTO{Category: strPtr("Toys"), Quantity: floatPtr(1)})
			Expect(errors.Is(err, internal.ErrInvalidCategory)).To(BeTrue())

			items, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(items[0].Quantity).To(Equal(10.0))
			Expect(count(&auditDatamodel.Log{})).To(Equal(int64(1)))
		})

		It("should report a missing item", func() {
			err := service.Update(ctx, 4, id+100, inventory.UpdateItemDTO{Quantity: floatPtr(1)})
			Expect(errors.Is(err, internal.ErrItemNotFound)).To(BeTrue())
		})

		It("should reject an empty update", func() {
			err := service.Update(ctx, 4, id, inventory.UpdateItemDTO{})
			Expect(errors.Is(err, internal.ErrEmptyPayload)).To(BeTrue())
		})
	})

	Describe("Delete", func() {
		It("should delete and audit once, then report not found", func() {
			id, err := service.Create(ctx, 4, inventory.CreateItemDTO{ItemName: "Soap", Category: "Hygiene", Quantity: floatPtr(10)})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.Delete(ctx, 4, id)).To(Succeed())
			Expect(errors.Is(service.Delete(ctx, 4, id), internal.ErrItemNotFound)).To(BeTrue())
			Expect(count(&auditDatamodel.Log{})).To(Equal(int64(2)))
		})
	})

	Describe("Categories", func() {
		It("should list categories by name", func() {
			categories, err := service.Categories(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(HaveLen(2))
			Expect(categories[0].Name).To(Equal("Food"))
		})
	})
})

var _ = Describe("Item", func() {
	It("should report expiry relative to now", func() {
		past := time.Now().Add(-time.Hour)
		item := inventory.Item{ExpiryDate: &past}
		Expect(item.IsExpired(time.Now())).To(BeTrue())
		Expect((&inventory.Item{}).IsExpired(time.Now())).To(BeFalse())
	})
})
