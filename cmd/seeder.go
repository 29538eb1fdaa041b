package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/frahmantamala/childcare-management/internal/category"
	categoryPostgres "github.com/frahmantamala/childcare-management/internal/category/postgres"
	inventoryDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/inventory"
	permissionDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/permission"
	staffDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/staff"
	"github.com/frahmantamala/childcare-management/internal/resource"
	"github.com/frahmantamala/childcare-management/internal/store"
	"github.com/frahmantamala/childcare-management/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	seedAdminEmail = "admin@childcare.local"
	seedAdminName  = "Administrator"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with reference data and an administrator",
	Long: `Seed the resource catalog, inventory categories, case categories, education levels and an
administrator holding every grant. The administrator password is read from SEED_ADMIN_PASSWORD.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := store.Open(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		password := os.Getenv("SEED_ADMIN_PASSWORD")
		if password == "" {
			password = "change-me-now"
			fmt.Println("SEED_ADMIN_PASSWORD not set; using the development default")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}

		err = db.Gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if clearData {
				if err := clearSeedData(tx); err != nil {
					return err
				}
			}
			if err := seedCatalog(tx); err != nil {
				return err
			}
			if err := seedLookups(tx); err != nil {
				return err
			}
			return seedAdmin(tx, string(hash))
		})
		if err != nil {
			log.Fatalf("seeding failed: %v", err)
		}

		fmt.Println("Seed data written successfully")
	},
}

// catalogNames lists every name a grant can reference.
func catalogNames() []string {
	names := resource.DefaultRegistry(bcrypt.MinCost).Names()
	return append(names, "inventory")
}

func seedCatalog(tx *gorm.DB) error {
	for _, name := range catalogNames() {
		row := permissionDatamodel.Table{Name: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert table %s: %w", name, err)
		}
		fmt.Printf("Seeded resource table: %s\n", name)
	}
	return nil
}

func seedLookups(tx *gorm.DB) error {
	for _, name := range []string{"Food", "Hygiene", "School Supplies", "Medical", "Clothing"} {
		c := inventoryDatamodel.Category{Name: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&c).Error; err != nil {
			return fmt.Errorf("failed to insert inventory category %s: %w", name, err)
		}
	}

	catalog := category.NewService(categoryPostgres.NewCategoryRepository(tx), logger.LoggerWrapper())
	if err := catalog.Seed(context.Background()); err != nil {
		return err
	}
	fmt.Println("Seeded case categories and education levels")
	return nil
}

func seedAdmin(tx *gorm.DB, passwordHash string) error {
	admin := staffDatamodel.Staff{
		Name:     seedAdminName,
		Email:    seedAdminEmail,
		Position: "Administrator",
		Password: passwordHash,
	}
	err := tx.Where(staffDatamodel.Staff{Email: seedAdminEmail}).
		Attrs(admin).
		FirstOrCreate(&admin).Error
	if err != nil {
		return fmt.Errorf("failed to insert admin: %w", err)
	}

	var tables []permissionDatamodel.Table
	if err := tx.Find(&tables).Error; err != nil {
		return fmt.Errorf("failed to load resource tables: %w", err)
	}

	for _, t := range tables {
		grant := permissionDatamodel.Grant{UserID: admin.ID, TableID: t.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant).Error; err != nil {
			return fmt.Errorf("failed to grant %s to admin: %w", t.Name, err)
		}
	}
	fmt.Printf("Seeded admin %s with %d grants\n", seedAdminEmail, len(tables))
	return nil
}

func clearSeedData(tx *gorm.DB) error {
	for _, table := range []string{"perms", "tables", "inventory", "inventory_category"} {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	fmt.Println("Cleared existing grants, catalog and inventory")
	return nil
}
