package postgres

import (
	"context"
	"errors"

	inventoryDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/inventory"
	"github.com/frahmantamala/childcare-management/internal/inventory"
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) inventory.RepositoryAPI {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) WithTx(tx *gorm.DB) inventory.RepositoryAPI {
	return &InventoryRepository{db: tx}
}

func (r *InventoryRepository) List(ctx context.Context) ([]inventory.Item, error) {
	var items []inventory.Item
	err := r.db.WithContext(ctx).
		Table("inventory AS i").
		Select("i.id, i.item_name, i.category_id, COALESCE(c.name, '') AS category_name, i.quantity, i.unit, i.expiry_date, i.remarks, i.created_at, i.updated_at").
		Joins("LEFT JOIN inventory_category c ON c.id = i.category_id").
		Order("i.id ASC").
		Scan(&items).Error
	return items, err
}

func (r *InventoryRepository) ListCategories(ctx context.Context) ([]*inventoryDatamodel.Category, error) {
	var categories []*inventoryDatamodel.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *InventoryRepository) FindCategoryByName(ctx context.Context, name string) (*inventoryDatamodel.Category, error) {
	var c inventoryDatamodel.Category
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *InventoryRepository) Create(ctx context.Context, item *inventoryDatamodel.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InventoryRepository) Update(ctx context.Context, id int64, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&inventoryDatamodel.Item{}).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *InventoryRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&inventoryDatamodel.Item{})
	return result.RowsAffected, result.Error
}
