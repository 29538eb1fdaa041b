package inventory

import "time"

type Category struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;not null"`
}

func (Category) TableName() string {
	return "inventory_category"
}

type Item struct {
	ID         int64      `gorm:"primaryKey"`
	ItemName   string     `gorm:"column:item_name;not null"`
	CategoryID int64      `gorm:"column:category_id;not null"`
	Quantity   float64    `gorm:"column:quantity;not null;default:0"`
	Unit       string     `gorm:"column:unit"`
	ExpiryDate *time.Time `gorm:"column:expiry_date"`
	Remarks    string     `gorm:"column:remarks"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Item) TableName() string {
	return "inventory"
}
