package inventory

import (
	"time"

	inventoryDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/inventory"
)

// AuditTable is the affected_table recorded for inventory mutations.
const AuditTable = "inventory"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func CategoryFromDataModel(c *inventoryDatamodel.Category) Category {
	return Category{ID: c.ID, Name: c.Name}
}

// Item is an inventory row joined with its category name.
type Item struct {
	ID           int64      `json:"id"`
	ItemName     string     `json:"item_name"`
	CategoryID   int64      `json:"category_id"`
	CategoryName string     `json:"category"`
	Quantity     float64    `json:"quantity"`
	Unit         string     `json:"unit,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	Remarks      string     `json:"remarks,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsExpired reports whether the item is past its expiry date at now.
func (i *Item) IsExpired(now time.Time) bool {
	return i.ExpiryDate != nil && i.ExpiryDate.Before(now)
}
