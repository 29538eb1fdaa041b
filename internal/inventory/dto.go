package inventory

import (
	"strings"
	"time"

	"github.com/frahmantamala/childcare-management/internal/core/common/validation"
	inventoryDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/inventory"
)

type CreateItemDTO struct {
	UserID     int64    `json:"userId"`
	ItemName   string   `json:"item_name"`
	Category   string   `json:"category"`
	Quantity   *float64 `json:"quantity"`
	Unit       string   `json:"unit"`
	ExpiryDate string   `json:"expiry_date"`
	Remarks    string   `json:"remarks"`
}

func (d CreateItemDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("item_name", strings.TrimSpace(d.ItemName)).Required().MaxLength(255)
	v.Field("category", strings.TrimSpace(d.Category)).Required()
	if d.Quantity == nil {
		v.Field("quantity", nil).Required()
	} else {
		v.Field("quantity", *d.Quantity).MinFloat(0)
	}
	v.Field("expiry_date", d.ExpiryDate).Date()
	return v.Err()
}

// ToDataModel builds the row for categoryID. Validate must have passed.
func (d CreateItemDTO) ToDataModel(categoryID int64) *inventoryDatamodel.Item {
	item := &inventoryDatamodel.Item{
		ItemName:   strings.TrimSpace(d.ItemName),
		CategoryID: categoryID,
		Unit:       strings.TrimSpace(d.Unit),
		Remarks:    d.Remarks,
	}
	if d.Quantity != nil {
		item.Quantity = *d.Quantity
	}
	if d.ExpiryDate != "" {
		if t, err := time.Parse(validation.DateLayout, d.ExpiryDate); err == nil {
			item.ExpiryDate = &t
		}
	}
	return item
}

// UpdateItemDTO is a partial update; nil fields are left untouched.
type UpdateItemDTO struct {
	UserID     int64    `json:"userId"`
	ItemName   *string  `json:"item_name"`
	Category   *string  `json:"category"`
	Quantity   *float64 `json:"quantity"`
	Unit       *string  `json:"unit"`
	ExpiryDate *string  `json:"expiry_date"`
	Remarks    *string  `json:"remarks"`
}

func (d UpdateItemDTO) Validate() error {
	v := validation.NewValidator()
	if d.ItemName != nil {
		v.Field("item_name", d.ItemName).Required().MaxLength(255)
	}
	if d.Category != nil {
		v.Field("category", d.Category).Required()
	}
	if d.Quantity != nil {
		v.Field("quantity", *d.Quantity).MinFloat(0)
	}
	if d.ExpiryDate != nil {
		v.Field("expiry_date", d.ExpiryDate).Date()
	}
	return v.Err()
}

// Fields returns the column assignments of the update, excluding the category.
func (d UpdateItemDTO) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if d.ItemName != nil {
		fields["item_name"] = strings.TrimSpace(*d.ItemName)
	}
	if d.Quantity != nil {
		fields["quantity"] = *d.Quantity
	}
	if d.Unit != nil {
		fields["unit"] = strings.TrimSpace(*d.Unit)
	}
	if d.ExpiryDate != nil {
		if *d.ExpiryDate == "" {
			fields["expiry_date"] = nil
		} else if t, err := time.Parse(validation.DateLayout, *d.ExpiryDate); err == nil {
			fields["expiry_date"] = t
		}
	}
	if d.Remarks != nil {
		fields["remarks"] = *d.Remarks
	}
	return fields
}

type ItemsResponse struct {
	Success bool   `json:"success"`
	Items   []Item `json:"items"`
}

type CategoriesResponse struct {
	Success    bool       `json:"success"`
	Categories []Category `json:"categories"`
}

type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
