package employee

import (
	"strings"
	"time"

	"github.com/frahmantamala/childcare-management/internal/core/common/validation"
)

type CreateEmployeeDTO struct {
	UserID   int64  `json:"userId"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
}

func (d *CreateEmployeeDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	d.Position = strings.TrimSpace(d.Position)
}

func (d CreateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(255)
	v.Field("email", d.Email).Required().Email().MaxLength(255)
	v.Field("phone", d.Phone).MaxLength(50)
	v.Field("position", d.Position).MaxLength(100)
	return v.Err()
}

// UpdateEmployeeDTO is a partial update; nil fields are left untouched.
type UpdateEmployeeDTO struct {
	UserID   int64   `json:"userId"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Position *string `json:"position"`
}

func (d UpdateEmployeeDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required().MaxLength(255)
	}
	if d.Email != nil {
		v.Field("email", d.Email).Required().Email().MaxLength(255)
	}
	if d.Phone != nil {
		v.Field("phone", d.Phone).MaxLength(50)
	}
	if d.Position != nil {
		v.Field("position", d.Position).MaxLength(100)
	}
	return v.Err()
}

// Fields returns the column assignments of the update.
func (d UpdateEmployeeDTO) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if d.Name != nil {
		fields["name"] = strings.TrimSpace(*d.Name)
	}
	if d.Email != nil {
		fields["email"] = strings.TrimSpace(*d.Email)
	}
	if d.Phone != nil {
		fields["phone"] = strings.TrimSpace(*d.Phone)
	}
	if d.Position != nil {
		fields["position"] = strings.TrimSpace(*d.Position)
	}
	return fields
}

// UpdateProfileDTO is the self-service profile change. Avatar is base64, optionally as a data URL.
type UpdateProfileDTO struct {
	UserID          int64   `json:"userId"`
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Avatar          *string `json:"avatar"`
	CurrentPassword string  `json:"currentPassword"`
	NewPassword     string  `json:"newPassword"`
}

func (d UpdateProfileDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required().MaxLength(255)
	}
	if d.Email != nil {
		v.Field("email", d.Email).Required().Email().MaxLength(255)
	}
	if d.NewPassword != "" {
		v.Field("currentPassword", d.CurrentPassword).Required()
		v.Field("newPassword", d.NewPassword).MinLength(8).MaxLength(72)
	}
	return v.Err()
}

type EmployeeResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Position  string    `json:"position,omitempty"`
	HasAvatar bool      `json:"hasAvatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EmployeesResponse struct {
	Success   bool               `json:"success"`
	Employees []EmployeeResponse `json:"employees"`
}

type EmployeeDetailResponse struct {
	Success  bool             `json:"success"`
	Employee EmployeeResponse `json:"employee"`
}

type CreateEmployeeResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	ID                int64  `json:"id"`
	TemporaryPassword string `json:"temporaryPassword"`
}

type MutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}
