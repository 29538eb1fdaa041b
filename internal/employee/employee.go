package employee

import (
	"time"

	staffDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/staff"
)

// AuditTable is the affected_table recorded for employee mutations.
const AuditTable = "staffs"

type Employee struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Position  string
	Avatar    []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Employee) ToResponse() EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID,
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Position:  e.Position,
		HasAvatar: len(e.Avatar) > 0,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// FromDataModel drops the password hash; it never leaves the repository layer.
func FromDataModel(s *staffDatamodel.Staff) *Employee {
	return &Employee{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Position:  s.Position,
		Avatar:    s.Avatar,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
