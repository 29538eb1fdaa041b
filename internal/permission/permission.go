// Package permission decides whether a staff member may act on a resource
// table and manages the grant set of each employee.
package permission

import (
	permissionDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/permission"
)

// Table is an entry of the resource catalog.
type Table struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func FromDataModel(t *permissionDatamodel.Table) Table {
	return Table{ID: t.ID, Name: t.Name}
}

// NewGrants pairs an employee with every catalog table in tables.
func NewGrants(employeeID int64, tables []*permissionDatamodel.Table) []*permissionDatamodel.Grant {
	grants := make([]*permissionDatamodel.Grant, len(tables))
	for i, t := range tables {
		grants[i] = &permissionDatamodel.Grant{UserID: employeeID, TableID: t.ID}
	}
	return grants
}

// dedupe keeps the first occurrence of every non-empty name.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
