package resource

import (
	"sort"

	"github.com/frahmantamala/childcare-management/internal"

	"golang.org/x/crypto/bcrypt"
)

// Definition describes one allow-listed table.
type Definition struct {
	// Name is both the route segment and the authorization key.
	Name  string
	Table string
	// Hidden columns are removed from every read.
	Hidden []string
	// Prepare rewrites values before they are written.
	Prepare func(values Values) error
	// Generic resources are served under /{resource}. Others only through fixed routes.
	Generic bool
	// Conflict is returned when a write hits a unique constraint.
	Conflict *internal.AppError
}

func (d Definition) conflictError() *internal.AppError {
	if d.Conflict != nil {
		return d.Conflict
	}
	return internal.ErrDuplicateValue
}

// Strip removes hidden columns from row in place.
func (d Definition) Strip(row Row) Row {
	for _, h := range d.Hidden {
		delete(row, h)
	}
	return row
}

type Registry struct {
	defs map[string]Definition
}

func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		if d.Table == "" {
			d.Table = d.Name
		}
		r.defs[d.Name] = d
	}
	return r
}

// DefaultRegistry returns the childcare resource set.
func DefaultRegistry(bcryptCost int) *Registry {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return NewRegistry(
		Definition{Name: "children", Generic: true},
		Definition{Name: "events", Generic: true},
		Definition{Name: "appointments", Generic: true},
		Definition{Name: "volunteers", Generic: true},
		Definition{
			Name:     "staffs",
			Generic:  true,
			Hidden:   []string{"password"},
			Prepare:  hashPasswordColumn(bcryptCost),
			Conflict: internal.ErrDuplicateEmail,
		},
		Definition{Name: "food", Generic: true},
		Definition{Name: "hygiene", Generic: true},
		Definition{Name: "school", Generic: true},
		Definition{Name: "donations"},
	)
}

// Lookup finds any registered definition.
func (r *Registry) Lookup(name string) (Definition, bool) {
	d, ok := r.defs[name]
	return d, ok
}

// LookupGeneric finds a definition routable under /{resource}.
func (r *Registry) LookupGeneric(name string) (Definition, bool) {
	d, ok := r.defs[name]
	if !ok || !d.Generic {
		return Definition{}, false
	}
	return d, true
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func hashPasswordColumn(cost int) func(Values) error {
	return func(values Values) error {
		raw, ok := values["password"]
		if !ok || raw == nil {
			return nil
		}
		plain, ok := raw.(string)
		if !ok {
			return internal.NewValidationFieldError("password", "must be a string", internal.ErrCodeInvalidBody)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
		if err != nil {
			return internal.NewValidationFieldError("password", err.Error(), internal.ErrCodeInvalidBody)
		}
		values["password"] = string(hash)
		return nil
	}
}
