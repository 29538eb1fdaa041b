// Package category serves the lookup catalogs that child records reference.
package category

import (
	categoryDatamodel "github.com/frahmantamala/childcare-management/internal/core/datamodel/category"
)

// Kind names a catalog table.
type Kind string

const (
	CaseCategories  Kind = "case_categories"
	EducationLevels Kind = "education_levels"
)

func (k Kind) Valid() bool {
	switch k {
	case CaseCategories, EducationLevels:
		return true
	}
	return false
}

func (k Kind) Table() string {
	return string(k)
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func FromDataModel(l *categoryDatamodel.Lookup) Category {
	return Category{ID: l.ID, Name: l.Name}
}

// Defaults are the names written by the seed command.
var Defaults = map[Kind][]string{
	CaseCategories:  {"Orphan", "Abandoned", "Abuse", "Neglect", "Other"},
	EducationLevels: {"Pre-school", "Primary", "Secondary", "Vocational", "None"},
}
