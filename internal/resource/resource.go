// Package resource serves the table-driven CRUD endpoints. Every route is
// resolved against an allow-list before any permission lookup or store access.
package resource

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/frahmantamala/childcare-management/internal"
)

// ActorField carries the acting staff id in mutating bodies. It is never written.
const ActorField = "userId"

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Row is a single table row keyed by column name.
type Row map[string]interface{}

// Values is a sanitized set of column assignments ready for the store.
type Values map[string]interface{}

// Columns returns the column names in a stable order.
func (v Values) Columns() []string {
	cols := make([]string, 0, len(v))
	for col := range v {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// NormalizeValues strips the actor field, checks every column name and narrows
// JSON values to types the SQL drivers accept.
func NormalizeValues(body map[string]interface{}) (Values, error) {
	values := make(Values, len(body))
	for key, raw := range body {
		if key == ActorField {
			continue
		}
		if !IsIdentifier(key) {
			return nil, internal.NewValidationFieldError(key, "invalid column name", internal.ErrCodeInvalidColumn)
		}
		if key == "id" {
			continue
		}
		v, err := normalizeValue(raw)
		if err != nil {
			return nil, internal.NewValidationFieldError(key, err.Error(), internal.ErrCodeInvalidBody)
		}
		values[key] = v
	}
	if len(values) == 0 {
		return nil, internal.ErrEmptyPayload
	}
	return values, nil
}

func normalizeValue(raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case nil, string, bool:
		return v, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", v.String())
		}
		return f, nil
	case float64, int64, int:
		return v, nil
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", raw)
	}
}
