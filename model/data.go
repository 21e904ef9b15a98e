package model

import (
	"fmt"
	"strconv"
)

// Row is one data row of the table region, keyed by column name.
type Row map[string]any

// Dataset is the data context a layout is rendered with. Fields feed bound
// free-layout items; Rows feed the table region.
type Dataset struct {
	Fields map[string]any `json:"fields,omitempty"`
	Rows   []Row          `json:"rows"`
}

// Field returns the data context value stored under name.
func (ds *Dataset) Field(name string) (any, bool) {
	if ds == nil || ds.Fields == nil {
		return nil, false
	}
	v, ok := ds.Fields[name]
	return v, ok
}

// Text formats a data value for display. Whole floats print without a
// fractional part.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
