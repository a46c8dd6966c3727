// File path: internal/record/record.go
package record

import "strings"

// Row maps column names to raw cell values. A missing key or a blank value
// both mean the field is null; Field is the only sanctioned accessor.
type Row map[string]string

// Field returns the trimmed value for the named column. The second return is
// false when the column is absent or blank, mirroring a null cell in the
// source dataset.
func (r Row) Field(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	value, ok := r[name]
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is an ordered tabular record set: a column header plus one Row per
// record. Column order is preserved so emitted artifacts keep a stable layout.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// NewDataset constructs an empty dataset with the given column header.
func NewDataset(columns ...string) *Dataset {
	return &Dataset{Columns: append([]string(nil), columns...)}
}

// HasColumn reports whether the dataset declares the named column.
func (d *Dataset) HasColumn(name string) bool {
	if d == nil {
		return false
	}
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Append adds a row to the dataset.
func (d *Dataset) Append(row Row) {
	d.Rows = append(d.Rows, row)
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}
