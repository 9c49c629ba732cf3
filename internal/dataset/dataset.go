package dataset

import (
	"fmt"
	"strconv"
)

// Kind is the primitive kind the loader assigned to a single cell.
type Kind int

const (
	KindMissing Kind = iota
	KindInteger
	KindFloat
	KindBoolean
	KindDate
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindText:
		return "text"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Primitive groups kinds that share a value representation: integers and
// floats are both numbers, dates are text that happens to parse as a date.
type Primitive int

const (
	PrimitiveNone Primitive = iota
	PrimitiveNumber
	PrimitiveBoolean
	PrimitiveText
)

func (k Kind) Primitive() Primitive {
	switch k {
	case KindInteger, KindFloat:
		return PrimitiveNumber
	case KindBoolean:
		return PrimitiveBoolean
	case KindDate, KindText:
		return PrimitiveText
	}
	return PrimitiveNone
}

// Column data types as reported in quality reports.
const (
	TypeInt64   = "int64"
	TypeFloat64 = "float64"
	TypeBool    = "bool"
	TypeObject  = "object"
)

// Cell is one tagged value of a column.
type Cell struct {
	Kind Kind
	Raw  string
	Num  float64
	Int  int64
	Bool bool
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return c.Kind == KindMissing
}

// IsNumeric reports whether the cell holds an integer or a float.
func (c Cell) IsNumeric() bool {
	return c.Kind.Primitive() == PrimitiveNumber
}

// Key returns the identity of the cell's value. Numbers compare by value so
// that "1" and "1.0" are the same value; integers keep full int64 precision.
func (c Cell) Key() string {
	switch c.Kind {
	case KindInteger:
		return strconv.FormatInt(c.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindBoolean:
		return strconv.FormatBool(c.Bool)
	}
	return c.Raw
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Len returns the number of cells in the column.
func (c Column) Len() int {
	return len(c.Cells)
}

// MissingCount returns the number of missing cells.
func (c Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.IsMissing() {
			n++
		}
	}
	return n
}

// Type infers the column data type from the cell kinds.
func (c Column) Type() string {
	var ints, floats, bools, others, missing int
	for _, cell := range c.Cells {
		switch cell.Kind {
		case KindMissing:
			missing++
		case KindInteger:
			ints++
		case KindFloat:
			floats++
		case KindBoolean:
			bools++
		default:
			others++
		}
	}

	present := ints + floats + bools + others
	switch {
	case present == 0:
		return TypeObject
	case ints == present && missing == 0:
		return TypeInt64
	case ints+floats == present:
		return TypeFloat64
	case bools == present && missing == 0:
		return TypeBool
	}
	return TypeObject
}

// IsNumeric reports whether the column is an int64 or float64 column.
func (c Column) IsNumeric() bool {
	t := c.Type()
	return t == TypeInt64 || t == TypeFloat64
}

// IsTextual reports whether the column is an object column.
func (c Column) IsTextual() bool {
	return c.Type() == TypeObject
}

// KeyFunc returns how cells of the column are identified when counting
// distinct values. Numeric and boolean columns compare by value, object
// columns by their raw text, so "007" and "7" stay distinct codes.
func (c Column) KeyFunc() func(Cell) string {
	switch c.Type() {
	case TypeInt64, TypeFloat64, TypeBool:
		return Cell.Key
	}
	return func(cell Cell) string { return cell.Raw }
}

// Primitives returns the distinct primitive kinds among non-missing cells.
func (c Column) Primitives() []Primitive {
	seen := make(map[Primitive]struct{})
	var out []Primitive
	for _, cell := range c.Cells {
		p := cell.Kind.Primitive()
		if p == PrimitiveNone {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Dataset is an in-memory table loaded from a single source. It is treated
// as read-only once constructed.
type Dataset struct {
	Source  string
	Columns []Column
}

// New builds a dataset from already tagged columns.
func New(source string, columns ...Column) *Dataset {
	return &Dataset{Source: source, Columns: columns}
}

// FromRecords tags every raw value and builds a dataset from a header row
// and data rows. Short rows are padded with missing cells.
func FromRecords(source string, header []string, rows [][]string) (*Dataset, error) {
	names := uniqueNames(header)
	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = Column{Name: name, Cells: make([]Cell, 0, len(rows))}
	}

	for r, row := range rows {
		if len(row) > len(names) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", r+1, len(row), len(names))
		}
		for i := range columns {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			columns[i].Cells = append(columns[i].Cells, ParseCell(value))
		}
	}

	return New(source, columns...), nil
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return d.Columns[0].Len()
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		names[i] = col.Name
	}
	return names
}

// Validate checks that every column has the same number of cells and that
// column names are unique.
func (d *Dataset) Validate() error {
	rows := d.Rows()
	seen := make(map[string]struct{}, len(d.Columns))
	for _, col := range d.Columns {
		if col.Len() != rows {
			return fmt.Errorf("column %q has %d cells, expected %d", col.Name, col.Len(), rows)
		}
		if _, ok := seen[col.Name]; ok {
			return fmt.Errorf("duplicate column name %q", col.Name)
		}
		seen[col.Name] = struct{}{}
	}
	return nil
}

func uniqueNames(header []string) []string {
	names := make([]string, len(header))
	counts := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for {
			if _, taken := counts[name]; !taken {
				break
			}
			counts[base]++
			name = fmt.Sprintf("%s.%d", base, counts[base])
		}
		counts[name] = 0
		names[i] = name
	}
	return names
}
