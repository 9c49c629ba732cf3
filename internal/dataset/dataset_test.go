package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func columnOf(name string, values ...string) Column {
	col := Column{Name: name}
	for _, v := range values {
		col.Cells = append(col.Cells, ParseCell(v))
	}
	return col
}

func TestColumn_Type(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"integers", []string{"1", "2", "-3"}, TypeInt64},
		{"integers with missing", []string{"1", "", "3"}, TypeFloat64},
		{"floats", []string{"1.5", "2", "3e2"}, TypeFloat64},
		{"booleans", []string{"true", "False"}, TypeBool},
		{"booleans with missing", []string{"true", ""}, TypeObject},
		{"text", []string{"a", "b"}, TypeObject},
		{"mixed", []string{"1", "b"}, TypeObject},
		{"dates", []string{"2024-01-02"}, TypeObject},
		{"all missing", []string{"", "NA"}, TypeObject},
		{"empty", nil, TypeObject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, columnOf("c", tt.values...).Type())
		})
	}
}

func TestColumn_Primitives(t *testing.T) {
	col := columnOf("c", "1", "2.5", "", "2024-01-02", "x", "true")
	assert.Equal(t, []Primitive{PrimitiveNumber, PrimitiveText, PrimitiveBoolean}, col.Primitives())

	assert.Empty(t, columnOf("c", "", "null").Primitives())
}

func TestColumn_Counts(t *testing.T) {
	col := columnOf("c", "a", "", "NaN", "b")
	assert.Equal(t, 4, col.Len())
	assert.Equal(t, 2, col.MissingCount())
	assert.True(t, col.IsTextual())
	assert.False(t, col.IsNumeric())
}

func TestFromRecords(t *testing.T) {
	ds, err := FromRecords("people.csv", []string{"name", "age"}, [][]string{
		{"Ana", "31"},
		{"Ben"},
	})
	require.NoError(t, err)

	assert.Equal(t, "people.csv", ds.Source)
	assert.Equal(t, 2, ds.Rows())
	assert.Equal(t, []string{"name", "age"}, ds.Names())
	assert.True(t, ds.Columns[1].Cells[1].IsMissing())
	require.NoError(t, ds.Validate())
}

func TestFromRecords_RowTooLong(t *testing.T) {
	_, err := FromRecords("bad.csv", []string{"a"}, [][]string{{"1", "2"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1 has 2 fields, expected 1")
}

func TestFromRecords_UniqueNames(t *testing.T) {
	ds, err := FromRecords("t.csv", []string{"a", "a", "", "a", "a.1"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.2", "a.1.1"}, ds.Names())
	assert.Equal(t, 0, ds.Rows())
}

func TestDataset_Validate(t *testing.T) {
	ragged := New("r", columnOf("a", "1", "2"), columnOf("b", "1"))
	require.Error(t, ragged.Validate())

	dup := New("d", columnOf("a", "1"), columnOf("a", "2"))
	err := dup.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate column name "a"`)

	assert.NoError(t, New("empty").Validate())
}

func TestCell_Key(t *testing.T) {
	assert.Equal(t, ParseCell("1").Key(), ParseCell("1.0").Key())
	assert.Equal(t, "1000000", ParseCell("1e6").Key())
	assert.Equal(t, "true", ParseCell("TRUE").Key())
	assert.Equal(t, "abc", ParseCell("abc").Key())
	assert.Equal(t, "12345678901234567", ParseCell("12345678901234567").Key())
	assert.NotEqual(t, ParseCell("12345678901234567").Key(), ParseCell("12345678901234568").Key())
}

func TestColumn_KeyFunc(t *testing.T) {
	ids := columnOf("id", "12345678901234567", "12345678901234568", "9007199254740993")
	key := ids.KeyFunc()
	assert.Equal(t, "9007199254740993", key(ids.Cells[2]))

	amounts := columnOf("amount", "1", "1.0", "2.5")
	key = amounts.KeyFunc()
	assert.Equal(t, key(amounts.Cells[0]), key(amounts.Cells[1]))

	flags := columnOf("flag", "TRUE", "true", "False")
	key = flags.KeyFunc()
	assert.Equal(t, key(flags.Cells[0]), key(flags.Cells[1]))

	codes := columnOf("code", "007", "7", "A1", "1e3", "1000")
	key = codes.KeyFunc()
	var got []string
	for _, cell := range codes.Cells {
		got = append(got, key(cell))
	}
	assert.Equal(t, []string{"007", "7", "A1", "1e3", "1000"}, got)
}
