package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		value string
		kind  Kind
		num   float64
	}{
		{"", KindMissing, 0},
		{"NA", KindMissing, 0},
		{"null", KindMissing, 0},
		{"#N/A", KindMissing, 0},
		{"42", KindInteger, 42},
		{"-7", KindInteger, -7},
		{"+3", KindInteger, 3},
		{"3.14", KindFloat, 3.14},
		{".5", KindFloat, 0.5},
		{"1e-3", KindFloat, 0.001},
		{"12345678901234567890", KindText, 0},
		{"true", KindBoolean, 0},
		{"FALSE", KindBoolean, 0},
		{"yes", KindText, 0},
		{"2024-02-29", KindDate, 0},
		{"03/15/2024", KindDate, 0},
		{"2024-02-30", KindText, 0},
		{"inf", KindText, 0},
		{"1.2.3", KindText, 0},
		{"-", KindText, 0},
		{"1e", KindText, 0},
		{"e5", KindText, 0},
		{"hello world", KindText, 0},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			cell := ParseCell(tt.value)
			assert.Equal(t, tt.kind, cell.Kind, "kind of %q is %s", tt.value, cell.Kind)
			assert.Equal(t, tt.value, cell.Raw)
			if cell.IsNumeric() {
				assert.InDelta(t, tt.num, cell.Num, 1e-12)
			}
			if cell.Kind == KindInteger {
				assert.Equal(t, int64(tt.num), cell.Int)
			}
		})
	}
}

func TestParseCell_Boolean(t *testing.T) {
	assert.True(t, ParseCell("True").Bool)
	assert.False(t, ParseCell("false").Bool)
}

func TestIsMissingToken(t *testing.T) {
	for _, v := range []string{"", "NaN", "N/A", "None", "<NA>"} {
		assert.True(t, IsMissingToken(v), v)
	}
	for _, v := range []string{" ", "0", "none", "missing"} {
		assert.False(t, IsMissingToken(v), v)
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "integer", KindInteger.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}
