package quality

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/opendataqa/internal/dataset"
)

func TestAccuracy_EmailPatternMatchRate(t *testing.T) {
	a := newTestAnalyzer(t)

	check := a.Accuracy(contactsDataset(t))

	email, ok := check.Metrics.Get("email")
	require.True(t, ok)
	assert.Equal(t, "object", email.DataType)
	assert.Equal(t, 10, email.UniqueValuesCount)
	require.NotNil(t, email.PatternMatchRate)
	assert.Equal(t, 0.8, *email.PatternMatchRate)
	assert.Equal(t, 1.0, check.Grade.Score)
}

func TestAccuracy_EmailMissingValuesExcluded(t *testing.T) {
	a := newTestAnalyzer(t)
	ds := column(t, "Contact_Email", "a@example.com", "", "b@example.com", "NULL", "broken")

	check := a.Accuracy(ds)

	email, _ := check.Metrics.Get("Contact_Email")
	require.NotNil(t, email.PatternMatchRate)
	assert.Equal(t, 0.667, *email.PatternMatchRate)
}

func TestAccuracy_EmailAllMissing(t *testing.T) {
	a := newTestAnalyzer(t)

	check := a.Accuracy(column(t, "email", "", ""))

	email, _ := check.Metrics.Get("email")
	require.NotNil(t, email.PatternMatchRate)
	assert.Equal(t, 0.0, *email.PatternMatchRate)
}

func TestAccuracy_NumericStats(t *testing.T) {
	a := newTestAnalyzer(t)
	ds := column(t, "amount", "2", "4", "4", "4", "5", "5", "7", "9")

	check := a.Accuracy(ds)

	amount, _ := check.Metrics.Get("amount")
	assert.Equal(t, "int64", amount.DataType)
	assert.Equal(t, 5, amount.UniqueValuesCount)
	assert.Equal(t, 2.0, *amount.Min)
	assert.Equal(t, 9.0, *amount.Max)
	assert.Equal(t, 5.0, *amount.Mean)
	assert.Equal(t, 2.138, *amount.Std)
	assert.Nil(t, amount.PatternMatchRate)
}

func TestAccuracy_FloatColumnWithMissing(t *testing.T) {
	a := newTestAnalyzer(t)

	check := a.Accuracy(column(t, "rate", "1", "", "2.5"))

	rate, _ := check.Metrics.Get("rate")
	assert.Equal(t, "float64", rate.DataType)
	assert.Equal(t, 1.75, *rate.Mean)
}

func TestAccuracy_MixedTypePenalty(t *testing.T) {
	a := newTestAnalyzer(t)
	ds := mustDataset(t, []string{"code", "note", "qty"}, [][]string{
		{"A1", "12", "1"},
		{"17", "hello", "2"},
		{"B2", "", "3"},
		{"C3", "ok", ""},
	})

	check := a.Accuracy(ds)

	code, _ := check.Metrics.Get("code")
	note, _ := check.Metrics.Get("note")
	qty, _ := check.Metrics.Get("qty")
	assert.True(t, code.MixedTypes)
	assert.True(t, note.MixedTypes)
	assert.False(t, qty.MixedTypes)

	assert.Equal(t, 0.9, check.Grade.Score)
	assert.Equal(t, Good, check.Grade.Interpretation)

	v, ok := check.Validations.Get("data_type_check")
	require.True(t, ok)
	assert.False(t, v.Success)
	assert.Equal(t, 0, v.UnexpectedCount)
}

func TestAccuracy_MissingValuesDoNotMixTypes(t *testing.T) {
	a := newTestAnalyzer(t)

	check := a.Accuracy(column(t, "city", "Monterrey", "", "Saltillo", "N/A"))

	city, _ := check.Metrics.Get("city")
	assert.False(t, city.MixedTypes)
	assert.Equal(t, 1.0, check.Grade.Score)
}

func TestAccuracy_ScoreNotClamped(t *testing.T) {
	a := newTestAnalyzer(t)

	header := make([]string, 25)
	row1 := make([]string, 25)
	row2 := make([]string, 25)
	for i := range header {
		header[i] = fmt.Sprintf("col%d", i)
		row1[i] = "text"
		row2[i] = "42"
	}
	ds := mustDataset(t, header, [][]string{row1, row2})

	check := a.Accuracy(ds)

	assert.Equal(t, -0.25, check.Grade.Score)
	assert.Equal(t, Failed, check.Grade.Interpretation)
	v, _ := check.Validations.Get("data_type_check")
	assert.Equal(t, 3, v.UnexpectedCount)
}

func TestAnalyzer_IsolateRecoversPanics(t *testing.T) {
	a := newTestAnalyzer(t)

	err := a.isolate(CategoryAccuracy, "broken", func() {
		panic("unexpected value shape")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected value shape")

	assert.NoError(t, a.isolate(CategoryAccuracy, "fine", func() {}))
}

func TestAccuracy_LongIntegerIDsAreDistinct(t *testing.T) {
	a := newTestAnalyzer(t)

	check := a.Accuracy(column(t, "record_id", "12345678901234567", "12345678901234568", "12345678901234569"))

	id, _ := check.Metrics.Get("record_id")
	assert.Equal(t, dataset.TypeInt64, id.DataType)
	assert.Equal(t, 3, id.UniqueValuesCount)
}
