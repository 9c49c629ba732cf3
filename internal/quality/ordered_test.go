package quality

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdered_KeepsInsertionOrder(t *testing.T) {
	var o Ordered[int]
	assert.Zero(t, o.Len())
	_, ok := o.Get("missing")
	assert.False(t, ok)

	o.Set("zeta", 1)
	o.Set("alpha", 2)
	o.Set("mid", 3)
	o.Set("zeta", 4)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, o.Keys())
	v, ok := o.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, 4, v)
	assert.Equal(t, []Entry[int]{{"zeta", 4}, {"alpha", 2}, {"mid", 3}}, o.Entries())
}

func TestOrdered_JSON(t *testing.T) {
	var empty Ordered[int]
	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))

	var o Ordered[Validation]
	o.Set("zip_code_uniqueness", Validation{Success: true})
	o.Set("id_uniqueness", Validation{Success: false})
	raw, err = json.Marshal(o)
	require.NoError(t, err)

	var decoded Ordered[Validation]
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, []string{"zip_code_uniqueness", "id_uniqueness"}, decoded.Keys())
	assert.True(t, o.Equal(decoded))

	again, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.JSONEq(t, string(raw), string(again))
	assert.Equal(t, string(raw), string(again))
}

func TestOrdered_Equal(t *testing.T) {
	var a, b Ordered[int]
	assert.True(t, a.Equal(b))

	a.Set("x", 1)
	a.Set("y", 2)
	b.Set("y", 2)
	b.Set("x", 1)
	assert.False(t, a.Equal(b))

	var c Ordered[int]
	c.Set("x", 1)
	c.Set("y", 2)
	assert.True(t, a.Equal(c))
}

func TestReport_JSONRoundTrip(t *testing.T) {
	a := newTestAnalyzer(t)
	report, err := a.GenerateReport(isolationDataset(t))
	require.NoError(t, err)

	first, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(first, &decoded))
	assert.Equal(t, []string{"id", "code", "city"}, decoded.QualityChecks.Uniqueness.Metrics.Keys())

	second, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}
