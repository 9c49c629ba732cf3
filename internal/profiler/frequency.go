package profiler

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/peekknuf/opendataqa/internal/dataset"
)

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string
	Count int
}

// FrequencyTable lists distinct values by descending count. Values with equal
// counts keep the order in which they first appeared.
type FrequencyTable []ValueCount

// ValueCounts builds the frequency table of the non-missing cells of a
// column. Values are identified the way the column type compares them.
func ValueCounts(col dataset.Column) FrequencyTable {
	keyOf := col.KeyFunc()
	index := make(map[string]int)
	var table FrequencyTable
	for _, cell := range col.Cells {
		if cell.IsMissing() {
			continue
		}
		key := keyOf(cell)
		if i, ok := index[key]; ok {
			table[i].Count++
			continue
		}
		index[key] = len(table)
		table = append(table, ValueCount{Value: key, Count: 1})
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Count > table[j].Count
	})
	return table
}

// Top returns the most frequent value, or the zero entry for an empty table.
func (t FrequencyTable) Top() ValueCount {
	if len(t) == 0 {
		return ValueCount{}
	}
	return t[0]
}

// Repeated returns the entries that occur more than once.
func (t FrequencyTable) Repeated() FrequencyTable {
	out := FrequencyTable{}
	for _, vc := range t {
		if vc.Count > 1 {
			out = append(out, vc)
		}
	}
	return out
}

func (t FrequencyTable) toMap() *orderedmap.OrderedMap[string, int] {
	m := orderedmap.New[string, int](len(t))
	for _, vc := range t {
		m.Set(vc.Value, vc.Count)
	}
	return m
}

// MarshalJSON encodes the table as a JSON object, keeping entry order.
func (t FrequencyTable) MarshalJSON() ([]byte, error) {
	return t.toMap().MarshalJSON()
}

// UnmarshalJSON decodes a JSON object of counts, keeping key order.
func (t *FrequencyTable) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, int]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	table := make(FrequencyTable, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		table = append(table, ValueCount{Value: pair.Key, Count: pair.Value})
	}
	*t = table
	return nil
}
