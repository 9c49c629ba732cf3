package quality

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/peekknuf/opendataqa/internal/dataset"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(DefaultConfig(), WithClock(clockwork.NewFakeClockAt(fixedTime)))
	require.NoError(t, err)
	return a
}

func mustDataset(t *testing.T, header []string, rows [][]string) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.FromRecords("test.csv", header, rows)
	require.NoError(t, err)
	return ds
}

// column builds a single-column dataset from raw values.
func column(t *testing.T, name string, values ...string) *dataset.Dataset {
	t.Helper()
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{v}
	}
	return mustDataset(t, []string{name}, rows)
}

// contactsDataset has 10 rows: unique integer ids and 8 well-formed emails.
func contactsDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	return mustDataset(t, []string{"id", "email"}, [][]string{
		{"1", "ana@example.com"},
		{"2", "ben.smith@example.org"},
		{"3", "carla_ruiz@mail.example.mx"},
		{"4", "not-an-email"},
		{"5", "dan-o@example.net"},
		{"6", "eve@example.com"},
		{"7", "frank@"},
		{"8", "gina@example.co"},
		{"9", "hugo@example.io"},
		{"10", "ivy@example.gov"},
	})
}
