package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleg578/csvrecord"
)

func TestRecordTableKeyed(t *testing.T) {
	table := NewRecordTable([]string{"id", "name"})
	table.Add(csvrecord.KeyedPairs("name", "Alice", "id", "1"))
	table.Add(csvrecord.KeyedPairs("id", "2"))

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"id", "name"}, table.Headers())
	assert.Equal(t, [][]string{{"1", "Alice"}, {"2", ""}}, table.Rows())
}

func TestRecordTablePositional(t *testing.T) {
	table := NewRecordTable(nil)
	table.Add(csvrecord.NewPositional("a"))
	table.Add(csvrecord.NewPositional("b", "c", "d"))

	assert.Equal(t, []string{"1", "2", "3"}, table.Headers())
	assert.Equal(t, [][]string{{"a", "", ""}, {"b", "c", "d"}}, table.Rows())
}

func TestPrintTable(t *testing.T) {
	table := NewRecordTable([]string{"name", "city"})
	table.Add(csvrecord.KeyedPairs("name", "Alice", "city", "Paris"))
	table.Add(csvrecord.KeyedPairs("name", "Bob", "city", "Lyon"))

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, table))

	output := buf.String()
	assert.Contains(t, output, "name")
	assert.Contains(t, output, "city")
	assert.Contains(t, output, "Alice")
	assert.Contains(t, output, "Paris")
	assert.Contains(t, output, "Lyon")
}

func TestSimpleTable(t *testing.T) {
	pairs := [][2]string{
		{"Accepted", "3"},
		{"Filtered", "1"},
	}

	var buf bytes.Buffer
	require.NoError(t, SimpleTable(&buf, pairs))

	output := buf.String()
	assert.Contains(t, output, "Accepted")
	assert.Contains(t, output, "3")
	assert.Contains(t, output, "Filtered")
}
