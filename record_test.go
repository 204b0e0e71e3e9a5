package csvrecord

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeyed(t *testing.T) {
	t.Parallel()

	rec, err := NewKeyed([]string{"id", "name"}, []string{"1", "Alice"})
	require.NoError(t, err)
	assert.Equal(t, Keyed, rec.Kind())
	assert.Equal(t, 2, rec.Len())
	assert.Equal(t, []string{"id", "name"}, rec.Keys())

	v, ok := rec.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Alice", v)
	_, ok = rec.Get("missing")
	assert.False(t, ok)

	v, ok = rec.Value(0)
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	_, ok = rec.Value(2)
	assert.False(t, ok)

	assert.Equal(t, map[string]string{"id": "1", "name": "Alice"}, rec.Map())
	assert.Equal(t, `{"id":"1" "name":"Alice"}`, rec.String())

	_, err = NewKeyed([]string{"a"}, nil)
	assert.Error(t, err)
}

func TestRecordDuplicateKeysLastWins(t *testing.T) {
	t.Parallel()

	rec := KeyedPairs("k", "first", "k", "second")
	v, _ := rec.Get("k")
	assert.Equal(t, "second", v)
	assert.Equal(t, 2, rec.Len())
}

func TestRecordPositional(t *testing.T) {
	t.Parallel()

	rec := NewPositional("a", "b")
	assert.Equal(t, Positional, rec.Kind())
	assert.Nil(t, rec.Keys())
	_, ok := rec.Get("a")
	assert.False(t, ok)
	assert.Equal(t, map[string]string{"0": "a", "1": "b"}, rec.Map())
	assert.Error(t, rec.Set("x", "y"))
	assert.Equal(t, "positional", rec.Kind().String())
}

func TestRecordSet(t *testing.T) {
	t.Parallel()

	var rec Record
	assert.True(t, rec.IsZero())
	require.NoError(t, rec.Set("a", "1"))
	require.NoError(t, rec.Set("b", "2"))
	require.NoError(t, rec.Set("a", "3"))
	assert.Equal(t, Keyed, rec.Kind())
	assert.Equal(t, []string{"a", "b"}, rec.Keys())
	assert.Equal(t, []string{"3", "2"}, rec.Fields())
}

func TestRecordSetDoesNotLeakIntoSharedKeys(t *testing.T) {
	t.Parallel()

	header := []string{"a"}
	first, err := NewKeyed(header[:1:1], []string{"1"})
	require.NoError(t, err)
	second, err := NewKeyed(header[:1:1], []string{"2"})
	require.NoError(t, err)

	require.NoError(t, first.Set("extra", "x"))
	assert.Equal(t, []string{"a", "extra"}, first.Keys())
	assert.Equal(t, []string{"a"}, second.Keys())
}

func TestRecordKeysDoNotAliasReaderHeader(t *testing.T) {
	t.Parallel()

	r, err := Open(strings.NewReader("id,name\n1,Alice\n2,Bob\n"), nil)
	require.NoError(t, err)
	defer r.Close()

	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	records[0].Keys()[1] = "renamed"
	r.Header()[0] = "renamed"

	assert.Equal(t, []string{"id", "name"}, r.Header())
	assert.Equal(t, []string{"id", "name"}, records[0].Keys())
	assert.Equal(t, []string{"id", "name"}, records[1].Keys())
	v, ok := records[1].Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Bob", v)
}

func TestRecordCloneAndEqual(t *testing.T) {
	t.Parallel()

	rec := KeyedPairs("a", "1", "b")
	clone := rec.Clone()
	assert.True(t, rec.Equal(clone))
	assert.Equal(t, []string{"1", ""}, clone.Fields())

	clone.Fields()[0] = "changed"
	assert.False(t, rec.Equal(clone))
	assert.False(t, rec.Equal(NewPositional("1", "")))
	assert.False(t, rec.Equal(KeyedPairs("a", "1", "c", "")))
}
