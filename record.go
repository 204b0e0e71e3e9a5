package csvrecord

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tells how a Record addresses its fields.
type Kind uint8

const (
	// Positional records are plain ordered field lists.
	Positional Kind = iota
	// Keyed records map header names to values, in header order.
	Keyed
)

func (k Kind) String() string {
	switch k {
	case Positional:
		return "positional"
	case Keyed:
		return "keyed"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Record is one CSV row. A Keyed record carries the names of its fields; a Positional one does not.
// Records returned by a Reader are owned by the caller.
type Record struct {
	kind   Kind
	keys   []string
	values []string
}

// NewPositional returns a Positional record holding values.
func NewPositional(values ...string) Record {
	return Record{kind: Positional, values: values}
}

// NewKeyed returns a Keyed record. keys and values must have the same length.
func NewKeyed(keys, values []string) (Record, error) {
	if len(keys) != len(values) {
		return Record{}, fmt.Errorf("csvrecord: %d keys for %d values", len(keys), len(values))
	}
	return Record{kind: Keyed, keys: keys, values: values}, nil
}

// KeyedPairs builds a Keyed record from alternating key and value arguments.
// A trailing key without a value gets the empty string.
func KeyedPairs(pairs ...string) Record {
	n := (len(pairs) + 1) / 2
	rec := Record{kind: Keyed, keys: make([]string, 0, n), values: make([]string, 0, n)}
	for i := 0; i < len(pairs); i += 2 {
		value := ""
		if i+1 < len(pairs) {
			value = pairs[i+1]
		}
		rec.keys = append(rec.keys, pairs[i])
		rec.values = append(rec.values, value)
	}
	return rec
}

// Kind reports whether the record is Positional or Keyed.
func (r Record) Kind() Kind { return r.kind }

// Len returns the number of fields.
func (r Record) Len() int { return len(r.values) }

// IsZero reports whether r has no fields and no keys.
func (r Record) IsZero() bool { return len(r.values) == 0 && len(r.keys) == 0 }

// Fields returns the values in order. The slice is shared with the record.
func (r Record) Fields() []string { return r.values }

// Keys returns a copy of the field names of a Keyed record, nil for a Positional one.
// Records read from the same Reader share their names, so they are never handed out directly.
func (r Record) Keys() []string {
	if r.kind != Keyed {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// Value returns the i-th field.
func (r Record) Value(i int) (string, bool) {
	if i < 0 || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// Get looks up a field by name. When a header repeats a name the last column wins.
func (r Record) Get(key string) (string, bool) {
	if r.kind != Keyed {
		return "", false
	}
	for i := len(r.keys) - 1; i >= 0; i-- {
		if r.keys[i] == key {
			return r.values[i], true
		}
	}
	return "", false
}

// Set replaces the value for key, appending a new field when key is absent.
// Calling Set on a Positional record turns it into a Keyed one only when it is empty.
func (r *Record) Set(key, value string) error {
	if r.kind != Keyed {
		if len(r.values) > 0 {
			return fmt.Errorf("csvrecord: set %q on positional record", key)
		}
		r.kind = Keyed
	}
	for i := len(r.keys) - 1; i >= 0; i-- {
		if r.keys[i] == key {
			r.values[i] = value
			return nil
		}
	}
	// Clip so the append never writes into a backing array shared with other records.
	r.keys = append(r.keys[:len(r.keys):len(r.keys)], key)
	r.values = append(r.values, value)
	return nil
}

// Map copies a Keyed record into a map. Positional records are keyed by their decimal index.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.values))
	for i, v := range r.values {
		if r.kind == Keyed {
			m[r.keys[i]] = v
		} else {
			m[strconv.Itoa(i)] = v
		}
	}
	return m
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	out := Record{kind: r.kind}
	if r.keys != nil {
		out.keys = append([]string(nil), r.keys...)
	}
	if r.values != nil {
		out.values = append([]string(nil), r.values...)
	}
	return out
}

// Equal reports whether both records have the same kind, keys and values.
func (r Record) Equal(other Record) bool {
	if r.kind != other.kind || len(r.values) != len(other.values) {
		return false
	}
	for i := range r.values {
		if r.values[i] != other.values[i] {
			return false
		}
		if r.kind == Keyed && r.keys[i] != other.keys[i] {
			return false
		}
	}
	return true
}

// String renders the record for debugging.
func (r Record) String() string {
	if r.kind != Keyed {
		return fmt.Sprintf("%q", r.values)
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%q:%q", k, r.values[i])
	}
	b.WriteByte('}')
	return b.String()
}
