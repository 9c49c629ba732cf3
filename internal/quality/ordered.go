package quality

import (
	"reflect"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entry is one keyed value of an Ordered map.
type Entry[T any] struct {
	Key   string
	Value T
}

// Ordered is a string-keyed map that keeps insertion order, so that
// column-keyed blocks serialize in column order. The zero value is empty and
// ready to use.
type Ordered[T any] struct {
	m *orderedmap.OrderedMap[string, T]
}

// Set appends or replaces the value stored under key.
func (o *Ordered[T]) Set(key string, value T) {
	if o.m == nil {
		o.m = orderedmap.New[string, T]()
	}
	o.m.Set(key, value)
}

// Get returns the value stored under key.
func (o Ordered[T]) Get(key string) (T, bool) {
	if o.m == nil {
		var zero T
		return zero, false
	}
	return o.m.Get(key)
}

// Len returns the number of entries.
func (o Ordered[T]) Len() int {
	if o.m == nil {
		return 0
	}
	return o.m.Len()
}

// Entries returns the entries in insertion order.
func (o Ordered[T]) Entries() []Entry[T] {
	entries := make([]Entry[T], 0, o.Len())
	if o.m == nil {
		return entries
	}
	for pair := o.m.Oldest(); pair != nil; pair = pair.Next() {
		entries = append(entries, Entry[T]{Key: pair.Key, Value: pair.Value})
	}
	return entries
}

// Keys returns the keys in order.
func (o Ordered[T]) Keys() []string {
	keys := make([]string, 0, o.Len())
	for _, e := range o.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Equal reports whether both maps hold the same entries in the same order.
func (o Ordered[T]) Equal(other Ordered[T]) bool {
	return reflect.DeepEqual(o.Entries(), other.Entries())
}

// MarshalJSON encodes the entries as a JSON object in insertion order.
func (o Ordered[T]) MarshalJSON() ([]byte, error) {
	if o.m == nil {
		return []byte("{}"), nil
	}
	return o.m.MarshalJSON()
}

// UnmarshalJSON decodes a JSON object, keeping its key order.
func (o *Ordered[T]) UnmarshalJSON(data []byte) error {
	m := orderedmap.New[string, T]()
	if err := m.UnmarshalJSON(data); err != nil {
		return err
	}
	o.m = m
	return nil
}
