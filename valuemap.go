package gravl

import (
	"fmt"
	"strings"
)

// Map is an insertion-ordered string-keyed map. The compact wire format
// carries map entries in a defined order and callers may rely on it, so
// a plain Go map is not enough.
type Map struct {
	keys   []string
	values map[string]interface{}
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{values: make(map[string]interface{})}
}

// Set inserts or overwrites a key. Overwriting keeps the key's original
// position; only the value changes.
func (m *Map) Set(key string, value interface{}) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it is present.
func (m *Map) Get(key string) (interface{}, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// String renders the map in insertion order.
func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, k := range m.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %v", k, m.values[k])
	}
	sb.WriteString("}")
	return sb.String()
}
