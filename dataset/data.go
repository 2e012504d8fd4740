package dataset

import (
	"maps"
	"slices"
)

// Data is a read-only view of a mapping. Nested maps are viewed as Data too.
type Data struct {
	m map[string]any
}

func NewData(m map[string]any) Data {
	return Data{
		m: m,
	}
}

func (d Data) Get(key string) (any, bool) {
	v, ok := d.m[key]
	if m, isMap := v.(map[string]any); isMap {
		return NewData(m), ok
	}
	return v, ok
}

// Sub returns the nested mapping under key.
func (d Data) Sub(key string) (Data, bool) {
	v, ok := d.m[key].(map[string]any)
	if !ok {
		return Data{}, false
	}
	return NewData(v), true
}

func (d Data) Keys() []string {
	return slices.Sorted(maps.Keys(d.m))
}

func (d Data) Len() int {
	return len(d.m)
}

// Map returns a deep copy of the viewed mapping.
func (d Data) Map() map[string]any {
	return deepCopy(d.m)
}

// Snapshot is the namespace of a dataset at one moment: each sub-database by
// name, and the previous states under "prev".
type Snapshot map[string]Data

const PrevName = "prev"
