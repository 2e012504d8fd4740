package evaluate

import (
	"fmt"
	"strings"

	"github.com/reusee/tinydisplay/dataset"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// dataValue exposes a dataset.Data to expressions as a read-only mapping.
// Keys are reachable by index and by attribute.
type dataValue struct {
	data dataset.Data
}

const dataTypeName = "data"

var (
	_ starlark.IterableMapping = new(dataValue)
	_ starlark.HasAttrs        = new(dataValue)
	_ starlark.Sequence        = new(dataValue)
	_ starlark.Comparable      = new(dataValue)
)

func newDataValue(data dataset.Data) *dataValue {
	return &dataValue{
		data: data,
	}
}

func (d *dataValue) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, key := range d.data.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		v, _ := d.data.Get(key)
		b.WriteString(starlark.String(key).String())
		b.WriteString(": ")
		b.WriteString(toStarlarkValue(v).String())
	}
	b.WriteByte('}')
	return b.String()
}

func (d *dataValue) Type() string {
	return dataTypeName
}

func (d *dataValue) Freeze() {}

func (d *dataValue) Truth() starlark.Bool {
	return d.data.Len() > 0
}

func (d *dataValue) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", dataTypeName)
}

func (d *dataValue) Len() int {
	return d.data.Len()
}

func (d *dataValue) Get(k starlark.Value) (starlark.Value, bool, error) {
	key, ok := starlark.AsString(k)
	if !ok {
		return nil, false, &KeyError{Key: k.String(), Type: dataTypeName}
	}
	v, ok := d.data.Get(key)
	if !ok {
		return nil, false, &KeyError{Key: k.String(), Type: dataTypeName}
	}
	return toStarlarkValue(v), true, nil
}

func (d *dataValue) Iterate() starlark.Iterator {
	return &keysIterator{
		keys: d.data.Keys(),
	}
}

func (d *dataValue) Items() []starlark.Tuple {
	keys := d.data.Keys()
	ret := make([]starlark.Tuple, 0, len(keys))
	for _, key := range keys {
		v, _ := d.data.Get(key)
		ret = append(ret, starlark.Tuple{starlark.String(key), toStarlarkValue(v)})
	}
	return ret
}

// Attr resolves the get method first, then keys.
func (d *dataValue) Attr(name string) (starlark.Value, error) {
	if name == "get" {
		return starlark.NewBuiltin("get", d.get), nil
	}
	v, ok := d.data.Get(name)
	if !ok {
		return nil, &AttributeError{Name: name, Type: dataTypeName}
	}
	return toStarlarkValue(v), nil
}

func (d *dataValue) AttrNames() []string {
	return append([]string{"get"}, d.data.Keys()...)
}

func (d *dataValue) get(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var key, def starlark.Value = nil, starlark.None
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &key, &def); err != nil {
		return nil, err
	}
	v, found, _ := d.Get(key)
	if !found {
		return def, nil
	}
	return v, nil
}

func (d *dataValue) CompareSameType(op syntax.Token, y starlark.Value, depth int) (bool, error) {
	other := y.(*dataValue)
	switch op {
	case syntax.EQL:
		return d.equal(other, depth)
	case syntax.NEQ:
		eq, err := d.equal(other, depth)
		return !eq, err
	}
	return false, fmt.Errorf("%s %s %s not implemented", dataTypeName, op, dataTypeName)
}

func (d *dataValue) equal(other *dataValue, depth int) (bool, error) {
	if d.data.Len() != other.data.Len() {
		return false, nil
	}
	for _, key := range d.data.Keys() {
		v, _ := d.data.Get(key)
		w, ok := other.data.Get(key)
		if !ok {
			return false, nil
		}
		eq, err := starlark.EqualDepth(toStarlarkValue(v), toStarlarkValue(w), depth-1)
		if err != nil || !eq {
			return false, err
		}
	}
	return true, nil
}

type keysIterator struct {
	keys []string
}

func (k *keysIterator) Next(p *starlark.Value) bool {
	if len(k.keys) == 0 {
		return false
	}
	*p = starlark.String(k.keys[0])
	k.keys = k.keys[1:]
	return true
}

func (k *keysIterator) Done() {}
