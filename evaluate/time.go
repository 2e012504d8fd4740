package evaluate

import (
	"fmt"
	"math"
	"time"

	"github.com/ncruces/go-strftime"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.starlark.net/syntax"
)

// timeValue is a moment as seen by expressions. It prints like time.Time and
// formats with C strftime directives.
type timeValue time.Time

var (
	_ starlark.HasAttrs   = timeValue{}
	_ starlark.Comparable = timeValue{}
)

func (t timeValue) String() string {
	return time.Time(t).String()
}

func (t timeValue) Type() string {
	return "time"
}

func (t timeValue) Freeze() {}

func (t timeValue) Truth() starlark.Bool {
	return starlark.Bool(!time.Time(t).IsZero())
}

func (t timeValue) Hash() (uint32, error) {
	return uint32(time.Time(t).UnixNano()), nil
}

func (t timeValue) Attr(name string) (starlark.Value, error) {
	if name == "strftime" {
		return starlark.NewBuiltin("strftime", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			var layout string
			if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &layout); err != nil {
				return nil, err
			}
			return starlark.String(strftime.Format(layout, time.Time(t))), nil
		}), nil
	}
	return nil, nil
}

func (t timeValue) AttrNames() []string {
	return []string{"strftime"}
}

func (t timeValue) CompareSameType(op syntax.Token, y starlark.Value, depth int) (bool, error) {
	a, b := time.Time(t), time.Time(y.(timeValue))
	return threeway(op, a.Compare(b))
}

func newTimeModule(now func() time.Time) *starlarkstruct.Module {
	return &starlarkstruct.Module{
		Name: "time",
		Members: starlark.StringDict{

			"time": starlark.NewBuiltin("time", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0); err != nil {
					return nil, err
				}
				return starlark.Float(float64(now().UnixNano()) / 1e9), nil
			}),

			"gmtime": starlark.NewBuiltin("gmtime", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				t, err := unpackMoment(b, args, kwargs, now)
				if err != nil {
					return nil, err
				}
				return timeValue(t.UTC()), nil
			}),

			"localtime": starlark.NewBuiltin("localtime", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				t, err := unpackMoment(b, args, kwargs, now)
				if err != nil {
					return nil, err
				}
				return timeValue(t.Local()), nil
			}),

			"strftime": starlark.NewBuiltin("strftime", func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
				var layout string
				var moment starlark.Value = starlark.None
				if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &layout, &moment); err != nil {
					return nil, err
				}
				t, err := asMoment(b.Name(), moment, now)
				if err != nil {
					return nil, err
				}
				return starlark.String(strftime.Format(layout, t)), nil
			}),

			"timezone": starlark.MakeInt(timezone(now())),
		},
	}
}

func unpackMoment(b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple, now func() time.Time) (time.Time, error) {
	var moment starlark.Value = starlark.None
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 0, &moment); err != nil {
		return time.Time{}, err
	}
	return asMoment(b.Name(), moment, now)
}

// asMoment accepts None (now), a time value, or seconds since the epoch.
func asMoment(fn string, v starlark.Value, now func() time.Time) (time.Time, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return now().Local(), nil
	case timeValue:
		return time.Time(v), nil
	}
	secs, ok := starlark.AsFloat(v)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s: want time or number, got %s", ErrType, fn, v.Type())
	}
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).Local(), nil
}

// timezone returns the offset of local standard time in seconds west of UTC.
func timezone(t time.Time) int {
	jan := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.Local)
	jul := time.Date(t.Year(), time.July, 1, 0, 0, 0, 0, time.Local)
	_, janOffset := jan.Zone()
	_, julOffset := jul.Zone()
	return -min(janOffset, julOffset)
}

func threeway(op syntax.Token, cmp int) (bool, error) {
	switch op {
	case syntax.EQL:
		return cmp == 0, nil
	case syntax.NEQ:
		return cmp != 0, nil
	case syntax.LT:
		return cmp < 0, nil
	case syntax.LE:
		return cmp <= 0, nil
	case syntax.GT:
		return cmp > 0, nil
	case syntax.GE:
		return cmp >= 0, nil
	}
	return false, fmt.Errorf("%w: unexpected comparison %s", ErrType, op)
}
