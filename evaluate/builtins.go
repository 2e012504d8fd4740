package evaluate

import (
	"fmt"
	"math"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var allowedBuiltins = []string{
	"abs", "bin", "bool", "bytes", "chr", "dict", "float", "format", "hex",
	"int", "len", "list", "max", "min", "oct", "ord", "round", "str", "sum",
	"tuple", "time", "changed", "select", "history",
}

var allowedMethods = []string{
	"get", "lower", "upper", "capitalize", "title", "find",
	"strftime", "gmtime", "localtime", "timezone",
}

var constants = []string{
	"True", "False", "None",
}

// taken as is from the interpreter
var universeBuiltins = []string{
	"bool", "bytes", "chr", "dict", "float", "int", "len", "list",
	"max", "min", "ord", "str", "tuple",
	"True", "False", "None",
}

func isBuiltinName(name string) bool {
	return slices.Contains(allowedBuiltins, name) || slices.Contains(constants, name)
}

func (e *Evaluator) makeBuiltins() starlark.StringDict {
	ret := starlark.StringDict{
		"abs":     starlark.NewBuiltin("abs", builtinAbs),
		"bin":     intText("bin", "0b", 2),
		"oct":     intText("oct", "0o", 8),
		"hex":     intText("hex", "0x", 16),
		"format":  starlark.NewBuiltin("format", builtinFormat),
		"round":   starlark.NewBuiltin("round", builtinRound),
		"sum":     starlark.NewBuiltin("sum", builtinSum),
		"time":    newTimeModule(e.now),
		"changed": starlark.NewBuiltin("changed", builtinChanged),
		"select":  starlark.NewBuiltin("select", builtinSelect),
		"history": starlark.NewBuiltin("history", e.builtinHistory),
	}
	for _, name := range universeBuiltins {
		ret[name] = starlark.Universe[name]
	}
	return ret
}

func builtinAbs(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x); err != nil {
		return nil, err
	}
	switch x := x.(type) {
	case starlark.Int:
		if x.Sign() < 0 {
			return starlark.MakeInt(0).Sub(x), nil
		}
		return x, nil
	case starlark.Float:
		return starlark.Float(math.Abs(float64(x))), nil
	}
	return nil, fmt.Errorf("%w: bad operand type for abs(): %s", ErrType, x.Type())
}

func intText(name string, prefix string, base int) *starlark.Builtin {
	return starlark.NewBuiltin(name, func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var x starlark.Int
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &x); err != nil {
			return nil, err
		}
		i := x.BigInt()
		sign := ""
		if i.Sign() < 0 {
			sign = "-"
			i.Abs(i)
		}
		return starlark.String(sign + prefix + i.Text(base)), nil
	})
}

func builtinFormat(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value
	var spec string
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value, &spec); err != nil {
		return nil, err
	}
	s, err := formatValue(value, spec)
	if err != nil {
		return nil, err
	}
	return starlark.String(s), nil
}

// builtinRound rounds half to even. Without ndigits the result is an int.
func builtinRound(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var x starlark.Value
	var ndigits starlark.Value = starlark.None
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "number", &x, "ndigits?", &ndigits); err != nil {
		return nil, err
	}
	digits := 0
	if ndigits != starlark.None {
		n, err := starlark.AsInt32(ndigits)
		if err != nil {
			return nil, fmt.Errorf("%w: round: %v", ErrType, err)
		}
		digits = n
	}

	switch x := x.(type) {

	case starlark.Int:
		if digits >= 0 {
			return x, nil
		}
		f, _ := starlark.AsFloat(x)
		p := math.Pow10(-digits)
		return starlark.MakeInt64(int64(math.RoundToEven(f/p) * p)), nil

	case starlark.Float:
		f := float64(x)
		if ndigits == starlark.None {
			if math.IsInf(f, 0) || math.IsNaN(f) {
				return nil, fmt.Errorf("%w: cannot round %v to an integer", ErrType, f)
			}
			return starlark.MakeInt64(int64(math.RoundToEven(f))), nil
		}
		p := math.Pow10(digits)
		return starlark.Float(math.RoundToEven(f*p) / p), nil

	}
	return nil, fmt.Errorf("%w: type %s doesn't define round", ErrType, x.Type())
}

func builtinSum(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var iterable starlark.Iterable
	var acc starlark.Value = starlark.MakeInt(0)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "iterable", &iterable, "start?", &acc); err != nil {
		return nil, err
	}
	if _, ok := acc.(starlark.String); ok {
		return nil, fmt.Errorf("%w: sum() can't sum strings", ErrType)
	}
	iter := iterable.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		var err error
		acc, err = starlark.Binary(syntax.PLUS, acc, x)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// builtinSelect returns the result paired with the first key equal to the value, or "".
func builtinSelect(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%w: unexpected keyword arguments", ErrSelectArgs)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: missing value", ErrSelectArgs)
	}
	value, pairs := args[0], args[1:]
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("%w: got %d trailing arguments", ErrSelectArgs, len(pairs))
	}
	for i := 0; i < len(pairs); i += 2 {
		eq, err := starlark.Equal(value, pairs[i])
		if err != nil {
			return nil, err
		}
		if eq {
			return pairs[i+1], nil
		}
	}
	return starlark.String(""), nil
}

func builtinChanged(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &value); err != nil {
		return nil, err
	}
	c, ok := thread.Local(compiledKey).(*Compiled)
	if !ok {
		return nil, fmt.Errorf("%w: changed: no expression is running", ErrType)
	}
	changed, err := c.observe(value)
	if err != nil {
		return nil, err
	}
	return starlark.Bool(changed), nil
}

func (e *Evaluator) builtinHistory(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	var n int
	if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 2, &name, &n); err != nil {
		return nil, err
	}
	return newDataValue(e.dataset.History(name, n)), nil
}
