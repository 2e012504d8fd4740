package evaluate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// compile time
	ErrUnknownName = errors.New("name error")
	ErrSyntax      = errors.New("syntax error")

	// run time, only key and type errors are suppressible
	ErrKey        = errors.New("key error")
	ErrType       = errors.New("type error")
	ErrAttribute  = errors.New("attribute error")
	ErrValue      = errors.New("value error")
	ErrIndex      = errors.New("index error")
	ErrArithmetic = errors.New("arithmetic error")

	// ErrSelectArgs is a type error that is never suppressed: the arguments are part of the expression text.
	ErrSelectArgs = fmt.Errorf("%w: select needs a value followed by key/result pairs", ErrType)
)

// EvalError is returned when a compiled expression fails to run.
type EvalError struct {
	Kind   error
	Source string
	Err    error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("%v: %v while trying to evaluate %q", e.Kind, e.Err, e.Source)
}

func (e *EvalError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

type KeyError struct {
	Key  string
	Type string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("key %s not in %s", e.Key, e.Type)
}

type AttributeError struct {
	Name string
	Type string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("%s has no .%s field or method", e.Type, e.Name)
}

// classify maps an interpreter error to one of the run time kinds.
// Errors raised by the interpreter itself carry no type, so their messages are matched.
func classify(err error) error {
	var keyErr *KeyError
	if errors.As(err, &keyErr) {
		return ErrKey
	}
	var attrErr *AttributeError
	if errors.As(err, &attrErr) {
		return ErrAttribute
	}
	if errors.Is(err, ErrType) {
		return ErrType
	}
	msg := err.Error()
	if strings.Contains(msg, " field or method") {
		return ErrAttribute
	}
	if strings.Contains(msg, "key ") && strings.Contains(msg, " not in ") {
		return ErrKey
	}
	if strings.Contains(msg, "by zero") {
		return ErrArithmetic
	}
	if strings.Contains(msg, "out of range") {
		return ErrIndex
	}
	if strings.Contains(msg, "invalid") && strings.Contains(msg, "literal") {
		return ErrValue
	}
	return ErrType
}

func suppressible(kind error, err error) bool {
	return (kind == ErrKey || kind == ErrType) &&
		!errors.Is(err, ErrSelectArgs)
}
