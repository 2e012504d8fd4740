package evaluate

import (
	"fmt"
	"time"

	"github.com/reusee/tinydisplay/dataset"
	"github.com/reusee/tinydisplay/logs"
	"go.starlark.net/starlark"
)

// Policy decides what happens to key and type errors at run time.
// Every other error is always returned.
type Policy struct {
	SuppressErrors bool
	ReturnOnError  any
}

type Evaluator struct {
	dataset  *dataset.Dataset
	policy   Policy
	logger   logs.Logger
	now      func() time.Time
	maxSteps uint64
	builtins starlark.StringDict
}

type Option func(*Evaluator)

func SuppressErrors(suppress bool) Option {
	return func(e *Evaluator) {
		e.policy.SuppressErrors = suppress
	}
}

func ReturnOnError(value any) Option {
	return func(e *Evaluator) {
		e.policy.ReturnOnError = value
	}
}

func WithPolicy(policy Policy) Option {
	return func(e *Evaluator) {
		e.policy = policy
	}
}

func WithLogger(logger logs.Logger) Option {
	return func(e *Evaluator) {
		e.logger = logger
	}
}

// WithClock sets the source of time.time() and friends.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		e.now = now
	}
}

// WithMaxSteps bounds the work of one evaluation. Zero means unbounded.
func WithMaxSteps(steps uint64) Option {
	return func(e *Evaluator) {
		e.maxSteps = steps
	}
}

const DefaultMaxSteps = 1 << 20

func New(ds *dataset.Dataset, options ...Option) *Evaluator {
	e := &Evaluator{
		dataset: ds,
		policy: Policy{
			ReturnOnError: "",
		},
		logger:   logs.Discard,
		now:      time.Now,
		maxSteps: DefaultMaxSteps,
	}
	for _, option := range options {
		option(e)
	}
	e.builtins = e.makeBuiltins()
	return e
}

func (e *Evaluator) Dataset() *dataset.Dataset {
	return e.dataset
}

func (e *Evaluator) Policy() Policy {
	return e.policy
}

// Eval evaluates v with the default policy.
// Compiled expressions run, functions of the dataset are called, anything else is returned as is.
func (e *Evaluator) Eval(v any, locals map[string]any) (any, error) {
	return e.EvalPolicy(v, locals, e.policy)
}

func (e *Evaluator) EvalPolicy(v any, locals map[string]any, policy Policy) (any, error) {
	switch v := v.(type) {
	case *Compiled:
		return e.run(v, locals, policy)
	case func(dataset.Snapshot) any:
		return v(e.dataset.Snapshot()), nil
	case func(map[string]dataset.Data) any:
		return v(e.dataset.Snapshot()), nil
	}
	return v, nil
}

func (e *Evaluator) run(c *Compiled, locals map[string]any, policy Policy) (any, error) {
	// locals shadow the dataset, the dataset shadows builtins
	env := make(starlark.StringDict, len(c.names))
	var snapshot dataset.Snapshot
	for _, name := range c.names {
		if v, ok := locals[name]; ok {
			env[name] = toStarlarkValue(v)
			continue
		}
		if snapshot == nil {
			snapshot = e.dataset.Snapshot()
		}
		if data, ok := snapshot[name]; ok {
			env[name] = newDataValue(data)
			continue
		}
		if v, ok := e.builtins[name]; ok {
			env[name] = v
			continue
		}
		// a local present at compile time and missing now
		return nil, &EvalError{
			Kind:   ErrUnknownName,
			Source: c.source,
			Err:    fmt.Errorf("name %s is not defined", name),
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	thread := &starlark.Thread{
		Name: c.source,
	}
	thread.SetLocal(compiledKey, c)
	if e.maxSteps > 0 {
		thread.SetMaxExecutionSteps(e.maxSteps)
	}

	globals, err := c.program.Init(thread, env)
	if err != nil {
		kind := classify(err)
		if policy.SuppressErrors && suppressible(kind, err) {
			e.logger.Debug("evaluation error suppressed",
				"source", c.source,
				"error", err,
			)
			return policy.ReturnOnError, nil
		}
		return nil, &EvalError{
			Kind:   kind,
			Source: c.source,
			Err:    err,
		}
	}

	return fromStarlarkValue(globals[resultName]), nil
}
