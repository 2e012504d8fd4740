package evaluate

import (
	"fmt"
	"maps"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

const resultName = "__value__"

var fileOptions = &syntax.FileOptions{}

// Compile parses source as a single expression and checks every name it
// uses against the builtins, the dataset and locals.
func (e *Evaluator) Compile(source string, locals map[string]any) (*Compiled, error) {
	expr, err := fileOptions.ParseExpr("<expr>", source, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	var c collector
	c.walk(expr, nil)
	if c.err != nil {
		return nil, fmt.Errorf("%w: %v while compiling %q", ErrSyntax, c.err, source)
	}

	datasetNames := e.dataset.Names()
	known := func(name string) bool {
		if _, ok := locals[name]; ok {
			return true
		}
		return slices.Contains(datasetNames, name)
	}
	for _, name := range c.idents {
		if isBuiltinName(name) || known(name) {
			continue
		}
		return nil, fmt.Errorf("%w: while compiling %q discovered %s which is not a valid function or variable", ErrUnknownName, source, name)
	}
	for _, name := range c.attrs {
		if isBuiltinName(name) || slices.Contains(allowedMethods, name) || known(name) {
			continue
		}
		return nil, fmt.Errorf("%w: while compiling %q discovered %s which is not a valid function or variable", ErrUnknownName, source, name)
	}

	predeclared := make(map[string]bool, len(c.idents))
	for _, name := range c.idents {
		predeclared[name] = true
	}
	_, program, err := starlark.SourceProgramOptions(
		fileOptions,
		"<expr>",
		resultName+" = (\n"+source+"\n)",
		func(name string) bool {
			return predeclared[name]
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	e.logger.Debug("compiled", "source", source, "names", c.idents)
	return &Compiled{
		source:  source,
		program: program,
		names:   slices.Sorted(maps.Keys(predeclared)),
	}, nil
}

// collector gathers free identifiers and attribute names of an expression.
type collector struct {
	idents []string
	attrs  []string
	err    error
}

func (c *collector) walk(node syntax.Node, bound map[string]bool) {
	if c.err != nil || node == nil {
		return
	}

	switch node := node.(type) {

	case *syntax.Ident:
		if !bound[node.Name] && !slices.Contains(c.idents, node.Name) {
			c.idents = append(c.idents, node.Name)
		}

	case *syntax.Literal:

	case *syntax.DotExpr:
		c.walk(node.X, bound)
		if !slices.Contains(c.attrs, node.Name.Name) {
			c.attrs = append(c.attrs, node.Name.Name)
		}

	case *syntax.CallExpr:
		c.walk(node.Fn, bound)
		for _, arg := range node.Args {
			if kw, ok := arg.(*syntax.BinaryExpr); ok && kw.Op == syntax.EQ {
				// keyword argument
				c.walk(kw.Y, bound)
				continue
			}
			c.walk(arg, bound)
		}

	case *syntax.IndexExpr:
		c.walk(node.X, bound)
		c.walk(node.Y, bound)

	case *syntax.SliceExpr:
		c.walk(node.X, bound)
		walkOptional(c, node.Lo, bound)
		walkOptional(c, node.Hi, bound)
		walkOptional(c, node.Step, bound)

	case *syntax.BinaryExpr:
		c.walk(node.X, bound)
		c.walk(node.Y, bound)

	case *syntax.UnaryExpr:
		walkOptional(c, node.X, bound)

	case *syntax.CondExpr:
		c.walk(node.Cond, bound)
		c.walk(node.True, bound)
		c.walk(node.False, bound)

	case *syntax.ParenExpr:
		c.walk(node.X, bound)

	case *syntax.ListExpr:
		for _, elem := range node.List {
			c.walk(elem, bound)
		}

	case *syntax.TupleExpr:
		for _, elem := range node.List {
			c.walk(elem, bound)
		}

	case *syntax.DictExpr:
		for _, entry := range node.List {
			c.walk(entry, bound)
		}

	case *syntax.DictEntry:
		c.walk(node.Key, bound)
		c.walk(node.Value, bound)

	case *syntax.Comprehension:
		inner := maps.Clone(bound)
		if inner == nil {
			inner = make(map[string]bool)
		}
		for _, clause := range node.Clauses {
			switch clause := clause.(type) {
			case *syntax.ForClause:
				c.walk(clause.X, inner)
				bind(clause.Vars, inner)
			case *syntax.IfClause:
				c.walk(clause.Cond, inner)
			}
		}
		c.walk(node.Body, inner)

	case *syntax.LambdaExpr:
		c.err = fmt.Errorf("lambda is not allowed")

	default:
		c.err = fmt.Errorf("unsupported syntax %T", node)

	}
}

func walkOptional(c *collector, expr syntax.Expr, bound map[string]bool) {
	if expr != nil {
		c.walk(expr, bound)
	}
}

func bind(vars syntax.Expr, bound map[string]bool) {
	switch vars := vars.(type) {
	case *syntax.Ident:
		bound[vars.Name] = true
	case *syntax.ParenExpr:
		bind(vars.X, bound)
	case *syntax.TupleExpr:
		for _, v := range vars.List {
			bind(v, bound)
		}
	case *syntax.ListExpr:
		for _, v := range vars.List {
			bind(v, bound)
		}
	}
}
