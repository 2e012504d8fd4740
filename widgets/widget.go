package widgets

import (
	"fmt"
	"image"

	"github.com/reusee/tinydisplay/evaluate"
	"github.com/reusee/tinydisplay/logs"
)

// Widget renders itself to a surface.
type Widget interface {
	// Render returns the current image and whether it changed since the last render.
	Render(RenderOptions) (*image.Gray, bool)
	Size() image.Point
	Name() string
}

type RenderOptions struct {
	// Force a full re-render, resetting animations
	Force bool
	// Tick overrides the animation tick
	Tick *int
	// Peek renders without advancing the animation
	Peek bool
}

func Tick(n int) *int {
	return &n
}

// Common holds the settings every widget accepts.
type Common struct {
	Name string
	// Size is the requested size. A widget without one takes the size of its content.
	Size   image.Point
	Just   string
	Logger logs.Logger
}

type base struct {
	name      string
	requested image.Point
	just      Justification
	evaluator *evaluate.Evaluator
	logger    logs.Logger
	image     *image.Gray
}

func newBase(evaluator *evaluate.Evaluator, common Common) (base, error) {
	just, err := ParseJustification(common.Just)
	if err != nil {
		return base{}, err
	}
	logger := common.Logger
	if logger == nil {
		logger = logs.Discard
	}
	if common.Name != "" {
		logger = logger.With("widget", common.Name)
	}
	return base{
		name:      common.Name,
		requested: common.Size,
		just:      just,
		evaluator: evaluator,
		logger:    logger,
	}, nil
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Size() image.Point {
	if b.image != nil {
		return b.image.Rect.Size()
	}
	return b.requested
}

func (b *base) Image() *image.Gray {
	return b.image
}

func (b *base) locals() map[string]any {
	size := b.Size()
	return map[string]any{
		"widget": map[string]any{
			"size": []any{size.X, size.Y},
			"name": b.name,
			"just": b.just.String(),
		},
	}
}

// compile turns strings into expressions. Strings that are not valid
// expressions are kept as literals.
func (b *base) compile(v any) any {
	s, ok := v.(string)
	if !ok || b.evaluator == nil {
		return v
	}
	compiled, err := b.evaluator.Compile(s, b.locals())
	if err != nil {
		b.logger.Debug("literal value", "value", s, "reason", err)
		return s
	}
	return compiled
}

// compileCondition compiles a string condition. Unlike values, a condition that
// does not compile is an error.
func (b *base) compileCondition(what string, condition any) (any, error) {
	s, ok := condition.(string)
	if !ok {
		return condition, nil
	}
	if b.evaluator == nil {
		return nil, fmt.Errorf("%s condition %q without evaluator", what, s)
	}
	compiled, err := b.evaluator.Compile(s, b.locals())
	if err != nil {
		return nil, fmt.Errorf("%s condition: %w", what, err)
	}
	return compiled, nil
}

// holds reports whether a compiled condition is true. Evaluation errors count as false.
func (b *base) holds(what string, condition any) bool {
	switch c := condition.(type) {
	case func() bool:
		return c()
	case bool:
		return c
	}
	v, err := b.eval(condition)
	if err != nil {
		b.logger.Warn("evaluate condition", "of", what, "error", err)
		return false
	}
	return evaluate.Truth(v)
}

func (b *base) eval(v any) (any, error) {
	if b.evaluator == nil {
		return v, nil
	}
	return b.evaluator.Eval(v, b.locals())
}

// place makes img the widget image, justified inside the requested size if there is one.
func (b *base) place(img *image.Gray) image.Point {
	if b.requested == (image.Point{}) {
		b.image = img
		return image.Point{}
	}
	canvas := NewSurface(b.requested)
	pos := placeOn(canvas, img, image.Point{}, b.just)
	b.image = canvas
	return pos
}

func placeOn(dst *image.Gray, img *image.Gray, offset image.Point, just Justification) image.Point {
	pos := offset.Add(just.Offset(dst.Rect.Size(), img.Rect.Size()))
	Paste(dst, img, pos)
	return pos
}
