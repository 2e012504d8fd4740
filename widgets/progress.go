package widgets

import (
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/reusee/tinydisplay/evaluate"
	"github.com/reusee/tinydisplay/timeline"
)

type ProgressBarConfig struct {
	Common
	Value any
	// Range is low and high; defaults to 0 and 100
	Range [2]any
	// Direction the bar grows in; defaults to right
	Direction timeline.Direction
	// Mask pixels that are On are drawn over the bar. Defaults to an outline.
	Mask *image.Gray
}

// ProgressBar fills a part of its area in proportion to a value within a range.
type ProgressBar struct {
	base
	value     any
	low, high any
	direction timeline.Direction
	mask      *image.Gray
	current   *float64
}

var _ Widget = new(ProgressBar)

func NewProgressBar(evaluator *evaluate.Evaluator, config ProgressBarConfig) (*ProgressBar, error) {
	b, err := newBase(evaluator, config.Common)
	if err != nil {
		return nil, err
	}
	mask := config.Mask
	if mask == nil {
		if config.Size == (image.Point{}) {
			return nil, fmt.Errorf("progress bar needs a size or a mask")
		}
		mask = outlineMask(config.Size)
	}
	low, high := config.Range[0], config.Range[1]
	if low == nil {
		low = 0
	}
	if high == nil {
		high = 100
	}
	direction := config.Direction
	if direction == 0 {
		direction = timeline.Right
	}
	p := &ProgressBar{
		base:      b,
		direction: direction,
		mask:      mask,
	}
	p.value = p.compile(config.Value)
	p.low = p.compile(low)
	p.high = p.compile(high)
	p.Render(RenderOptions{Force: true})
	return p, nil
}

func outlineMask(size image.Point) *image.Gray {
	mask := NewSurface(size)
	if size.X-1 < 3 || size.Y-1 < 3 {
		return mask
	}
	for x := range size.X {
		set(mask, x, 0)
		set(mask, x, size.Y-1)
	}
	for y := range size.Y {
		set(mask, 0, y)
		set(mask, size.X-1, y)
	}
	return mask
}

// Scale returns the fraction last rendered.
func (p *ProgressBar) Scale() float64 {
	if p.current == nil {
		return 0
	}
	return *p.current
}

func (p *ProgressBar) Render(opts RenderOptions) (*image.Gray, bool) {
	scale, err := p.scale()
	if err != nil {
		p.logger.Warn("evaluate progress", "error", err)
		if p.image == nil {
			p.image = NewSurface(p.mask.Rect.Size())
		}
		return p.image, false
	}
	if p.current != nil && *p.current == scale && !opts.Force {
		return p.image, false
	}
	p.current = &scale

	size := p.mask.Rect.Size()
	var bar image.Rectangle
	switch p.direction {
	case timeline.Down:
		bar = image.Rect(0, 0, size.X, round(float64(size.Y)*scale))
	case timeline.Up:
		h := round(float64(size.Y) * scale)
		bar = image.Rect(0, size.Y-h, size.X, size.Y)
	case timeline.Left:
		w := round(float64(size.X) * scale)
		bar = image.Rect(size.X-w, 0, size.X, size.Y)
	default:
		bar = image.Rect(0, 0, round(float64(size.X)*scale), size.Y)
	}

	img := NewSurface(size)
	for y := bar.Min.Y; y < bar.Max.Y; y++ {
		for x := bar.Min.X; x < bar.Max.X; x++ {
			set(img, x, y)
		}
	}
	for y := range size.Y {
		for x := range size.X {
			if IsOn(p.mask, p.mask.Rect.Min.X+x, p.mask.Rect.Min.Y+y) {
				set(img, x, y)
			}
		}
	}

	p.place(img)
	return p.image, true
}

func (p *ProgressBar) scale() (float64, error) {
	var values [3]float64
	for i, v := range []any{p.value, p.low, p.high} {
		evaluated, err := p.eval(v)
		if err != nil {
			return 0, err
		}
		values[i], err = toFloat(evaluated)
		if err != nil {
			return 0, err
		}
	}
	value, low, high := values[0], values[1], values[2]
	if high == low {
		return 0, fmt.Errorf("empty progress range %v", low)
	}
	value = min(max(value, low), high)
	return (value - low) / (high - low), nil
}

func toFloat(v any) (float64, error) {
	switch v := v.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("not a number: %v (%T)", v, v)
}

func round(f float64) int {
	return int(math.RoundToEven(f))
}
