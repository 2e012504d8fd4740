package widgets

import (
	"image"

	"github.com/reusee/tinydisplay/vars"
)

type ShapeConfig struct {
	Common
	// From and To are inclusive corners
	From, To image.Point
	Fill     bool
	Outline  bool
}

// Shape is a static line or rectangle.
type Shape struct {
	base
}

var _ Widget = new(Shape)

// NewLine draws a one pixel line between the two points.
func NewLine(config ShapeConfig) (*Shape, error) {
	b, err := newBase(nil, config.Common)
	if err != nil {
		return nil, err
	}
	img := shapeSurface(config.From, config.To)
	drawLine(img, config.From, config.To)
	s := &Shape{base: b}
	s.place(img)
	return s, nil
}

// NewRectangle draws a rectangle, filled and or outlined.
func NewRectangle(config ShapeConfig) (*Shape, error) {
	b, err := newBase(nil, config.Common)
	if err != nil {
		return nil, err
	}
	img := shapeSurface(config.From, config.To)
	r := image.Rectangle{Min: config.From, Max: config.To}.Canon()
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			edge := x == r.Min.X || x == r.Max.X || y == r.Min.Y || y == r.Max.Y
			if config.Fill || (config.Outline && edge) {
				set(img, x, y)
			}
		}
	}
	s := &Shape{base: b}
	s.place(img)
	return s, nil
}

func shapeSurface(a, b image.Point) *image.Gray {
	return NewSurface(image.Pt(max(a.X, b.X)+1, max(a.Y, b.Y)+1))
}

// drawLine is Bresenham's algorithm.
func drawLine(img *image.Gray, from, to image.Point) {
	dx := vars.Abs(to.X - from.X)
	dy := -vars.Abs(to.Y - from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	e := dx + dy
	x, y := from.X, from.Y
	for {
		set(img, x, y)
		if x == to.X && y == to.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func (s *Shape) Render(opts RenderOptions) (*image.Gray, bool) {
	return s.image, opts.Force
}
