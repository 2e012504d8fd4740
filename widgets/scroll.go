package widgets

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/reusee/tinydisplay/evaluate"
	"github.com/reusee/tinydisplay/timeline"
)

type ScrollConfig struct {
	MarqueeConfig
	// Gap is the space after the widget before it repeats: a number of
	// pixels, a numeric string like "4.6", or a percentage of the display
	// like "25%". GapY defaults to Gap.
	Gap  any
	GapY any
}

// Scroll moves a widget through the display, wrapping around with repeated copies.
type Scroll struct {
	*marquee
	gap        [2]any
	horizontal bool
	vertical   bool
}

var _ Widget = new(Scroll)

func NewScroll(evaluator *evaluate.Evaluator, config ScrollConfig) (*Scroll, error) {
	if len(config.Actions) == 0 {
		config.Actions = []timeline.Action{timeline.Move(timeline.Left)}
	}
	m, err := newMarquee(evaluator, config.MarqueeConfig)
	if err != nil {
		return nil, err
	}
	gapY := config.GapY
	if gapY == nil {
		gapY = config.Gap
	}
	s := &Scroll{
		marquee: m,
		gap:     [2]any{config.Gap, gapY},
	}
	for _, action := range config.Actions {
		if action.Kind != timeline.KindMove {
			continue
		}
		if action.Direction.Horizontal() {
			s.horizontal = true
		} else {
			s.vertical = true
		}
	}
	for i, gap := range s.gap {
		if _, err := computeGap(gap, 0); err != nil {
			return nil, fmt.Errorf("gap %d: %w", i, err)
		}
	}
	m.start(s)
	return s, nil
}

func computeGap(gap any, display int) (int, error) {
	switch gap := gap.(type) {
	case nil:
		return 0, nil
	case int:
		return gap, nil
	case int64:
		return int(gap), nil
	case float64:
		return round(gap), nil
	case string:
		gap = strings.TrimSpace(gap)
		if percent, ok := strings.CutSuffix(gap, "%"); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(percent), 64)
			if err != nil {
				return 0, fmt.Errorf("bad gap %q", gap)
			}
			return round(f / 100 * float64(display)), nil
		}
		f, err := strconv.ParseFloat(gap, 64)
		if err != nil {
			return 0, fmt.Errorf("bad gap %q", gap)
		}
		return round(f), nil
	}
	return 0, fmt.Errorf("bad gap %v (%T)", gap, gap)
}

func (s *Scroll) defaultCondition() bool {
	child, display := s.childSize(), s.displaySize()
	return (s.horizontal && child.X > display.X) ||
		(s.vertical && child.Y > display.Y)
}

// adjust pads the child with the gap.
func (s *Scroll) adjust() {
	child := s.childSize()
	// percentages are of the requested size
	display := s.requested
	gapX, _ := computeGap(s.gap[0], display.X)
	gapY, _ := computeGap(s.gap[1], display.Y)
	s.surface = Crop(s.child, image.Rect(0, 0, child.X+gapX, child.Y+gapY))
}

func (s *Scroll) extent(direction timeline.Direction) int {
	size := s.surface.Rect.Size()
	if direction.Horizontal() {
		return size.X
	}
	return size.Y
}

func (s *Scroll) computeTimeline() *timeline.Timeline {
	if !s.shouldMove() {
		return timeline.Static(s.origin)
	}
	tl := s.compiler.Compile(s.origin, s.actions, func(direction timeline.Direction, _ image.Point) int {
		return s.extent(direction)
	})
	last := s.actions[len(s.actions)-1]
	if last.Kind == timeline.KindMove {
		tl.TrimWrap(last.Direction, s.extent(last.Direction))
	}
	return tl
}

// shadows are the positions of every copy of the surface that shows in the display.
func (s *Scroll) shadows() []image.Point {
	ext := s.surface.Rect.Size()
	child := s.childSize()
	display := s.displaySize()
	xs := []int{s.curPos.X}
	if s.horizontal {
		xs = []int{s.curPos.X - ext.X, s.curPos.X, s.curPos.X + ext.X}
	}
	ys := []int{s.curPos.Y}
	if s.vertical {
		ys = []int{s.curPos.Y - ext.Y, s.curPos.Y, s.curPos.Y + ext.Y}
	}
	var ret []image.Point
	for _, x := range xs {
		for _, y := range ys {
			r := image.Rectangle{
				Min: image.Pt(x, y),
				Max: image.Pt(x+child.X-1, y+child.Y-1),
			}
			if withinDisplayArea(r, display) {
				ret = append(ret, image.Pt(x, y))
			}
		}
	}
	return ret
}

func (s *Scroll) paint() *image.Gray {
	img := NewSurface(s.displaySize())
	for _, p := range s.shadows() {
		Paste(img, s.surface, p)
	}
	return img
}
