package widgets

import (
	"fmt"
	"image"

	"github.com/reusee/tinydisplay/evaluate"
	"github.com/reusee/tinydisplay/timeline"
)

type SlideConfig struct {
	MarqueeConfig
}

// Slide moves a single copy of a widget inside the display. Moves without a
// distance go as far as the display edge.
type Slide struct {
	*marquee
	within bool
}

var _ Widget = new(Slide)

func NewSlide(evaluator *evaluate.Evaluator, config SlideConfig) (*Slide, error) {
	if len(config.Actions) == 0 {
		config.Actions = []timeline.Action{timeline.Move(timeline.Left)}
	}
	m, err := newMarquee(evaluator, config.MarqueeConfig)
	if err != nil {
		return nil, err
	}
	s := &Slide{
		marquee: m,
	}
	m.start(s)
	return s, nil
}

type PopUpConfig struct {
	MarqueeConfig
	// Delay is the pause in seconds at the top and at the bottom
	Delay [2]float64
}

const DefaultPopUpDelay = 10

// NewPopUp shows the top of a widget taller than the display, then slides up
// to show its bottom, and back.
func NewPopUp(evaluator *evaluate.Evaluator, config PopUpConfig) (*Slide, error) {
	if config.Widget == nil {
		return nil, fmt.Errorf("pop up without widget")
	}
	if config.Size == (image.Point{}) {
		return nil, fmt.Errorf("pop up needs a size")
	}
	delay := config.Delay
	if delay == [2]float64{} {
		delay = [2]float64{DefaultPopUpDelay, DefaultPopUpDelay}
	}
	distance := config.Widget.Size().Y - config.Size.Y
	config.Actions = []timeline.Action{
		timeline.Pause(delay[0]),
		timeline.MoveBy(timeline.Up, distance),
		timeline.Pause(delay[1]),
		timeline.MoveBy(timeline.Down, distance),
	}
	m, err := newMarquee(evaluator, config.MarqueeConfig)
	if err != nil {
		return nil, err
	}
	s := &Slide{
		marquee: m,
		within:  true,
	}
	m.start(s)
	return s, nil
}

// bounds is the area of the widget at the start of the timeline.
func (s *Slide) bounds() image.Rectangle {
	return image.Rectangle{
		Min: s.origin,
		Max: s.origin.Add(s.childSize()),
	}
}

func (s *Slide) defaultCondition() bool {
	if s.within {
		return withinDisplayArea(s.bounds(), s.displaySize())
	}
	return enclosedWithinDisplayArea(s.bounds(), s.displaySize())
}

func (s *Slide) adjust() {
	s.surface = s.child
	if s.surface == nil {
		s.surface = NewSurface(image.Point{})
	}
}

// boundaryDistance is how far pos can move in direction before reaching the display edge.
func (s *Slide) boundaryDistance(direction timeline.Direction, pos image.Point) int {
	child := s.childSize()
	display := s.displaySize()
	switch direction {
	case timeline.Left:
		return pos.X
	case timeline.Right:
		return display.X - (pos.X + child.X)
	case timeline.Up:
		return pos.Y
	}
	return display.Y - (pos.Y + child.Y)
}

func (s *Slide) computeTimeline() *timeline.Timeline {
	if !s.shouldMove() {
		return timeline.Static(s.origin)
	}
	return s.compiler.Compile(s.origin, s.actions, s.boundaryDistance)
}

func (s *Slide) paint() *image.Gray {
	img := NewSurface(s.displaySize())
	Paste(img, s.surface, s.curPos)
	return img
}
