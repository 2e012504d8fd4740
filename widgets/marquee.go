package widgets

import (
	"fmt"
	"image"

	"github.com/reusee/tinydisplay/evaluate"
	"github.com/reusee/tinydisplay/timeline"
)

type MarqueeConfig struct {
	Common
	Widget  Widget
	Actions []timeline.Action
	// TPS, Speed and Step configure the timeline compiler
	TPS   int
	Speed int
	Step  int
	// Condition decides whether the widget moves. It may be an expression
	// string, a compiled expression or a func() bool. Each kind of marquee
	// has its own default.
	Condition any
	// KeepOnChange keeps the animation running when the child changes
	KeepOnChange bool
}

// motion is what a kind of marquee adds to the shared core.
type motion interface {
	// defaultCondition is used when no condition is configured
	defaultCondition() bool
	// adjust derives the moving surface from the child image
	adjust()
	computeTimeline() *timeline.Timeline
	paint() *image.Gray
}

// marquee moves a child widget along a compiled timeline.
type marquee struct {
	base
	widget        Widget
	actions       []timeline.Action
	compiler      timeline.Compiler
	condition     any
	resetOnChange bool
	motion        motion

	child    *image.Gray
	surface  *image.Gray
	timeline *timeline.Timeline
	tick     int
	origin   image.Point
	curPos   image.Point
	lastPos  image.Point
}

func newMarquee(evaluator *evaluate.Evaluator, config MarqueeConfig) (*marquee, error) {
	if config.Widget == nil {
		return nil, fmt.Errorf("marquee without widget")
	}
	b, err := newBase(evaluator, config.Common)
	if err != nil {
		return nil, err
	}
	m := &marquee{
		base:    b,
		widget:  config.Widget,
		actions: config.Actions,
		compiler: timeline.Compiler{
			TPS:   config.TPS,
			Speed: config.Speed,
			Step:  config.Step,
		},
		resetOnChange: !config.KeepOnChange,
	}
	m.condition, err = m.compileCondition("marquee", config.Condition)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// start performs the initial forced render. It is called once motion is set.
func (m *marquee) start(motion motion) {
	m.motion = motion
	m.Render(RenderOptions{
		Force: true,
		Peek:  true,
	})
}

// displaySize is the requested size, or the size of the moving surface.
func (m *marquee) displaySize() image.Point {
	if m.requested != (image.Point{}) {
		return m.requested
	}
	if m.surface != nil {
		return m.surface.Rect.Size()
	}
	return image.Point{}
}

func (m *marquee) Size() image.Point {
	return m.displaySize()
}

func (m *marquee) childSize() image.Point {
	if m.child == nil {
		return image.Point{}
	}
	return m.child.Rect.Size()
}

func (m *marquee) shouldMove() bool {
	if m.condition == nil {
		return m.motion.defaultCondition()
	}
	return m.holds("marquee", m.condition)
}

func (m *marquee) reset() {
	m.tick = 0
	m.motion.adjust()
	m.origin = m.just.Offset(m.displaySize(), m.surface.Rect.Size())
	m.curPos = m.origin
	m.lastPos = m.origin
	m.timeline = m.motion.computeTimeline()
	m.image = m.motion.paint()
	m.logger.Debug("marquee reset",
		"ticks", m.timeline.Len(),
		"origin", m.origin,
	)
}

// recompute rebuilds the timeline from the configuration at the end of a
// cycle. The position and image are kept, the next frame repaints if needed.
func (m *marquee) recompute() {
	m.timeline = m.motion.computeTimeline()
}

func (m *marquee) Render(opts RenderOptions) (*image.Gray, bool) {
	if opts.Tick != nil {
		m.tick = *opts.Tick
	}

	img, updated := m.widget.Render(opts)
	m.child = img
	if updated {
		m.motion.adjust()
	}
	if (updated && m.resetOnChange) || opts.Force || m.timeline == nil {
		m.reset()
		if !opts.Peek {
			m.tick++
		}
		return m.image, true
	}

	moved := false
	m.curPos = m.timeline.At(m.tick)
	if m.curPos != m.lastPos || updated {
		m.image = m.motion.paint()
		moved = true
		m.lastPos = m.curPos
	}

	if !opts.Peek {
		m.tick = (m.tick + 1) % m.timeline.Len()
		if m.tick == 0 {
			m.recompute()
		}
	}
	return m.image, moved
}

// AtPause reports whether the next tick starts a pause.
func (m *marquee) AtPause() bool {
	return m.timeline.AtPause(m.tick)
}

// AtPauseEnd reports whether the next tick starts a movement.
func (m *marquee) AtPauseEnd() bool {
	return m.timeline.AtPauseEnd(m.tick)
}

// AtStart reports whether the next tick begins a cycle.
func (m *marquee) AtStart() bool {
	return m.timeline.AtStart(m.tick)
}

func (m *marquee) Position() image.Point {
	return m.curPos
}

func (m *marquee) Timeline() *timeline.Timeline {
	return m.timeline
}

func (m *marquee) Tick() int {
	return m.tick
}

// withinDisplayArea reports whether any part of r, with inclusive Max, is visible in d.
func withinDisplayArea(r image.Rectangle, d image.Point) bool {
	overlaps := func(lo, hi, size int) bool {
		return (lo >= 0 && lo < size) ||
			(hi >= 0 && hi < size) ||
			(lo < 0 && hi >= size)
	}
	return overlaps(r.Min.X, r.Max.X, d.X) && overlaps(r.Min.Y, r.Max.Y, d.Y)
}

// enclosedWithinDisplayArea reports whether r lies entirely inside d.
func enclosedWithinDisplayArea(r image.Rectangle, d image.Point) bool {
	inside := func(v, size int) bool {
		return v >= 0 && v <= size
	}
	return inside(r.Min.X, d.X) && inside(r.Max.X, d.X) &&
		inside(r.Min.Y, d.Y) && inside(r.Max.Y, d.Y)
}
