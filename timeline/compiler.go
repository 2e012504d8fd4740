package timeline

import (
	"image"

	"github.com/reusee/tinydisplay/vars"
)

// Compiler turns actions into a Timeline.
type Compiler struct {
	// ticks per second
	TPS int
	// ticks each step is held
	Speed int
	// pixels per step
	Step int
}

const (
	DefaultTPS   = 30
	DefaultSpeed = 1
	DefaultStep  = 1
)

func (c Compiler) withDefaults() Compiler {
	if c.TPS <= 0 {
		c.TPS = DefaultTPS
	}
	if c.Speed <= 0 {
		c.Speed = DefaultSpeed
	}
	if c.Step <= 0 {
		c.Step = DefaultStep
	}
	return c
}

// DistanceFunc gives the length of a move without an explicit distance.
type DistanceFunc func(direction Direction, pos image.Point) int

func (c Compiler) Compile(start image.Point, actions []Action, distance DistanceFunc) *Timeline {
	b := &builder{
		compiler: c.withDefaults(),
		timeline: new(Timeline),
	}
	pos := start
	for _, action := range actions {
		switch action.Kind {

		case KindPause:
			b.pause(action.Seconds, pos)

		case KindMove:
			var length int
			if action.Distance != nil {
				length = *action.Distance
			} else if distance != nil {
				length = distance(action.Direction, pos)
			}
			pos = b.move(length, action.Direction, pos)

		case KindReturnToStart:
			pos = b.returnToStart(action.Axis, pos)

		}
	}
	if len(b.timeline.Positions) == 0 {
		b.timeline.Positions = append(b.timeline.Positions, start)
	}
	return b.timeline
}

type builder struct {
	compiler Compiler
	timeline *Timeline
	tick     int
}

func (b *builder) pause(seconds float64, pos image.Point) {
	b.timeline.Pauses = append(b.timeline.Pauses, b.tick)
	n := int(seconds * float64(b.compiler.TPS))
	for range n {
		b.timeline.Positions = append(b.timeline.Positions, pos)
	}
	b.tick += max(n, 0)
}

func (b *builder) move(length int, direction Direction, pos image.Point) image.Point {
	b.timeline.PauseEnds = append(b.timeline.PauseEnds, b.tick)

	// the first entry of a timeline is its starting position
	if b.tick == 0 {
		b.timeline.Positions = append(b.timeline.Positions, pos)
		b.tick = 1
	}

	v := direction.Vector(b.compiler.Step)
	for range length / b.compiler.Step {
		pos = pos.Add(v)
		for range b.compiler.Speed {
			b.timeline.Positions = append(b.timeline.Positions, pos)
			b.tick++
		}
	}
	return pos
}

// returnToStart moves along axis first, then along the other one, back to the first position.
func (b *builder) returnToStart(axis Axis, pos image.Point) image.Point {
	origin := pos
	if len(b.timeline.Positions) > 0 {
		origin = b.timeline.Positions[0]
	}
	horizontal := axis != Vertical
	for range 2 {
		if horizontal {
			direction := Right
			if pos.X > origin.X {
				direction = Left
			}
			pos = b.move(vars.Abs(pos.X-origin.X), direction, pos)
		} else {
			direction := Down
			if pos.Y > origin.Y {
				direction = Up
			}
			pos = b.move(vars.Abs(pos.Y-origin.Y), direction, pos)
		}
		horizontal = !horizontal
	}
	return pos
}
