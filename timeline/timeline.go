package timeline

import (
	"image"
	"slices"
)

// Timeline is the position of a widget at every tick of one marquee cycle.
// Pauses and PauseEnds hold the ticks where pauses and movements begin.
type Timeline struct {
	Positions []image.Point
	Pauses    []int
	PauseEnds []int
}

// Static is the timeline of a widget that does not move.
func Static(p image.Point) *Timeline {
	return &Timeline{
		Positions: []image.Point{p},
	}
}

func (t *Timeline) Len() int {
	return len(t.Positions)
}

func (t *Timeline) index(tick int) int {
	n := len(t.Positions)
	return ((tick % n) + n) % n
}

func (t *Timeline) At(tick int) image.Point {
	if len(t.Positions) == 0 {
		return image.Point{}
	}
	return t.Positions[t.index(tick)]
}

func (t *Timeline) AtPause(tick int) bool {
	return slices.Contains(t.Pauses, tick)
}

func (t *Timeline) AtPauseEnd(tick int) bool {
	return slices.Contains(t.PauseEnds, tick)
}

func (t *Timeline) AtStart(tick int) bool {
	return len(t.Positions) == 0 || t.index(tick) == 0
}

// TrimWrap drops the last position when it lies exactly one extent from the
// first along direction, so that a wrapping scroll does not show the same
// frame twice.
func (t *Timeline) TrimWrap(direction Direction, extent int) {
	if len(t.Positions) < 2 {
		return
	}
	first, last := t.Positions[0], t.Positions[len(t.Positions)-1]
	var wrapped bool
	switch direction {
	case Right:
		wrapped = last.X-extent == first.X
	case Left:
		wrapped = last.X+extent == first.X
	case Down:
		wrapped = last.Y-extent == first.Y
	case Up:
		wrapped = last.Y+extent == first.Y
	}
	if wrapped {
		t.Positions = t.Positions[:len(t.Positions)-1]
	}
}
