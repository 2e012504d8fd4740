package timeline

import (
	"fmt"
	"image"
	"strings"
)

type Direction int

const (
	Left Direction = iota + 1
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts left, right, up and down, and the rtl, ltr, btt and ttb forms.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "rtl":
		return Left, nil
	case "right", "ltr":
		return Right, nil
	case "up", "btt":
		return Up, nil
	case "down", "ttb":
		return Down, nil
	}
	return 0, fmt.Errorf("%w: unknown direction %q", ErrBadAction, s)
}

func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// Vector returns the displacement of one step.
func (d Direction) Vector(step int) image.Point {
	switch d {
	case Left:
		return image.Pt(-step, 0)
	case Right:
		return image.Pt(step, 0)
	case Up:
		return image.Pt(0, -step)
	case Down:
		return image.Pt(0, step)
	}
	return image.Point{}
}

type Axis int

const (
	Horizontal Axis = iota + 1
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "h"
	case Vertical:
		return "v"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

func ParseAxis(s string) (Axis, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "h"):
		return Horizontal, nil
	case strings.HasPrefix(s, "v"):
		return Vertical, nil
	}
	return 0, fmt.Errorf("%w: unknown axis %q", ErrBadAction, s)
}
