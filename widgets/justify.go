package widgets

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
)

var ErrJustification = errors.New("bad justification")

// Justification places a smaller image in a larger one. H is one of l, m, r
// and V one of t, m, b.
type Justification struct {
	H byte
	V byte
}

var TopLeft = Justification{H: 'l', V: 't'}

func ParseJustification(s string) (Justification, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TopLeft, nil
	}
	if len(s) != 2 ||
		!strings.ContainsRune("lmr", rune(s[0])) ||
		!strings.ContainsRune("tmb", rune(s[1])) {
		return Justification{}, fmt.Errorf("%w: %q, want one of lt lm lb mt mm mb rt rm rb", ErrJustification, s)
	}
	return Justification{H: s[0], V: s[1]}, nil
}

func (j Justification) String() string {
	return string([]byte{j.H, j.V})
}

// Offset returns the top left corner of inner justified in outer.
func (j Justification) Offset(outer, inner image.Point) image.Point {
	half := func(n int) int {
		return int(math.RoundToEven(float64(n) / 2))
	}
	var ret image.Point
	switch j.H {
	case 'm':
		ret.X = half(outer.X - inner.X)
	case 'r':
		ret.X = outer.X - inner.X
	}
	switch j.V {
	case 'm':
		ret.Y = half(outer.Y - inner.Y)
	case 'b':
		ret.Y = outer.Y - inner.Y
	}
	return ret
}
