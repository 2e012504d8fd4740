package widgets

import (
	"image"
	"strings"
	"unicode/utf8"

	"github.com/reusee/tinydisplay/evaluate"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var textFace = basicfont.Face7x13

type TextConfig struct {
	Common
	// Value is an expression, a literal, or anything Eval accepts
	Value       any
	LineSpacing int
}

// Text renders the string form of a value.
type Text struct {
	base
	value       any
	lineSpacing int
	static      bool
	current     *string
	err         error
}

var _ Widget = new(Text)

func NewText(evaluator *evaluate.Evaluator, config TextConfig) (*Text, error) {
	b, err := newBase(evaluator, config.Common)
	if err != nil {
		return nil, err
	}
	t := &Text{
		base:        b,
		lineSpacing: config.LineSpacing,
	}
	t.value = t.compile(config.Value)
	t.Render(RenderOptions{Force: true})
	return t, nil
}

// NewStaticText renders value as is, without evaluation.
func NewStaticText(config TextConfig) (*Text, error) {
	b, err := newBase(nil, config.Common)
	if err != nil {
		return nil, err
	}
	t := &Text{
		base:        b,
		value:       config.Value,
		lineSpacing: config.LineSpacing,
		static:      true,
	}
	t.Render(RenderOptions{Force: true})
	return t, nil
}

// Err returns the error of the last evaluation.
func (t *Text) Err() error {
	return t.err
}

func (t *Text) Current() string {
	if t.current == nil {
		return ""
	}
	return *t.current
}

func (t *Text) Render(opts RenderOptions) (*image.Gray, bool) {
	value, err := t.eval(t.value)
	t.err = err
	if err != nil {
		t.logger.Warn("evaluate text", "error", err)
		if t.image == nil {
			t.image = NewSurface(t.requested)
		}
		return t.image, false
	}

	s := evaluate.String(value)
	if t.current != nil && *t.current == s && !opts.Force {
		return t.image, false
	}
	t.current = &s
	t.place(renderText(s, t.lineSpacing, t.just.H))
	return t.image, true
}

// TextSize returns the size of s drawn with the text face.
func TextSize(s string, lineSpacing int) image.Point {
	if s == "" {
		return image.Point{}
	}
	lines := strings.Split(s, "\n")
	width := 0
	for _, line := range lines {
		width = max(width, utf8.RuneCountInString(line)*textFace.Advance)
	}
	height := len(lines)*textFace.Height + (len(lines)-1)*lineSpacing
	return image.Pt(width, height)
}

func renderText(s string, lineSpacing int, align byte) *image.Gray {
	size := TextSize(s, lineSpacing)
	img := NewSurface(size)
	if size.X == 0 {
		return img
	}
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: textFace,
	}
	for i, line := range strings.Split(s, "\n") {
		w := drawer.MeasureString(line).Ceil()
		x := 0
		switch align {
		case 'm':
			x = (size.X - w) / 2
		case 'r':
			x = size.X - w
		}
		drawer.Dot = fixed.P(x, i*(textFace.Height+lineSpacing)+textFace.Ascent)
		drawer.DrawString(line)
	}
	return img
}
