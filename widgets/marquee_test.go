package widgets

import (
	"errors"
	"image"
	"testing"

	"github.com/reusee/tinydisplay/dataset"
	"github.com/reusee/tinydisplay/evaluate"
	"github.com/reusee/tinydisplay/timeline"
)

func staticText(t *testing.T, value string) *Text {
	t.Helper()
	text, err := NewStaticText(TextConfig{
		Value: value,
	})
	if err != nil {
		t.Fatal(err)
	}
	return text
}

func makeScroll(t *testing.T, value string, size image.Point, step int) *Scroll {
	t.Helper()
	s, err := NewScroll(nil, ScrollConfig{
		MarqueeConfig: MarqueeConfig{
			Common: Common{
				Size: size,
			},
			Widget:  staticText(t, value),
			Actions: []timeline.Action{timeline.Move(timeline.Left)},
			Step:    step,
			TPS:     60,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func render(w Widget) *image.Gray {
	img, _ := w.Render(RenderOptions{})
	return img
}

func TestScrollWrapMove(t *testing.T) {
	// 28 pixels wide
	s := makeScroll(t, "High", image.Pt(27, 13), 1)
	start := render(s)
	if Equal(render(s), start) {
		t.Fatal("should move")
	}

	s = makeScroll(t, "High", image.Pt(28, 13), 1)
	start = render(s)
	if !Equal(render(s), start) {
		t.Fatal("should not move")
	}
	if s.Timeline().Len() != 1 {
		t.Fatalf("got %v", s.Timeline().Len())
	}
}

func TestScrollReturnsToStart(t *testing.T) {
	for _, c := range []struct {
		value string
		size  image.Point
	}{
		{"Five!", image.Pt(34, 13)},
		{"Five!", image.Pt(20, 13)},
		{"Hello World", image.Pt(76, 13)},
	} {
		for step := 1; step <= 6; step++ {
			s := makeScroll(t, c.value, c.size, step)
			width := s.widget.Size().X
			start := render(s)
			n := width / step
			if width%step != 0 {
				n++
			}
			var img *image.Gray
			for range n {
				img = render(s)
			}
			if !Equal(img, start) {
				t.Fatalf("%s %v %d: did not return to start", c.value, c.size, step)
			}
		}
	}
}

func TestScrollTrimsWrap(t *testing.T) {
	s := makeScroll(t, "High", image.Pt(20, 13), 1)
	// one position per pixel, the wrapped one dropped
	if s.Timeline().Len() != 28 {
		t.Fatalf("got %v", s.Timeline().Len())
	}
	positions := s.Timeline().Positions
	if positions[len(positions)-1] != image.Pt(-27, 0) {
		t.Fatalf("got %v", positions[len(positions)-1])
	}
}

func TestScrollShadows(t *testing.T) {
	s := makeScroll(t, "High", image.Pt(20, 13), 1)
	for range 10 {
		render(s)
	}
	// at -9 the copy after the widget is at 19
	if s.Position() != image.Pt(-9, 0) {
		t.Fatalf("got %v", s.Position())
	}
	if shadows := s.shadows(); len(shadows) != 2 {
		t.Fatalf("got %v", shadows)
	}
}

func TestScrollVertical(t *testing.T) {
	s, err := NewScroll(nil, ScrollConfig{
		MarqueeConfig: MarqueeConfig{
			Common: Common{
				Size: image.Pt(28, 6),
			},
			Widget: staticText(t, "High"),
			Actions: []timeline.Action{
				timeline.Pause(1),
				timeline.Move(timeline.Down),
			},
			TPS: 60,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	start := render(s)
	if !Equal(render(s), start) {
		t.Fatal("should pause")
	}
	for !s.AtPauseEnd() {
		render(s)
	}
	if s.Tick() != 60 {
		t.Fatalf("got %v", s.Tick())
	}
	if Equal(render(s), start) {
		t.Fatal("should move")
	}
}

func TestScrollGap(t *testing.T) {
	for _, c := range []struct {
		gap  any
		want int
	}{
		{"25%", 40},
		{"4.6", 40},
		{4, 39},
		{nil, 35},
	} {
		s, err := NewScroll(nil, ScrollConfig{
			MarqueeConfig: MarqueeConfig{
				Common: Common{
					Size: image.Pt(20, 13),
				},
				Widget: staticText(t, "Hello"),
			},
			Gap: c.gap,
		})
		if err != nil {
			t.Fatal(err)
		}
		if s.Timeline().Len() != c.want {
			t.Fatalf("%v: got %v", c.gap, s.Timeline().Len())
		}
		img := render(s)
		for !s.AtStart() {
			render(s)
		}
		if !Equal(render(s), img) {
			t.Fatalf("%v: did not return to start", c.gap)
		}
	}

	if _, err := NewScroll(nil, ScrollConfig{
		MarqueeConfig: MarqueeConfig{
			Widget: staticText(t, "Hello"),
		},
		Gap: "wide",
	}); err == nil {
		t.Fatal("should fail")
	}
}

func TestSlide(t *testing.T) {
	// 105 pixels wide
	s, err := NewSlide(nil, SlideConfig{
		MarqueeConfig: MarqueeConfig{
			Common: Common{
				Size: image.Pt(120, 16),
			},
			Widget: staticText(t, "This is a test!"),
			Actions: []timeline.Action{
				timeline.Pause(1),
				timeline.Move(timeline.Right),
				timeline.Pause(2),
				timeline.Move(timeline.Left),
			},
			TPS: 60,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Timeline().Len() != 60+15+120+15 {
		t.Fatalf("got %v", s.Timeline().Len())
	}

	start := render(s)
	for !s.AtPauseEnd() {
		render(s)
	}
	if Equal(render(s), start) {
		t.Fatal("should move")
	}
	var img *image.Gray
	for !s.AtStart() {
		img = render(s)
	}
	if !Equal(img, start) {
		t.Fatal("did not return to start")
	}
}

func TestShouldSlideMove(t *testing.T) {
	for _, c := range []struct {
		value string
		size  image.Point
		moved bool
	}{
		{"High", image.Pt(28, 13), false},
		{"High", image.Pt(33, 13), true},
		{"12345", image.Pt(28, 13), false},
		{"12345", image.Pt(0, 0), false},
	} {
		s, err := NewSlide(nil, SlideConfig{
			MarqueeConfig: MarqueeConfig{
				Common: Common{
					Size: c.size,
				},
				Widget:  staticText(t, c.value),
				Actions: []timeline.Action{timeline.Move(timeline.Right)},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		start := render(s)
		moved := !Equal(render(s), start)
		if moved != c.moved {
			t.Fatalf("%s %v: got %v", c.value, c.size, moved)
		}
	}
}

func newSlide23(t *testing.T, actions []timeline.Action) *Slide {
	t.Helper()
	e := newTestEvaluator(t, nil)
	text, err := NewText(e, TextConfig{
		Value: "This is a test!",
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSlide(e, SlideConfig{
		MarqueeConfig: MarqueeConfig{
			Common: Common{
				Size: image.Pt(120, 20),
				Just: "mm",
			},
			Widget:  text,
			Actions: actions,
			TPS:     60,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSlideToOrigin(t *testing.T) {
	s := newSlide23(t, []timeline.Action{
		timeline.Pause(1),
		timeline.Move(timeline.Right),
		timeline.Pause(2),
		timeline.Move(timeline.Down),
		timeline.Move(timeline.Left),
		timeline.Move(timeline.Up),
	})
	if s.Position() != image.Pt(8, 4) {
		t.Fatalf("got %v", s.Position())
	}
	render(s)
	for !s.AtStart() {
		render(s)
	}
	if s.Position() != image.Pt(0, 0) {
		t.Fatalf("got %v", s.Position())
	}
}

func TestSlideReturnToStart(t *testing.T) {
	s := newSlide23(t, []timeline.Action{
		timeline.Pause(1),
		timeline.Move(timeline.Right),
		timeline.Pause(2),
		timeline.Move(timeline.Down),
		timeline.Move(timeline.Left),
		timeline.Move(timeline.Up),
		timeline.ReturnToStart(timeline.Horizontal),
	})
	start := s.Position()
	render(s)
	for !s.AtStart() {
		render(s)
	}
	if s.Position() != start {
		t.Fatalf("got %v, want %v", s.Position(), start)
	}
}

func TestPopUp(t *testing.T) {
	w := staticText(t, "1\n2")
	p, err := NewPopUp(nil, PopUpConfig{
		MarqueeConfig: MarqueeConfig{
			Common: Common{
				Size: image.Pt(7, 13),
			},
			Widget: w,
		},
		Delay: [2]float64{.1, .1},
	})
	if err != nil {
		t.Fatal(err)
	}
	top := Crop(w.Image(), image.Rect(0, 0, 7, 13))
	bottom := Crop(w.Image(), image.Rect(0, 13, 7, 26))

	if !Equal(render(p), top) {
		t.Fatal("should start at top")
	}

	for !p.AtPauseEnd() {
		render(p)
	}
	for !p.AtPause() {
		render(p)
	}
	if !Equal(render(p), bottom) {
		t.Fatal("should show bottom")
	}

	for !p.AtPauseEnd() {
		render(p)
	}
	for !p.AtPause() {
		render(p)
	}
	if !Equal(render(p), top) {
		t.Fatal("should return to top")
	}
}

func TestMarqueeResetOnChange(t *testing.T) {
	e := newTestEvaluator(t, map[string]dataset.DB{
		"db": {"title": "a long title"},
	})
	text, err := NewText(e, TextConfig{
		Value: "db['title']",
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewScroll(e, ScrollConfig{
		MarqueeConfig: MarqueeConfig{
			Common: Common{
				Size: image.Pt(20, 13),
			},
			Widget: text,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		render(s)
	}
	if s.Tick() != 5 {
		t.Fatalf("got %v", s.Tick())
	}

	if err := e.Dataset().Update("db", dataset.DB{"title": "another long title"}); err != nil {
		t.Fatal(err)
	}
	if _, changed := s.Render(RenderOptions{}); !changed {
		t.Fatal("should change")
	}
	if s.Tick() != 1 {
		t.Fatalf("got %v", s.Tick())
	}
	if s.Timeline().Len() != len("another long title")*7 {
		t.Fatalf("got %v", s.Timeline().Len())
	}
}

func TestMarqueeKeepOnChange(t *testing.T) {
	e := newTestEvaluator(t, map[string]dataset.DB{
		"db": {"title": "a long title"},
	})
	text, err := NewText(e, TextConfig{
		Value: "db['title']",
	})
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewScroll(e, ScrollConfig{
		MarqueeConfig: MarqueeConfig{
			Common: Common{
				Size: image.Pt(20, 13),
			},
			Widget:       text,
			KeepOnChange: true,
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		render(s)
	}
	if err := e.Dataset().Update("db", dataset.DB{"title": "a long title!"}); err != nil {
		t.Fatal(err)
	}
	if _, changed := s.Render(RenderOptions{}); !changed {
		t.Fatal("should repaint")
	}
	if s.Tick() != 6 {
		t.Fatalf("got %v", s.Tick())
	}
}

func TestMarqueeTickAndPeek(t *testing.T) {
	s := makeScroll(t, "High", image.Pt(20, 13), 1)
	s.Render(RenderOptions{Tick: Tick(5)})
	if s.Position() != image.Pt(-5, 0) {
		t.Fatalf("got %v", s.Position())
	}
	if s.Tick() != 6 {
		t.Fatalf("got %v", s.Tick())
	}
	s.Render(RenderOptions{Peek: true})
	if s.Tick() != 6 {
		t.Fatalf("got %v", s.Tick())
	}
	if s.Position() != image.Pt(-6, 0) {
		t.Fatalf("got %v", s.Position())
	}
}

func TestMarqueeConditionRecomputed(t *testing.T) {
	e := newTestEvaluator(t, map[string]dataset.DB{
		"db": {"move": false},
	})
	s, err := NewSlide(e, SlideConfig{
		MarqueeConfig: MarqueeConfig{
			Common: Common{
				Size: image.Pt(40, 13),
			},
			Widget:    staticText(t, "ab"),
			Actions:   []timeline.Action{timeline.Move(timeline.Right)},
			Condition: "db['move']",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Timeline().Len() != 1 {
		t.Fatalf("got %v", s.Timeline().Len())
	}
	render(s)
	if s.Timeline().Len() != 1 {
		t.Fatalf("got %v", s.Timeline().Len())
	}

	if err := e.Dataset().Update("db", dataset.DB{"move": true}); err != nil {
		t.Fatal(err)
	}
	render(s)
	// 26 pixels to the right edge, plus the start
	if s.Timeline().Len() != 27 {
		t.Fatalf("got %v", s.Timeline().Len())
	}
}

func TestMarqueeFuncCondition(t *testing.T) {
	move := false
	s, err := NewScroll(nil, ScrollConfig{
		MarqueeConfig: MarqueeConfig{
			Common: Common{
				Size: image.Pt(40, 13),
			},
			Widget: staticText(t, "ab"),
			Condition: func() bool {
				return move
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Timeline().Len() != 1 {
		t.Fatalf("got %v", s.Timeline().Len())
	}
	move = true
	if _, changed := s.Render(RenderOptions{Force: true}); !changed {
		t.Fatal("should change when forced")
	}
	if s.Timeline().Len() != 14 {
		t.Fatalf("got %v", s.Timeline().Len())
	}
}

func TestMarqueeBadCondition(t *testing.T) {
	e := newTestEvaluator(t, map[string]dataset.DB{
		"db": {"move": true},
	})
	for _, c := range []struct {
		condition string
		kind      error
	}{
		{"dbx['move']", evaluate.ErrUnknownName},
		{"db['move'] ==", evaluate.ErrSyntax},
	} {
		_, err := NewSlide(e, SlideConfig{
			MarqueeConfig: MarqueeConfig{
				Common: Common{
					Size: image.Pt(40, 13),
				},
				Widget:    staticText(t, "ab"),
				Actions:   []timeline.Action{timeline.Move(timeline.Right)},
				Condition: c.condition,
			},
		})
		if !errors.Is(err, c.kind) {
			t.Fatalf("%s: got %v", c.condition, err)
		}
		_, err = NewScroll(e, ScrollConfig{
			MarqueeConfig: MarqueeConfig{
				Widget:    staticText(t, "ab"),
				Condition: c.condition,
			},
		})
		if !errors.Is(err, c.kind) {
			t.Fatalf("%s: got %v", c.condition, err)
		}
	}

	_, err := NewScroll(nil, ScrollConfig{
		MarqueeConfig: MarqueeConfig{
			Widget:    staticText(t, "ab"),
			Condition: "db['move']",
		},
	})
	if err == nil {
		t.Fatal("should fail without evaluator")
	}
}
