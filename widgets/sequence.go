package widgets

import (
	"fmt"
	"image"
	"slices"
	"time"

	"github.com/reusee/tinydisplay/evaluate"
)

// Frame is one widget of a sequence.
type Frame struct {
	Widget Widget
	// Duration is how long the frame shows before the sequence moves on. Defaults to one second.
	Duration time.Duration
	// MinDuration keeps the frame showing after its condition turns false.
	MinDuration time.Duration
	// Condition is a string expression, a bool or a func() bool. Nil is always true.
	Condition any
}

type SequenceConfig struct {
	Common
	Frames []Frame
	// Condition decides whether the sequence is active in a collection. Nil is always true.
	Condition any
	// Priority orders sequences in a collection. Higher draws on top.
	Priority int
	// MinDuration keeps an activated sequence in a collection after its condition turns false.
	MinDuration time.Duration
	// CoolingPeriod is the time from an activation before the sequence can activate again.
	CoolingPeriod time.Duration
	// Default renders when no frame is active.
	Default Widget
	Clock   func() time.Time
}

type frame struct {
	widget      Widget
	duration    time.Duration
	minDuration time.Duration
	condition   any
}

// Sequence shows its frames one after another.
type Sequence struct {
	base
	frames        []frame
	condition     any
	priority      int
	minDuration   time.Duration
	coolingPeriod time.Duration
	def           Widget
	now           func() time.Time

	current int
	shown   int
	start   time.Time
}

var _ Widget = new(Sequence)

func NewSequence(evaluator *evaluate.Evaluator, config SequenceConfig) (*Sequence, error) {
	b, err := newBase(evaluator, config.Common)
	if err != nil {
		return nil, err
	}
	s := &Sequence{
		base:          b,
		priority:      config.Priority,
		minDuration:   config.MinDuration,
		coolingPeriod: config.CoolingPeriod,
		def:           config.Default,
		now:           config.Clock,
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.condition, err = s.compileCondition("sequence", config.Condition)
	if err != nil {
		return nil, err
	}
	for _, f := range config.Frames {
		if err := s.Append(f); err != nil {
			return nil, err
		}
	}
	s.Reset()
	return s, nil
}

func (s *Sequence) Append(f Frame) error {
	if f.Widget == nil {
		return fmt.Errorf("frame without widget")
	}
	if f.Duration < 0 || f.MinDuration < 0 {
		return fmt.Errorf("negative frame duration")
	}
	if f.Duration == 0 {
		f.Duration = time.Second
	}
	condition, err := s.compileCondition("frame", f.Condition)
	if err != nil {
		return err
	}
	s.frames = append(s.frames, frame{
		widget:      f.Widget,
		duration:    f.Duration,
		minDuration: f.MinDuration,
		condition:   condition,
	})
	return nil
}

func (s *Sequence) Len() int {
	return len(s.frames)
}

func (s *Sequence) Priority() int {
	return s.priority
}

// Reset restarts the sequence from its first frame.
func (s *Sequence) Reset() {
	s.current = 0
	s.shown = -1
	s.start = s.now()
}

// Active reports whether the sequence condition holds.
func (s *Sequence) Active() bool {
	if s.condition == nil {
		return true
	}
	return s.holds("sequence", s.condition)
}

// Current is the index of the showing frame, -1 if none.
func (s *Sequence) Current() int {
	return s.shown
}

func (s *Sequence) Size() image.Point {
	if s.requested != (image.Point{}) {
		return s.requested
	}
	var size image.Point
	for _, f := range s.frames {
		size.X = max(size.X, f.widget.Size().X)
		size.Y = max(size.Y, f.widget.Size().Y)
	}
	if s.def != nil {
		size.X = max(size.X, s.def.Size().X)
		size.Y = max(size.Y, s.def.Size().Y)
	}
	return size
}

func (s *Sequence) frameHolds(f frame) bool {
	if f.condition == nil {
		return true
	}
	return s.holds("frame", f.condition)
}

// activeFrame moves to the next showing frame. The current frame stays while its
// condition holds or its minimum duration runs, until its duration expires. An
// expired frame shows again when no other frame is active.
func (s *Sequence) activeFrame() (Widget, bool) {
	for range len(s.frames) + 1 {
		f := s.frames[s.current]
		elapsed := s.now().Sub(s.start)
		if (s.frameHolds(f) || elapsed < f.minDuration) && elapsed <= f.duration {
			fresh := s.current != s.shown
			s.shown = s.current
			return f.widget, fresh
		}
		s.start = s.now()
		s.current = (s.current + 1) % len(s.frames)
	}
	s.shown = -1
	return nil, false
}

func (s *Sequence) Render(opts RenderOptions) (*image.Gray, bool) {
	if opts.Force {
		s.Reset()
	}
	prev := s.shown

	var w Widget
	var fresh bool
	if len(s.frames) > 0 {
		w, fresh = s.activeFrame()
	}
	if w == nil {
		w = s.def
		fresh = prev != -1 || s.image == nil
	}

	var img *image.Gray
	changed := opts.Force || fresh
	if w != nil {
		childOpts := opts
		childOpts.Force = opts.Force || fresh
		var updated bool
		img, updated = w.Render(childOpts)
		changed = changed || updated
	}
	if img == nil {
		img = NewSurface(s.Size())
	}
	if changed || s.image == nil {
		s.place(img)
		changed = true
		if fresh {
			s.logger.Debug("sequence frame", "index", s.shown)
		}
	}
	return s.image, changed
}

type CollectionConfig struct {
	Common
	Sequences []SequenceConfig
	// Default renders when no sequence is active.
	Default Widget
	Clock   func() time.Time
}

type member struct {
	sequence *Sequence
	offset   image.Point
	anchor   Justification
}

// Collection shows the active sequences of a set, ordered by priority.
type Collection struct {
	base
	members []member
	def     Widget
	now     func() time.Time

	inUse    map[*Sequence]bool
	minUntil map[*Sequence]time.Time
	coolTill map[*Sequence]time.Time
	showing  []*Sequence
}

var _ Widget = new(Collection)

func NewCollection(evaluator *evaluate.Evaluator, config CollectionConfig) (*Collection, error) {
	b, err := newBase(evaluator, config.Common)
	if err != nil {
		return nil, err
	}
	if config.Size == (image.Point{}) {
		return nil, fmt.Errorf("collection needs a size")
	}
	c := &Collection{
		base:     b,
		def:      config.Default,
		now:      config.Clock,
		inUse:    make(map[*Sequence]bool),
		minUntil: make(map[*Sequence]time.Time),
		coolTill: make(map[*Sequence]time.Time),
	}
	if c.now == nil {
		c.now = time.Now
	}
	for _, sc := range config.Sequences {
		if sc.Clock == nil {
			sc.Clock = c.now
		}
		if sc.Logger == nil {
			sc.Logger = config.Logger
		}
		s, err := NewSequence(evaluator, sc)
		if err != nil {
			return nil, err
		}
		if err := c.Append(s, image.Point{}, ""); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Append adds a sequence, keeping members sorted from low to high priority.
// Equal priorities keep their append order.
func (c *Collection) Append(s *Sequence, offset image.Point, anchor string) error {
	if s == nil {
		return fmt.Errorf("nil sequence")
	}
	just, err := ParseJustification(anchor)
	if err != nil {
		return err
	}
	i, _ := slices.BinarySearchFunc(c.members, s.priority, func(m member, p int) int {
		if m.sequence.priority <= p {
			return -1
		}
		return 1
	})
	c.members = slices.Insert(c.members, i, member{
		sequence: s,
		offset:   offset,
		anchor:   just,
	})
	return nil
}

func (c *Collection) Len() int {
	return len(c.members)
}

// Showing returns the sequences of the last render, highest priority first.
func (c *Collection) Showing() []*Sequence {
	return slices.Clone(c.showing)
}

func (c *Collection) Render(opts RenderOptions) (*image.Gray, bool) {
	now := c.now()
	for s, t := range c.minUntil {
		if now.After(t) {
			delete(c.minUntil, s)
		}
	}
	for s, t := range c.coolTill {
		if now.After(t) {
			delete(c.coolTill, s)
		}
	}

	type drawn struct {
		member
		img *image.Gray
	}
	var list []drawn
	var showing []*Sequence
	changed := opts.Force || c.image == nil
	for _, m := range slices.Backward(c.members) {
		s := m.sequence
		_, cooling := c.coolTill[s]
		_, held := c.minUntil[s]
		if !(s.Active() && !cooling) && !held {
			delete(c.inUse, s)
			continue
		}
		fresh := false
		if !c.inUse[s] {
			c.inUse[s] = true
			c.minUntil[s] = now.Add(s.minDuration)
			c.coolTill[s] = now.Add(s.coolingPeriod)
			fresh = true
		}
		childOpts := opts
		childOpts.Force = opts.Force || fresh
		img, updated := s.Render(childOpts)
		changed = changed || updated
		list = append(list, drawn{m, img})
		showing = append(showing, s)
	}

	if !slices.Equal(showing, c.showing) {
		changed = true
		c.logger.Debug("collection showing", "sequences", len(showing))
	}
	c.showing = showing

	var def *image.Gray
	if len(list) == 0 && c.def != nil {
		var updated bool
		def, updated = c.def.Render(opts)
		changed = changed || updated
	}
	if !changed {
		return c.image, false
	}

	surface := NewSurface(c.requested)
	if def != nil {
		placeOn(surface, def, image.Point{}, c.just)
	}
	// lowest priority first so higher ones draw over it
	for _, d := range slices.Backward(list) {
		if d.img == nil {
			continue
		}
		placeOn(surface, d.img, d.offset, d.anchor)
	}
	c.image = surface
	return c.image, true
}
