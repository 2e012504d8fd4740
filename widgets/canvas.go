package widgets

import (
	"fmt"
	"image"
)

// Placement puts a widget on a canvas. The anchor justifies the widget
// within the canvas before the offset is applied.
type Placement struct {
	Widget Widget
	Offset image.Point
	Anchor string
}

type CanvasConfig struct {
	Common
	Placements []Placement
}

type placement struct {
	widget Widget
	offset image.Point
	anchor Justification
}

// Canvas composes widgets on one surface.
type Canvas struct {
	base
	placements []placement
	dirty      bool
}

var _ Widget = new(Canvas)

func NewCanvas(config CanvasConfig) (*Canvas, error) {
	b, err := newBase(nil, config.Common)
	if err != nil {
		return nil, err
	}
	if config.Size == (image.Point{}) {
		return nil, fmt.Errorf("canvas needs a size")
	}
	c := &Canvas{
		base:  b,
		dirty: true,
	}
	for _, p := range config.Placements {
		if err := c.Append(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Canvas) Append(p Placement) error {
	if p.Widget == nil {
		return fmt.Errorf("placement without widget")
	}
	anchor, err := ParseJustification(p.Anchor)
	if err != nil {
		return err
	}
	c.placements = append(c.placements, placement{
		widget: p.Widget,
		offset: p.Offset,
		anchor: anchor,
	})
	c.dirty = true
	return nil
}

func (c *Canvas) Len() int {
	return len(c.placements)
}

func (c *Canvas) Render(opts RenderOptions) (*image.Gray, bool) {
	changed := opts.Force || c.dirty || c.image == nil

	images := make([]*image.Gray, len(c.placements))
	for i, p := range c.placements {
		img, updated := p.widget.Render(opts)
		images[i] = img
		if updated {
			changed = true
		}
	}

	if changed {
		c.dirty = false
		canvas := NewSurface(c.requested)
		for i, p := range c.placements {
			if images[i] == nil {
				continue
			}
			placeOn(canvas, images[i], p.offset, p.anchor)
		}
		c.image = canvas
	}
	return c.image, changed
}
