package main

import (
	"fmt"
	"image"

	"github.com/reusee/tinydisplay/configs"
	"github.com/reusee/tinydisplay/evaluate"
	"github.com/reusee/tinydisplay/logs"
	"github.com/reusee/tinydisplay/timeline"
	"github.com/reusee/tinydisplay/widgets"
)

// MarqueeSpec is the marquee description under the `marquee` config key.
type MarqueeSpec struct {
	Kind         string    `json:"kind"`
	Name         string    `json:"name"`
	Value        string    `json:"value"`
	Size         []int     `json:"size"`
	Just         string    `json:"just"`
	LineSpacing  int       `json:"line_spacing"`
	Actions      []any     `json:"actions"`
	TPS          int       `json:"tps"`
	Speed        int       `json:"speed"`
	Step         int       `json:"step"`
	Gap          any       `json:"gap"`
	Condition    string    `json:"condition"`
	KeepOnChange bool      `json:"keep_on_change"`
	Delay        []float64 `json:"delay"`
}

func loadMarqueeSpec(loader configs.Loader) (spec MarqueeSpec, err error) {
	if err := loader.AssignFirst("marquee", &spec); err != nil {
		return spec, fmt.Errorf("marquee config: %w", err)
	}
	return spec, nil
}

func buildMarquee(
	evaluator *evaluate.Evaluator,
	spec MarqueeSpec,
	logger logs.Logger,
) (widgets.Widget, error) {
	if spec.Value == "" {
		return nil, fmt.Errorf("marquee without value")
	}
	actions, err := timeline.ParseActions(spec.Actions)
	if err != nil {
		return nil, err
	}

	var size image.Point
	switch len(spec.Size) {
	case 0:
	case 2:
		size = image.Pt(spec.Size[0], spec.Size[1])
	default:
		return nil, fmt.Errorf("bad marquee size %v", spec.Size)
	}

	text, err := widgets.NewText(evaluator, widgets.TextConfig{
		Common: widgets.Common{
			Logger: logger,
		},
		Value:       spec.Value,
		LineSpacing: spec.LineSpacing,
	})
	if err != nil {
		return nil, err
	}

	config := widgets.MarqueeConfig{
		Common: widgets.Common{
			Name:   spec.Name,
			Size:   size,
			Just:   spec.Just,
			Logger: logger,
		},
		Widget:       text,
		Actions:      actions,
		TPS:          spec.TPS,
		Speed:        spec.Speed,
		Step:         spec.Step,
		KeepOnChange: spec.KeepOnChange,
	}
	if spec.Condition != "" {
		config.Condition = spec.Condition
	}

	switch spec.Kind {
	case "", "scroll":
		return widgets.NewScroll(evaluator, widgets.ScrollConfig{
			MarqueeConfig: config,
			Gap:           spec.Gap,
		})
	case "slide":
		return widgets.NewSlide(evaluator, widgets.SlideConfig{
			MarqueeConfig: config,
		})
	case "popup":
		var delay [2]float64
		copy(delay[:], spec.Delay)
		return widgets.NewPopUp(evaluator, widgets.PopUpConfig{
			MarqueeConfig: config,
			Delay:         delay,
		})
	}
	return nil, fmt.Errorf("unknown marquee kind %q", spec.Kind)
}
