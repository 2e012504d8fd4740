package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"maps"
	"os"
	"slices"
	"time"

	"github.com/reusee/tinydisplay/animate"
	"github.com/reusee/tinydisplay/dataset"
	"github.com/reusee/tinydisplay/widgets"
	"golang.org/x/sync/errgroup"
)

const defaultFeedInterval = time.Second

// applyRecord updates the databases of one feed record in name order.
func (a *app) applyRecord(record map[string]dataset.DB) error {
	for _, name := range slices.Sorted(maps.Keys(record)) {
		if err := a.dataset.Update(name, record[name]); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) loadFeed(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var feed []map[string]dataset.DB
	if err := json.Unmarshal(content, &feed); err != nil {
		return fmt.Errorf("feed %s: %w", path, err)
	}
	a.feed = append(a.feed, feed...)
	return nil
}

func (a *app) play(frames int) error {
	spec, err := loadMarqueeSpec(a.loader)
	if err != nil {
		return err
	}
	widget, err := buildMarquee(a.evaluator, spec, a.logger)
	if err != nil {
		return err
	}
	return playFrames(a.ctx, widget, frames, a, func(img *image.Gray) error {
		_, err := fmt.Fprintln(a.out, widgets.ASCII(img))
		return err
	})
}

// playFrames renders frames through an animator and hands them to emit, while
// the feed is applied to the dataset.
func playFrames(
	ctx context.Context,
	widget widgets.Widget,
	frames int,
	a *app,
	emit func(*image.Gray) error,
) error {
	animator := animate.New(func() *image.Gray {
		img, _ := widget.Render(widgets.RenderOptions{})
		return img
	}, append(a.animateOptions, animate.Name("play"))...)
	if err := animator.Start(ctx); err != nil {
		return err
	}
	defer animator.Stop()

	group, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// feeder
	group.Go(func() error {
		interval := a.feedInterval
		if interval <= 0 {
			interval = defaultFeedInterval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for _, record := range a.feed {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}
			if err := a.applyRecord(record); err != nil {
				return err
			}
			animator.Force(nil)
		}
		return nil
	})

	// consumer
	group.Go(func() error {
		defer cancel()
		for range frames {
			img, ok := animator.Get(100 * time.Millisecond)
			for !ok {
				if ctx.Err() != nil {
					return nil
				}
				img, ok = animator.Get(100 * time.Millisecond)
			}
			if err := emit(img); err != nil {
				return err
			}
		}
		return nil
	})

	return group.Wait()
}
