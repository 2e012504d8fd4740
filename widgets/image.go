package widgets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

type ImageConfig struct {
	Common
	Image image.Image
	// File is read when Image is nil
	File string
}

// Image shows a fixed picture.
type Image struct {
	base
}

var _ Widget = new(Image)

func NewImage(config ImageConfig) (*Image, error) {
	b, err := newBase(nil, config.Common)
	if err != nil {
		return nil, err
	}
	src := config.Image
	if src == nil {
		src, err = loadImage(config.File)
		if err != nil {
			return nil, err
		}
	}
	ret := &Image{
		base: b,
	}
	ret.place(ToSurface(src))
	return ret, nil
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Render reports a change only when forced.
func (i *Image) Render(opts RenderOptions) (*image.Gray, bool) {
	return i.image, opts.Force
}
