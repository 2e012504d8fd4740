package widgets

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// Surfaces are *image.Gray holding only Off and On pixels.
const (
	Off = 0
	On  = 0xff
)

func NewSurface(size image.Point) *image.Gray {
	return image.NewGray(image.Rectangle{
		Max: image.Pt(max(size.X, 0), max(size.Y, 0)),
	})
}

// Paste copies src onto dst with its top left corner at at, replacing covered pixels.
func Paste(dst *image.Gray, src image.Image, at image.Point) {
	if src == nil {
		return
	}
	r := src.Bounds()
	draw.Draw(dst, r.Sub(r.Min).Add(at), src, r.Min, draw.Src)
}

// Crop returns the r part of src. Areas outside src are Off.
func Crop(src *image.Gray, r image.Rectangle) *image.Gray {
	ret := NewSurface(r.Size())
	if src != nil {
		draw.Draw(ret, ret.Rect, src, r.Min, draw.Src)
	}
	return ret
}

// ToSurface converts any image to a surface. Pixels at half intensity or more are On.
func ToSurface(src image.Image) *image.Gray {
	b := src.Bounds()
	ret := NewSurface(b.Size())
	draw.Draw(ret, ret.Rect, src, b.Min, draw.Src)
	for i, p := range ret.Pix {
		if p >= 0x80 {
			ret.Pix[i] = On
		} else {
			ret.Pix[i] = Off
		}
	}
	return ret
}

// Scale resizes a surface with nearest neighbor sampling.
func Scale(src *image.Gray, size image.Point) *image.Gray {
	ret := NewSurface(size)
	draw.NearestNeighbor.Scale(ret, ret.Rect, src, src.Bounds(), draw.Src, nil)
	return ret
}

func Equal(a, b *image.Gray) bool {
	if a == nil || b == nil {
		return a == b
	}
	size := a.Rect.Size()
	if size != b.Rect.Size() {
		return false
	}
	for y := range size.Y {
		for x := range size.X {
			if a.GrayAt(a.Rect.Min.X+x, a.Rect.Min.Y+y) != b.GrayAt(b.Rect.Min.X+x, b.Rect.Min.Y+y) {
				return false
			}
		}
	}
	return true
}

func IsOn(img *image.Gray, x, y int) bool {
	return img.GrayAt(x, y).Y >= 0x80
}

func set(img *image.Gray, x, y int) {
	img.SetGray(x, y, color.Gray{Y: On})
}

// ASCII draws a surface with '*' for On pixels inside a frame.
func ASCII(img *image.Gray) string {
	size := img.Rect.Size()
	var b strings.Builder
	border := strings.Repeat("-", size.X+2)
	b.WriteString(border)
	b.WriteByte('\n')
	for y := range size.Y {
		b.WriteByte('|')
		for x := range size.X {
			if IsOn(img, img.Rect.Min.X+x, img.Rect.Min.Y+y) {
				b.WriteByte('*')
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString("|\n")
	}
	b.WriteString(border)
	b.WriteByte('\n')
	return b.String()
}
