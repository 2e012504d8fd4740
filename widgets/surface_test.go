package widgets

import (
	"image"
	"image/color"
	"testing"
)

func TestPasteAndCrop(t *testing.T) {
	src := NewSurface(image.Pt(2, 2))
	set(src, 0, 0)
	set(src, 1, 1)

	dst := NewSurface(image.Pt(4, 4))
	Paste(dst, src, image.Pt(2, 2))
	if !IsOn(dst, 2, 2) || !IsOn(dst, 3, 3) || IsOn(dst, 3, 2) {
		t.Fatal("bad paste")
	}

	// pasting partly outside is clipped
	Paste(dst, src, image.Pt(-1, -1))
	if !IsOn(dst, 0, 0) {
		t.Fatal("bad clipped paste")
	}

	cropped := Crop(dst, image.Rect(2, 2, 6, 6))
	if cropped.Rect.Size() != image.Pt(4, 4) {
		t.Fatalf("got %v", cropped.Rect)
	}
	if !IsOn(cropped, 0, 0) || !IsOn(cropped, 1, 1) || IsOn(cropped, 3, 3) {
		t.Fatal("bad crop")
	}
	if !Equal(Crop(dst, image.Rect(2, 2, 4, 4)), src) {
		t.Fatal("should equal")
	}
	if Equal(cropped, src) {
		t.Fatal("should differ")
	}
}

func TestToSurface(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(5, 5, 8, 6))
	rgba.Set(5, 5, color.White)
	rgba.Set(6, 5, color.Gray{Y: 0x40})
	s := ToSurface(rgba)
	if s.Rect.Size() != image.Pt(3, 1) {
		t.Fatalf("got %v", s.Rect)
	}
	if s.GrayAt(0, 0).Y != On || s.GrayAt(1, 0).Y != Off || s.GrayAt(2, 0).Y != Off {
		t.Fatalf("got %v", s.Pix)
	}
}

func TestScale(t *testing.T) {
	src := NewSurface(image.Pt(1, 1))
	set(src, 0, 0)
	scaled := Scale(src, image.Pt(3, 2))
	for _, p := range scaled.Pix {
		if p != On {
			t.Fatalf("got %v", scaled.Pix)
		}
	}
}

func TestASCII(t *testing.T) {
	img := NewSurface(image.Pt(2, 1))
	set(img, 0, 0)
	got := ASCII(img)
	want := "----\n|* |\n----\n"
	if got != want {
		t.Fatalf("got %q", got)
	}
}

func TestJustification(t *testing.T) {
	for _, c := range []struct {
		just         string
		outer, inner image.Point
		want         image.Point
	}{
		{"lt", image.Pt(10, 10), image.Pt(4, 4), image.Pt(0, 0)},
		{"mm", image.Pt(10, 10), image.Pt(4, 4), image.Pt(3, 3)},
		{"rb", image.Pt(10, 10), image.Pt(4, 4), image.Pt(6, 6)},
		{"lm", image.Pt(10, 10), image.Pt(4, 4), image.Pt(0, 3)},
		{"mb", image.Pt(10, 10), image.Pt(4, 4), image.Pt(3, 6)},
		{"rt", image.Pt(10, 10), image.Pt(4, 4), image.Pt(6, 0)},
		// halves round to even
		{"mm", image.Pt(5, 7), image.Pt(2, 2), image.Pt(2, 2)},
		{"", image.Pt(5, 7), image.Pt(2, 2), image.Pt(0, 0)},
	} {
		j, err := ParseJustification(c.just)
		if err != nil {
			t.Fatal(err)
		}
		if got := j.Offset(c.outer, c.inner); got != c.want {
			t.Fatalf("%s: got %v", c.just, got)
		}
	}
	for _, s := range []string{"xx", "l", "ltr", "tl"} {
		if _, err := ParseJustification(s); err == nil {
			t.Fatalf("%s: should fail", s)
		}
	}
}
