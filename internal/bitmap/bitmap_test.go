package bitmap

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestFit(t *testing.T) {
	cases := []struct {
		w, h, max    float64
		wantW, wantH float64
	}{
		{2000, 1000, 400, 400, 200},
		{1000, 2000, 400, 200, 400},
		{300, 200, 400, 300, 200},
		{400, 400, 400, 400, 400},
		{500, 500, 400, 400, 400},
	}
	for _, c := range cases {
		w, h := Fit(c.w, c.h, c.max)
		if w != c.wantW || h != c.wantH {
			t.Errorf("Fit(%v,%v,%v) = %v,%v want %v,%v", c.w, c.h, c.max, w, h, c.wantW, c.wantH)
		}
	}
	if got := MaxInsertDimension(800, 500); got != 400 {
		t.Fatalf("MaxInsertDimension = %v", got)
	}
}

func TestPNGDataURLRoundTrip(t *testing.T) {
	src := solid(3, 2, color.RGBA{10, 20, 30, 255})
	url, err := PNGDataURL(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("unexpected prefix %q", url[:30])
	}
	img, err := DecodeDataURL(url)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("bounds %v", img.Bounds())
	}
	r, g, b, _ := img.At(1, 1).RGBA()
	if r>>8 != 10 || g>>8 != 20 || b>>8 != 30 {
		t.Fatalf("pixel %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestDataURLSniffsType(t *testing.T) {
	data, err := EncodePNG(solid(1, 1, color.RGBA{A: 255}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := DataURL(data); !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Fatalf("DataURL prefix %q", got[:25])
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, err := Decode([]byte("not an image")); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if _, err := DecodeDataURL("http://example.com/x.png"); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported for non data URL, got %v", err)
	}
}

func TestResize(t *testing.T) {
	out := Resize(solid(20, 10, color.RGBA{200, 0, 0, 255}), 8, 4)
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 4 {
		t.Fatalf("bounds %v", out.Bounds())
	}
	if c := out.RGBAAt(4, 2); c.R < 190 || c.A != 255 {
		t.Fatalf("resampled colour %v", c)
	}
}

func TestStore(t *testing.T) {
	s := NewStore()
	a := s.Add(solid(1, 1, color.RGBA{}))
	b := s.Add(solid(2, 2, color.RGBA{}))
	if a == b {
		t.Fatalf("refs collide")
	}
	if img, ok := s.Get(b); !ok || img.Bounds().Dx() != 2 {
		t.Fatalf("get %v %v", img, ok)
	}
	if _, ok := s.Get("missing"); ok {
		t.Fatalf("unknown ref resolved")
	}
	if s.Len() != 2 {
		t.Fatalf("len %d", s.Len())
	}
}
