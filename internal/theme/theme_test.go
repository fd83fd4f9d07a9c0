package theme

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	th, err := Parse(strings.NewReader("Name: mine\ncanvasbackground: #102030\n// comment\nUnknown: #000000\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if th.Name != "mine" {
		t.Errorf("name %q", th.Name)
	}
	if th.CanvasBackground != (color.RGBA{0x10, 0x20, 0x30, 0xFF}) {
		t.Errorf("canvas background %v", th.CanvasBackground)
	}
	if th.CropGuide != Default().CropGuide {
		t.Errorf("missing key lost its default")
	}
}

func TestParseRejectsBadColour(t *testing.T) {
	if _, err := Parse(strings.NewReader("CropGuide: red\n")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	th := Default()
	th.Name = "round"
	th.MessageBackground = color.RGBA{1, 2, 3, 4}
	var buf bytes.Buffer
	if _, err := th.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if *got != *th {
		t.Fatalf("round trip\n got %+v\nwant %+v", got, th)
	}
}

func TestLoaderEmbeddedAndFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ocean.theme"), []byte("Name: ocean\nBackground: #000080\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir, Custom: map[string]*Theme{"inline": {Name: "inline"}}}

	dark, err := l.Load("dark")
	if err != nil || dark.Name != "dark" {
		t.Fatalf("dark: %v %v", dark, err)
	}
	ocean, err := l.Load("ocean")
	if err != nil || ocean.Background != (color.RGBA{0, 0, 0x80, 0xFF}) {
		t.Fatalf("ocean: %v %v", ocean, err)
	}
	if in, err := l.Load("inline"); err != nil || in.Name != "inline" {
		t.Fatalf("inline: %v %v", in, err)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Fatalf("missing theme loaded")
	}
	names := strings.Join(l.Names(), ",")
	if names != "dark,default,inline" {
		t.Fatalf("names %q", names)
	}
}
