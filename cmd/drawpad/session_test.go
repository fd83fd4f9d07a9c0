package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/drawpad/internal/config"
	"github.com/example/drawpad/internal/editor"
	"github.com/example/drawpad/internal/scene"
	"github.com/example/drawpad/internal/storage"
)

func newTestRoot(t *testing.T) *root {
	t.Helper()
	return &root{
		program:   "drawpad",
		config:    config.New(),
		dataDir:   t.TempDir(),
		outputDir: t.TempDir(),
	}
}

// savedDocument reads the drawing slot the way a fresh process would.
func savedDocument(t *testing.T, r *root) scene.Document {
	t.Helper()
	st, err := storage.NewFileStore(r.dataDir)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	e := editor.New()
	t.Cleanup(e.Close)
	if _, err := e.Load(st); err != nil {
		t.Fatalf("load: %v", err)
	}
	return e.Document()
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDrawPersistsAcrossCommands(t *testing.T) {
	r := newTestRoot(t)
	if err := r.dispatch("draw", []string{"-color", "red", "rect", "10", "10", "60", "40"}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := r.dispatch("draw", []string{"straightLine", "0", "0", "30", "30"}); err != nil {
		t.Fatalf("draw line: %v", err)
	}
	doc := savedDocument(t, r)
	if len(doc) != 2 {
		t.Fatalf("saved %d shapes, want 2", len(doc))
	}
	rect := doc[0]
	if rect.Kind != scene.KindRect || rect.Width != 50 || rect.Height != 30 {
		t.Fatalf("rect = %+v", rect)
	}
	if rect.Stroke != "#FF0000" {
		t.Fatalf("stroke = %q", rect.Stroke)
	}
	if len(doc[1].Points) != 4 {
		t.Fatalf("straight line points = %v", doc[1].Points)
	}

	if err := r.dispatch("delete", []string{rect.ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if doc := savedDocument(t, r); len(doc) != 1 || doc[0].Kind != scene.KindStraightLine {
		t.Fatalf("after delete = %+v", doc)
	}
}

func TestMoveByID(t *testing.T) {
	r := newTestRoot(t)
	if err := r.dispatch("draw", []string{"rect", "10", "10", "60", "40"}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	id := savedDocument(t, r)[0].ID
	if err := r.dispatch("move", []string{id, "5", "-3"}); err != nil {
		t.Fatalf("move: %v", err)
	}
	s := savedDocument(t, r)[0]
	if s.X != 15 || s.Y != 7 {
		t.Fatalf("moved to %v,%v, want 15,7", s.X, s.Y)
	}
}

func TestInsertAndRotateImage(t *testing.T) {
	r := newTestRoot(t)
	path := filepath.Join(t.TempDir(), "in.png")
	writePNG(t, path, 40, 20)
	if err := r.dispatch("insert", []string{path}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	doc := savedDocument(t, r)
	if len(doc) != 1 || doc[0].Kind != scene.KindImage {
		t.Fatalf("doc = %+v", doc)
	}
	id := doc[0].ID
	if err := r.dispatch("image", []string{id, "rotate"}); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	if got := savedDocument(t, r)[0].Rotation; got != 90 {
		t.Fatalf("rotation = %v, want 90", got)
	}
	if err := r.dispatch("image", []string{id, "reset"}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := savedDocument(t, r)[0].Rotation; got != 0 {
		t.Fatalf("rotation after reset = %v", got)
	}
}

func TestImageCommandNeedsKnownID(t *testing.T) {
	r := newTestRoot(t)
	if err := r.dispatch("image", []string{"missing", "rotate"}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestExportWritesFiles(t *testing.T) {
	r := newTestRoot(t)
	if err := r.dispatch("draw", []string{"circle", "100", "100", "150", "100"}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	for _, format := range []string{"json", "png", "pdf"} {
		if err := r.dispatch("export", []string{format}); err != nil {
			t.Fatalf("export %s: %v", format, err)
		}
		info, err := os.Stat(filepath.Join(r.outputDir, "drawing."+format))
		if err != nil {
			t.Fatalf("stat %s: %v", format, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s export is empty", format)
		}
	}

	out := filepath.Join(t.TempDir(), "shadow.png")
	if err := r.dispatch("export", []string{"-shadow", "-output", out, "png"}); err != nil {
		t.Fatalf("export shadow: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width <= r.config.Canvas.Width || cfg.Height <= r.config.Canvas.Height {
		t.Fatalf("shadow export %dx%d should exceed the stage", cfg.Width, cfg.Height)
	}
}

func TestLoadImportsExportedJSON(t *testing.T) {
	r := newTestRoot(t)
	if err := r.dispatch("draw", []string{"square", "20", "20", "40", "30"}); err != nil {
		t.Fatalf("draw: %v", err)
	}
	if err := r.dispatch("export", []string{"json"}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if err := r.dispatch("clear", nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if doc := savedDocument(t, r); len(doc) != 0 {
		t.Fatalf("after clear = %+v", doc)
	}
	if err := r.dispatch("load", []string{filepath.Join(r.outputDir, "drawing.json")}); err != nil {
		t.Fatalf("load file: %v", err)
	}
	doc := savedDocument(t, r)
	if len(doc) != 1 || doc[0].Kind != scene.KindSquare || doc[0].Size != 20 {
		t.Fatalf("imported = %+v", doc)
	}
}

func TestInteractiveSessionKeepsHistory(t *testing.T) {
	r := newTestRoot(t)
	i, err := parseInteractiveCmd([]string{
		"-e", "draw rect 10 10 60 40",
		"-e", "draw circle 100 100 120 100",
		"-e", "undo",
		"-e", "save",
		"-e", "exit",
		"-e", "clear",
	}, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	i.stdout, i.stderr = &out, &out
	if err := i.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	doc := savedDocument(t, r)
	if len(doc) != 1 || doc[0].Kind != scene.KindRect {
		t.Fatalf("saved = %+v", doc)
	}
}

func TestInteractiveReadsLines(t *testing.T) {
	r := newTestRoot(t)
	i, err := parseInteractiveCmd(nil, r)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out, errOut bytes.Buffer
	i.stdin = bytes.NewBufferString("draw triangle 10 10 50 50\nbogus-flag-free\nsave\n")
	i.stdout, i.stderr = &out, &errOut
	if err := i.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if errOut.Len() == 0 {
		t.Fatalf("expected the unknown command to be reported")
	}
	if doc := savedDocument(t, r); len(doc) != 1 || doc[0].Kind != scene.KindTriangle {
		t.Fatalf("saved = %+v", doc)
	}
}
