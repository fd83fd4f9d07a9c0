package appstate

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/mobile/event/key"

	"github.com/example/drawpad/internal/editor"
	"github.com/example/drawpad/internal/history"
	"github.com/example/drawpad/internal/scene"
	"github.com/example/drawpad/internal/storage"
	"github.com/example/drawpad/internal/theme"
)

func newTestApp(t *testing.T) *AppState {
	t.Helper()
	ed := editor.New(editor.WithHistory(history.New(history.WithGuardDelay(0))), editor.WithSprayInterval(0))
	t.Cleanup(ed.Close)
	return New(WithEditor(ed), WithStore(storage.NewMemoryStore()), WithOutputDir(t.TempDir()))
}

func drawRectangle(ed *editor.Editor) {
	ed.SetTool(editor.ToolRectangle)
	ed.PointerDown(scene.Point{X: 10, Y: 10})
	ed.PointerMove(scene.Point{X: 60, Y: 40})
	ed.PointerUp(scene.Point{X: 60, Y: 40})
}

func TestToolForRune(t *testing.T) {
	seen := map[rune]bool{}
	for _, tk := range toolKeys {
		if seen[tk.Rune] {
			t.Fatalf("rune %q bound twice", tk.Rune)
		}
		seen[tk.Rune] = true
		got, ok := toolForRune(tk.Rune)
		if !ok || got != tk.Tool {
			t.Fatalf("toolForRune(%q) = %v, %v", tk.Rune, got, ok)
		}
	}
	if len(toolKeys) != len(editor.Tools()) {
		t.Fatalf("%d tool keys for %d tools", len(toolKeys), len(editor.Tools()))
	}
	if _, ok := toolForRune('z'); ok {
		t.Fatalf("unbound rune resolved")
	}
}

func TestLayoutToolbarAndHit(t *testing.T) {
	th := theme.Default()
	var items []toolbarItem
	for i := 0; i < 2; i++ {
		items = append(items, toolbarItem{button: &CacheButton{Button: &LabelButton{label: "x", th: th}}})
	}
	for i := 0; i < 5; i++ {
		items = append(items, toolbarItem{button: &CacheButton{Button: &SwatchButton{color: "#FF0000", th: th}}, gap: i == 0})
	}
	items = append(items, toolbarItem{button: &CacheButton{Button: &LabelButton{label: "y", th: th}}, gap: true})

	bottom := layoutToolbar(items, 24, 64)

	if got := items[0].button.Rect(); got != image.Rect(0, 24, 64, 24+buttonHeight) {
		t.Fatalf("first button %v", got)
	}
	// Three swatches fit in a 64 wide row, so the fourth wraps.
	if items[2].button.Rect().Min.Y != items[4].button.Rect().Min.Y {
		t.Fatalf("swatches 0 and 2 on different rows")
	}
	if items[5].button.Rect().Min.Y <= items[4].button.Rect().Min.Y {
		t.Fatalf("fourth swatch did not wrap: %v", items[5].button.Rect())
	}
	last := items[len(items)-1].button.Rect()
	if last.Min.Y < items[6].button.Rect().Max.Y {
		t.Fatalf("button overlaps swatches: %v", last)
	}
	if bottom != last.Max.Y {
		t.Fatalf("bottom %d, want %d", bottom, last.Max.Y)
	}

	if got := hitButton(items, image.Pt(10, 24+buttonHeight+1)); got != 1 {
		t.Fatalf("hit second button = %d", got)
	}
	if got := hitButton(items, image.Pt(200, 200)); got != -1 {
		t.Fatalf("miss = %d", got)
	}
}

func TestButtonActivate(t *testing.T) {
	called := false
	cb := &CacheButton{Button: &LabelButton{label: "Go", th: theme.Default(), action: func() { called = true }}}
	cb.SetRect(image.Rect(0, 0, 40, buttonHeight))
	dst := image.NewRGBA(image.Rect(0, 0, 40, buttonHeight))
	cb.Draw(dst, StatePressed)
	if got := dst.RGBAAt(20, 2); got != theme.Default().ButtonActive {
		t.Fatalf("pressed button colour %v", got)
	}
	cb.Activate()
	if !called {
		t.Fatalf("action not run")
	}
}

func TestSurfacePoint(t *testing.T) {
	o := stageOrigin()
	p := surfacePoint(float32(o.X+5), float32(o.Y+7))
	if p != (scene.Point{X: 5, Y: 7}) {
		t.Fatalf("surface point %v", p)
	}
}

func TestModalLayoutRoundTrip(t *testing.T) {
	origin, scale := modalLayout(800, 600, 400, 200)
	if scale != 1 {
		t.Fatalf("small cropper scaled by %v", scale)
	}
	p := modalPoint(float32(origin.X+30), float32(origin.Y+40), origin, scale)
	if p != (scene.Point{X: 30, Y: 40}) {
		t.Fatalf("modal point %v", p)
	}

	origin, scale = modalLayout(800, 600, 2000, 1000)
	if scale >= 1 {
		t.Fatalf("large cropper not shrunk: %v", scale)
	}
	if w := int(2000 * scale); origin.X+w > 800 {
		t.Fatalf("cropper overflows window: origin %v width %d", origin, w)
	}
	p = modalPoint(float32(origin.X)+float32(100*scale), float32(origin.Y), origin, scale)
	if math.Abs(p.X-100) > 0.01 || math.Abs(p.Y) > 0.01 {
		t.Fatalf("scaled modal point %v", p)
	}
}

func TestTransformScale(t *testing.T) {
	s := scene.Shape{Kind: scene.KindImage, X: 100, Y: 100, OriginalWidth: 40, OriginalHeight: 20}
	sx, sy := transformScale(s, scene.Point{X: 180, Y: 130})
	if sx != 2 || sy != 1.5 {
		t.Fatalf("scale %v, %v", sx, sy)
	}

	s.Rotation = 90
	// Rotated a quarter turn the image's x axis points down the canvas.
	sx, sy = transformScale(s, scene.Point{X: 60, Y: 180})
	if math.Abs(sx-2) > 1e-9 || math.Abs(sy-2) > 1e-9 {
		t.Fatalf("rotated scale %v, %v", sx, sy)
	}
}

func TestTransformHandleFollowsCorner(t *testing.T) {
	s := scene.Shape{Kind: scene.KindImage, X: 10, Y: 20, OriginalWidth: 40, OriginalHeight: 30, ScaleX: 1, ScaleY: 1}
	identity := func(p scene.Point) scene.Point { return p }
	r := transformHandle(identity, s)
	if !image.Pt(50, 50).In(r) {
		t.Fatalf("handle %v does not cover the far corner", r)
	}
}

func TestWindowKey(t *testing.T) {
	cases := []struct {
		in   key.Event
		want editor.KeyShortcut
	}{
		{key.Event{Rune: 'R'}, editor.KeyShortcut{Rune: 'r'}},
		{key.Event{Rune: '+', Modifiers: key.ModShift}, editor.KeyShortcut{Rune: '+'}},
		{key.Event{Rune: 'S', Code: key.CodeS, Modifiers: key.ModMeta | key.ModShift},
			editor.KeyShortcut{Rune: 's', Code: key.CodeS, Modifiers: key.ModControl | key.ModShift}},
		{key.Event{Rune: -1, Code: key.CodeEscape, Modifiers: key.ModAlt}, editor.KeyShortcut{Rune: -1, Code: key.CodeEscape}},
	}
	for _, c := range cases {
		if got := windowKey(c.in); got != c.want {
			t.Fatalf("windowKey(%+v) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestCtrlKeys(t *testing.T) {
	keys := ctrlKeys('s', 0)
	if len(keys) != 2 || keys[1].Code != key.CodeS {
		t.Fatalf("ctrl s keys %+v", keys)
	}
	if keys := ctrlKeys('0', 0); len(keys) != 1 {
		t.Fatalf("digit bound by code: %+v", keys)
	}
}

func TestSnapZoom(t *testing.T) {
	z := 1.0
	for i := 0; i < 3; i++ {
		z = snapZoom(z * zoomStep)
	}
	for i := 0; i < 3; i++ {
		z = snapZoom(z / zoomStep)
	}
	if z != 1 {
		t.Fatalf("zoom drifted to %v", z)
	}
	if got := snapZoom(100); got > maxZoom {
		t.Fatalf("zoom %v above max", got)
	}
	if got := snapZoom(0.001); got < minZoom {
		t.Fatalf("zoom %v below min", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	a := newTestApp(t)
	msg, err := a.Load()
	if err != nil || msg != editor.MsgNoSaved {
		t.Fatalf("load empty = %q, %v", msg, err)
	}
	drawRectangle(a.Editor)
	if msg, err := a.Save(); err != nil || msg != editor.MsgSaved {
		t.Fatalf("save = %q, %v", msg, err)
	}
	a.Editor.Clear()
	if msg, err := a.Load(); err != nil || msg != editor.MsgLoaded {
		t.Fatalf("load = %q, %v", msg, err)
	}
	if got := len(a.Editor.Document()); got != 1 {
		t.Fatalf("loaded %d shapes", got)
	}
}

func TestExportFormats(t *testing.T) {
	a := newTestApp(t)
	drawRectangle(a.Editor)

	if _, err := a.Export("json"); err != nil {
		t.Fatalf("export json: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(a.OutputDir, ExportJSONName))
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var doc []map[string]any
	if err := json.Unmarshal(data, &doc); err != nil || len(doc) != 1 {
		t.Fatalf("json export %s: %v", data, err)
	}

	if _, err := a.Export("png"); err != nil {
		t.Fatalf("export png: %v", err)
	}
	f, err := os.Open(filepath.Join(a.OutputDir, ExportPNGName))
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	w, h := a.Editor.Stage()
	if img.Bounds().Dx() != int(w) || img.Bounds().Dy() != int(h) {
		t.Fatalf("png size %v, stage %vx%v", img.Bounds(), w, h)
	}

	if _, err := a.Export("pdf"); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	pdf, err := os.ReadFile(filepath.Join(a.OutputDir, ExportPDFName))
	if err != nil || !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Fatalf("pdf export: %v", err)
	}

	if _, err := a.Export("svg"); err == nil {
		t.Fatalf("unknown format accepted")
	}
}

func TestDecodeAsync(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got := make(chan interface{}, 1)
	decodeAsync(func(ev interface{}) { got <- ev }, "test", func() ([]byte, error) { return buf.Bytes(), nil })
	select {
	case ev := <-got:
		ie, ok := ev.(insertEvent)
		if !ok || ie.err != nil {
			t.Fatalf("event %#v", ev)
		}
		if ie.img.Bounds().Dx() != 3 || ie.src == "" {
			t.Fatalf("decoded %v src %q", ie.img.Bounds(), ie.src)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no event")
	}

	decodeAsync(func(ev interface{}) { got <- ev }, "bad", func() ([]byte, error) { return []byte("nope"), nil })
	select {
	case ev := <-got:
		if ie := ev.(insertEvent); ie.err == nil {
			t.Fatalf("garbage decoded")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no event")
	}
}

func TestDrawDashedLineAlternates(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 20, 3))
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	drawDashedLine(img, scene.Point{X: 0, Y: 1}, scene.Point{X: 15, Y: 1}, 4, red, blue)
	if img.RGBAAt(1, 1) != red || img.RGBAAt(5, 1) != blue || img.RGBAAt(9, 1) != red {
		t.Fatalf("dash pattern %v %v %v", img.RGBAAt(1, 1), img.RGBAAt(5, 1), img.RGBAAt(9, 1))
	}
	if img.RGBAAt(18, 1).A != 0 {
		t.Fatalf("line drawn past its end")
	}
}

func TestDrawCheckerboard(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	light := color.RGBA{220, 220, 220, 255}
	dark := color.RGBA{192, 192, 192, 255}
	drawCheckerboard(img, img.Bounds(), 8, light, dark)
	if img.RGBAAt(0, 0) != light || img.RGBAAt(8, 0) != dark || img.RGBAAt(8, 8) != light {
		t.Fatalf("checker pattern wrong")
	}
}

func TestCropPreviewResamplesOnce(t *testing.T) {
	var c previewCache
	src := image.NewRGBA(image.Rect(0, 0, 400, 200))
	first := c.at(src, 100, 50)
	if b := first.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("preview size %v", b)
	}
	if c.at(src, 100, 50) != first {
		t.Fatalf("unchanged layout resampled again")
	}
	if got := c.at(src, 200, 100); got == first || got.Bounds().Dx() != 200 {
		t.Fatalf("new layout reused the old preview")
	}
}
