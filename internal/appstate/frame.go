package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/screen"

	"github.com/example/drawpad/internal/bitmap"
	"github.com/example/drawpad/internal/crop"
	"github.com/example/drawpad/internal/editor"
	"github.com/example/drawpad/internal/render"
	"github.com/example/drawpad/internal/scene"
	"github.com/example/drawpad/internal/theme"
)

// paintState is the snapshot the paint goroutine draws from.
type paintState struct {
	width, height  int
	th             *theme.Theme
	doc            scene.Document
	images         render.Images
	background     string
	view           gg.Matrix
	stageW, stageH int

	selected    scene.Shape
	hasSelected bool
	cropRect    scene.Rect
	cropping    bool

	modal      editor.ModalView
	modalOpen  bool
	modalField int
	modalText  [2]string

	toolbar       []toolbarItem
	shortcuts     []toolbarItem
	hoverTool     int
	hoverShortcut int
	status        string

	message      string
	messageUntil time.Time
}

// viewMapper maps canvas points to window points through the stage view.
func viewMapper(view gg.Matrix) func(scene.Point) scene.Point {
	o := stageOrigin()
	return func(p scene.Point) scene.Point {
		q := view.TransformPoint(gg.Pt(p.X, p.Y))
		return scene.Point{X: q.X + float64(o.X), Y: q.Y + float64(o.Y)}
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	dst := b.RGBA()
	th := st.th

	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)
	origin := stageOrigin()
	stage := image.Rect(0, 0, st.stageW, st.stageH).Add(origin)
	drawCheckerboard(dst, stage, 8, th.CheckerLight, th.CheckerDark)
	if ctx.Err() != nil {
		return
	}

	img, err := render.Raster(st.doc, st.images, render.Options{
		Width:      st.stageW,
		Height:     st.stageH,
		Background: st.background,
		View:       st.view,
	})
	if err != nil {
		log.Printf("raster: %v", err)
	} else {
		draw.Draw(dst, stage, img, image.Point{}, draw.Over)
	}
	if ctx.Err() != nil {
		return
	}

	toWindow := viewMapper(st.view)
	if st.hasSelected {
		drawSelection(dst, th, st.selected, toWindow)
	}
	if st.cropping {
		r := st.cropRect
		pts := rectCorners(scene.Rect{
			MinX: r.MinX + float64(origin.X), MinY: r.MinY + float64(origin.Y),
			MaxX: r.MaxX + float64(origin.X), MaxY: r.MaxY + float64(origin.Y),
		})
		drawDashedPolygon(dst, pts, 4, th.CropGuide, color.Black)
	}
	if ctx.Err() != nil {
		return
	}

	drawToolbar(dst, th, st.toolbar, st.hoverTool, st.height)
	drawHeader(dst, th, st.width, st.status)
	drawShortcuts(dst, th, st.shortcuts, st.hoverShortcut, st.width, st.height)
	if ctx.Err() != nil {
		return
	}

	if st.modalOpen {
		drawModal(dst, st)
	}
	if ctx.Err() != nil {
		return
	}

	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawSnackbar(dst, th, st.message, st.width, st.height)
	}
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// drawSelection outlines the selected shape. Images also get their scale
// handle.
func drawSelection(dst *image.RGBA, th *theme.Theme, s scene.Shape, toWindow func(scene.Point) scene.Point) {
	var outline []scene.Point
	if s.Kind == scene.KindImage {
		for _, c := range s.ImageCorners() {
			outline = append(outline, toWindow(c))
		}
	} else {
		for _, c := range rectCorners(s.Bounds()) {
			outline = append(outline, toWindow(c))
		}
	}
	drawDashedPolygon(dst, outline, 4, th.SelectionHandle, color.White)
	hs := handleSize / 2
	for _, p := range outline {
		r := image.Rect(int(p.X)-hs, int(p.Y)-hs, int(p.X)+hs, int(p.Y)+hs)
		drawHandle(dst, r, th.SelectionHandle, th.ButtonBorder)
	}
	if s.Kind == scene.KindImage {
		drawHandle(dst, transformHandle(toWindow, s), color.White, th.SelectionHandle)
	}
}

func drawToolbar(dst *image.RGBA, th *theme.Theme, items []toolbarItem, hover, height int) {
	draw.Draw(dst, image.Rect(0, headerHeight, toolbarWidth, height-bottomHeight),
		&image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i, it := range items {
		state := StateDefault
		if it.active != nil && it.active() {
			state = StatePressed
		} else if i == hover {
			state = StateHover
		}
		it.button.Draw(dst, state)
	}
}

func drawHeader(dst *image.RGBA, th *theme.Theme, width int, status string) {
	draw.Draw(dst, image.Rect(0, 0, width, headerHeight), &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	drawText(dst, 4, 16, "drawpad", th.Foreground)
	drawText(dst, toolbarWidth+stagePad, 16, status, th.Foreground)
}

func drawShortcuts(dst *image.RGBA, th *theme.Theme, items []toolbarItem, hover, width, height int) {
	draw.Draw(dst, image.Rect(0, height-bottomHeight, width, height), &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i, it := range items {
		state := StateDefault
		if i == hover {
			state = StateHover
		}
		it.button.Draw(dst, state)
	}
}

// layoutShortcuts lines the shortcut buttons up along the bottom bar.
func layoutShortcuts(items []toolbarItem, height int) {
	x := toolbarWidth + 4
	y := height - bottomHeight + 2
	for _, it := range items {
		lb, ok := it.button.Button.(*LabelButton)
		if !ok {
			continue
		}
		w := textWidth(faceBasic, lb.label) + 8
		it.button.SetRect(image.Rect(x, y, x+w, y+bottomHeight-4))
		x += w + 4
	}
}

func drawModal(dst *image.RGBA, st paintState) {
	th := st.th
	m := st.modal
	draw.Draw(dst, dst.Bounds(), &image.Uniform{color.RGBA{0, 0, 0, 128}}, image.Point{}, draw.Over)
	o, scale := modalLayout(st.width, st.height, m.Width, m.Height)
	r := image.Rect(o.X, o.Y, o.X+int(float64(m.Width)*scale), o.Y+int(float64(m.Height)*scale))
	drawCheckerboard(dst, r, 8, th.CheckerLight, th.CheckerDark)
	if m.Source != nil {
		draw.Draw(dst, r, cropPreview.at(m.Source, r.Dx(), r.Dy()), image.Point{}, draw.Over)
	}
	toWindow := func(p scene.Point) scene.Point {
		return scene.Point{X: float64(o.X) + p.X*scale, Y: float64(o.Y) + p.Y*scale}
	}
	if sel := m.Selection; !sel.Empty() {
		var pts []scene.Point
		for _, c := range rectCorners(sel) {
			pts = append(pts, toWindow(c))
		}
		drawDashedPolygon(dst, pts, 4, th.CropGuide, color.Black)
		for _, hr := range crop.HandleRects(sel) {
			c := toWindow(scene.Point{X: (hr.MinX + hr.MaxX) / 2, Y: (hr.MinY + hr.MaxY) / 2})
			hs := handleSize / 2
			drawHandle(dst, image.Rect(int(c.X)-hs, int(c.Y)-hs, int(c.X)+hs, int(c.Y)+hs), th.CropGuide, color.Black)
		}
	}

	bar := image.Rect(r.Min.X, r.Min.Y-buttonHeight, max(r.Max.X, r.Min.X+360), r.Min.Y-2)
	draw.Draw(dst, bar, &image.Uniform{th.MessageBackground}, image.Point{}, draw.Over)
	x := bar.Min.X + 4
	for i, name := range []string{"W", "H"} {
		text := st.modalText[i]
		if i == st.modalField {
			text += "|"
		}
		x = drawText(dst, x, bar.Min.Y+16, fmt.Sprintf("%s: %-6s", name, text), th.MessageText) + 8
	}
	drawText(dst, x, bar.Min.Y+16, "Tab:field Enter:crop Esc:cancel", th.MessageText)
}

// previewCache keeps the cropper image resampled to its on-screen size so
// frames only resample when the source or the layout changes.
type previewCache struct {
	mu   sync.Mutex
	src  image.Image
	w, h int
	img  *image.RGBA
}

var cropPreview previewCache

func (c *previewCache) at(src image.Image, w, h int) *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.img == nil || c.src != src || c.w != w || c.h != h {
		c.src, c.w, c.h = src, w, h
		c.img = bitmap.Resize(src, w, h)
	}
	return c.img
}

func drawSnackbar(dst *image.RGBA, th *theme.Theme, msg string, width, height int) {
	wmsg := textWidth(messageFace, msg)
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	px := (width - wmsg) / 2
	py := height - bottomHeight - 16 - descent
	rect := image.Rect(px-12, py-ascent-8, px+wmsg+12, py+descent+8)
	draw.Draw(dst, rect, &image.Uniform{th.MessageBackground}, image.Point{}, draw.Over)
	d := fontDrawer(dst, th.MessageText)
	d.Dot = fixed.P(px, py)
	d.DrawString(msg)
}
