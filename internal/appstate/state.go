package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"os"
	"strconv"
	"sync"
	"time"
	"unicode"

	"github.com/gogpu/gg"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/drawpad/internal/bitmap"
	"github.com/example/drawpad/internal/clipboard"
	"github.com/example/drawpad/internal/crop"
	"github.com/example/drawpad/internal/editor"
	"github.com/example/drawpad/internal/notify"
	"github.com/example/drawpad/internal/scene"
	"github.com/example/drawpad/internal/storage"
	"github.com/example/drawpad/internal/theme"
)

// messageDuration is how long the snackbar stays up.
const messageDuration = 2 * time.Second

// AppState holds the window configuration and the editor it drives.
type AppState struct {
	Editor    *editor.Editor
	Theme     *theme.Theme
	Store     storage.Store
	Notifier  *notify.Notifier
	OutputDir string
	// Images are inserted once the window is up.
	Images []string

	updateCh chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithEditor sets the editor session shown in the window.
func WithEditor(ed *editor.Editor) Option { return func(a *AppState) { a.Editor = ed } }

// WithTheme sets the window colours.
func WithTheme(th *theme.Theme) Option { return func(a *AppState) { a.Theme = th } }

// WithStore sets the slot store used by save and load.
func WithStore(st storage.Store) Option { return func(a *AppState) { a.Store = st } }

// WithNotifier sets the desktop notifier.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithOutputDir sets where exports are written.
func WithOutputDir(dir string) Option { return func(a *AppState) { a.OutputDir = dir } }

// WithImages queues image files to insert at start up.
func WithImages(paths ...string) Option {
	return func(a *AppState) { a.Images = append(a.Images, paths...) }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		OutputDir: ".",
		updateCh:  make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.Editor == nil {
		a.Editor = editor.New()
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	if a.Store == nil {
		a.Store = storage.NewMemoryStore()
	}
	a.Editor.OnChange(a.NotifyChanged)
	return a
}

// NotifyChanged requests a repaint of the window.
func (a *AppState) NotifyChanged() {
	if a.updateCh == nil {
		return
	}
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// insertEvent carries an image decoded off the event loop.
type insertEvent struct {
	img  image.Image
	src  string
	from string
	err  error
}

// decodeAsync reads and decodes image bytes in a goroutine and delivers the
// result through send.
func decodeAsync(send func(interface{}), from string, read func() ([]byte, error)) {
	go func() {
		data, err := read()
		if err != nil {
			send(insertEvent{from: from, err: err})
			return
		}
		img, _, err := bitmap.Decode(data)
		if err != nil {
			send(insertEvent{from: from, err: err})
			return
		}
		send(insertEvent{img: img, src: bitmap.DataURL(data), from: from})
	}()
}

// windowKey normalises a key event for the window shortcut map. Cmd counts
// as Ctrl.
func windowKey(e key.Event) editor.KeyShortcut {
	mods := e.Modifiers & (key.ModShift | key.ModControl | key.ModMeta)
	if mods&key.ModMeta != 0 {
		mods = mods&^key.ModMeta | key.ModControl
	}
	r := e.Rune
	if r > 0 {
		if !unicode.IsLetter(r) {
			// Shift is how punctuation such as '+' is typed, not a modifier.
			mods &^= key.ModShift
		}
		r = unicode.ToLower(r)
	}
	return editor.KeyShortcut{Rune: r, Code: e.Code, Modifiers: mods}
}

func (a *AppState) status(zoom float64) string {
	ed := a.Editor
	st := ed.Style()
	return fmt.Sprintf("%s  %s  %s  size %.0f  opacity %.0f%%  zoom %.0f%%  %s",
		ed.Tool(), st.BrushType, st.Color, st.BrushSize, st.Opacity*100, zoom*100, ed.State())
}

// Main runs the window event loop on s until the window closes.
func (a *AppState) Main(s screen.Screen) {
	ed := a.Editor
	th := a.Theme

	var labels []string
	for _, tk := range toolKeys {
		labels = append(labels, tk.Label)
	}
	for _, bk := range brushKeys {
		labels = append(labels, bk.Label)
	}
	toolbarWidth = toolbarFitWidth(append(labels, "drawpad"))

	stageW, stageH := ed.Stage()
	width := toolbarWidth + int(stageW) + 2*stagePad
	height := headerHeight + bottomHeight + int(stageH) + 2*stagePad
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "drawpad"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	send := func(ev interface{}) { w.Send(ev) }
	for _, path := range a.Images {
		p := path
		decodeAsync(send, p, func() ([]byte, error) { return os.ReadFile(p) })
	}

	var message string
	var messageUntil time.Time
	showMessage := func(msg string) {
		message = msg
		messageUntil = time.Now().Add(messageDuration)
		log.Print(msg)
		time.AfterFunc(messageDuration, a.NotifyChanged)
	}
	report := func(msg string, err error) {
		if err != nil {
			showMessage(err.Error())
			return
		}
		if msg != "" {
			showMessage(msg)
		}
	}

	zoom := 1.0
	setZoom := func(z float64) {
		zoom = snapZoom(z)
		ed.SetView(gg.Scale(zoom, zoom))
	}

	// Transform handle drag on the selected image.
	var transforming bool
	var transformShape scene.Shape
	var transformX, transformY float64

	var pressed bool
	var modalWasOpen bool
	modalField := 0
	var modalText [2]string

	hoverTool := -1
	hoverShortcut := -1

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)
	stopPaint := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	actions := map[string]func(){}
	keyboardAction := map[editor.KeyShortcut]string{}
	register := func(name string, keys []editor.KeyShortcut, fn func()) {
		actions[name] = fn
		for _, k := range keys {
			keyboardAction[k] = name
		}
	}
	ctrl := func(r rune) []editor.KeyShortcut {
		return ctrlKeys(r, 0)
	}
	quit := false

	register("save", ctrl('s'), func() { report(a.Save()) })
	register("load", ctrl('o'), func() { report(a.Load()) })
	register("export", ctrl('e'), func() { report(a.Export("png")) })
	register("export-pdf", ctrl('p'), func() { report(a.Export("pdf")) })
	register("export-json", ctrl('j'), func() { report(a.Export("json")) })
	register("copy", ctrl('c'), func() { report(a.CopyImage()) })
	register("copy-json", ctrlKeys('c', key.ModShift), func() {
		report(a.CopyJSON())
	})
	register("paste", ctrl('v'), func() {
		decodeAsync(send, "paste", clipboard.ReadImageData)
	})
	register("paste-json", ctrlKeys('v', key.ModShift), func() {
		report(a.PasteJSON())
	})
	register("clear", ctrl('n'), func() { ed.Clear() })
	register("rotate", ctrl('r'), func() { report("", ed.Rotate90()) })
	register("reset", ctrl('0'), func() { report("", ed.ResetTransform()) })
	register("crop", ctrl('k'), func() { report("drag over the image to crop", ed.BeginInlineCrop()) })
	register("zoom-in", []editor.KeyShortcut{{Rune: '+'}, {Rune: '='}}, func() { setZoom(zoom * zoomStep) })
	register("zoom-out", []editor.KeyShortcut{{Rune: '-'}}, func() { setZoom(zoom / zoomStep) })
	register("zoom-reset", []editor.KeyShortcut{{Rune: '0'}}, func() { setZoom(1) })
	register("smaller", []editor.KeyShortcut{{Rune: '['}}, func() { ed.SetBrushSize(ed.Style().BrushSize - 1) })
	register("bigger", []editor.KeyShortcut{{Rune: ']'}}, func() { ed.SetBrushSize(ed.Style().BrushSize + 1) })
	register("fainter", []editor.KeyShortcut{{Rune: ','}}, func() { ed.SetOpacity(ed.Style().Opacity - 0.1) })
	register("stronger", []editor.KeyShortcut{{Rune: '.'}}, func() { ed.SetOpacity(ed.Style().Opacity + 0.1) })
	for _, b := range editor.Bindings() {
		act := b.Action
		actions[string(act)] = func() { ed.Do(act) }
	}
	nudge := func(dx, dy float64) func() {
		return func() {
			if err := ed.MoveSelected(dx, dy); err != nil && !errors.Is(err, editor.ErrNoSelection) {
				report("", err)
			}
		}
	}
	register("left", []editor.KeyShortcut{{Code: key.CodeLeftArrow}}, nudge(-1, 0))
	register("right", []editor.KeyShortcut{{Code: key.CodeRightArrow}}, nudge(1, 0))
	register("up", []editor.KeyShortcut{{Code: key.CodeUpArrow}}, nudge(0, -1))
	register("down", []editor.KeyShortcut{{Code: key.CodeDownArrow}}, nudge(0, 1))
	register("quit", []editor.KeyShortcut{{Rune: 'q'}}, func() { quit = true })

	trigger := func(name string) {
		if fn, ok := actions[name]; ok {
			fn()
		}
		w.Send(paint.Event{})
	}

	var toolbar []toolbarItem
	label := func(text string, fn func()) *CacheButton {
		return &CacheButton{Button: &LabelButton{label: text, th: th, action: fn}}
	}
	for i, tk := range toolKeys {
		t := tk.Tool
		toolbar = append(toolbar, toolbarItem{
			button: label(tk.Label, func() { ed.SetTool(t) }),
			active: func() bool { return ed.Tool() == t },
			gap:    i == 0,
		})
	}
	for i, bk := range brushKeys {
		b := bk.Brush
		toolbar = append(toolbar, toolbarItem{
			button: label(bk.Label, func() { ed.SetBrushType(b) }),
			active: func() bool { return ed.Style().BrushType == b },
			gap:    i == 0,
		})
	}
	for i, c := range editor.Palette {
		col := c
		toolbar = append(toolbar, toolbarItem{
			button: &CacheButton{Button: &SwatchButton{color: col, th: th, action: func() {
				if err := ed.SetColor(col); err != nil {
					report("", err)
				}
			}}},
			active: func() bool { return ed.Style().Color == col },
			gap:    i == 0,
		})
	}
	for i, act := range []struct{ label, name string }{
		{"Undo", string(editor.ActionUndo)},
		{"Redo", string(editor.ActionRedo)},
		{"Delete", string(editor.ActionDelete)},
		{"Rotate", "rotate"},
		{"Crop", "crop"},
		{"Paste", "paste"},
		{"Save", "save"},
		{"Load", "load"},
		{"Export", "export"},
		{"Clear", "clear"},
	} {
		name := act.name
		toolbar = append(toolbar, toolbarItem{button: label(act.label, func() { trigger(name) }), gap: i == 0})
	}
	layoutToolbar(toolbar, headerHeight, toolbarWidth)

	var shortcuts []toolbarItem
	for _, b := range editor.Bindings() {
		name := string(b.Action)
		shortcuts = append(shortcuts, toolbarItem{button: label(b.Label, func() { trigger(name) })})
	}
	for _, sc := range []struct{ label, name string }{
		{"^S:save", "save"},
		{"^O:load", "load"},
		{"^E:png", "export"},
		{"^P:pdf", "export-pdf"},
		{"^C:copy", "copy"},
		{"^V:paste", "paste"},
		{"+/-:zoom", "zoom-in"},
		{"Q:quit", "quit"},
	} {
		name := sc.name
		shortcuts = append(shortcuts, toolbarItem{button: label(sc.label, func() { trigger(name) })})
	}
	layoutShortcuts(shortcuts, height)

	var modalOrigin image.Point
	modalScale := 1.0
	syncModal := func() (editor.ModalView, bool) {
		m, open := ed.Modal()
		if open && !modalWasOpen {
			modalField = 0
			modalText = [2]string{strconv.Itoa(m.Width), strconv.Itoa(m.Height)}
		}
		modalWasOpen = open
		if open {
			modalOrigin, modalScale = modalLayout(width, height, m.Width, m.Height)
		}
		return m, open
	}
	applyField := func() {
		text := modalText[modalField]
		ed.EditModal(func(m *crop.Modal) {
			if modalField == 0 {
				m.SetWidthField(text)
			} else {
				m.SetHeightField(text)
			}
		})
		if m, ok := ed.Modal(); ok {
			other := 1 - modalField
			modalText[other] = strconv.Itoa([]int{m.Width, m.Height}[other])
		}
	}

	for !quit {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				stopPaint()
				return
			}
		case size.Event:
			width = e.WidthPx
			height = e.HeightPx
			ed.Resize(float64(width - toolbarWidth))
			layoutShortcuts(shortcuts, height)
			w.Send(paint.Event{})
		case insertEvent:
			if e.err != nil {
				showMessage(fmt.Sprintf("%s: %v", e.from, e.err))
			} else if _, err := ed.InsertBitmap(e.img, e.src); err != nil {
				showMessage(err.Error())
			}
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			m, modalOpen := syncModal()
			sw, sh := ed.Stage()
			st := paintState{
				width:         width,
				height:        height,
				th:            th,
				doc:           ed.Document(),
				images:        ed.Bitmaps(),
				background:    ed.Background(),
				view:          ed.View(),
				stageW:        int(sw),
				stageH:        int(sh),
				modal:         m,
				modalOpen:     modalOpen,
				modalField:    modalField,
				modalText:     modalText,
				toolbar:       toolbar,
				shortcuts:     shortcuts,
				hoverTool:     hoverTool,
				hoverShortcut: hoverShortcut,
				status:        a.status(zoom),
				message:       message,
				messageUntil:  messageUntil,
			}
			st.selected, st.hasSelected = ed.Selected()
			if transforming {
				preview := transformShape
				preview.ScaleX, preview.ScaleY = transformX, transformY
				preview.Width = preview.OriginalWidth * transformX
				preview.Height = preview.OriginalHeight * transformY
				st.doc, _ = st.doc.Replace(preview)
				st.selected, st.hasSelected = preview, true
			}
			st.cropRect, st.cropping = ed.CropRect()
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			p := image.Pt(int(e.X), int(e.Y))
			press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
			release := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease

			if m, open := syncModal(); open {
				pressed = false
				mp := modalPoint(e.X, e.Y, modalOrigin, modalScale)
				switch {
				case press:
					ed.EditModal(func(m *crop.Modal) { m.PointerDown(mp) })
				case release && m.Dragging:
					ed.EditModal(func(m *crop.Modal) { m.PointerUp(mp) })
				case e.Direction == mouse.DirNone && m.Dragging:
					ed.EditModal(func(m *crop.Modal) { m.PointerMove(mp) })
				}
				continue
			}

			if !pressed && !transforming {
				if p.Y >= height-bottomHeight {
					hoverShortcut = hitButton(shortcuts, p)
					if press && hoverShortcut >= 0 {
						shortcuts[hoverShortcut].button.Activate()
					}
					w.Send(paint.Event{})
					continue
				}
				if p.X < toolbarWidth || p.Y < headerHeight {
					hoverTool = hitButton(toolbar, p)
					if press && hoverTool >= 0 {
						toolbar[hoverTool].button.Activate()
					}
					w.Send(paint.Event{})
					continue
				}
				if hoverTool >= 0 || hoverShortcut >= 0 {
					hoverTool, hoverShortcut = -1, -1
					w.Send(paint.Event{})
				}
			}

			sp := surfacePoint(e.X, e.Y)
			switch {
			case press:
				if sel, ok := ed.Selected(); ok && sel.Kind == scene.KindImage && ed.Tool() == editor.ToolMove {
					handle := transformHandle(viewMapper(ed.View()), sel)
					if p.In(handle.Inset(-2)) {
						if err := ed.BeginTransform(sel.ID); err != nil {
							report("", err)
							continue
						}
						transforming = true
						transformShape = sel
						transformX, transformY = sel.Scale()
						continue
					}
				}
				pressed = true
				ed.PointerDown(sp)
			case release && transforming:
				transforming = false
				if err := ed.EndTransform(transformX, transformY, transformShape.Rotation); err != nil {
					report("", err)
				}
				w.Send(paint.Event{})
			case release && pressed:
				pressed = false
				ed.PointerUp(sp)
			case e.Direction == mouse.DirNone && transforming:
				c := ed.View().Invert().TransformPoint(gg.Pt(sp.X, sp.Y))
				transformX, transformY = transformScale(transformShape, scene.Point{X: c.X, Y: c.Y})
				w.Send(paint.Event{})
			case e.Direction == mouse.DirNone && pressed:
				ed.PointerMove(sp)
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if _, open := syncModal(); open {
				switch e.Code {
				case key.CodeEscape:
					ed.CancelCrop()
				case key.CodeReturnEnter:
					applyField()
					if err := ed.ApplyModalCrop(); editor.IsEmptyCrop(err) {
						showMessage("nothing selected to crop")
					} else if err != nil {
						report("", err)
					}
				case key.CodeTab:
					applyField()
					modalField = 1 - modalField
				case key.CodeDeleteBackspace:
					if t := modalText[modalField]; len(t) > 0 {
						modalText[modalField] = t[:len(t)-1]
						applyField()
					}
				default:
					if e.Rune >= '0' && e.Rune <= '9' && len(modalText[modalField]) < 4 {
						modalText[modalField] += string(e.Rune)
						applyField()
					}
				}
				w.Send(paint.Event{})
				continue
			}
			if transforming && e.Code == key.CodeEscape {
				transforming = false
				ed.CancelTransform()
				w.Send(paint.Event{})
				continue
			}
			ks := windowKey(e)
			name, ok := "", false
			if ks.Rune > 0 {
				name, ok = keyboardAction[editor.KeyShortcut{Rune: ks.Rune, Modifiers: ks.Modifiers}]
			}
			if !ok {
				name, ok = keyboardAction[editor.KeyShortcut{Code: ks.Code, Modifiers: ks.Modifiers}]
			}
			if ok {
				trigger(name)
				continue
			}
			if ed.HandleKey(ks) {
				w.Send(paint.Event{})
				continue
			}
			if ks.Modifiers&key.ModControl == 0 {
				if t, ok := toolForRune(ks.Rune); ok {
					ed.SetTool(t)
					continue
				}
				for _, bk := range brushKeys {
					if bk.Rune == ks.Rune {
						ed.SetBrushType(bk.Brush)
					}
				}
			}
		}
	}
	stopPaint()
}

// ctrlKeys binds Ctrl plus a letter or digit by rune and, for letters, by
// key code as well since some drivers report control characters.
func ctrlKeys(r rune, extra key.Modifiers) []editor.KeyShortcut {
	mods := key.ModControl | extra
	keys := []editor.KeyShortcut{{Rune: r, Modifiers: mods}}
	if r >= 'a' && r <= 'z' {
		keys = append(keys, editor.KeyShortcut{Code: key.CodeA + key.Code(r-'a'), Modifiers: mods})
	}
	return keys
}

// snapZoom rounds z to the nearest zoom step power so repeated zooming
// returns to 100%.
func snapZoom(z float64) float64 {
	n := math.Round(math.Log(z) / math.Log(zoomStep))
	return clampZoom(math.Pow(zoomStep, n))
}
