// Package editor is the drawing session: the live document, its history and
// the pointer-driven state machine that draws, drags, transforms and crops
// shapes.
package editor

import (
	"errors"
	"image"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/drawpad/internal/bitmap"
	"github.com/example/drawpad/internal/crop"
	"github.com/example/drawpad/internal/history"
	"github.com/example/drawpad/internal/scene"
)

var (
	// ErrNoSelection is returned by operations that need a selected shape.
	ErrNoSelection = errors.New("no shape selected")
	// ErrNotImage is returned when an image operation targets another kind.
	ErrNotImage = errors.New("shape is not an image")
	// ErrTooSmall is returned when a transform would shrink an image below
	// the minimum size.
	ErrTooSmall = errors.New("transform below minimum size")
	// ErrBusy is returned when another gesture is in progress.
	ErrBusy = errors.New("another gesture is in progress")
)

const (
	DefaultStageWidth  = 800
	DefaultStageHeight = 500
	DefaultColor       = "#000000"
	DefaultBrushSize   = 4
	DefaultOpacity     = 1.0
	DefaultBackground  = "#FFFFFF"

	MinBrushSize = 1
	MaxBrushSize = 50
	MinOpacity   = 0.1
	MaxOpacity   = 1.0

	// MinTransformSize bounds the width and height a transform may leave an
	// image with.
	MinTransformSize = 5

	// SprayInterval is how often a held spray gesture lays down dots.
	SprayInterval = 50 * time.Millisecond

	minStageWidth = 300
	stageMargin   = 20
	stageAspect   = 1.6
)

// Palette is the quick colour set offered by the toolbar.
var Palette = []string{"#000000", "#FFFFFF", "#FF0000", "#00FF00", "#0000FF", "#FFFF00", "#FF00FF", "#00FFFF"}

// Editor owns a document and its history. All methods are safe to call
// from multiple goroutines; listeners run outside the lock.
type Editor struct {
	mu sync.Mutex

	doc     scene.Document
	hist    *history.History
	bitmaps *bitmap.Store

	tool       Tool
	brushType  scene.BrushType
	color      string
	brushSize  float64
	opacity    float64
	background string

	selected string
	view     gg.Matrix
	stageW   float64
	stageH   float64

	state State
	// active is the shape being drawn.
	active string
	last   scene.Point

	dragStart scene.Point
	dragOrig  scene.Shape

	cropping     bool
	cropA, cropB scene.Point

	modal       *crop.Modal
	modalTarget string

	rng           *rand.Rand
	sprayInterval time.Duration
	sprayTicker   *time.Ticker
	sprayDone     chan struct{}

	listeners []func()
}

// Option configures an Editor during creation.
type Option func(*Editor)

// WithStage sets the stage size.
func WithStage(w, h float64) Option {
	return func(e *Editor) { e.stageW, e.stageH = w, h }
}

// WithHistory replaces the default history.
func WithHistory(h *history.History) Option { return func(e *Editor) { e.hist = h } }

// WithRand sets the random source used by the spray brush.
func WithRand(r *rand.Rand) Option { return func(e *Editor) { e.rng = r } }

// WithBackground sets the canvas colour eraser strokes paint with.
func WithBackground(c string) Option { return func(e *Editor) { e.background = c } }

// WithSprayInterval sets the spray repeat period. Zero disables repeats.
func WithSprayInterval(d time.Duration) Option { return func(e *Editor) { e.sprayInterval = d } }

// WithTool sets the initial tool.
func WithTool(t Tool) Option { return func(e *Editor) { e.tool = t } }

// WithColor sets the initial colour. Invalid colours are ignored.
func WithColor(c string) Option {
	return func(e *Editor) {
		if n, err := scene.NormalizeColor(c); err == nil {
			e.color = n
		}
	}
}

// WithBrushSize sets the initial brush size.
func WithBrushSize(n float64) Option { return func(e *Editor) { e.brushSize = n } }

// WithOpacity sets the initial opacity.
func WithOpacity(o float64) Option { return func(e *Editor) { e.opacity = o } }

// New returns an editor holding an empty document.
func New(opts ...Option) *Editor {
	e := &Editor{
		doc:           scene.Document{},
		bitmaps:       bitmap.NewStore(),
		tool:          ToolRectangle,
		brushType:     scene.BrushNormal,
		color:         DefaultColor,
		brushSize:     DefaultBrushSize,
		opacity:       DefaultOpacity,
		background:    DefaultBackground,
		view:          gg.Identity(),
		stageW:        DefaultStageWidth,
		stageH:        DefaultStageHeight,
		sprayInterval: SprayInterval,
	}
	for _, o := range opts {
		o(e)
	}
	if e.hist == nil {
		e.hist = history.New()
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e.brushSize = clamp(e.brushSize, MinBrushSize, MaxBrushSize)
	e.opacity = clamp(e.opacity, MinOpacity, MaxOpacity)
	return e
}

// OnChange registers fn to run after every mutation.
func (e *Editor) OnChange(fn func()) {
	e.mu.Lock()
	e.listeners = append(e.listeners, fn)
	e.mu.Unlock()
}

func (e *Editor) notify() {
	e.mu.Lock()
	ls := append([]func(){}, e.listeners...)
	e.mu.Unlock()
	for _, fn := range ls {
		fn()
	}
}

// update runs fn under the lock and notifies listeners when it reports a
// change.
func (e *Editor) update(fn func() bool) {
	e.mu.Lock()
	changed := fn()
	e.mu.Unlock()
	if changed {
		e.notify()
	}
}

// Close stops background work.
func (e *Editor) Close() {
	e.mu.Lock()
	e.stopSprayLocked()
	e.mu.Unlock()
	e.hist.Stop()
}

// commitLocked records the live document as a user edit, ending any
// restore window so history never lags the document. mu must be held.
func (e *Editor) commitLocked() {
	e.hist.Record(e.doc)
}

func (e *Editor) style() scene.Style {
	return scene.Style{
		Color:      e.color,
		BrushSize:  e.brushSize,
		Opacity:    e.opacity,
		BrushType:  e.brushType,
		Background: e.background,
	}
}

func (e *Editor) toCanvas(p scene.Point) scene.Point {
	c := e.view.Invert().TransformPoint(gg.Pt(p.X, p.Y))
	return scene.Point{X: c.X, Y: c.Y}
}

// cancelLocked abandons any gesture and restores the last committed
// document. mu must be held.
func (e *Editor) cancelLocked() bool {
	e.stopSprayLocked()
	changed := e.state != StateIdle
	switch e.state {
	case StateDrawing, StateDragging:
		e.doc = e.hist.Current()
	}
	e.state = StateIdle
	e.active = ""
	e.cropping = false
	e.modal = nil
	e.modalTarget = ""
	return changed
}

// Tool returns the current tool.
func (e *Editor) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// SetTool switches tools, clearing the selection and abandoning any gesture.
func (e *Editor) SetTool(t Tool) {
	e.update(func() bool {
		e.cancelLocked()
		e.tool = t
		e.selected = ""
		return true
	})
}

// SetBrushType sets the freehand brush.
func (e *Editor) SetBrushType(b scene.BrushType) {
	e.update(func() bool {
		e.brushType = b
		return true
	})
}

// SetColor sets the stroke colour for new shapes.
func (e *Editor) SetColor(c string) error {
	n, err := scene.NormalizeColor(c)
	if err != nil {
		return err
	}
	e.update(func() bool {
		e.color = n
		return true
	})
	return nil
}

// SetBrushSize sets the brush size, clamped to [MinBrushSize, MaxBrushSize].
func (e *Editor) SetBrushSize(n float64) {
	e.update(func() bool {
		e.brushSize = clamp(n, MinBrushSize, MaxBrushSize)
		return true
	})
}

// SetOpacity sets the opacity, clamped to [MinOpacity, MaxOpacity].
func (e *Editor) SetOpacity(o float64) {
	e.update(func() bool {
		e.opacity = clamp(o, MinOpacity, MaxOpacity)
		return true
	})
}

// Style returns the drawing settings new shapes are created with.
func (e *Editor) Style() scene.Style {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.style()
}

// SetBackground sets the canvas colour.
func (e *Editor) SetBackground(c string) error {
	n, err := scene.NormalizeColor(c)
	if err != nil {
		return err
	}
	e.update(func() bool {
		e.background = n
		return true
	})
	return nil
}

// Background returns the canvas colour.
func (e *Editor) Background() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.background
}

// SetView sets the stage transform from canvas to surface coordinates.
func (e *Editor) SetView(m gg.Matrix) {
	e.update(func() bool {
		e.view = m
		return true
	})
}

// View returns the stage transform.
func (e *Editor) View() gg.Matrix {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.view
}

// Resize fits the stage to a container width, keeping a 1.6 aspect ratio.
func (e *Editor) Resize(containerWidth float64) {
	w := math.Max(containerWidth-stageMargin, minStageWidth)
	e.update(func() bool {
		e.stageW = w
		e.stageH = math.Floor(w / stageAspect)
		return true
	})
}

// Stage returns the stage size.
func (e *Editor) Stage() (float64, float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stageW, e.stageH
}

// State returns the current gesture state.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Document returns a copy of the live document.
func (e *Editor) Document() scene.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Selected returns the selected shape.
func (e *Editor) Selected() (scene.Shape, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Find(e.selected)
}

// Select selects the shape with id. An empty id clears the selection.
func (e *Editor) Select(id string) error {
	var err error
	e.update(func() bool {
		if id != "" && e.doc.IndexOf(id) < 0 {
			err = ErrNoSelection
			return false
		}
		e.selected = id
		return true
	})
	return err
}

// Bitmap returns the decoded image an image shape refers to.
func (e *Editor) Bitmap(ref string) (image.Image, bool) {
	return e.bitmaps.Get(ref)
}

// Bitmaps returns the store image shapes resolve against.
func (e *Editor) Bitmaps() *bitmap.Store { return e.bitmaps }

// CanUndo reports whether Undo would change the document.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would change the document.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// Undo restores the previous snapshot.
func (e *Editor) Undo() bool {
	var ok bool
	e.update(func() bool {
		e.cancelLocked()
		var doc scene.Document
		if doc, ok = e.hist.Undo(); ok {
			e.restoreLocked(doc)
		}
		return ok
	})
	return ok
}

// Redo restores the next snapshot.
func (e *Editor) Redo() bool {
	var ok bool
	e.update(func() bool {
		e.cancelLocked()
		var doc scene.Document
		if doc, ok = e.hist.Redo(); ok {
			e.restoreLocked(doc)
		}
		return ok
	})
	return ok
}

func (e *Editor) restoreLocked(doc scene.Document) {
	e.doc = doc
	if e.doc.IndexOf(e.selected) < 0 {
		e.selected = ""
	}
}

// DeleteSelected removes the selected shape.
func (e *Editor) DeleteSelected() error {
	var err error
	e.update(func() bool {
		if e.state != StateIdle {
			err = ErrBusy
			return false
		}
		doc, ok := e.doc.Remove(e.selected)
		if !ok {
			err = ErrNoSelection
			return false
		}
		e.doc = doc
		e.selected = ""
		e.commitLocked()
		return true
	})
	return err
}

// Clear empties the document.
func (e *Editor) Clear() {
	e.update(func() bool {
		e.cancelLocked()
		e.doc = scene.Document{}
		e.selected = ""
		e.commitLocked()
		return true
	})
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
