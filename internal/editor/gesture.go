package editor

import (
	"log"
	"time"

	"github.com/example/drawpad/internal/scene"
)

// PointerDown starts a gesture at surface point p.
func (e *Editor) PointerDown(p scene.Point) {
	var openModal string
	e.update(func() bool {
		switch e.state {
		case StateCroppingRect:
			e.cropping = true
			e.cropA, e.cropB = p, p
			return true
		case StateIdle:
		default:
			return false
		}
		c := e.toCanvas(p)
		switch e.tool {
		case ToolMove, ToolCropImage:
			id, ok := scene.HitTest(e.doc, c)
			if !ok {
				changed := e.selected != ""
				e.selected = ""
				return changed
			}
			hit, _ := e.doc.Find(id)
			e.selected = id
			if e.tool == ToolMove {
				e.beginDragLocked(hit, c)
			} else if hit.Kind == scene.KindImage {
				openModal = id
			}
			return true
		}
		kind, ok := e.tool.Kind()
		if !ok {
			return false
		}
		s, ok := scene.Start(kind, c, e.style())
		if !ok {
			return false
		}
		e.doc = e.doc.Append(s)
		e.active = s.ID
		e.last = c
		e.state = StateDrawing
		if e.tool == ToolLine && e.brushType == scene.BrushSpray {
			e.sprayLocked(c)
			e.startSprayLocked()
		}
		return true
	})
	if openModal != "" {
		if err := e.OpenCropModal(openModal); err != nil {
			log.Printf("crop: %v", err)
		}
	}
}

// PointerMove continues the gesture in progress.
func (e *Editor) PointerMove(p scene.Point) {
	e.update(func() bool {
		switch e.state {
		case StateCroppingRect:
			if !e.cropping {
				return false
			}
			e.cropB = p
			return true
		case StateDragging:
			e.dragToLocked(e.toCanvas(p))
			return true
		case StateDrawing:
			c := e.toCanvas(p)
			e.last = c
			i := e.doc.IndexOf(e.active)
			if i < 0 {
				return false
			}
			s := e.doc[i]
			s.Grow(c)
			e.doc, _ = e.doc.Replace(s)
			if s.Kind == scene.KindLine && s.BrushType == scene.BrushSpray {
				e.sprayLocked(c)
			}
			return true
		}
		return false
	})
}

// PointerUp ends the gesture. A completed gesture commits exactly once.
func (e *Editor) PointerUp(p scene.Point) {
	var applyCrop bool
	e.update(func() bool {
		switch e.state {
		case StateCroppingRect:
			if !e.cropping {
				return false
			}
			e.cropB = p
			applyCrop = true
			return true
		case StateDragging:
			e.dragToLocked(e.toCanvas(p))
			e.endDragLocked()
			return true
		case StateDrawing:
			c := e.toCanvas(p)
			if i := e.doc.IndexOf(e.active); i >= 0 {
				s := e.doc[i]
				s.Grow(c)
				e.doc, _ = e.doc.Replace(s)
				if s.Kind == scene.KindLine && s.BrushType == scene.BrushSpray && c != e.last {
					e.sprayLocked(c)
				}
			}
			e.stopSprayLocked()
			e.state = StateIdle
			e.active = ""
			e.commitLocked()
			return true
		}
		return false
	})
	if applyCrop {
		if err := e.ApplyInlineCrop(); err != nil && !IsEmptyCrop(err) {
			log.Printf("crop: %v", err)
		}
	}
}

// Tap is a press and release at p without movement. It selects shapes with
// the move tool and opens the cropper on images with the crop tool.
func (e *Editor) Tap(p scene.Point) {
	switch e.Tool() {
	case ToolMove, ToolCropImage:
		e.PointerDown(p)
		e.PointerUp(p)
	}
}

// BeginDrag starts dragging the shape with id from surface point p.
func (e *Editor) BeginDrag(id string, p scene.Point) error {
	var err error
	e.update(func() bool {
		if e.state != StateIdle {
			err = ErrBusy
			return false
		}
		s, ok := e.doc.Find(id)
		if !ok {
			err = ErrNoSelection
			return false
		}
		e.selected = id
		e.beginDragLocked(s, e.toCanvas(p))
		return true
	})
	return err
}

// DragTo moves the dragged shape so it follows surface point p.
func (e *Editor) DragTo(p scene.Point) {
	e.update(func() bool {
		if e.state != StateDragging {
			return false
		}
		e.dragToLocked(e.toCanvas(p))
		return true
	})
}

// EndDrag finishes a drag, committing if the shape moved.
func (e *Editor) EndDrag() {
	e.update(func() bool {
		if e.state != StateDragging {
			return false
		}
		e.endDragLocked()
		return true
	})
}

// MoveSelected translates the selected shape by (dx, dy) canvas units and
// commits.
func (e *Editor) MoveSelected(dx, dy float64) error {
	var err error
	e.update(func() bool {
		if e.state != StateIdle {
			err = ErrBusy
			return false
		}
		s, ok := e.doc.Find(e.selected)
		if !ok {
			err = ErrNoSelection
			return false
		}
		s.Translate(dx, dy)
		e.doc, _ = e.doc.Replace(s)
		e.commitLocked()
		return true
	})
	return err
}

func (e *Editor) beginDragLocked(s scene.Shape, c scene.Point) {
	e.state = StateDragging
	e.dragStart = c
	e.dragOrig = s
}

func (e *Editor) dragToLocked(c scene.Point) {
	s := e.dragOrig
	s.Translate(c.X-e.dragStart.X, c.Y-e.dragStart.Y)
	e.doc, _ = e.doc.Replace(s)
}

func (e *Editor) endDragLocked() {
	e.state = StateIdle
	cur, ok := e.doc.Find(e.dragOrig.ID)
	moved := ok && (cur.X != e.dragOrig.X || cur.Y != e.dragOrig.Y || !samePoints(cur.Points, e.dragOrig.Points))
	e.dragOrig = scene.Shape{}
	if moved {
		e.commitLocked()
	}
}

func samePoints(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sprayLocked lays down one sample of spray dots at canvas point c.
func (e *Editor) sprayLocked(c scene.Point) {
	e.doc = e.doc.Append(scene.Spray(e.rng, c, e.style())...)
}

func (e *Editor) startSprayLocked() {
	if e.sprayInterval <= 0 {
		return
	}
	t := time.NewTicker(e.sprayInterval)
	done := make(chan struct{})
	e.sprayTicker, e.sprayDone = t, done
	go func() {
		for {
			select {
			case <-t.C:
				e.sprayTick(done)
			case <-done:
				return
			}
		}
	}()
}

func (e *Editor) sprayTick(done chan struct{}) {
	e.mu.Lock()
	if e.sprayDone != done || e.state != StateDrawing {
		e.mu.Unlock()
		return
	}
	e.sprayLocked(e.last)
	e.mu.Unlock()
	e.notify()
}

func (e *Editor) stopSprayLocked() {
	if e.sprayTicker == nil {
		return
	}
	e.sprayTicker.Stop()
	close(e.sprayDone)
	e.sprayTicker = nil
	e.sprayDone = nil
}

// Spraying reports whether the spray repeat is running.
func (e *Editor) Spraying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sprayTicker != nil
}
