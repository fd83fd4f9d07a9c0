// Package history keeps the undo/redo stack of document snapshots.
package history

import (
	"sync"
	"time"

	"github.com/example/drawpad/internal/scene"
)

// DefaultGuardDelay is how long commits stay suppressed after an undo or redo
// restores a snapshot.
const DefaultGuardDelay = 10 * time.Millisecond

// History is a linear list of document snapshots with a cursor. The zero
// value is not usable; call New.
type History struct {
	mu        sync.Mutex
	snapshots []scene.Document
	cursor    int

	guardDelay time.Duration
	restoring  bool
	guard      *time.Timer
	guardGen   int
}

// Option configures a History during creation.
type Option func(*History)

// WithGuardDelay sets how long commits are ignored after a restore. Zero
// disables the guard.
func WithGuardDelay(d time.Duration) Option { return func(h *History) { h.guardDelay = d } }

// New returns a history holding a single empty snapshot.
func New(opts ...Option) *History {
	h := &History{
		snapshots:  []scene.Document{{}},
		guardDelay: DefaultGuardDelay,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// Commit records doc as the newest snapshot, dropping anything that could
// have been redone. It returns false when a restore guard suppressed it.
func (h *History) Commit(doc scene.Document) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.restoring {
		return false
	}
	h.snapshots = append(h.snapshots[:h.cursor+1:h.cursor+1], doc.Clone())
	h.cursor = len(h.snapshots) - 1
	return true
}

// Record commits doc for an edit the user made. The edit ends any restore
// window, so unlike Commit it is never suppressed.
func (h *History) Record(doc scene.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.releaseGuard()
	h.snapshots = append(h.snapshots[:h.cursor+1:h.cursor+1], doc.Clone())
	h.cursor = len(h.snapshots) - 1
}

// Undo steps back one snapshot and returns a copy of it.
func (h *History) Undo() (scene.Document, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor == 0 {
		return nil, false
	}
	h.cursor--
	h.holdGuard()
	return h.snapshots[h.cursor].Clone(), true
}

// Redo steps forward one snapshot and returns a copy of it.
func (h *History) Redo() (scene.Document, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cursor >= len(h.snapshots)-1 {
		return nil, false
	}
	h.cursor++
	h.holdGuard()
	return h.snapshots[h.cursor].Clone(), true
}

// holdGuard must be called with mu held.
func (h *History) holdGuard() {
	if h.guardDelay <= 0 {
		return
	}
	h.restoring = true
	if h.guard != nil {
		h.guard.Stop()
	}
	h.guardGen++
	gen := h.guardGen
	h.guard = time.AfterFunc(h.guardDelay, func() {
		h.mu.Lock()
		if h.guardGen == gen {
			h.restoring = false
		}
		h.mu.Unlock()
	})
}

// Restoring reports whether commits are currently suppressed.
func (h *History) Restoring() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.restoring
}

// Current returns a copy of the snapshot at the cursor.
func (h *History) Current() scene.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshots[h.cursor].Clone()
}

func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.snapshots)-1
}

// Len returns the number of snapshots, including the initial empty one.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.snapshots)
}

// Cursor returns the index of the live snapshot.
func (h *History) Cursor() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor
}

// Stop cancels a pending guard release and clears the guard.
func (h *History) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.releaseGuard()
}

// releaseGuard must be called with mu held.
func (h *History) releaseGuard() {
	if h.guard != nil {
		h.guard.Stop()
		h.guard = nil
	}
	h.guardGen++
	h.restoring = false
}
