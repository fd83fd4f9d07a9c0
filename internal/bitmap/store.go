package bitmap

import (
	"image"
	"sync"

	"github.com/google/uuid"
)

// Store maps bitmap references held by image shapes to decoded images.
// Entries are immutable once added; crops add a new entry.
type Store struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{images: make(map[string]image.Image)}
}

// Add keeps img and returns its reference.
func (s *Store) Add(img image.Image) string {
	ref := uuid.NewString()
	s.mu.Lock()
	s.images[ref] = img
	s.mu.Unlock()
	return ref
}

// Get returns the image for ref.
func (s *Store) Get(ref string) (image.Image, bool) {
	if s == nil || ref == "" {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[ref]
	return img, ok
}

// Len returns the number of stored images.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
