package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/example/drawpad/internal/bitmap"
	"github.com/example/drawpad/internal/scene"
	"github.com/example/drawpad/internal/storage"
)

// SlotKey is the storage slot drawings are saved under.
const SlotKey = "savedShapes"

// User-facing results of Save and Load.
const (
	MsgSaved   = "Drawing saved successfully!"
	MsgLoaded  = "Drawing loaded successfully!"
	MsgNoSaved = "No saved drawing found!"
)

// Save writes the document to the drawing slot of st.
func (e *Editor) Save(st storage.Store) (string, error) {
	data, err := json.Marshal(e.Document())
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	if err := st.Set(SlotKey, data); err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	return MsgSaved, nil
}

// Load replaces the document with the one saved in st and commits it. An
// empty slot leaves the document unchanged and returns MsgNoSaved.
func (e *Editor) Load(st storage.Store) (string, error) {
	data, err := st.Get(SlotKey)
	if errors.Is(err, storage.ErrNotFound) {
		return MsgNoSaved, nil
	}
	if err != nil {
		return "", fmt.Errorf("load: %w", err)
	}
	if err := e.replaceFromJSON(data); err != nil {
		return "", fmt.Errorf("load: %w", err)
	}
	return MsgLoaded, nil
}

// ExportJSON writes the document as indented JSON. Images carry only their
// re-loadable source.
func (e *Editor) ExportJSON(w io.Writer) error {
	data, err := json.MarshalIndent(e.Document(), "", "  ")
	if err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	return nil
}

// ImportJSON replaces the document with one read from r and commits it.
func (e *Editor) ImportJSON(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("import json: %w", err)
	}
	if err := e.replaceFromJSON(data); err != nil {
		return fmt.Errorf("import json: %w", err)
	}
	return nil
}

func (e *Editor) replaceFromJSON(data []byte) error {
	var doc scene.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	if doc == nil {
		doc = scene.Document{}
	}
	seen := map[string]bool{}
	for i := range doc {
		s := &doc[i]
		if s.ID == "" || seen[s.ID] {
			s.ID = scene.NewID()
		}
		seen[s.ID] = true
		if s.Kind != scene.KindImage || s.OriginalSrc == "" {
			continue
		}
		img, err := bitmap.DecodeDataURL(s.OriginalSrc)
		if err != nil {
			log.Printf("load: image %s: %v", s.ID, err)
			continue
		}
		s.Bitmap = e.bitmaps.Add(img)
	}
	e.update(func() bool {
		e.cancelLocked()
		e.doc = doc
		e.selected = ""
		e.commitLocked()
		return true
	})
	return nil
}
