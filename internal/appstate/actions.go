package appstate

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/drawpad/internal/clipboard"
)

// Export file names, written under OutputDir.
const (
	ExportJSONName = "drawing.json"
	ExportPNGName  = "drawing.png"
	ExportPDFName  = "drawing.pdf"
)

// Save writes the document to the slot store.
func (a *AppState) Save() (string, error) {
	msg, err := a.Editor.Save(a.Store)
	if err != nil {
		return "", err
	}
	a.Notifier.Saved(msg)
	return msg, nil
}

// Load replaces the document with the saved one.
func (a *AppState) Load() (string, error) {
	msg, err := a.Editor.Load(a.Store)
	if err != nil {
		return "", err
	}
	a.Notifier.Loaded(msg)
	return msg, nil
}

// Export writes the document as json, png or pdf under OutputDir and
// returns a message naming the file.
func (a *AppState) Export(format string) (string, error) {
	var name string
	var write func(io.Writer) error
	switch format {
	case "json":
		name, write = ExportJSONName, a.Editor.ExportJSON
	case "png":
		name, write = ExportPNGName, func(w io.Writer) error { return a.Editor.ExportPNG(w, nil) }
	case "pdf":
		name, write = ExportPDFName, a.Editor.ExportPDF
	default:
		return "", fmt.Errorf("export: unknown format %q", format)
	}
	path := filepath.Join(a.OutputDir, name)
	if err := writeFile(path, write); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	a.Notifier.Exported(path)
	return fmt.Sprintf("exported %s", path), nil
}

// writeFile renders into memory before touching path.
func writeFile(path string, write func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// CopyImage puts the flattened drawing on the clipboard as PNG.
func (a *AppState) CopyImage() (string, error) {
	img, err := a.Editor.Flatten()
	if err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}
	if err := clipboard.WriteImage(img); err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}
	a.Notifier.Copied("image", img)
	return "image copied to clipboard", nil
}

// CopyJSON puts the document JSON on the clipboard as text.
func (a *AppState) CopyJSON() (string, error) {
	var buf bytes.Buffer
	if err := a.Editor.ExportJSON(&buf); err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}
	if err := clipboard.WriteText(buf.String()); err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}
	a.Notifier.Copied("drawing JSON", nil)
	return "drawing JSON copied to clipboard", nil
}

// PasteJSON replaces the document with drawing JSON taken from the
// clipboard, the counterpart of CopyJSON.
func (a *AppState) PasteJSON() (string, error) {
	text, err := clipboard.ReadText()
	if err != nil {
		return "", fmt.Errorf("paste: %w", err)
	}
	if err := a.Editor.ImportJSON(strings.NewReader(text)); err != nil {
		return "", fmt.Errorf("paste: %w", err)
	}
	return "drawing pasted from clipboard", nil
}

// Import replaces the document with an exported JSON file.
func (a *AppState) Import(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("import: %w", err)
	}
	defer f.Close()
	if err := a.Editor.ImportJSON(f); err != nil {
		return "", err
	}
	a.Notifier.Loaded(fmt.Sprintf("Imported %s", path))
	return fmt.Sprintf("imported %s", path), nil
}
