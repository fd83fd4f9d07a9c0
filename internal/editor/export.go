package editor

import (
	"image"
	"io"
	"math"

	"github.com/example/drawpad/internal/render"
)

// RenderOptions describes a flattened export of the stage: stage size, the
// document background and no view transform.
func (e *Editor) RenderOptions() render.Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return render.Options{
		Width:      int(math.Round(e.stageW)),
		Height:     int(math.Round(e.stageH)),
		Background: e.background,
	}
}

// Flatten rasters the document with handles and crop guides hidden.
func (e *Editor) Flatten() (*image.RGBA, error) {
	return render.Raster(e.Document(), e.bitmaps, e.RenderOptions())
}

// ExportPNG writes the flattened document as PNG, with an optional shadow.
func (e *Editor) ExportPNG(w io.Writer, shadow *render.Shadow) error {
	opts := e.RenderOptions()
	opts.Shadow = shadow
	return render.EncodePNG(w, e.Document(), e.bitmaps, opts)
}

// ExportPDF writes the document as a one page vector PDF.
func (e *Editor) ExportPDF(w io.Writer) error {
	return render.WritePDF(w, e.Document(), e.bitmaps, e.RenderOptions())
}
