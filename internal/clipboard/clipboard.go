// Package clipboard moves drawings between drawpad and the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/example/drawpad/internal/bitmap"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	errEmpty     = errors.New("clipboard: nothing to copy")
)

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// WritePNG publishes already encoded PNG data.
func WritePNG(data []byte) error {
	if len(data) == 0 {
		return errEmpty
	}
	return writePNG(data)
}

// WriteImage encodes img as PNG and publishes it.
func WriteImage(img image.Image) error {
	data, err := bitmap.EncodePNG(img)
	if err != nil {
		return err
	}
	return WritePNG(data)
}

// ReadImageData returns the encoded image on the clipboard.
func ReadImageData() ([]byte, error) {
	data, err := readPNG()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("clipboard does not contain image data")
	}
	return data, nil
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	if text == "" {
		return errEmpty
	}
	return writeText(text)
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	text, err := readText()
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("clipboard does not contain text data")
	}
	return text, nil
}
