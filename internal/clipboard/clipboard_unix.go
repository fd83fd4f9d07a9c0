//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		initErr = clipboard.Init()
	})
	return initErr
}

func put(format clipboard.Format, data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(format, data)
	return nil
}

func get(format clipboard.Format) ([]byte, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return clipboard.Read(format), nil
}

func writePNG(data []byte) error  { return put(clipboard.FmtImage, data) }
func readPNG() ([]byte, error)    { return get(clipboard.FmtImage) }
func writeText(text string) error { return put(clipboard.FmtText, []byte(text)) }

func readText() (string, error) {
	data, err := get(clipboard.FmtText)
	return string(data), err
}
