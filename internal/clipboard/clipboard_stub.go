//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

import "errors"

// Only X11 and Wayland sessions are wired up.
var errUnsupported = errors.New("clipboard: no backend for this platform")

func writePNG([]byte) error     { return errUnsupported }
func readPNG() ([]byte, error)  { return nil, errUnsupported }
func writeText(string) error    { return errUnsupported }
func readText() (string, error) { return "", errUnsupported }
