package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/drawpad/internal/appstate"
	"github.com/example/drawpad/internal/clipboard"
)

// insertCmd adds an image from a file or the clipboard to the drawing.
type insertCmd struct {
	*root
	fs            *flag.FlagSet
	file          string
	fromClipboard bool
}

func (i *insertCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInsertCmd(args []string, r *root) (*insertCmd, error) {
	fs := flag.NewFlagSet("insert", flag.ContinueOnError)
	i := &insertCmd{root: r, fs: fs}
	fs.Usage = usageFunc(i)
	fs.BoolVar(&i.fromClipboard, "from-clipboard", false, "read the image from the clipboard")
	fs.BoolVar(&i.fromClipboard, "from-clip", false, "read the image from the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch {
	case i.fromClipboard && fs.NArg() > 0:
		return nil, fmt.Errorf("-from-clipboard cannot be combined with a file")
	case !i.fromClipboard && fs.NArg() != 1:
		return nil, &UsageError{of: i}
	}
	i.file = fs.Arg(0)
	return i, nil
}

var readClipboardFn = clipboard.ReadImageData

func (i *insertCmd) read() ([]byte, error) {
	if i.fromClipboard {
		data, err := readClipboardFn()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return data, nil
	}
	return os.ReadFile(i.file)
}

func (i *insertCmd) Run() error {
	data, err := i.read()
	if err != nil {
		return err
	}
	return i.withState(true, func(a *appstate.AppState) error {
		s, err := a.Editor.InsertImage(data)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		fmt.Fprintf(os.Stdout, "%s image %.0fx%.0f at %.0f,%.0f\n", s.ID, s.Width, s.Height, s.X, s.Y)
		return nil
	})
}
