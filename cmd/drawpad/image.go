package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/example/drawpad/internal/appstate"
	"github.com/example/drawpad/internal/crop"
	"github.com/example/drawpad/internal/editor"
	"github.com/example/drawpad/internal/scene"
)

// imageCmd transforms or crops one image shape.
type imageCmd struct {
	*root
	fs     *flag.FlagSet
	id     string
	action string
	values []float64
}

func (i *imageCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseImageCmd(args []string, r *root) (*imageCmd, error) {
	fs := flag.NewFlagSet("image", flag.ContinueOnError)
	i := &imageCmd{root: r, fs: fs}
	fs.Usage = usageFunc(i)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 2 {
		return nil, &UsageError{of: i}
	}
	i.id = fs.Arg(0)
	i.action = strings.ToLower(fs.Arg(1))
	rest := fs.Args()[2:]
	var err error
	switch i.action {
	case "rotate", "reset":
		_, err = expectFloats(rest, 0, i.action)
	case "scale":
		i.values, err = expectFloats(rest, 2, i.action)
	case "crop", "crop-source":
		i.values, err = expectFloats(rest, 4, i.action)
	default:
		return nil, fmt.Errorf("unknown image action %q", i.action)
	}
	if err != nil {
		return nil, err
	}
	return i, nil
}

func (i *imageCmd) Run() error {
	return i.withState(true, func(a *appstate.AppState) error {
		ed := a.Editor
		if err := ed.Select(i.id); err != nil {
			return fmt.Errorf("image %s: %w", i.id, err)
		}
		if err := i.apply(ed); err != nil {
			if editor.IsEmptyCrop(err) {
				fmt.Fprintln(os.Stderr, "crop area is empty; image unchanged")
				return nil
			}
			return fmt.Errorf("image %s: %w", i.action, err)
		}
		s, _ := ed.Selected()
		fmt.Fprintf(os.Stdout, "%s image %.0fx%.0f rotation %.0f\n", s.ID, s.Width, s.Height, s.Rotation)
		return nil
	})
}

func (i *imageCmd) apply(ed *editor.Editor) error {
	v := i.values
	switch i.action {
	case "rotate":
		return ed.Rotate90()
	case "reset":
		return ed.ResetTransform()
	case "scale":
		return ed.Transform(v[0], v[1])
	case "crop":
		if err := ed.BeginInlineCrop(); err != nil {
			return err
		}
		ed.SetCropRect(scene.Point{X: v[0], Y: v[1]}, scene.Point{X: v[2], Y: v[3]})
		return ed.ApplyInlineCrop()
	case "crop-source":
		if err := ed.OpenCropModal(i.id); err != nil {
			return err
		}
		ed.EditModal(func(m *crop.Modal) {
			m.SetSelection(scene.RectFromPoints(scene.Point{X: v[0], Y: v[1]}, scene.Point{X: v[2], Y: v[3]}))
		})
		return ed.ApplyModalCrop()
	}
	return fmt.Errorf("unknown image action %q", i.action)
}
