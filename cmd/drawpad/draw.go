package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/example/drawpad/internal/appstate"
	"github.com/example/drawpad/internal/editor"
	"github.com/example/drawpad/internal/scene"
)

// drawCmd replays a pointer gesture with a drawing tool.
type drawCmd struct {
	*root
	fs        *flag.FlagSet
	tool      editor.Tool
	brush     string
	colorSpec string
	size      float64
	opacity   float64
	points    []scene.Point
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ContinueOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	fs.StringVar(&d.brush, "brush", "", "brush type for line strokes (normal, watercolor, spray)")
	fs.StringVar(&d.colorSpec, "color", "", "stroke color name or hex value")
	fs.Float64Var(&d.size, "size", 0, "brush size in pixels")
	fs.Float64Var(&d.opacity, "opacity", 0, "opacity between 0.1 and 1")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, &UsageError{of: d}
	}
	tool, err := editor.ParseTool(fs.Arg(0))
	if err != nil {
		return nil, err
	}
	if _, ok := tool.Kind(); !ok {
		return nil, fmt.Errorf("tool %s does not draw; use move or image instead", tool)
	}
	d.tool = tool
	if d.brush != "" {
		if _, err := editor.ParseBrush(d.brush); err != nil {
			return nil, err
		}
	}
	if d.colorSpec != "" {
		if _, err := scene.NormalizeColor(d.colorSpec); err != nil {
			return nil, err
		}
	}
	d.points, err = expectPoints(fs.Args()[1:], tool.String())
	if err != nil {
		return nil, err
	}
	return d, nil
}

// expectPoints reads x y pairs. A gesture needs at least a start and an end.
func expectPoints(args []string, what string) ([]scene.Point, error) {
	if len(args) < 4 || len(args)%2 != 0 {
		return nil, fmt.Errorf("%s requires x0 y0 x1 y1 [x y ...]", what)
	}
	vals, err := expectFloats(args, len(args), what)
	if err != nil {
		return nil, err
	}
	pts := make([]scene.Point, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		pts = append(pts, scene.Point{X: vals[i], Y: vals[i+1]})
	}
	return pts, nil
}

func expectFloats(args []string, n int, what string) ([]float64, error) {
	if len(args) != n {
		return nil, fmt.Errorf("%s requires %d numeric arguments", what, n)
	}
	vals := make([]float64, n)
	for i, raw := range args {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		vals[i] = v
	}
	return vals, nil
}

func (d *drawCmd) Run() error {
	return d.withState(true, func(a *appstate.AppState) error {
		ed := a.Editor
		if err := d.applyStyle(ed); err != nil {
			return err
		}
		ed.SetTool(d.tool)
		before := len(ed.Document())
		last := d.points[len(d.points)-1]
		ed.PointerDown(d.points[0])
		for _, p := range d.points[1:] {
			ed.PointerMove(p)
		}
		ed.PointerUp(last)
		doc := ed.Document()
		if len(doc) == before {
			return fmt.Errorf("draw: nothing was drawn")
		}
		s := doc[len(doc)-1]
		fmt.Fprintf(os.Stdout, "%s %s\n", s.ID, s.Kind)
		return nil
	})
}

func (d *drawCmd) applyStyle(ed *editor.Editor) error {
	if d.brush != "" {
		b, err := editor.ParseBrush(d.brush)
		if err != nil {
			return err
		}
		ed.SetBrushType(b)
	}
	if d.colorSpec != "" {
		if err := ed.SetColor(d.colorSpec); err != nil {
			return err
		}
	}
	if d.size > 0 {
		ed.SetBrushSize(d.size)
	}
	if d.opacity > 0 {
		ed.SetOpacity(d.opacity)
	}
	return nil
}
