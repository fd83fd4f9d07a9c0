package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/drawpad/internal/appstate"
	"github.com/example/drawpad/internal/render"
)

// exportCmd writes the drawing as JSON, PNG or PDF.
type exportCmd struct {
	*root
	fs          *flag.FlagSet
	format      string
	output      string
	shadow      bool
	toClipboard bool
}

func (e *exportCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseExportCmd(args []string, r *root) (*exportCmd, error) {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	e := &exportCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.output, "output", "", "output file path (defaults to drawing.<format> in the output directory)")
	fs.BoolVar(&e.shadow, "shadow", false, "add a drop shadow to PNG exports")
	fs.BoolVar(&e.toClipboard, "to-clipboard", false, "copy the result to the clipboard instead of writing a file")
	fs.BoolVar(&e.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 1 {
		return nil, &UsageError{of: e}
	}
	e.format = strings.ToLower(fs.Arg(0))
	switch e.format {
	case "json", "png", "pdf":
	default:
		return nil, fmt.Errorf("unsupported export format %q", e.format)
	}
	if e.shadow && e.format != "png" {
		return nil, fmt.Errorf("-shadow only applies to png exports")
	}
	if e.toClipboard {
		if e.format == "pdf" {
			return nil, fmt.Errorf("pdf exports cannot be copied to the clipboard")
		}
		if e.output != "" {
			return nil, fmt.Errorf("-to-clipboard cannot be used with -output")
		}
		if e.shadow {
			return nil, fmt.Errorf("-to-clipboard cannot be used with -shadow")
		}
	}
	return e, nil
}

func (e *exportCmd) Run() error {
	return e.withState(false, func(a *appstate.AppState) error {
		msg, err := e.export(a)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, msg)
		return nil
	})
}

func (e *exportCmd) export(a *appstate.AppState) (string, error) {
	if e.toClipboard {
		if e.format == "json" {
			return a.CopyJSON()
		}
		return a.CopyImage()
	}
	if e.output == "" && !e.shadow {
		return a.Export(e.format)
	}
	path := e.output
	if path == "" {
		path = filepath.Join(a.OutputDir, appstate.ExportPNGName)
	}
	var buf bytes.Buffer
	var err error
	switch e.format {
	case "json":
		err = a.Editor.ExportJSON(&buf)
	case "png":
		var sh *render.Shadow
		if e.shadow {
			d := render.DefaultShadow()
			sh = &d
		}
		err = a.Editor.ExportPNG(&buf, sh)
	case "pdf":
		err = a.Editor.ExportPDF(&buf)
	}
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	a.Notifier.Exported(path)
	return fmt.Sprintf("exported %s", path), nil
}
