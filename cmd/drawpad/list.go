package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/drawpad/internal/appstate"
	"github.com/example/drawpad/internal/editor"
	"github.com/example/drawpad/internal/scene"
	"github.com/example/drawpad/internal/theme"
)

type shapesCmd struct {
	*root
	fs *flag.FlagSet
}

func parseShapesCmd(args []string, r *root) (*shapesCmd, error) {
	fs := flag.NewFlagSet("shapes", flag.ContinueOnError)
	cmd := &shapesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *shapesCmd) Run() error {
	return c.withState(false, func(a *appstate.AppState) error {
		doc := a.Editor.Document()
		if len(doc) == 0 {
			fmt.Fprintln(os.Stdout, "no shapes")
			return nil
		}
		sel, hasSel := a.Editor.Selected()
		fmt.Fprintln(os.Stdout, "shapes, bottom to top (* marks the selection):")
		for _, s := range doc {
			marker := " "
			if hasSel && s.ID == sel.ID {
				marker = "*"
			}
			fmt.Fprintf(os.Stdout, "%s %s\n", marker, formatShape(s))
		}
		return nil
	})
}

func formatShape(s scene.Shape) string {
	b := s.Bounds()
	label := fmt.Sprintf("%s %-12s %.0f,%.0f %.0fx%.0f", s.ID, s.Kind, b.MinX, b.MinY, b.MaxX-b.MinX, b.MaxY-b.MinY)
	if s.Kind == scene.KindImage && s.Rotation != 0 {
		label += fmt.Sprintf(" rotation %.0f", s.Rotation)
	}
	if s.Stroke != "" && s.Stroke != scene.Transparent {
		label += " " + s.Stroke
	}
	return label
}

func (c *shapesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type colorsCmd struct {
	*root
	fs  *flag.FlagSet
	all bool
}

func parseColorsCmd(args []string, r *root) (*colorsCmd, error) {
	fs := flag.NewFlagSet("colors", flag.ContinueOnError)
	cmd := &colorsCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.BoolVar(&cmd.all, "all", false, "also list every named color accepted by -color")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *colorsCmd) Run() error {
	current := editor.DefaultColor
	if c.config != nil {
		if n, err := scene.NormalizeColor(c.config.Brush.Color); err == nil {
			current = n
		}
	}
	fmt.Fprintln(os.Stdout, "palette colors (* marks the configured color):")
	for idx, hex := range editor.Palette {
		marker := " "
		if strings.EqualFold(hex, current) {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %2d: %s %s\n", marker, idx, hex, swatch(hex))
	}
	if !c.all {
		return nil
	}
	fmt.Fprintln(os.Stdout, "named colors:")
	for _, name := range colornames.Names {
		col := colornames.Map[name]
		fmt.Fprintf(os.Stdout, "  %-20s %s %s\n", name, scene.HexColor(col), swatch(scene.HexColor(col)))
	}
	return nil
}

// swatch renders a two-cell truecolor block for terminals that support it.
func swatch(hex string) string {
	col, err := scene.ParseColor(hex)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m", col.R, col.G, col.B)
}

func (c *colorsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

type themesCmd struct {
	*root
	fs *flag.FlagSet
}

func parseThemesCmd(args []string, r *root) (*themesCmd, error) {
	fs := flag.NewFlagSet("themes", flag.ContinueOnError)
	cmd := &themesCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *themesCmd) Run() error {
	loader := theme.NewLoader()
	if c.config != nil {
		loader.Custom = c.config.Themes
	}
	active := ""
	if c.activeTheme != nil {
		active = c.activeTheme.Name
	}
	fmt.Fprintln(os.Stdout, "available themes (* marks the active theme):")
	for _, name := range loader.Names() {
		marker := " "
		if strings.EqualFold(name, active) {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %s\n", marker, name)
	}
	return nil
}

func (c *themesCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
