package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/drawpad/internal/theme"
)

// Canvas holds stage settings.
type Canvas struct {
	Width      int
	Height     int
	Background string
}

// Brush holds the initial drawing settings.
type Brush struct {
	Tool    string
	Type    string
	Color   string
	Size    float64
	Opacity float64
}

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Load   bool
	Export bool
	Copy   bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	DataDir string
	Canvas  Canvas
	Brush   Brush
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Canvas: Canvas{
			Width:      800,
			Height:     500,
			Background: "#FFFFFF",
		},
		Brush: Brush{
			Tool:    "rectangle",
			Type:    "normal",
			Color:   "#000000",
			Size:    4,
			Opacity: 1,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.DataDir != "" {
		fmt.Fprintf(&sb, "data_dir = %s\n", c.DataDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "background = %s\n", c.Canvas.Background)
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "tool = %s\n", c.Brush.Tool)
	fmt.Fprintf(&sb, "type = %s\n", c.Brush.Type)
	fmt.Fprintf(&sb, "color = %s\n", c.Brush.Color)
	fmt.Fprintf(&sb, "size = %g\n", c.Brush.Size)
	fmt.Fprintf(&sb, "opacity = %g\n", c.Brush.Opacity)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "load = %v\n", c.Notify.Load)
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)
	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		c.Themes[name].WriteTo(&sb)
		sb.WriteString("\n")
	}

	return sb.String()
}
