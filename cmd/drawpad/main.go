package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gogpu/gg"

	"github.com/example/drawpad/internal/appstate"
	"github.com/example/drawpad/internal/config"
	"github.com/example/drawpad/internal/editor"
	"github.com/example/drawpad/internal/history"
	"github.com/example/drawpad/internal/notify"
	"github.com/example/drawpad/internal/storage"
	"github.com/example/drawpad/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	state       *appstate.AppState
	notifier    *notify.Notifier
	config      *config.Config
	configPath  string
	saveAlerts  bool
	loadAlerts  bool
	exportAlert bool
	copyAlerts  bool
	verbose     bool
	dataDir     string
	outputDir   string
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	return newRootWith(config.NewLoader(version, configPathOverride))
}

func newRootWith(loader *config.Loader) *root {
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}
	lookup := loader.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	r := &root{
		fs:       flag.NewFlagSet("drawpad", flag.ContinueOnError),
		program:  "drawpad",
		notifier: notify.New(notify.LoadPreferences(lookup)),
		config:   cfg,
	}
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving the drawing")
	r.fs.BoolVar(&r.loadAlerts, "notify-load", cfg.Notify.Load, "show a desktop notification after loading the drawing")
	r.fs.BoolVar(&r.exportAlert, "notify-export", cfg.Notify.Export, "show a desktop notification after exporting a file")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.verbose, "verbose", false, "log renderer diagnostics")
	r.fs.StringVar(&r.dataDir, "data-dir", cfg.DataDir, "directory holding the saved drawing slot")
	r.fs.StringVar(&r.outputDir, "output-dir", ".", "directory exports are written to")

	// Precedence: CLI > Env > Config > Default. Env is already folded into
	// cfg by the loader.
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark)")
	r.fs.Usage = usageFunc(r)
	return r
}

// subcommand carries the shared settings into a nested command.
func (r *root) subcommand(name string) *root {
	c := *r
	c.program = strings.TrimSpace(strings.Join([]string{r.program, name}, " "))
	return &c
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.verbose {
		gg.SetLogger(slog.Default())
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventLoad, r.loadAlerts)
		r.notifier.Enable(notify.EventExport, r.exportAlert)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	if r.activeTheme == nil {
		r.activeTheme = r.loadTheme()
	}
	return r.dispatch(r.fs.Arg(0), r.fs.Args()[1:])
}

// dispatch runs one named command. The interactive session calls it
// directly for every line it reads.
func (r *root) dispatch(name string, args []string) error {
	var (
		cmd runnable
		err error
	)
	switch name {
	case "edit":
		cmd, err = parseEditCmd(args, r.subcommand(name))
	case "draw":
		cmd, err = parseDrawCmd(args, r.subcommand(name))
	case "insert":
		cmd, err = parseInsertCmd(args, r.subcommand(name))
	case "paste":
		cmd, err = parseInsertCmd(append([]string{"-from-clipboard"}, args...), r.subcommand(name))
	case "image":
		cmd, err = parseImageCmd(args, r.subcommand(name))
	case "select", "move", "delete", "clear", "undo", "redo", "save", "load":
		cmd, err = parseDocCmd(name, args, r.subcommand(name))
	case "export":
		cmd, err = parseExportCmd(args, r.subcommand(name))
	case "shapes":
		cmd, err = parseShapesCmd(args, r.subcommand(name))
	case "colors":
		cmd, err = parseColorsCmd(args, r.subcommand(name))
	case "themes":
		cmd, err = parseThemesCmd(args, r.subcommand(name))
	case "interactive":
		cmd, err = parseInteractiveCmd(args, r.subcommand(name))
	case "config":
		cmd, err = parseConfigCmd(args, r.subcommand(name))
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// loadTheme resolves the theme name from the flag, then config, then the
// built-in default.
func (r *root) loadTheme() *theme.Theme {
	themeName := r.themeName
	if themeName == "" {
		themeName = r.config.Theme
	}
	if t, ok := r.config.Themes[themeName]; ok {
		return t
	}
	loader := theme.NewLoader()
	loader.Custom = r.config.Themes
	t, err := loader.Load(themeName)
	if err != nil {
		if themeName != "" && themeName != "default" {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", themeName, err)
		}
		t = theme.Default()
	}
	return t
}

// background picks the canvas colour: the configured one, else the theme's.
func (r *root) background() string {
	if bg := strings.TrimSpace(r.config.Canvas.Background); bg != "" {
		return bg
	}
	th := r.activeTheme
	if th == nil {
		th = theme.Default()
	}
	return theme.Hex(th.CanvasBackground)
}

// editorOptions builds the editor settings from the configuration.
// Interactive windows keep the undo guard and spray repeat; scripted
// sessions drop both so commands apply immediately.
func (r *root) editorOptions(scripted bool) []editor.Option {
	cfg := r.config
	opts := []editor.Option{
		editor.WithStage(float64(cfg.Canvas.Width), float64(cfg.Canvas.Height)),
		editor.WithBackground(r.background()),
		editor.WithColor(cfg.Brush.Color),
		editor.WithBrushSize(cfg.Brush.Size),
		editor.WithOpacity(cfg.Brush.Opacity),
	}
	if t, err := editor.ParseTool(cfg.Brush.Tool); err == nil {
		opts = append(opts, editor.WithTool(t))
	} else if cfg.Brush.Tool != "" {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	if scripted {
		opts = append(opts,
			editor.WithHistory(history.New(history.WithGuardDelay(0))),
			editor.WithSprayInterval(time.Duration(0)),
		)
	}
	return opts
}

func (r *root) store() (storage.Store, error) {
	dir := r.dataDir
	if dir == "" {
		d, err := storage.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return storage.NewFileStore(dir)
}

// newState builds an application state over the slot store.
func (r *root) newState(scripted bool, opts ...appstate.Option) (*appstate.AppState, error) {
	st, err := r.store()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	ed := editor.New(r.editorOptions(scripted)...)
	if b, err := editor.ParseBrush(r.config.Brush.Type); err == nil {
		ed.SetBrushType(b)
	}
	th := r.activeTheme
	if th == nil {
		th = theme.Default()
	}
	base := []appstate.Option{
		appstate.WithEditor(ed),
		appstate.WithTheme(th),
		appstate.WithStore(st),
		appstate.WithNotifier(r.notifier),
		appstate.WithOutputDir(r.outputDir),
	}
	return appstate.New(append(base, opts...)...), nil
}

// withState runs fn against the interactive session when there is one.
// Otherwise the saved drawing is loaded first and, when mutate is set,
// written back afterwards.
func (r *root) withState(mutate bool, fn func(a *appstate.AppState) error) error {
	if r.state != nil {
		return fn(r.state)
	}
	a, err := r.newState(true)
	if err != nil {
		return err
	}
	defer a.Editor.Close()
	if _, err := a.Editor.Load(a.Store); err != nil {
		return err
	}
	if err := fn(a); err != nil {
		return err
	}
	if !mutate {
		return nil
	}
	_, err = a.Editor.Save(a.Store)
	return err
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
