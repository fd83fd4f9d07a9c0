package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/example/drawpad/internal/appstate"
)

// errInteractiveOnly marks commands that need the history of a live session.
var errInteractiveOnly = errors.New("only available in interactive mode")

// docCmd covers the document commands that take at most a shape ID and an
// offset.
type docCmd struct {
	*root
	fs     *flag.FlagSet
	name   string
	id     string
	file   string
	dx, dy float64
}

func (d *docCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func parseDocCmd(name string, args []string, r *root) (*docCmd, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	d := &docCmd{root: r, fs: fs, name: name}
	fs.Usage = usageFunc(d)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	rest := fs.Args()
	switch name {
	case "select":
		if len(rest) != 1 {
			return nil, &UsageError{of: d}
		}
		d.id = rest[0]
	case "delete":
		if len(rest) > 1 {
			return nil, &UsageError{of: d}
		}
		if len(rest) == 1 {
			d.id = rest[0]
		}
	case "load":
		if len(rest) > 1 {
			return nil, &UsageError{of: d}
		}
		if len(rest) == 1 {
			d.file = rest[0]
		}
	case "move":
		if len(rest) == 3 {
			d.id, rest = rest[0], rest[1:]
		}
		vals, err := expectFloats(rest, 2, "move")
		if err != nil {
			return nil, err
		}
		d.dx, d.dy = vals[0], vals[1]
	default:
		if len(rest) != 0 {
			return nil, &UsageError{of: d}
		}
	}
	return d, nil
}

func (d *docCmd) mutates() bool {
	switch d.name {
	case "move", "delete", "clear":
		return true
	case "load":
		return d.file != ""
	}
	return false
}

func (d *docCmd) Run() error {
	if d.state == nil {
		switch d.name {
		case "select", "undo", "redo":
			return fmt.Errorf("%s: %w", d.name, errInteractiveOnly)
		case "delete", "move":
			if d.id == "" {
				return fmt.Errorf("%s: a shape ID is required outside interactive mode", d.name)
			}
		}
	}
	return d.withState(d.mutates(), func(a *appstate.AppState) error {
		msg, err := d.apply(a)
		if err != nil {
			return err
		}
		if msg != "" {
			fmt.Fprintln(os.Stdout, msg)
		}
		return nil
	})
}

func (d *docCmd) apply(a *appstate.AppState) (string, error) {
	ed := a.Editor
	if d.id != "" {
		if err := ed.Select(d.id); err != nil {
			return "", fmt.Errorf("%s %s: %w", d.name, d.id, err)
		}
	}
	switch d.name {
	case "select":
		s, _ := ed.Selected()
		return fmt.Sprintf("selected %s %s", s.ID, s.Kind), nil
	case "move":
		if err := ed.MoveSelected(d.dx, d.dy); err != nil {
			return "", fmt.Errorf("move: %w", err)
		}
		return "", nil
	case "delete":
		if err := ed.DeleteSelected(); err != nil {
			return "", fmt.Errorf("delete: %w", err)
		}
		return "", nil
	case "clear":
		ed.Clear()
		return "", nil
	case "undo":
		if !ed.Undo() {
			return "nothing to undo", nil
		}
		return "", nil
	case "redo":
		if !ed.Redo() {
			return "nothing to redo", nil
		}
		return "", nil
	case "save":
		return a.Save()
	case "load":
		if d.file != "" {
			return a.Import(d.file)
		}
		return a.Load()
	}
	return "", fmt.Errorf("unknown command %q", d.name)
}
