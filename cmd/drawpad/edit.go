package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/example/drawpad/internal/appstate"
)

// editCmd opens the drawing window.
type editCmd struct {
	*root
	fs     *flag.FlagSet
	load   bool
	images []string
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.BoolVar(&e.load, "load", false, "open the saved drawing")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	e.images = fs.Args()
	return e, nil
}

func (e *editCmd) Run() error {
	var a *appstate.AppState
	a, err := e.newState(false,
		appstate.WithImages(e.images...),
		appstate.WithOnClose(func() {
			if a != nil {
				a.Editor.Close()
			}
		}),
	)
	if err != nil {
		return err
	}
	if e.load {
		msg, err := a.Editor.Load(a.Store)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, msg)
	}
	a.Run()
	return nil
}
