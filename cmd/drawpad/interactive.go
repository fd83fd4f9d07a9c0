package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

// interactiveCmd reads commands against one editor session, so selection
// and undo history carry from line to line.
type interactiveCmd struct {
	*root
	fs     *flag.FlagSet
	execs  commandList
	load   bool
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	i := &interactiveCmd{root: r, fs: fs, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	fs.Usage = usageFunc(i)
	fs.Var(&i.execs, "e", "execute a command in immediate mode (may be specified multiple times)")
	fs.BoolVar(&i.load, "load", false, "start from the saved drawing")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	if i.state == nil {
		a, err := i.newState(true)
		if err != nil {
			return err
		}
		defer a.Editor.Close()
		i.state = a
	}
	if i.load {
		msg, err := i.state.Editor.Load(i.state.Store)
		if err != nil {
			return err
		}
		fmt.Fprintln(i.stderr, msg)
	}

	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(i.stdout, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(i.stdin)
	for {
		fmt.Fprint(i.stdout, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.stderr, err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

// executeLine runs one command line. It reports true once the session
// should end.
func (i *interactiveCmd) executeLine(line string) (bool, error) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false, nil
	}
	switch args[0] {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprintln(i.stdout, (&UsageError{of: i}).Error())
		return false, nil
	case "interactive", "edit":
		return false, fmt.Errorf("%s is not available inside an interactive session", args[0])
	}
	err := i.dispatch(args[0], args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return false, nil
	}
	return false, err
}
