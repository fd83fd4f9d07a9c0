package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/drawpad/internal/config"
	"github.com/example/drawpad/internal/theme"
)

func TestParseDrawNeedsTwoPoints(t *testing.T) {
	_, err := parseDrawCmd([]string{"rect", "1", "2"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "requires x0 y0 x1 y1"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawRejectsNonDrawingTool(t *testing.T) {
	_, err := parseDrawCmd([]string{"move", "0", "0", "5", "5"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "does not draw"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseDrawAcceptsNegativeCoordinates(t *testing.T) {
	d, err := parseDrawCmd([]string{"-color", "navy", "line", "-5", "-5", "10", "10", "20", "5"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.points) != 3 || d.points[0].X != -5 {
		t.Fatalf("points = %v", d.points)
	}
}

func TestParseDrawRejectsBadColor(t *testing.T) {
	if _, err := parseDrawCmd([]string{"-color", "nope", "rect", "0", "0", "5", "5"}, nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestInsertRejectsClipboardWithFile(t *testing.T) {
	_, err := parseInsertCmd([]string{"-from-clipboard", "a.png"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "cannot be combined"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestInsertClipboardReadError(t *testing.T) {
	original := readClipboardFn
	sentinel := errors.New("no display")
	readClipboardFn = func() ([]byte, error) { return nil, sentinel }
	t.Cleanup(func() { readClipboardFn = original })

	cmd, err := parseInsertCmd([]string{"-from-clipboard"}, &root{program: "drawpad"})
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err == nil {
		t.Fatalf("expected error")
	} else {
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
		if want := "read clipboard image"; !strings.Contains(err.Error(), want) {
			t.Fatalf("expected message context, got %v", err)
		}
	}
}

func TestParseExportErrors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"svg"}, "unsupported export format"},
		{[]string{"-shadow", "pdf"}, "only applies to png"},
		{[]string{"-to-clipboard", "pdf"}, "cannot be copied"},
		{[]string{"-to-clipboard", "-output", "x.png", "png"}, "cannot be used with -output"},
	}
	for _, tt := range tests {
		_, err := parseExportCmd(tt.args, nil)
		if err == nil {
			t.Fatalf("%v: expected error", tt.args)
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Fatalf("%v: expected error to mention %q, got %v", tt.args, tt.want, err)
		}
	}
}

func TestParseImageErrors(t *testing.T) {
	if _, err := parseImageCmd([]string{"id", "flip"}, nil); err == nil {
		t.Fatalf("expected unknown action error")
	}
	if _, err := parseImageCmd([]string{"id", "scale", "2"}, nil); err == nil {
		t.Fatalf("expected argument count error")
	}
	var uerr *UsageError
	if _, err := parseImageCmd([]string{"id"}, nil); !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestHistoryCommandsNeedSession(t *testing.T) {
	r := &root{program: "drawpad", config: config.New()}
	for _, name := range []string{"undo", "redo", "select"} {
		args := []string{}
		if name == "select" {
			args = []string{"abc"}
		}
		cmd, err := parseDocCmd(name, args, r)
		if err != nil {
			t.Fatalf("%s: unexpected parse error: %v", name, err)
		}
		if err := cmd.Run(); !errors.Is(err, errInteractiveOnly) {
			t.Fatalf("%s: expected interactive-only error, got %v", name, err)
		}
	}
}

func TestMoveNeedsIDOutsideSession(t *testing.T) {
	r := &root{program: "drawpad", config: config.New()}
	cmd, err := parseDocCmd("move", []string{"3", "4"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "shape ID is required") {
		t.Fatalf("expected missing id error, got %v", err)
	}
}

func TestUsageErrorRendersTemplate(t *testing.T) {
	r := &root{program: "drawpad"}
	msg := (&UsageError{of: r}).Error()
	if !strings.Contains(msg, "Usage: drawpad") || !strings.Contains(msg, "export") {
		t.Fatalf("unexpected help:\n%s", msg)
	}
}

func TestBackgroundFallsBackToTheme(t *testing.T) {
	cfg := config.New()
	cfg.Canvas.Background = ""
	th := theme.Default()
	r := &root{config: cfg, activeTheme: th}
	if got, want := r.background(), theme.Hex(th.CanvasBackground); got != want {
		t.Fatalf("background = %q, want %q", got, want)
	}
	cfg.Canvas.Background = "#123456"
	if got := r.background(); got != "#123456" {
		t.Fatalf("background = %q, want configured colour", got)
	}
}
