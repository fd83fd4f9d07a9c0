package notify

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/drawpad/internal/config"
	"github.com/example/drawpad/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
}

func recorder(n *Notifier) *[]sent {
	var out []sent
	n.SetSender(func(title, body string, opts platform.Options) error {
		out = append(out, sent{title, body, opts})
		return nil
	})
	return &out
}

func TestDisabledEventsAreSilent(t *testing.T) {
	n := FromConfig(config.Notify{Save: true}, DefaultPreferences())
	got := recorder(n)
	n.Loaded("Drawing loaded successfully!")
	n.Exported("drawing.json")
	n.Copied("", nil)
	if len(*got) != 0 {
		t.Fatalf("disabled events sent %+v", *got)
	}
	n.Saved("Drawing saved successfully!")
	if len(*got) != 1 || (*got)[0].body != "Drawing saved successfully!" || (*got)[0].title != "drawpad" {
		t.Fatalf("save notification %+v", *got)
	}
}

func TestExportUsesPNGAsIcon(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "drawing.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := FromConfig(config.Notify{Export: true}, DefaultPreferences())
	got := recorder(n)
	n.Exported(path)
	if len(*got) != 1 {
		t.Fatalf("sent %d", len(*got))
	}
	if (*got)[0].opts.IconPath != path || (*got)[0].body != "Exported "+path {
		t.Fatalf("export notification %+v", (*got)[0])
	}
	if (*got)[0].opts.Category != "transfer.complete" {
		t.Fatalf("category = %q", (*got)[0].opts.Category)
	}
}

func TestCopyPreviewIsRemoved(t *testing.T) {
	n := FromConfig(config.Notify{Copy: true}, DefaultPreferences())
	var icon string
	n.SetSender(func(title, body string, opts platform.Options) error {
		icon = opts.IconPath
		if _, err := os.Stat(icon); err != nil {
			t.Errorf("preview missing while sending: %v", err)
		}
		return nil
	})
	n.Copied("image", image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if icon == "" {
		t.Fatalf("no preview attached")
	}
	if _, err := os.Stat(icon); !os.IsNotExist(err) {
		t.Fatalf("preview left behind: %v", err)
	}
}

func TestLoadPreferences(t *testing.T) {
	env := map[string]string{
		"DRAWPAD_NOTIFY_TITLE":       "Sketch",
		"DRAWPAD_NOTIFY_EXPORT_TEXT": "Wrote %s",
	}
	prefs := LoadPreferences(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	if prefs.Title != "Sketch" || prefs.Events[EventExport].Template != "Wrote %s" {
		t.Fatalf("prefs %+v", prefs)
	}
	if prefs.Events[EventCopy].Template != DefaultPreferences().Events[EventCopy].Template {
		t.Fatalf("untouched template changed")
	}
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	n.Enable(EventSave, true)
	n.Saved("x")
	n.Exported("x")
}
