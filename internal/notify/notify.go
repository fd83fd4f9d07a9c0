package notify

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/drawpad/internal/config"
	"github.com/example/drawpad/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when the drawing is written to the slot store.
	EventSave Event = "save"
	// EventLoad fires when a saved drawing replaces the document.
	EventLoad Event = "load"
	// EventExport fires when the drawing is written to a file.
	EventExport Event = "export"
	// EventCopy fires when data is copied to the clipboard.
	EventCopy Event = "copy"
)

// category is the freedesktop notification category for each event.
var category = map[Event]string{
	EventSave:   "transfer.complete",
	EventLoad:   "transfer.complete",
	EventExport: "transfer.complete",
	EventCopy:   "transfer",
}

// Events lists every event in display order.
func Events() []Event { return []Event{EventSave, EventLoad, EventExport, EventCopy} }

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Template string
}

// Preferences describes notification behaviour loaded from configuration.
type Preferences struct {
	Title  string
	Events map[Event]EventPreference
}

// DefaultPreferences returns the default notification settings.
func DefaultPreferences() Preferences {
	return Preferences{
		Title: "drawpad",
		Events: map[Event]EventPreference{
			EventSave:   {Template: "%s"},
			EventLoad:   {Template: "%s"},
			EventExport: {Template: "Exported %s"},
			EventCopy:   {Template: "Copied %s to clipboard"},
		},
	}
}

// LoadPreferences reads DRAWPAD_NOTIFY_* overrides through lookup.
func LoadPreferences(lookup func(string) (string, bool)) Preferences {
	prefs := DefaultPreferences()
	get := func(key string) string {
		v, _ := lookup(config.EnvPrefix + key)
		return strings.TrimSpace(v)
	}
	if v := get("NOTIFY_TITLE"); v != "" {
		prefs.Title = v
	}
	for _, ev := range Events() {
		if v := get("NOTIFY_" + strings.ToUpper(string(ev)) + "_TEXT"); v != "" {
			prefs.Events[ev] = EventPreference{Template: v}
		}
	}
	return prefs
}

// Sender delivers one notification. platform.Notify is the default.
type Sender func(title, body string, opts platform.Options) error

// Notifier sends OS-level notifications based on the configured preferences.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    Sender
}

// New creates a new Notifier using the provided preferences.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{Title: prefs.Title, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify}
}

// FromConfig builds a notifier with the events enabled in cfg.
func FromConfig(n config.Notify, prefs Preferences) *Notifier {
	out := New(prefs)
	out.Enable(EventSave, n.Save)
	out.Enable(EventLoad, n.Load)
	out.Enable(EventExport, n.Export)
	out.Enable(EventCopy, n.Copy)
	return out
}

// SetSender replaces the delivery function.
func (n *Notifier) SetSender(s Sender) {
	if n != nil && s != nil {
		n.send = s
	}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Saved reports a save or load result message.
func (n *Notifier) Saved(msg string) { n.dispatch(EventSave, msg, platform.Options{}) }

// Loaded reports a load result message.
func (n *Notifier) Loaded(msg string) { n.dispatch(EventLoad, msg, platform.Options{}) }

// Exported reports a written file. PNG exports use the file as the icon.
func (n *Notifier) Exported(path string) {
	if !n.enabledFor(EventExport) {
		return
	}
	detail := strings.TrimSpace(path)
	opts := platform.Options{}
	if abs, err := filepath.Abs(path); err == nil {
		detail = abs
		if strings.EqualFold(filepath.Ext(abs), ".png") {
			if _, statErr := os.Stat(abs); statErr == nil {
				opts.IconPath = abs
			}
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Copied sends a clipboard notification with an optional image preview.
func (n *Notifier) Copied(detail string, img image.Image) {
	if !n.enabledFor(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "drawing"
	}
	opts := platform.Options{}
	if img != nil {
		if path, cleanup, err := createPreview(img); err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer cleanup()
			opts.IconPath = path
		}
	}
	n.dispatch(EventCopy, detail, opts)
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	if !n.enabledFor(event) {
		return
	}
	template := strings.TrimSpace(n.prefs.Events[event].Template)
	if template == "" {
		return
	}
	body := strings.TrimSpace(fmt.Sprintf(template, strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if opts.Category == "" {
		opts.Category = category[event]
	}
	if err := n.send(n.prefs.Title, body, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func createPreview(img image.Image) (string, func(), error) {
	f, err := os.CreateTemp("", "drawpad-preview-*.png")
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("remove preview: %v", err)
		}
	}
	return path, cleanup, nil
}
