package editor

import "golang.org/x/mobile/event/key"

// KeyShortcut describes a keyboard combination. Rune is ignored when Code
// is set.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// Action names an editor command bound to a key.
type Action string

const (
	ActionUndo       Action = "undo"
	ActionRedo       Action = "redo"
	ActionDelete     Action = "delete"
	ActionCancelCrop Action = "cancel-crop"
)

// Binding pairs an action with the shortcuts that trigger it.
type Binding struct {
	Action Action
	Label  string
	Keys   []KeyShortcut
}

// Bindings returns the editor key map. Cmd is treated as Ctrl.
func Bindings() []Binding {
	return []Binding{
		{ActionUndo, "Ctrl+Z:undo", []KeyShortcut{{Code: key.CodeZ, Modifiers: key.ModControl}}},
		{ActionRedo, "Ctrl+Y:redo", []KeyShortcut{
			{Code: key.CodeZ, Modifiers: key.ModControl | key.ModShift},
			{Code: key.CodeY, Modifiers: key.ModControl},
		}},
		{ActionDelete, "Del:delete", []KeyShortcut{
			{Code: key.CodeDeleteForward},
			{Code: key.CodeDeleteBackspace},
		}},
		{ActionCancelCrop, "Esc:cancel", []KeyShortcut{{Code: key.CodeEscape}}},
	}
}

var keyActions = func() map[KeyShortcut]Action {
	m := map[KeyShortcut]Action{}
	for _, b := range Bindings() {
		for _, k := range b.Keys {
			m[k] = b.Action
		}
	}
	return m
}()

func normalize(k KeyShortcut) KeyShortcut {
	mods := k.Modifiers & (key.ModShift | key.ModControl | key.ModMeta)
	if mods&key.ModMeta != 0 {
		mods = mods&^key.ModMeta | key.ModControl
	}
	if k.Code != key.CodeUnknown {
		k.Rune = 0
	}
	k.Modifiers = mods
	return k
}

// Lookup returns the action bound to k.
func Lookup(k KeyShortcut) (Action, bool) {
	a, ok := keyActions[normalize(k)]
	return a, ok
}

// HandleKey runs the action bound to k. It reports whether k was bound.
func (e *Editor) HandleKey(k KeyShortcut) bool {
	a, ok := Lookup(k)
	if !ok {
		return false
	}
	e.Do(a)
	return true
}

// Do runs a bound action. Actions with nothing to act on are no-ops.
func (e *Editor) Do(a Action) {
	switch a {
	case ActionUndo:
		e.Undo()
	case ActionRedo:
		e.Redo()
	case ActionDelete:
		_ = e.DeleteSelected()
	case ActionCancelCrop:
		e.CancelCrop()
	}
}
