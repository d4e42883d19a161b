// Package keys decides what a key press does: reserved control chords run an
// action, every other key advances the reveal. Only ctrl+c is reserved by
// default; the other actions live on the header buttons and get chords only
// when the config binds them.
package keys

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Decision is the outcome of filtering one key press.
type Decision struct {
	// Advance is set for every key that reaches the filter.
	Advance bool
	// PreventDefault suppresses the key's default behavior (scrolling the
	// body viewport). It holds for every key the handler sees.
	PreventDefault bool
	// Guarded marks keys whose default is suppressed by the listener itself,
	// before the handler runs.
	Guarded bool
}

// guardedKeys would scroll the body if passed through.
var guardedKeys = map[string]bool{
	" ":    true,
	"tab":  true,
	"up":   true,
	"down": true,
}

// Filter classifies a key press. Modifier combinations and function keys
// advance like any other key.
func Filter(k string) Decision {
	return Decision{
		Advance:        true,
		PreventDefault: true,
		Guarded:        guardedKeys[k],
	}
}

// Action is a control reachable by a reserved chord or a header button.
type Action int

const (
	ActionNone Action = iota
	ActionNewPoem
	ActionCopy
	ActionHelp
	ActionSettings
	ActionAbout
	ActionBlog
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:     "none",
	ActionNewPoem:  "new_poem",
	ActionCopy:     "copy",
	ActionHelp:     "help",
	ActionSettings: "settings",
	ActionAbout:    "about",
	ActionBlog:     "blog",
	ActionQuit:     "quit",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// ParseAction maps a config name such as "new_poem" back to its Action.
func ParseAction(name string) (Action, bool) {
	for a, s := range actionNames {
		if s == name && a != ActionNone {
			return a, true
		}
	}
	return ActionNone, false
}

// Actions lists the bindable actions in display order.
var Actions = []Action{
	ActionHelp,
	ActionSettings,
	ActionAbout,
	ActionBlog,
	ActionNewPoem,
	ActionCopy,
	ActionQuit,
}

// KeyMap holds the reserved chords.
type KeyMap struct {
	bindings map[Action]key.Binding
}

var actionDescs = map[Action]string{
	ActionNewPoem:  "nouveau poème",
	ActionCopy:     "copier",
	ActionHelp:     "aide",
	ActionSettings: "réglages",
	ActionAbout:    "à propos",
	ActionBlog:     "blog",
	ActionQuit:     "quitter",
}

// SuggestedChords are the chords documented for opting in through the
// keys section of the config.
var SuggestedChords = map[Action]string{
	ActionNewPoem:  "ctrl+n",
	ActionCopy:     "ctrl+y",
	ActionHelp:     "f1",
	ActionSettings: "f2",
	ActionAbout:    "f3",
	ActionBlog:     "f4",
}

// DefaultKeyMap reserves ctrl+c to quit. Every other key advances.
func DefaultKeyMap() KeyMap {
	return KeyMap{bindings: map[Action]key.Binding{
		ActionQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", actionDescs[ActionQuit])),
	}}
}

// SuggestedKeyMap is DefaultKeyMap with every SuggestedChords entry bound.
func SuggestedKeyMap() KeyMap {
	km := DefaultKeyMap()
	for _, a := range Actions {
		if chord, ok := SuggestedChords[a]; ok {
			km = km.Rebind(a, chord)
		}
	}
	return km
}

// Rebind replaces the chords of an action. An empty list unbinds it, so that
// key advances the reveal instead.
func (k KeyMap) Rebind(a Action, chords ...string) KeyMap {
	out := KeyMap{bindings: make(map[Action]key.Binding, len(k.bindings))}
	for act, b := range k.bindings {
		out.bindings[act] = b
	}
	if len(chords) == 0 {
		delete(out.bindings, a)
		return out
	}
	out.bindings[a] = key.NewBinding(key.WithKeys(chords...), key.WithHelp(chords[0], actionDescs[a]))
	return out
}

// Lookup returns the action bound to msg, if any.
func (k KeyMap) Lookup(msg tea.KeyMsg) (Action, bool) {
	for _, a := range Actions {
		if b, ok := k.bindings[a]; ok && key.Matches(msg, b) {
			return a, true
		}
	}
	return ActionNone, false
}

// Binding returns the binding of an action.
func (k KeyMap) Binding(a Action) (key.Binding, bool) {
	b, ok := k.bindings[a]
	return b, ok
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	var out []key.Binding
	for _, a := range Actions {
		if b, ok := k.bindings[a]; ok {
			out = append(out, b)
		}
	}
	return out
}

// FullHelp implements help.KeyMap in two columns.
func (k KeyMap) FullHelp() [][]key.Binding {
	short := k.ShortHelp()
	if len(short) <= 4 {
		return [][]key.Binding{short}
	}
	return [][]key.Binding{short[:4], short[4:]}
}
