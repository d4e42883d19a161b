// Package reveal implements the typewriter's reveal state machine: a poem's
// title and then its body are uncovered one character per advance.
package reveal

import (
	"math/rand/v2"

	"github.com/vanderheijden86/poemtyper/pkg/poem"
)

// Phase tells which text is being revealed.
type Phase int

const (
	TypingTitle Phase = iota
	TypingBody
)

func (p Phase) String() string {
	switch p {
	case TypingTitle:
		return "title"
	case TypingBody:
		return "body"
	default:
		return "unknown"
	}
}

// State is a snapshot of the reveal. TitleLen and BodyLen count runes.
//
// While Phase is TypingTitle, BodyLen is always 0.
type State struct {
	Poem     poem.Poem
	TitleLen int
	BodyLen  int
	Phase    Phase
}

// Picker returns an index in [0, n).
type Picker func(n int) int

// NewSeededPicker returns a deterministic picker.
func NewSeededPicker(seed uint64) Picker {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return r.IntN
}

// Engine holds the current poem and both reveal cursors.
type Engine struct {
	poems *poem.Collection
	pick  Picker

	state State
	title []rune
	body  []rune
}

// New builds an engine on a random poem of c. A nil pick uses the global
// source of math/rand/v2.
func New(c *poem.Collection, pick Picker) (*Engine, error) {
	if c.Len() < poem.MinPoems {
		return nil, poem.ErrTooFewPoems
	}
	if pick == nil {
		pick = rand.IntN
	}
	e := &Engine{poems: c, pick: pick}
	e.load(c.At(pick(c.Len())))
	return e, nil
}

// NewSeeded builds an engine whose picks are reproducible.
func NewSeeded(c *poem.Collection, seed uint64) (*Engine, error) {
	return New(c, NewSeededPicker(seed))
}

func (e *Engine) load(p poem.Poem) {
	e.state = State{Poem: p, Phase: TypingTitle}
	e.title = []rune(p.Title)
	e.body = []rune(p.Body)
}

// Advance performs one key press worth of progress and reports whether the
// state changed. Completing the title and revealing the first body character
// take two separate calls. Once the body is fully shown, Advance is a no-op.
func (e *Engine) Advance() bool {
	switch e.state.Phase {
	case TypingTitle:
		if e.state.TitleLen < len(e.title) {
			e.state.TitleLen++
		} else {
			e.state.Phase = TypingBody
		}
		return true
	case TypingBody:
		if e.state.BodyLen < len(e.body) {
			e.state.BodyLen++
			return true
		}
	}
	return false
}

// PickNewPoem replaces the state with a fresh one on a different poem.
// Termination relies on the collection holding at least two ids, which New
// and SetCollection guarantee.
func (e *Engine) PickNewPoem() {
	current := e.state.Poem.ID
	var next poem.Poem
	for {
		next = e.poems.At(e.pick(e.poems.Len()))
		if next.ID != current {
			break
		}
	}
	e.load(next)
}

// SetCollection swaps the dataset used by later picks. The poem on screen is
// left untouched.
func (e *Engine) SetCollection(c *poem.Collection) error {
	if c.Len() < poem.MinPoems {
		return poem.ErrTooFewPoems
	}
	e.poems = c
	return nil
}

// Collection returns the dataset picks are drawn from.
func (e *Engine) Collection() *poem.Collection {
	return e.poems
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state
}

// DisplayedTitle returns the revealed prefix of the title.
func (e *Engine) DisplayedTitle() string {
	return string(e.title[:e.state.TitleLen])
}

// DisplayedBody returns the revealed prefix of the body.
func (e *Engine) DisplayedBody() string {
	return string(e.body[:e.state.BodyLen])
}

// Done reports whether the whole poem is shown.
func (e *Engine) Done() bool {
	return e.state.Phase == TypingBody && e.state.BodyLen == len(e.body)
}

// Progress returns revealed and total characters across title and body.
func (e *Engine) Progress() (revealed, total int) {
	return e.state.TitleLen + e.state.BodyLen, len(e.title) + len(e.body)
}
