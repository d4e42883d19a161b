// Package poem defines the poem records shown by the typewriter and the
// read-only collection they are drawn from.
package poem

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Common errors.
var (
	ErrTooFewPoems = errors.New("a dataset needs at least two poems")
	ErrDuplicateID = errors.New("duplicate poem id")
)

// MinPoems is the smallest dataset that can always offer a different poem.
const MinPoems = 2

// Poem is a single immutable record of the dataset.
type Poem struct {
	ID    int    `json:"id" yaml:"id"`
	Title string `json:"titre" yaml:"titre"`
	Body  string `json:"texte" yaml:"texte"`
}

// TitleLen returns the title length in characters (runes).
func (p Poem) TitleLen() int {
	return utf8.RuneCountInString(p.Title)
}

// BodyLen returns the body length in characters (runes).
func (p Poem) BodyLen() int {
	return utf8.RuneCountInString(p.Body)
}

// Collection is an ordered, read-only set of poems with unique ids.
// The zero value is empty; build one with NewCollection.
type Collection struct {
	poems []Poem
	index map[int]int
}

// Validate reports whether poems can form a collection: ids must be unique
// and there must be at least MinPoems of them.
func Validate(poems []Poem) error {
	seen := make(map[int]struct{}, len(poems))
	for _, p := range poems {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	if len(poems) < MinPoems {
		return fmt.Errorf("%w (got %d)", ErrTooFewPoems, len(poems))
	}
	return nil
}

// NewCollection copies poems into a validated collection.
func NewCollection(poems []Poem) (*Collection, error) {
	if err := Validate(poems); err != nil {
		return nil, err
	}
	c := &Collection{
		poems: make([]Poem, len(poems)),
		index: make(map[int]int, len(poems)),
	}
	copy(c.poems, poems)
	for i, p := range c.poems {
		c.index[p.ID] = i
	}
	return c, nil
}

// MustCollection is like NewCollection but panics on error. Meant for
// fixtures and the embedded dataset.
func MustCollection(poems []Poem) *Collection {
	c, err := NewCollection(poems)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of poems.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.poems)
}

// At returns the poem at position i. It panics when i is out of range, like
// a slice index.
func (c *Collection) At(i int) Poem {
	return c.poems[i]
}

// Find returns the poem with the given id.
func (c *Collection) Find(id int) (Poem, bool) {
	if c == nil {
		return Poem{}, false
	}
	i, ok := c.index[id]
	if !ok {
		return Poem{}, false
	}
	return c.poems[i], true
}

// All returns a copy of the poems in dataset order.
func (c *Collection) All() []Poem {
	if c == nil {
		return nil
	}
	out := make([]Poem, len(c.poems))
	copy(out, c.poems)
	return out
}
