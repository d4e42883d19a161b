// Package testutil provides poem fixtures and dataset writers for tests.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/vanderheijden86/poemtyper/pkg/poem"
)

// GeneratorConfig controls poem generation.
type GeneratorConfig struct {
	Seed           int64 // Random seed for determinism (0 = use current time)
	FirstID        int   // ID of the first generated poem (default: 1)
	Stanzas        int   // Stanzas per body (default: 2)
	LinesPerStanza int   // Lines per stanza (default: 4)
	Accents        bool  // Mix accented and multibyte words into the text
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:           42, // Deterministic
		FirstID:        1,
		Stanzas:        2,
		LinesPerStanza: 4,
	}
}

// Generator creates poems with sequential ids.
type Generator struct {
	cfg    GeneratorConfig
	rng    *rand.Rand
	nextID int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.FirstID == 0 {
		cfg.FirstID = 1
	}
	if cfg.Stanzas <= 0 {
		cfg.Stanzas = 2
	}
	if cfg.LinesPerStanza <= 0 {
		cfg.LinesPerStanza = 4
	}
	return &Generator{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		nextID: cfg.FirstID,
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

var (
	plainWords = []string{
		"ciel", "mer", "vent", "nuit", "jour", "rose", "pluie", "feu",
		"ombre", "silence", "chemin", "lune", "sable", "voix", "pierre",
	}
	accentWords = []string{
		"été", "forêt", "rêve", "âme", "clarté", "île", "cœur", "fenêtre",
		"éphémère", "où", "naïf", "Noël",
	}
)

func (g *Generator) word() string {
	if g.cfg.Accents && g.rng.Intn(3) == 0 {
		return accentWords[g.rng.Intn(len(accentWords))]
	}
	return plainWords[g.rng.Intn(len(plainWords))]
}

func (g *Generator) line(minWords, maxWords int) string {
	n := minWords + g.rng.Intn(maxWords-minWords+1)
	words := make([]string, n)
	for i := range words {
		words[i] = g.word()
	}
	return strings.Join(words, " ")
}

// Poem generates the next poem. Stanzas are separated by a blank line and
// lines by a single newline, as in the bundled dataset.
func (g *Generator) Poem() poem.Poem {
	title := g.line(1, 3)
	r, size := utf8.DecodeRuneInString(title)
	title = string(unicode.ToUpper(r)) + title[size:]

	stanzas := make([]string, g.cfg.Stanzas)
	for s := range stanzas {
		lines := make([]string, g.cfg.LinesPerStanza)
		for l := range lines {
			lines[l] = g.line(3, 7)
		}
		stanzas[s] = strings.Join(lines, "\n")
	}

	p := poem.Poem{
		ID:    g.nextID,
		Title: title,
		Body:  strings.Join(stanzas, "\n\n") + ".",
	}
	g.nextID++
	return p
}

// Poems generates n poems.
func (g *Generator) Poems(n int) []poem.Poem {
	out := make([]poem.Poem, n)
	for i := range out {
		out[i] = g.Poem()
	}
	return out
}

// Collection generates n poems and wraps them; n must be at least two.
func (g *Generator) Collection(n int) *poem.Collection {
	c, err := poem.NewCollection(g.Poems(n))
	if err != nil {
		panic(fmt.Sprintf("testutil: %v", err))
	}
	return c
}

// Quick helpers for common cases

// QuickPoems returns n deterministic poems starting at id 1.
func QuickPoems(n int) []poem.Poem {
	return NewDefault().Poems(n)
}

// Ciel is the short two-poem dataset used in step-by-step scenarios.
func Ciel() []poem.Poem {
	return []poem.Poem{
		{ID: 1, Title: "Ciel", Body: "Bleu."},
		{ID: 2, Title: "Mer", Body: "Verte."},
	}
}

// Single returns a dataset too small to pick from.
func Single() []poem.Poem {
	return []poem.Poem{{ID: 1, Title: "Seul", Body: "Un seul poème."}}
}
