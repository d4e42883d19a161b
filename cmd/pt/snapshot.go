package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/vanderheijden86/poemtyper/internal/datasource"
	"github.com/vanderheijden86/poemtyper/pkg/poem"
	"github.com/vanderheijden86/poemtyper/pkg/snapshot"
)

// ErrPoemNotFound is returned when --id names no poem of the dataset.
var ErrPoemNotFound = errors.New("poem not found")

// pickPoem returns the poem with id, or a random one when id is zero.
func pickPoem(c *poem.Collection, id int) (poem.Poem, error) {
	if id == 0 {
		return c.At(rand.IntN(c.Len())), nil
	}
	p, ok := c.Find(id)
	if !ok {
		return poem.Poem{}, fmt.Errorf("%w: id %d", ErrPoemNotFound, id)
	}
	return p, nil
}

func runSnapshot(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("pt snapshot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Config file (datasets are read from it)")
	var datasets stringList
	fs.Var(&datasets, "dataset", "Poem dataset; repeat to merge several")
	id := fs.Int("id", 0, "Poem id (0 = random)")
	out := fs.String("out", "", "Output file (.svg or .png)")
	format := fs.String("format", "", "Force the output format (svg or png)")
	width := fs.Int("width", snapshot.DefaultWidth, "Card width in pixels")
	footer := fs.String("footer", "", "Footer line under the poem")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if *out == "" {
		fmt.Fprintln(stderr, "Error: --out is required")
		return 2
	}

	cfg, _ := loadConfig(*configPath, stderr)
	if len(datasets) > 0 {
		cfg.Datasets = datasets
	}

	coll, err := datasource.Load(context.Background(), cfg.Datasets)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading poems: %v\n", err)
		return 1
	}
	p, err := pickPoem(coll, *id)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	opts := snapshot.Options{Path: *out, Format: *format, Width: *width, Footer: *footer}
	if err := snapshot.Export(p, opts); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Wrote %q (poem %d) to %s\n", p.Title, p.ID, *out)
	return 0
}
