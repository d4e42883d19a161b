package datasource

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/poemtyper/pkg/debug"
	"github.com/vanderheijden86/poemtyper/pkg/poem"
)

// maxParallelLoads bounds concurrent file reads.
const maxParallelLoads = 4

// LoadFromSource reads the poems of one source, dispatching on its type.
func LoadFromSource(ctx context.Context, source DataSource) ([]poem.Poem, error) {
	switch source.Type {
	case SourceTypeEmbedded:
		return poem.Default().All(), nil

	case SourceTypeSQLite:
		reader, err := NewSQLiteReader(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite source %s: %w", source.Path, err)
		}
		defer reader.Close()
		return reader.LoadPoems(ctx)

	case SourceTypeJSON, SourceTypeYAML:
		data, err := os.ReadFile(source.Path)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %w", err)
		}
		if source.Type == SourceTypeJSON {
			return poem.ParseJSON(data)
		}
		return poem.ParseYAML(data)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, source.Type)
	}
}

// Load reads every path concurrently and merges the poems in the order the
// paths were given. With no paths it returns the embedded dataset. The merged
// set must satisfy poem.NewCollection: unique ids, at least two poems.
func Load(ctx context.Context, paths []string) (*poem.Collection, error) {
	if len(paths) == 0 {
		return poem.Default(), nil
	}

	start := time.Now()
	defer func() { debug.LogTiming("datasource.Load", time.Since(start)) }()

	results := make([][]poem.Poem, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for i, path := range paths {
		g.Go(func() error {
			src, err := Detect(path)
			if err != nil {
				return err
			}
			poems, err := LoadFromSource(ctx, src)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			debug.Log("loaded %d poems from %s", len(poems), src)
			results[i] = poems
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []poem.Poem
	for _, poems := range results {
		merged = append(merged, poems...)
	}
	return poem.NewCollection(merged)
}
