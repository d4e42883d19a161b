package datasource

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/poemtyper/pkg/poem"
	"github.com/vanderheijden86/poemtyper/pkg/testutil"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const jsonDataset = `{"poemes":[{"id":1,"titre":"Ciel","texte":"Bleu."},{"id":2,"titre":"Mer","texte":"Verte."}]}`

const yamlDataset = `poemes:
  - id: 3
    titre: Nuit
    texte: Noire.
  - id: 4
    titre: Jour
    texte: Clair.
`

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	jsonPath := writeFile(t, dir, "a.json", jsonDataset)
	yamlPath := writeFile(t, dir, "b.YML", yamlDataset)
	textPath := writeFile(t, dir, "notes.txt", "hello")
	dbPath := filepath.Join(dir, "poems.data")
	testutil.WriteSQLiteDataset(t, dbPath, []poem.Poem{{ID: 1, Title: "x"}})

	tests := []struct {
		path string
		want SourceType
	}{
		{jsonPath, SourceTypeJSON},
		{yamlPath, SourceTypeYAML},
		{dbPath, SourceTypeSQLite},
	}
	for _, tt := range tests {
		src, err := Detect(tt.path)
		if err != nil {
			t.Fatalf("Detect(%s): %v", tt.path, err)
		}
		if src.Type != tt.want {
			t.Errorf("Detect(%s) = %s, want %s", tt.path, src.Type, tt.want)
		}
		if src.Size == 0 || src.ModTime.IsZero() {
			t.Errorf("Detect(%s) did not record file info", tt.path)
		}
	}

	if _, err := Detect(textPath); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat for text file, got %v", err)
	}
	if _, err := Detect(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Detect(dir); err == nil {
		t.Error("expected error for directory")
	}
}

func TestLoad_MergesInOrder(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "more.db")
	testutil.WriteSQLiteDataset(t, dbPath, []poem.Poem{
		{ID: 6, Title: "Vent", Body: "Fort."},
		{ID: 5, Title: "Pluie", Body: ""},
	})
	paths := []string{
		writeFile(t, dir, "a.json", jsonDataset),
		writeFile(t, dir, "b.yaml", yamlDataset),
		dbPath,
	}

	c, err := Load(context.Background(), paths)
	if err != nil {
		t.Fatal(err)
	}
	var ids []int
	for _, p := range c.All() {
		ids = append(ids, p.ID)
	}
	want := []int{1, 2, 3, 4, 5, 6}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
	if p, _ := c.Find(5); p.Title != "Pluie" || p.Body != "" {
		t.Errorf("sqlite row mapped wrong: %+v", p)
	}
}

func TestLoad_NoPathsUsesEmbedded(t *testing.T) {
	c, err := Load(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != poem.Default().Len() {
		t.Fatalf("expected embedded dataset, got %d poems", c.Len())
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a.json", jsonDataset)

	t.Run("duplicate ids across files", func(t *testing.T) {
		dup := writeFile(t, dir, "dup.json", jsonDataset)
		_, err := Load(context.Background(), []string{good, dup})
		if !errors.Is(err, poem.ErrDuplicateID) {
			t.Fatalf("expected ErrDuplicateID, got %v", err)
		}
	})

	t.Run("single poem", func(t *testing.T) {
		one := writeFile(t, dir, "one.json", `{"poemes":[{"id":9,"titre":"Seul","texte":"."}]}`)
		_, err := Load(context.Background(), []string{one})
		if !errors.Is(err, poem.ErrTooFewPoems) {
			t.Fatalf("expected ErrTooFewPoems, got %v", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		bad := writeFile(t, dir, "bad.yaml", "poemes: [\n")
		if _, err := Load(context.Background(), []string{good, bad}); err == nil {
			t.Fatal("expected parse error")
		}
	})

	t.Run("sqlite without table", func(t *testing.T) {
		path := filepath.Join(dir, "empty.db")
		db, err := sql.Open("sqlite", path)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := db.Exec(`CREATE TABLE other (x INTEGER)`); err != nil {
			t.Fatal(err)
		}
		db.Close()
		if _, err := Load(context.Background(), []string{path}); err == nil {
			t.Fatal("expected query error")
		}
	})
}

func TestLoadFromSource_Embedded(t *testing.T) {
	poems, err := LoadFromSource(context.Background(), Embedded())
	if err != nil {
		t.Fatal(err)
	}
	if len(poems) < poem.MinPoems {
		t.Fatalf("embedded source returned %d poems", len(poems))
	}
	if Embedded().String() != "embedded dataset" {
		t.Errorf("unexpected description %q", Embedded().String())
	}
}

func TestNewSQLiteReader_WrongType(t *testing.T) {
	if _, err := NewSQLiteReader(DataSource{Type: SourceTypeJSON}); err == nil {
		t.Fatal("expected error for non-SQLite source")
	}
}
