package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/poemtyper/pkg/poem"
)

// AssertPoemCount verifies the expected number of poems.
func AssertPoemCount(t *testing.T, poems []poem.Poem, expected int) {
	t.Helper()
	if len(poems) != expected {
		t.Errorf("expected %d poems, got %d", expected, len(poems))
	}
}

// AssertNoDuplicateIDs verifies all poem IDs are unique.
func AssertNoDuplicateIDs(t *testing.T, poems []poem.Poem) {
	t.Helper()
	seen := make(map[int]bool)
	for _, p := range poems {
		if seen[p.ID] {
			t.Errorf("duplicate poem ID: %d", p.ID)
		}
		seen[p.ID] = true
	}
}

// AssertRevealInvariants checks a reveal state against its poem: lengths stay
// within the text, and nothing of the body shows while the title is typed.
func AssertRevealInvariants(t *testing.T, p poem.Poem, titleLen, bodyLen int, typingTitle bool) {
	t.Helper()
	if titleLen < 0 || titleLen > utf8.RuneCountInString(p.Title) {
		t.Errorf("poem %d: TitleLen %d out of range", p.ID, titleLen)
	}
	if bodyLen < 0 || bodyLen > utf8.RuneCountInString(p.Body) {
		t.Errorf("poem %d: BodyLen %d out of range", p.ID, bodyLen)
	}
	if typingTitle && bodyLen != 0 {
		t.Errorf("poem %d: BodyLen %d while typing the title", p.ID, bodyLen)
	}
}

// AssertJSONEqual compares two values after JSON round-tripping.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// Dataset writers

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteJSONDataset writes poems in the {"poemes": [...]} shape.
func WriteJSONDataset(t *testing.T, path string, poems []poem.Poem) string {
	t.Helper()
	data, err := poem.MarshalJSON(poems)
	if err != nil {
		t.Fatalf("failed to encode dataset: %v", err)
	}
	writeFile(t, path, data)
	return path
}

// WriteYAMLDataset writes poems as YAML with the same keys.
func WriteYAMLDataset(t *testing.T, path string, poems []poem.Poem) string {
	t.Helper()
	data, err := yaml.Marshal(poem.Dataset{Poems: poems})
	if err != nil {
		t.Fatalf("failed to encode dataset: %v", err)
	}
	writeFile(t, path, data)
	return path
}

// WriteSQLiteDataset creates a database with a poemes table holding poems.
func WriteSQLiteDataset(t *testing.T, path string, poems []poem.Poem) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE poemes (id INTEGER PRIMARY KEY, titre TEXT NOT NULL, texte TEXT)`); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}
	for _, p := range poems {
		if _, err := db.Exec(`INSERT INTO poemes (id, titre, texte) VALUES (?, ?, ?)`, p.ID, p.Title, p.Body); err != nil {
			t.Fatalf("failed to insert poem %d: %v", p.ID, err)
		}
	}
	return path
}
