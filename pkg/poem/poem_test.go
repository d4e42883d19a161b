package poem

import (
	"errors"
	"testing"
)

func TestNewCollection_RejectsTooFew(t *testing.T) {
	for _, n := range []int{0, 1} {
		poems := make([]Poem, n)
		for i := range poems {
			poems[i] = Poem{ID: i + 1, Title: "t"}
		}
		_, err := NewCollection(poems)
		if !errors.Is(err, ErrTooFewPoems) {
			t.Fatalf("n=%d: expected ErrTooFewPoems, got %v", n, err)
		}
	}
}

func TestNewCollection_RejectsDuplicateIDs(t *testing.T) {
	_, err := NewCollection([]Poem{
		{ID: 1, Title: "a"},
		{ID: 2, Title: "b"},
		{ID: 1, Title: "c"},
	})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestCollection_IsReadOnly(t *testing.T) {
	src := []Poem{{ID: 1, Title: "Ciel", Body: "Bleu."}, {ID: 2, Title: "Mer", Body: "Verte."}}
	c := MustCollection(src)

	src[0].Title = "changed"
	if c.At(0).Title != "Ciel" {
		t.Fatalf("collection shares storage with its input")
	}

	all := c.All()
	all[1].Title = "changed"
	if c.At(1).Title != "Mer" {
		t.Fatalf("All() leaked internal storage")
	}

	p, ok := c.Find(2)
	if !ok || p.Body != "Verte." {
		t.Fatalf("Find(2) = %+v, %v", p, ok)
	}
	if _, ok := c.Find(42); ok {
		t.Fatalf("Find(42) should miss")
	}
}

func TestPoem_LengthsCountRunes(t *testing.T) {
	p := Poem{Title: "Été", Body: "cœur\n"}
	if p.TitleLen() != 3 {
		t.Errorf("TitleLen = %d, want 3", p.TitleLen())
	}
	if p.BodyLen() != 5 {
		t.Errorf("BodyLen = %d, want 5", p.BodyLen())
	}
}

func TestDefault_Loads(t *testing.T) {
	c := Default()
	if c.Len() < MinPoems {
		t.Fatalf("embedded dataset has %d poems", c.Len())
	}
	for _, p := range c.All() {
		if p.Title == "" || p.Body == "" {
			t.Errorf("poem %d is incomplete", p.ID)
		}
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
poemes:
  - id: 1
    titre: Ciel
    texte: "Bleu."
  - id: 2
    titre: Mer
    texte: |
      Verte
      et grise
`)
	poems, err := ParseYAML(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(poems) != 2 {
		t.Fatalf("expected 2 poems, got %d", len(poems))
	}
	if poems[1].Body != "Verte\net grise\n" {
		t.Errorf("block scalar body = %q", poems[1].Body)
	}
}

func TestParseJSON_RoundTripsOriginalShape(t *testing.T) {
	in := []Poem{{ID: 7, Title: "Ciel", Body: "Bleu."}}
	data, err := MarshalJSON(in)
	if err != nil {
		t.Fatal(err)
	}
	out, err := ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0] != in[0] {
		t.Fatalf("got %+v", out)
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"poemes": [`)); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		poems []Poem
		want  error
	}{
		{"ok", []Poem{{ID: 1}, {ID: 2}}, nil},
		{"empty", nil, ErrTooFewPoems},
		{"single duplicate pair", []Poem{{ID: 4}, {ID: 4}}, ErrDuplicateID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.poems)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
