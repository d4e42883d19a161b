package poem

import (
	_ "embed"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Dataset is the on-disk shape of a poem file. The "poemes" key is kept from
// the original bundled data so existing files load unchanged.
type Dataset struct {
	Poems []Poem `json:"poemes" yaml:"poemes"`
}

//go:embed data/poemes.json
var defaultDataset []byte

// ParseJSON decodes a JSON dataset.
func ParseJSON(data []byte) ([]Poem, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing JSON dataset: %w", err)
	}
	return ds.Poems, nil
}

// ParseYAML decodes a YAML dataset.
func ParseYAML(data []byte) ([]Poem, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing YAML dataset: %w", err)
	}
	return ds.Poems, nil
}

// MarshalJSON encodes poems in the dataset shape.
func MarshalJSON(poems []Poem) ([]byte, error) {
	return json.MarshalIndent(Dataset{Poems: poems}, "", "  ")
}

// Default returns the bundled collection.
func Default() *Collection {
	poems, err := ParseJSON(defaultDataset)
	if err != nil {
		panic(fmt.Sprintf("embedded dataset: %v", err))
	}
	return MustCollection(poems)
}
