// Package datasource locates and reads poem datasets. A dataset may be a JSON
// or YAML file in the bundled shape, or a read-only SQLite database.
package datasource

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SourceType identifies the type of data source
type SourceType string

const (
	// SourceTypeJSON is a JSON file with a top-level "poemes" array
	SourceTypeJSON SourceType = "json"
	// SourceTypeYAML is the same shape written in YAML
	SourceTypeYAML SourceType = "yaml"
	// SourceTypeSQLite is a SQLite database with a poemes table
	SourceTypeSQLite SourceType = "sqlite"
	// SourceTypeEmbedded is the dataset compiled into the binary
	SourceTypeEmbedded SourceType = "embedded"
)

// ErrUnknownFormat is returned when a file is none of the supported formats.
var ErrUnknownFormat = errors.New("unknown dataset format")

var sqliteMagic = []byte("SQLite format 3\x00")

// DataSource represents a dataset on disk.
type DataSource struct {
	// Type identifies the source type
	Type SourceType `json:"type"`
	// Path is the absolute path to the source file
	Path string `json:"path"`
	// ModTime is the last modification time of the source
	ModTime time.Time `json:"mod_time"`
	// Size is the file size in bytes
	Size int64 `json:"size"`
}

// String returns a human-readable description of the source
func (s DataSource) String() string {
	if s.Type == SourceTypeEmbedded {
		return "embedded dataset"
	}
	return fmt.Sprintf("%s (%s, %d bytes, mod=%s)",
		s.Path, s.Type, s.Size, s.ModTime.Format(time.RFC3339))
}

// Embedded describes the bundled dataset.
func Embedded() DataSource {
	return DataSource{Type: SourceTypeEmbedded}
}

// Detect stats path and classifies it by extension, falling back to the
// SQLite file header for unrecognized extensions.
func Detect(path string) (DataSource, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return DataSource{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return DataSource{}, fmt.Errorf("cannot access dataset: %w", err)
	}
	if info.IsDir() {
		return DataSource{}, fmt.Errorf("dataset %s is a directory", abs)
	}

	src := DataSource{Path: abs, ModTime: info.ModTime(), Size: info.Size()}
	switch strings.ToLower(filepath.Ext(abs)) {
	case ".json":
		src.Type = SourceTypeJSON
	case ".yaml", ".yml":
		src.Type = SourceTypeYAML
	case ".db", ".sqlite", ".sqlite3":
		src.Type = SourceTypeSQLite
	default:
		isDB, err := hasSQLiteHeader(abs)
		if err != nil {
			return DataSource{}, err
		}
		if !isDB {
			return DataSource{}, fmt.Errorf("%w: %s", ErrUnknownFormat, abs)
		}
		src.Type = SourceTypeSQLite
	}
	return src, nil
}

func hasSQLiteHeader(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	header := make([]byte, len(sqliteMagic))
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(header, sqliteMagic), nil
}
