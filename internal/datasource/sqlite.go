package datasource

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/poemtyper/pkg/poem"
)

// SQLiteReader provides read access to a poem database
type SQLiteReader struct {
	db   *sql.DB
	path string
}

// NewSQLiteReader opens a SQLite database for reading
func NewSQLiteReader(source DataSource) (*SQLiteReader, error) {
	if source.Type != SourceTypeSQLite {
		return nil, fmt.Errorf("source is not SQLite: %s", source.Type)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", source.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	return &SQLiteReader{
		db:   db,
		path: source.Path,
	}, nil
}

// Close closes the database connection
func (r *SQLiteReader) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadPoems reads every row of the poemes table in id order.
func (r *SQLiteReader) LoadPoems(ctx context.Context) ([]poem.Poem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, titre, texte FROM poemes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.path, err)
	}
	defer rows.Close()

	var poems []poem.Poem
	for rows.Next() {
		var p poem.Poem
		var body sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &body); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", r.path, err)
		}
		p.Body = body.String
		poems = append(poems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}
	return poems, nil
}
