// Package sqlitebridge implements the remote command interface on a local
// SQLite file, so the tool runs with zero infrastructure. It is still a
// backend behind the bridge contract: the client's mirror never reads it
// directly, and ids are assigned here, not by the caller.
package sqlitebridge

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"

	_ "modernc.org/sqlite"

	"stockroom/internal/model"
)

// Config carries the file location, sourced from the environment.
type Config struct {
	Path string `envconfig:"STOCKROOM_SQLITE_PATH" default:"stockroom.sqlite"`
}

// Bridge serves bridge calls from one SQLite database, one table per
// collection name.
type Bridge struct {
	db *sql.DB

	mu      sync.Mutex
	ensured map[string]bool
}

// Collection names become table names, so only identifier-ish names pass.
var collectionNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Open opens (creating if needed) the database file.
func (c Config) Open(ctx context.Context) (*Bridge, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", c.Path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout helps avoid
	// "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return &Bridge{db: db, ensured: map[string]bool{}}, nil
}

// Close closes the database file.
func (b *Bridge) Close() error { return b.db.Close() }

func (b *Bridge) table(ctx context.Context, collection string) (string, error) {
	if !collectionNameRe.MatchString(collection) {
		return "", fmt.Errorf("invalid collection name %q", collection)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ensured[collection] {
		return collection, nil
	}
	_, err := b.db.ExecContext(ctx, fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %q (
  id          TEXT PRIMARY KEY,
  name        TEXT NOT NULL,
  description TEXT NOT NULL,
  price       REAL NOT NULL
);`, collection))
	if err != nil {
		return "", err
	}
	b.ensured[collection] = true
	return collection, nil
}

// FetchAll returns every record in insertion (rowid) order. Records are
// surfaced under the remote-native identifier field, like the production
// backend does.
func (b *Bridge) FetchAll(ctx context.Context, collection string) ([]model.RawItem, error) {
	tbl, err := b.table(ctx, collection)
	if err != nil {
		return nil, err
	}
	rows, err := b.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, name, description, price FROM %q ORDER BY rowid", tbl))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RawItem
	for rows.Next() {
		var it model.RawItem
		if err := rows.Scan(&it.RemoteID, &it.Name, &it.Description, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Create inserts the fields under a fresh id and returns it.
func (b *Bridge) Create(ctx context.Context, collection string, fields model.Fields) (string, error) {
	tbl, err := b.table(ctx, collection)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	_, err = b.db.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %q (id, name, description, price) VALUES (?, ?, ?, ?)", tbl),
		id, fields.Name, fields.Description, fields.Price)
	if err != nil {
		return "", err
	}
	return id, nil
}

// Update overwrites the record matching id; true when a row changed.
func (b *Bridge) Update(ctx context.Context, collection string, id string, fields model.Fields) (bool, error) {
	tbl, err := b.table(ctx, collection)
	if err != nil {
		return false, err
	}
	res, err := b.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %q SET name = ?, description = ?, price = ? WHERE id = ?", tbl),
		fields.Name, fields.Description, fields.Price, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// Delete removes the record matching id; true when a row was removed.
func (b *Bridge) Delete(ctx context.Context, collection string, id string) (bool, error) {
	tbl, err := b.table(ctx, collection)
	if err != nil {
		return false, err
	}
	res, err := b.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %q WHERE id = ?", tbl), id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}
