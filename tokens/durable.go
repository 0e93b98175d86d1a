package tokens

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shoenig/go-conceal"

	_ "modernc.org/sqlite" // register sqlite driver
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS tokens (
    origin      TEXT PRIMARY KEY,
    token       TEXT NOT NULL,
    updated_at  TEXT NOT NULL
);
`

// Durable is a SQLite backed Backend. Tokens are keyed by the API origin they
// were issued by, so one database may hold credentials for several servers.
type Durable struct {
	db     *sql.DB
	origin string
	clock  func() time.Time
}

// OpenDurable opens or creates the token database at path, scoped to origin.
func OpenDurable(path, origin string) (*Durable, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating token dir: %w", ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening token db: %w", ErrUnavailable, err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: creating schema: %w", ErrUnavailable, err)
	}

	return &Durable{
		db:     db,
		origin: origin,
		clock:  time.Now,
	}, nil
}

// Close closes the token database.
func (d *Durable) Close() error {
	return d.db.Close()
}

func (d *Durable) Load() (*conceal.Text, bool, error) {
	var value string
	err := d.db.QueryRow("SELECT token FROM tokens WHERE origin = ?", d.origin).Scan(&value)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("%w: reading token: %w", ErrUnavailable, err)
	case value == "":
		return nil, false, nil
	default:
		return conceal.New(value), true, nil
	}
}

func (d *Durable) Save(token *conceal.Text) error {
	if empty(token) {
		return d.Delete()
	}

	now := d.clock().UTC().Format(time.RFC3339)
	_, err := d.db.Exec(
		"INSERT OR REPLACE INTO tokens (origin, token, updated_at) VALUES (?, ?, ?)",
		d.origin, token.Unveil(), now,
	)
	if err != nil {
		return fmt.Errorf("%w: writing token: %w", ErrUnavailable, err)
	}
	return nil
}

func (d *Durable) Delete() error {
	if _, err := d.db.Exec("DELETE FROM tokens WHERE origin = ?", d.origin); err != nil {
		return fmt.Errorf("%w: deleting token: %w", ErrUnavailable, err)
	}
	return nil
}
