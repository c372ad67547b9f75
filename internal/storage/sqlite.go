package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/berkana/internal/contacts"
	"github.com/starford/berkana/internal/notes"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS contacts (
	name     TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	email    TEXT NOT NULL DEFAULT '',
	address  TEXT NOT NULL DEFAULT '',
	birthday TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS phones (
	contact  TEXT NOT NULL REFERENCES contacts(name) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	number   TEXT NOT NULL,
	PRIMARY KEY (contact, position)
);

CREATE TABLE IF NOT EXISTS notes (
	position INTEGER PRIMARY KEY,
	id       TEXT NOT NULL,
	text     TEXT NOT NULL,
	created  TEXT NOT NULL,
	tags     TEXT NOT NULL DEFAULT '[]'
);
`

// SQLite implements Provider on a SQLite database. Every save replaces the
// stored collection inside a single transaction.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// LoadContacts reads all contacts in their saved order.
func (s *SQLite) LoadContacts(ctx context.Context) (*contacts.Directory, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT name, email, address, birthday FROM contacts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("storage: query contacts: %w", err)
	}
	defer rows.Close()

	var docs []contactDoc
	byName := make(map[string]int)
	for rows.Next() {
		var d contactDoc
		if err := rows.Scan(&d.Name, &d.Email, &d.Address, &d.Birthday); err != nil {
			return nil, err
		}
		byName[d.Name] = len(docs)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	phoneRows, err := s.conn.QueryContext(ctx, `SELECT contact, number FROM phones ORDER BY contact, position`)
	if err != nil {
		return nil, fmt.Errorf("storage: query phones: %w", err)
	}
	defer phoneRows.Close()
	for phoneRows.Next() {
		var contact, number string
		if err := phoneRows.Scan(&contact, &number); err != nil {
			return nil, err
		}
		if i, ok := byName[contact]; ok {
			docs[i].Phones = append(docs[i].Phones, number)
		}
	}
	if err := phoneRows.Err(); err != nil {
		return nil, err
	}

	dir, err := fromContactDocs(docs)
	if err != nil {
		return nil, fmt.Errorf("storage: load contacts: %w", err)
	}
	return dir, nil
}

// SaveContacts replaces every stored contact with the directory's contents.
func (s *SQLite) SaveContacts(ctx context.Context, dir *contacts.Directory) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.ExecContext(ctx, `DELETE FROM phones`); err != nil {
		return fmt.Errorf("storage: clear phones: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM contacts`); err != nil {
		return fmt.Errorf("storage: clear contacts: %w", err)
	}

	contactStmt, err := tx.PrepareContext(ctx, `INSERT INTO contacts (name, position, email, address, birthday) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage: prepare contact insert: %w", err)
	}
	defer contactStmt.Close()
	phoneStmt, err := tx.PrepareContext(ctx, `INSERT INTO phones (contact, position, number) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage: prepare phone insert: %w", err)
	}
	defer phoneStmt.Close()

	for i, doc := range toContactDocs(dir) {
		if _, err := contactStmt.ExecContext(ctx, doc.Name, i, doc.Email, doc.Address, doc.Birthday); err != nil {
			return fmt.Errorf("storage: insert contact %q: %w", doc.Name, err)
		}
		for j, number := range doc.Phones {
			if _, err := phoneStmt.ExecContext(ctx, doc.Name, j, number); err != nil {
				return fmt.Errorf("storage: insert phone: %w", err)
			}
		}
	}

	return tx.Commit()
}

// LoadNotes reads all notes in their saved order.
func (s *SQLite) LoadNotes(ctx context.Context, opts ...notes.Option) (*notes.Notebook, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, text, created, tags FROM notes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("storage: query notes: %w", err)
	}
	defer rows.Close()

	var list []*notes.Note
	for rows.Next() {
		var (
			n       notes.Note
			created string
			tagsRaw string
		)
		if err := rows.Scan(&n.ID, &n.Text, &created, &tagsRaw); err != nil {
			return nil, err
		}
		if n.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("storage: note %s: bad created time: %w", n.ID, err)
		}
		if err := json.Unmarshal([]byte(tagsRaw), &n.Tags); err != nil {
			return nil, fmt.Errorf("storage: note %s: bad tags: %w", n.ID, err)
		}
		list = append(list, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fromNotes(list, opts...), nil
}

// SaveNotes replaces every stored note with the notebook's contents.
func (s *SQLite) SaveNotes(ctx context.Context, nb *notes.Notebook) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("storage: clear notes: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO notes (position, id, text, created, tags) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage: prepare note insert: %w", err)
	}
	defer stmt.Close()

	for i, n := range nb.All() {
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		tagsJSON, _ := json.Marshal(tags)
		if _, err := stmt.ExecContext(ctx, i, n.ID, n.Text, n.Created.Format(time.RFC3339Nano), string(tagsJSON)); err != nil {
			return fmt.Errorf("storage: insert note: %w", err)
		}
	}

	return tx.Commit()
}
