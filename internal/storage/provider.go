// Package storage persists the contact directory and the notebook between runs.
package storage

import (
	"context"
	"fmt"

	"github.com/starford/berkana/internal/contacts"
	"github.com/starford/berkana/internal/notes"
)

// Drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Provider loads and saves the two collections as independent units.
// A collection that was never saved loads as empty.
type Provider interface {
	LoadContacts(ctx context.Context) (*contacts.Directory, error)
	SaveContacts(ctx context.Context, dir *contacts.Directory) error
	LoadNotes(ctx context.Context, opts ...notes.Option) (*notes.Notebook, error)
	SaveNotes(ctx context.Context, nb *notes.Notebook) error
	Close() error
}

// Options selects and configures a Provider.
type Options struct {
	Driver     string
	Dir        string
	SQLitePath string
}

// Open returns the Provider named by opts.Driver.
func Open(opts Options) (Provider, error) {
	switch opts.Driver {
	case DriverFile, "":
		return NewFS(opts.Dir)
	case DriverSQLite:
		return OpenSQLite(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
