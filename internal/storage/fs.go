package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/starford/berkana/internal/checksum"
	"github.com/starford/berkana/internal/contacts"
	"github.com/starford/berkana/internal/notes"
)

// Snapshot file names inside the data directory.
const (
	ContactsFile = "contacts.yaml"
	NotesFile    = "notes.yaml"
)

// FS implements Provider with one YAML snapshot file per collection.
type FS struct {
	root string // absolute path to the data directory

	// Digests of the bytes last read or written, per file name.
	sums checksum.Tracker
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute data directory.
func (f *FS) Root() string { return f.root }

// LoadContacts reads contacts.yaml. A missing file yields an empty directory.
func (f *FS) LoadContacts(_ context.Context) (*contacts.Directory, error) {
	var doc contactsFile
	if err := f.readYAML(ContactsFile, &doc); err != nil {
		return nil, err
	}
	dir, err := fromContactDocs(doc.Contacts)
	if err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", ContactsFile, err)
	}
	return dir, nil
}

// SaveContacts writes contacts.yaml.
func (f *FS) SaveContacts(_ context.Context, dir *contacts.Directory) error {
	return f.writeYAML(ContactsFile, contactsFile{Contacts: toContactDocs(dir)})
}

// LoadNotes reads notes.yaml. A missing file yields an empty notebook.
func (f *FS) LoadNotes(_ context.Context, opts ...notes.Option) (*notes.Notebook, error) {
	var doc notesFile
	if err := f.readYAML(NotesFile, &doc); err != nil {
		return nil, err
	}
	return fromNotes(doc.Notes, opts...), nil
}

// SaveNotes writes notes.yaml.
func (f *FS) SaveNotes(_ context.Context, nb *notes.Notebook) error {
	return f.writeYAML(NotesFile, notesFile{Notes: nb.All()})
}

// Close is a no-op; FS holds no open handles.
func (f *FS) Close() error { return nil }

// Changed reports whether name differs on disk from what FS last read or wrote.
func (f *FS) Changed(name string) (bool, error) {
	data, err := os.ReadFile(filepath.Join(f.root, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: read %s: %w", name, err)
	}
	return !f.sums.Matches(name, data), nil
}

func (f *FS) readYAML(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(f.root, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("storage: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("storage: parse %s: %w", name, err)
	}
	f.sums.Remember(name, data)
	return nil
}

func (f *FS) writeYAML(name string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", name, err)
	}

	if f.sums.Matches(name, data) {
		if _, statErr := os.Stat(filepath.Join(f.root, name)); statErr == nil {
			return nil
		}
	}

	if err := f.write(name, data); err != nil {
		return err
	}
	f.sums.Remember(name, data)
	return nil
}

// write atomically replaces name: tmp file → fsync → rename.
func (f *FS) write(name string, content []byte) error {
	abs := filepath.Join(f.root, name)

	tmp, err := os.CreateTemp(f.root, ".berkana-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
