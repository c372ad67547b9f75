// Package session holds the process state (one contact directory, one
// notebook) and the policies every front end shares: duplicate rejection,
// all-or-nothing edits, tag normalisation and persistence.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/starford/berkana/internal/apperr"
	"github.com/starford/berkana/internal/contacts"
	"github.com/starford/berkana/internal/notes"
	"github.com/starford/berkana/internal/storage"
	"github.com/starford/berkana/internal/tags"
)

// Event kinds passed to a Notifier.
const (
	EventContactCreated = "contact.created"
	EventContactUpdated = "contact.updated"
	EventContactDeleted = "contact.deleted"
	EventNoteCreated    = "note.created"
	EventNoteUpdated    = "note.updated"
	EventNoteDeleted    = "note.deleted"
	EventReloaded       = "reloaded"
)

// Notifier receives a kind and the subject (contact name or note ID) after
// every successful mutation.
type Notifier func(kind, subject string)

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source for birthdays and note timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// WithNotifier registers a mutation callback.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notify = n }
}

// WithAutosave saves the affected collection after every mutation.
func WithAutosave(enabled bool) Option {
	return func(s *Session) { s.autosave = enabled }
}

// Session owns the in-memory collections. Its methods are safe for
// concurrent use; the collections themselves are only touched under mu.
type Session struct {
	store    storage.Provider
	now      func() time.Time
	logger   *slog.Logger
	notify   Notifier
	autosave bool

	mu   sync.Mutex
	book *contacts.Directory
	nb   *notes.Notebook

	// Set when a collection changed in memory but is not yet on disk.
	contactsDirty bool
	notesDirty    bool
}

// ErrUnsavedChanges is returned by Reload when the in-memory collection holds
// edits that the stored copy does not have.
var ErrUnsavedChanges = errors.New("unsaved changes")

// New creates a session with empty collections backed by store.
func New(store storage.Provider, opts ...Option) *Session {
	s := &Session{
		store:  store,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.book = contacts.NewDirectory()
	s.nb = notes.New(notes.WithClock(s.now))
	return s
}

// Load replaces both collections with the stored ones.
func (s *Session) Load(ctx context.Context) error {
	book, err := s.store.LoadContacts(ctx)
	if err != nil {
		return fmt.Errorf("session: load contacts: %w", err)
	}
	nb, err := s.store.LoadNotes(ctx, notes.WithClock(s.now))
	if err != nil {
		return fmt.Errorf("session: load notes: %w", err)
	}

	s.mu.Lock()
	s.book, s.nb = book, nb
	s.contactsDirty, s.notesDirty = false, false
	s.mu.Unlock()

	s.logger.Debug("session: loaded",
		slog.Int("contacts", book.Len()),
		slog.Int("notes", nb.Len()))
	return nil
}

// Save writes both collections.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.SaveContacts(ctx, s.book); err != nil {
		return fmt.Errorf("session: save contacts: %w", err)
	}
	s.contactsDirty = false
	if err := s.store.SaveNotes(ctx, s.nb); err != nil {
		return fmt.Errorf("session: save notes: %w", err)
	}
	s.notesDirty = false
	return nil
}

// Reload re-reads one snapshot after it changed outside this process.
// name is storage.ContactsFile or storage.NotesFile. When that collection has
// unsaved edits the in-memory state is kept and ErrUnsavedChanges is returned.
func (s *Session) Reload(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case storage.ContactsFile:
		if s.contactsDirty {
			return fmt.Errorf("session: reload contacts: %w", ErrUnsavedChanges)
		}
		book, err := s.store.LoadContacts(ctx)
		if err != nil {
			return fmt.Errorf("session: reload contacts: %w", err)
		}
		s.book = book
	case storage.NotesFile:
		if s.notesDirty {
			return fmt.Errorf("session: reload notes: %w", ErrUnsavedChanges)
		}
		nb, err := s.store.LoadNotes(ctx, notes.WithClock(s.now))
		if err != nil {
			return fmt.Errorf("session: reload notes: %w", err)
		}
		s.nb = nb
	default:
		return fmt.Errorf("session: unknown snapshot %q", name)
	}
	s.emit(EventReloaded, name)
	return nil
}

func (s *Session) emit(kind, subject string) {
	if s.notify != nil {
		s.notify(kind, subject)
	}
}

// persistContacts runs under mu after every contact mutation.
func (s *Session) persistContacts(ctx context.Context) {
	s.contactsDirty = true
	if !s.autosave {
		return
	}
	if err := s.store.SaveContacts(ctx, s.book); err != nil {
		s.logger.Error("session: autosave contacts failed", slog.String("error", err.Error()))
		return
	}
	s.contactsDirty = false
}

// persistNotes runs under mu after every note mutation.
func (s *Session) persistNotes(ctx context.Context) {
	s.notesDirty = true
	if !s.autosave {
		return
	}
	if err := s.store.SaveNotes(ctx, s.nb); err != nil {
		s.logger.Error("session: autosave notes failed", slog.String("error", err.Error()))
		return
	}
	s.notesDirty = false
}

// errNotFound names what was missing while still matching apperr.ErrNotFound.
func errNotFound(what string) error {
	return fmt.Errorf("%s: %w", what, apperr.ErrNotFound)
}

// splitTags normalises a comma-separated tag input and folds in inline #tags.
func splitTags(text, raw string) []string {
	return tags.Merge(tags.Split(raw), tags.Extract(text))
}
