package session

import (
	"context"
	"fmt"

	"github.com/starford/berkana/internal/notes"
)

// AddNote stores a new note and returns it with its 0-based index. rawTags is
// a comma-separated list; inline #tags found in text are added after it.
// Tags are deduplicated.
func (s *Session) AddNote(ctx context.Context, text, rawTags string) (notes.Note, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.nb.Add(text, splitTags(text, rawTags))
	index := s.nb.Len() - 1
	s.persistNotes(ctx)
	s.emit(EventNoteCreated, n.ID)
	return copyNote(n), index
}

// Notes returns copies of all notes in order.
func (s *Session) Notes() []notes.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyNotes(s.nb.All())
}

// NotesListing returns the numbered display of the notebook, or notes.NoNotes.
func (s *Session) NotesListing() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nb.String()
}

// FindNotes returns notes whose text contains keyword, ignoring case.
func (s *Session) FindNotes(keyword string) []notes.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyNotes(s.nb.Find(keyword))
}

// NotesByTag returns notes carrying tag.
func (s *Session) NotesByTag(tag string) []notes.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyNotes(s.nb.FindByTag(tag))
}

// EditNote replaces the text of the note at the 0-based index.
func (s *Session) EditNote(ctx context.Context, index int, text string) (notes.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.nb.Edit(index, text) {
		return notes.Note{}, errNotFound(fmt.Sprintf("note #%d", index+1))
	}
	n, _ := s.nb.Get(index)
	s.persistNotes(ctx)
	s.emit(EventNoteUpdated, n.ID)
	return copyNote(n), nil
}

// DeleteNote removes the note at the 0-based index. Later notes move up by one.
func (s *Session) DeleteNote(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nb.Get(index)
	if !ok || !s.nb.Delete(index) {
		return errNotFound(fmt.Sprintf("note #%d", index+1))
	}
	s.persistNotes(ctx)
	s.emit(EventNoteDeleted, n.ID)
	return nil
}

func copyNote(n *notes.Note) notes.Note {
	c := *n
	c.Tags = append([]string(nil), n.Tags...)
	return c
}

func copyNotes(list []*notes.Note) []notes.Note {
	out := make([]notes.Note, len(list))
	for i, n := range list {
		out[i] = copyNote(n)
	}
	return out
}
