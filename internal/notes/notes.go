// Package notes implements the ordered notebook of free-text notes.
//
// Notes are addressed by 0-based position. Positions are not stable: deleting
// note i shifts every later note down by one.
package notes

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NoNotes is displayed for an empty notebook.
const NoNotes = "No notes."

// TimeLayout is used when displaying a note's creation time.
const TimeLayout = "2006-01-02 15:04"

// Note is a timestamped, taggable text entry.
type Note struct {
	ID      string    `yaml:"id" json:"id"`
	Text    string    `yaml:"text" json:"text"`
	Created time.Time `yaml:"created" json:"created"`
	Tags    []string  `yaml:"tags,omitempty" json:"tags"`
}

func (n Note) String() string {
	s := fmt.Sprintf("%s - %s", n.Created.Format(TimeLayout), n.Text)
	if len(n.Tags) > 0 {
		s += fmt.Sprintf(" [tags: %s]", strings.Join(n.Tags, ", "))
	}
	return s
}

// Option configures a Notebook.
type Option func(*Notebook)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(nb *Notebook) {
		nb.now = now
	}
}

// Notebook is the ordered collection of notes. It is not safe for concurrent use.
type Notebook struct {
	notes []*Note
	now   func() time.Time
}

// New returns an empty notebook.
func New(opts ...Option) *Notebook {
	nb := &Notebook{now: time.Now}
	for _, opt := range opts {
		opt(nb)
	}
	return nb
}

// Add appends a new note created now and returns the stored note.
// Tags are kept as given; callers deduplicate them.
func (nb *Notebook) Add(text string, tags []string) *Note {
	n := &Note{
		ID:      uuid.NewString(),
		Text:    text,
		Created: nb.now(),
		Tags:    append([]string(nil), tags...),
	}
	nb.notes = append(nb.notes, n)
	return n
}

// Restore appends a previously persisted note without touching its fields.
// A note without an ID is given one.
func (nb *Notebook) Restore(n *Note) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	nb.notes = append(nb.notes, n)
}

// List returns the display lines of all notes, numbered from 1.
func (nb *Notebook) List() []string {
	out := make([]string, len(nb.notes))
	for i, n := range nb.notes {
		out[i] = fmt.Sprintf("%d. %s", i+1, n)
	}
	return out
}

func (nb *Notebook) String() string {
	if len(nb.notes) == 0 {
		return NoNotes
	}
	return strings.Join(nb.List(), "\n")
}

// Find returns notes whose text contains keyword, ignoring case.
// Tags are not searched.
func (nb *Notebook) Find(keyword string) []*Note {
	needle := strings.ToLower(keyword)
	var out []*Note
	for _, n := range nb.notes {
		if strings.Contains(strings.ToLower(n.Text), needle) {
			out = append(out, n)
		}
	}
	return out
}

// FindByTag returns notes carrying tag, compared case-insensitively.
func (nb *Notebook) FindByTag(tag string) []*Note {
	var out []*Note
	for _, n := range nb.notes {
		for _, t := range n.Tags {
			if strings.EqualFold(t, tag) {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

// Get returns the note at index.
func (nb *Notebook) Get(index int) (*Note, bool) {
	if !nb.inRange(index) {
		return nil, false
	}
	return nb.notes[index], true
}

// Edit replaces the text of the note at index and resets its creation time.
// It reports false when index is out of range.
func (nb *Notebook) Edit(index int, text string) bool {
	if !nb.inRange(index) {
		return false
	}
	n := nb.notes[index]
	n.Text = text
	n.Created = nb.now()
	return true
}

// Delete removes the note at index. It reports false when index is out of range.
func (nb *Notebook) Delete(index int) bool {
	if !nb.inRange(index) {
		return false
	}
	nb.notes = append(nb.notes[:index], nb.notes[index+1:]...)
	return true
}

// All returns the stored notes in order.
func (nb *Notebook) All() []*Note {
	return append([]*Note(nil), nb.notes...)
}

// Len returns the number of notes.
func (nb *Notebook) Len() int { return len(nb.notes) }

func (nb *Notebook) inRange(index int) bool {
	return index >= 0 && index < len(nb.notes)
}
