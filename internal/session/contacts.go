package session

import (
	"context"
	"fmt"

	"github.com/starford/berkana/internal/apperr"
	"github.com/starford/berkana/internal/contacts"
)

// ContactInput carries the raw values for a new contact. Empty strings are
// treated as "not provided".
type ContactInput struct {
	Name     string
	Phones   []string
	Email    string
	Address  string
	Birthday string
}

// ContactPatch carries edits for an existing contact. Empty strings and a nil
// Phones slice leave the corresponding value unchanged; a non-nil Phones
// replaces every stored number. ClearBirthday removes the birthday and cannot
// be combined with Birthday.
type ContactPatch struct {
	NewName       string
	Phones        []string
	Email         string
	Address       string
	Birthday      string
	ClearBirthday bool
}

// AddContact validates input and stores a new contact.
// An existing contact with the same name is never overwritten: the call
// fails with apperr.ErrAlreadyExists.
func (s *Session) AddContact(ctx context.Context, in ContactInput) (*contacts.Record, error) {
	r, err := contacts.NewRecord(in.Name)
	if err != nil {
		return nil, err
	}
	for _, p := range in.Phones {
		if p == "" {
			continue
		}
		if err := r.AddPhone(p); err != nil {
			return nil, err
		}
	}
	if err := r.SetEmail(in.Email); err != nil {
		return nil, err
	}
	r.SetAddress(in.Address)
	if in.Birthday != "" {
		if err := r.SetBirthday(in.Birthday); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.book.Find(r.Name()); exists {
		return nil, fmt.Errorf("contact %q: %w", r.Name(), apperr.ErrAlreadyExists)
	}
	s.book.Add(r)
	s.persistContacts(ctx)
	s.emit(EventContactCreated, r.Name())
	return r.Clone(), nil
}

// Contact returns a copy of the named contact.
func (s *Session) Contact(name string) (*contacts.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.book.Find(name)
	if !ok {
		return nil, errNotFound(fmt.Sprintf("contact %q", name))
	}
	return r.Clone(), nil
}

// Contacts returns copies of all contacts in insertion order.
func (s *Session) Contacts() []*contacts.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.book.All()
	out := make([]*contacts.Record, len(all))
	for i, r := range all {
		out[i] = r.Clone()
	}
	return out
}

// EditContact applies patch to the named contact. Every value is validated on
// a copy which then replaces the stored record, so a rejected patch leaves the
// contact untouched.
func (s *Session) EditContact(ctx context.Context, name string, patch ContactPatch) (*contacts.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.book.Find(name)
	if !ok {
		return nil, errNotFound(fmt.Sprintf("contact %q", name))
	}
	next := current.Clone()

	if patch.Phones != nil {
		if err := next.SetPhones(patch.Phones...); err != nil {
			return nil, err
		}
	}
	if patch.Email != "" {
		if err := next.SetEmail(patch.Email); err != nil {
			return nil, err
		}
	}
	if patch.Address != "" {
		next.SetAddress(patch.Address)
	}
	switch {
	case patch.ClearBirthday && patch.Birthday != "":
		return nil, apperr.Invalid("birthday", "cannot set and clear the birthday at once")
	case patch.ClearBirthday:
		next.ClearBirthday()
	case patch.Birthday != "":
		if err := next.SetBirthday(patch.Birthday); err != nil {
			return nil, err
		}
	}

	rename := patch.NewName != "" && patch.NewName != name
	if rename {
		if _, err := contacts.NewRecord(patch.NewName); err != nil {
			return nil, err
		}
		if _, taken := s.book.Find(patch.NewName); taken {
			return nil, fmt.Errorf("contact %q: %w", patch.NewName, apperr.ErrAlreadyExists)
		}
	}

	s.book.Add(next)
	key := name
	if rename {
		if err := s.book.Rename(name, patch.NewName); err != nil {
			return nil, err
		}
		key = patch.NewName
	}
	s.persistContacts(ctx)
	s.emit(EventContactUpdated, key)
	return next.Clone(), nil
}

// DeleteContact removes the named contact. Deleting an absent contact is not an error.
func (s *Session) DeleteContact(ctx context.Context, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.book.Find(name); !ok {
		return
	}
	s.book.Delete(name)
	s.persistContacts(ctx)
	s.emit(EventContactDeleted, name)
}

// UpcomingBirthdays lists contacts whose birthday falls within the next days days.
func (s *Session) UpcomingBirthdays(days int) []contacts.Upcoming {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.UpcomingBirthdays(s.now(), days)
}
