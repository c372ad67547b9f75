package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/starford/berkana/internal/notes"
	"github.com/starford/berkana/internal/session"
)

func (s *Shell) addContact(ctx context.Context) string {
	a, err := s.askAll(
		"Name: ",
		"Phone (10 digits): ",
		"Email: ",
		"Address: ",
		"Birthday (DD.MM.YYYY): ",
	)
	if err != nil {
		return s.fail(err)
	}
	_, err = s.sess.AddContact(ctx, session.ContactInput{
		Name:     a[0],
		Phones:   splitList(a[1]),
		Email:    a[2],
		Address:  a[3],
		Birthday: a[4],
	})
	if err != nil {
		return s.fail(err)
	}
	return s.done("Contact added.")
}

func (s *Shell) showContacts(context.Context) string {
	all := s.sess.Contacts()
	if len(all) == 0 {
		return "No contacts."
	}
	parts := make([]string, len(all))
	for i, r := range all {
		parts[i] = r.String()
	}
	return strings.Join(parts, "\n\n")
}

func (s *Shell) findContact(context.Context) string {
	name, err := s.ask("Contact name: ")
	if err != nil {
		return s.fail(err)
	}
	r, err := s.sess.Contact(name)
	if err != nil {
		return "Contact not found."
	}
	return r.String()
}

func (s *Shell) editContact(ctx context.Context) string {
	name, err := s.ask("Name to edit: ")
	if err != nil {
		return s.fail(err)
	}
	if _, err := s.sess.Contact(name); err != nil {
		return "Contact not found."
	}
	a, err := s.askAll(
		"New name (blank keeps): ",
		"New phones, comma-separated (blank keeps): ",
		"New email (blank keeps): ",
		"New address (blank keeps): ",
		"New birthday (blank keeps): ",
	)
	if err != nil {
		return s.fail(err)
	}
	_, err = s.sess.EditContact(ctx, name, session.ContactPatch{
		NewName:  a[0],
		Phones:   splitList(a[1]),
		Email:    a[2],
		Address:  a[3],
		Birthday: a[4],
	})
	if err != nil {
		return s.fail(err)
	}
	return s.done("Contact updated.")
}

func (s *Shell) deleteContact(ctx context.Context) string {
	name, err := s.ask("Name to delete: ")
	if err != nil {
		return s.fail(err)
	}
	s.sess.DeleteContact(ctx, name)
	return s.done("Contact deleted.")
}

func (s *Shell) birthdays(context.Context) string {
	raw, err := s.ask(fmt.Sprintf("Number of days (blank for %d): ", s.defaultDays))
	if err != nil {
		return s.fail(err)
	}
	days := s.defaultDays
	if raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 0 {
			return s.fail(fmt.Errorf("%q is not a non-negative number of days", raw))
		}
	}
	upcoming := s.sess.UpcomingBirthdays(days)
	if len(upcoming) == 0 {
		return "No upcoming birthdays."
	}
	lines := make([]string, len(upcoming))
	for i, u := range upcoming {
		lines[i] = u.String()
	}
	return strings.Join(lines, "\n")
}

func (s *Shell) addNote(ctx context.Context) string {
	a, err := s.askAll("Note: ", "Tags (comma-separated): ")
	if err != nil {
		return s.fail(err)
	}
	s.sess.AddNote(ctx, a[0], a[1])
	return s.done("Note added.")
}

func (s *Shell) findNotes(context.Context) string {
	keyword, err := s.ask("Keyword (or #tag): ")
	if err != nil {
		return s.fail(err)
	}
	var found []notes.Note
	if tag, ok := strings.CutPrefix(keyword, "#"); ok && tag != "" {
		found = s.sess.NotesByTag(tag)
	} else {
		found = s.sess.FindNotes(keyword)
	}
	if len(found) == 0 {
		return "Nothing found."
	}
	parts := make([]string, len(found))
	for i, n := range found {
		parts[i] = n.String()
	}
	return strings.Join(parts, "\n\n")
}

func (s *Shell) editNote(ctx context.Context) string {
	s.println(s.sess.NotesListing())
	index, err := s.askNumber("Note number: ")
	if err != nil {
		return s.fail(err)
	}
	text, err := s.ask("New text: ")
	if err != nil {
		return s.fail(err)
	}
	if _, err := s.sess.EditNote(ctx, index, text); err != nil {
		return s.fail(err)
	}
	return s.done("Note updated.")
}

func (s *Shell) deleteNote(ctx context.Context) string {
	s.println(s.sess.NotesListing())
	index, err := s.askNumber("Number to delete: ")
	if err != nil {
		return s.fail(err)
	}
	if err := s.sess.DeleteNote(ctx, index); err != nil {
		return s.fail(err)
	}
	return s.done("Note deleted.")
}

func (s *Shell) listNotes(context.Context) string {
	return s.sess.NotesListing()
}
