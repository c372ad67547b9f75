package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/berkana/internal/apperr"
	"github.com/starford/berkana/internal/session"
	"github.com/starford/berkana/internal/storage"
	"github.com/starford/berkana/internal/testutil"
)

func TestAddContact_RejectsDuplicate(t *testing.T) {
	s, _ := testutil.TestSession(t)
	ctx := context.Background()

	if _, err := s.AddContact(ctx, session.ContactInput{Name: "Alice", Phones: []string{"0501234567"}}); err != nil {
		t.Fatalf("AddContact: %v", err)
	}
	_, err := s.AddContact(ctx, session.ContactInput{Name: "Alice", Phones: []string{"0999999999"}})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}

	got, err := s.Contact("Alice")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"0501234567"}, got.Phones()); diff != "" {
		t.Errorf("original record changed (-want +got):\n%s", diff)
	}
}

func TestAddContact_InvalidFieldStoresNothing(t *testing.T) {
	s, _ := testutil.TestSession(t)
	ctx := context.Background()

	cases := []session.ContactInput{
		{Name: "Bad phone", Phones: []string{"123"}},
		{Name: "Bad email", Email: "nope"},
		{Name: "Bad birthday", Birthday: "31.02.2024"},
		{Name: ""},
	}
	for _, in := range cases {
		if _, err := s.AddContact(ctx, in); !errors.Is(err, apperr.ErrInvalidFormat) {
			t.Errorf("AddContact(%+v) err = %v, want ErrInvalidFormat", in, err)
		}
	}
	if n := len(s.Contacts()); n != 0 {
		t.Errorf("stored %d contacts, want 0", n)
	}
}

func TestContact_ReturnsCopy(t *testing.T) {
	s, _ := testutil.TestSession(t)
	_, _ = s.AddContact(context.Background(), session.ContactInput{Name: "Alice"})

	c, _ := s.Contact("Alice")
	_ = c.AddPhone("0501234567")

	again, _ := s.Contact("Alice")
	if len(again.Phones()) != 0 {
		t.Error("changes to a returned contact must not leak into the session")
	}
}

func TestEditContact(t *testing.T) {
	s, _ := testutil.TestSession(t)
	ctx := context.Background()
	_, _ = s.AddContact(ctx, session.ContactInput{Name: "Alice", Phones: []string{"0501234567"}, Email: "a@b.co"})
	_, _ = s.AddContact(ctx, session.ContactInput{Name: "Bob"})

	got, err := s.EditContact(ctx, "Alice", session.ContactPatch{
		NewName:  "Alicia",
		Phones:   []string{"0670000000"},
		Birthday: "02.01.1990",
	})
	if err != nil {
		t.Fatalf("EditContact: %v", err)
	}
	if got.Name() != "Alicia" {
		t.Errorf("name = %q", got.Name())
	}
	if _, err := s.Contact("Alice"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("old name err = %v, want ErrNotFound", err)
	}
	stored, err := s.Contact("Alicia")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"0670000000"}, stored.Phones()); diff != "" {
		t.Errorf("phones (-want +got):\n%s", diff)
	}
	if e, _ := stored.Email(); e != "a@b.co" {
		t.Errorf("untouched email = %q", e)
	}
}

func TestEditContact_ClearBirthday(t *testing.T) {
	s, _ := testutil.TestSession(t)
	ctx := context.Background()
	_, _ = s.AddContact(ctx, session.ContactInput{Name: "Alice", Birthday: "02.01.1990"})

	_, err := s.EditContact(ctx, "Alice", session.ContactPatch{Birthday: "03.01.1990", ClearBirthday: true})
	if !errors.Is(err, apperr.ErrInvalidFormat) {
		t.Errorf("set and clear err = %v, want ErrInvalidFormat", err)
	}
	got, err := s.EditContact(ctx, "Alice", session.ContactPatch{ClearBirthday: true})
	if err != nil {
		t.Fatalf("EditContact: %v", err)
	}
	if _, ok := got.Birthday(); ok {
		t.Error("birthday still set after clear")
	}
	if upcoming := s.UpcomingBirthdays(7); len(upcoming) != 0 {
		t.Errorf("UpcomingBirthdays = %v", upcoming)
	}
}

func TestEditContact_AllOrNothing(t *testing.T) {
	s, _ := testutil.TestSession(t)
	ctx := context.Background()
	_, _ = s.AddContact(ctx, session.ContactInput{Name: "Alice", Phones: []string{"0501234567"}})
	_, _ = s.AddContact(ctx, session.ContactInput{Name: "Bob"})

	_, err := s.EditContact(ctx, "Alice", session.ContactPatch{NewName: "Alicia", Phones: []string{"0670000000"}, Email: "broken"})
	if !errors.Is(err, apperr.ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
	_, err = s.EditContact(ctx, "Alice", session.ContactPatch{NewName: "Bob", Phones: []string{"0670000000"}})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
	_, err = s.EditContact(ctx, "Nobody", session.ContactPatch{Address: "x"})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	alice, err := s.Contact("Alice")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"0501234567"}, alice.Phones()); diff != "" {
		t.Errorf("failed edit changed phones (-want +got):\n%s", diff)
	}
}

func TestDeleteContact_AbsentIsNoop(t *testing.T) {
	var events []string
	s, _ := testutil.TestSession(t, session.WithNotifier(func(kind, subject string) {
		events = append(events, kind+":"+subject)
	}))
	s.DeleteContact(context.Background(), "Alice")
	if _, err := s.Contact("Alice"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("no-op delete emitted %v", events)
	}
}

func TestUpcomingBirthdays_UsesClock(t *testing.T) {
	s, _ := testutil.TestSession(t)
	ctx := context.Background()
	_, _ = s.AddContact(ctx, session.ContactInput{Name: "Olena", Birthday: "02.01.1990"})
	_, _ = s.AddContact(ctx, session.ContactInput{Name: "Taras", Birthday: "09.03.1814"})

	got := s.UpcomingBirthdays(7)
	if len(got) != 1 || got[0].String() != "Olena: 02.01.2025" {
		t.Errorf("UpcomingBirthdays(7) = %v", got)
	}
}

func TestNotes(t *testing.T) {
	s, _ := testutil.TestSession(t)
	ctx := context.Background()

	n, idx := s.AddNote(ctx, "Buy a GIFT #shopping", "family, shopping , ")
	if idx != 0 {
		t.Errorf("index = %d, want 0", idx)
	}
	if diff := cmp.Diff([]string{"family", "shopping"}, n.Tags); diff != "" {
		t.Errorf("tags (-want +got):\n%s", diff)
	}
	if !n.Created.Equal(testutil.Now) {
		t.Errorf("created = %v", n.Created)
	}
	if _, idx := s.AddNote(ctx, "Call mom", ""); idx != 1 {
		t.Errorf("second index = %d, want 1", idx)
	}

	found := s.FindNotes("gift")
	if len(found) != 1 || found[0].ID != n.ID {
		t.Errorf("FindNotes = %v", found)
	}
	if got := s.NotesByTag("FAMILY"); len(got) != 1 {
		t.Errorf("NotesByTag = %v", got)
	}

	if _, err := s.EditNote(ctx, 5, "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("EditNote out of range err = %v", err)
	}
	if err := s.DeleteNote(ctx, -1); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("DeleteNote out of range err = %v", err)
	}
	if err := s.DeleteNote(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if got := s.Notes(); len(got) != 1 || got[0].Text != "Call mom" {
		t.Errorf("Notes = %v", got)
	}
	if want := "1. 2024-12-30 10:00 - Call mom"; s.NotesListing() != want {
		t.Errorf("NotesListing = %q, want %q", s.NotesListing(), want)
	}
}

func TestSaveLoad(t *testing.T) {
	s, store := testutil.TestSession(t)
	ctx := context.Background()
	_, _ = s.AddContact(ctx, session.ContactInput{Name: "Alice", Phones: []string{"0501234567"}, Birthday: "29.02.2000"})
	s.AddNote(ctx, "remember the milk", "home")
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh := session.New(store, session.WithClock(testutil.Clock()), session.WithLogger(testutil.Logger()))
	if err := fresh.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := fresh.Contact("Alice"); err != nil {
		t.Errorf("Alice missing after load: %v", err)
	}
	if diff := cmp.Diff(s.Notes(), fresh.Notes()); diff != "" {
		t.Errorf("notes differ after load (-want +got):\n%s", diff)
	}
}

func TestAutosaveAndReload(t *testing.T) {
	s, store := testutil.TestSession(t, session.WithAutosave(true))
	ctx := context.Background()
	_, _ = s.AddContact(ctx, session.ContactInput{Name: "Alice"})

	if _, err := os.Stat(filepath.Join(store.Root(), storage.ContactsFile)); err != nil {
		t.Fatalf("autosave did not write contacts: %v", err)
	}

	external := "contacts:\n  - name: Zed\n    phones: [\"0123456789\"]\n"
	if err := os.WriteFile(filepath.Join(store.Root(), storage.ContactsFile), []byte(external), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(ctx, storage.ContactsFile); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, err := s.Contact("Zed"); err != nil {
		t.Errorf("Zed missing after reload: %v", err)
	}
	if _, err := s.Contact("Alice"); err == nil {
		t.Error("Alice should be gone after reload")
	}
	if err := s.Reload(ctx, "other.yaml"); err == nil {
		t.Error("expected error for unknown snapshot")
	}
}

func TestReload_KeepsUnsavedChanges(t *testing.T) {
	s, store := testutil.TestSession(t)
	ctx := context.Background()
	_, _ = s.AddContact(ctx, session.ContactInput{Name: "Alice"})
	s.AddNote(ctx, "draft", "")

	external := "contacts:\n  - name: Bob\n"
	if err := os.WriteFile(filepath.Join(store.Root(), storage.ContactsFile), []byte(external), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(ctx, storage.ContactsFile); !errors.Is(err, session.ErrUnsavedChanges) {
		t.Fatalf("Reload contacts err = %v, want ErrUnsavedChanges", err)
	}
	if err := s.Reload(ctx, storage.NotesFile); !errors.Is(err, session.ErrUnsavedChanges) {
		t.Errorf("Reload notes err = %v, want ErrUnsavedChanges", err)
	}
	if _, err := s.Contact("Alice"); err != nil {
		t.Errorf("Alice lost: %v", err)
	}
	if _, err := s.Contact("Bob"); err == nil {
		t.Error("Bob should not be loaded over unsaved edits")
	}

	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.Root(), storage.ContactsFile), []byte(external), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(ctx, storage.ContactsFile); err != nil {
		t.Fatalf("Reload after Save: %v", err)
	}
	if _, err := s.Contact("Bob"); err != nil {
		t.Errorf("Bob missing after reload: %v", err)
	}
}
