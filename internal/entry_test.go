package internal

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/berkana/internal/session"
	"github.com/starford/berkana/internal/storage"
)

func testConfig(t *testing.T, driver string) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	dir := t.TempDir()
	cfg.Storage.Driver = driver
	cfg.Storage.Dir = filepath.Join(dir, "data")
	cfg.Storage.SQLitePath = filepath.Join(dir, "berkana.db")
	return cfg
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := RunShell(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}

func TestRunCommand_PersistsAcrossRuns(t *testing.T) {
	for _, driver := range []string{storage.DriverFile, storage.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := testConfig(t, driver)
			ctx := context.Background()
			opts := []Option{WithConfig(cfg), WithLogOutput(io.Discard)}

			err := RunCommand(ctx, func(ctx context.Context, sess *session.Session) error {
				_, err := sess.AddContact(ctx, session.ContactInput{Name: "Olena", Birthday: "02.01.1990"})
				if err != nil {
					return err
				}
				sess.AddNote(ctx, "remember #gift", "")
				return nil
			}, opts...)
			if err != nil {
				t.Fatalf("first run: %v", err)
			}

			err = RunCommand(ctx, func(_ context.Context, sess *session.Session) error {
				if _, err := sess.Contact("Olena"); err != nil {
					t.Errorf("contact not persisted: %v", err)
				}
				if got := sess.NotesByTag("gift"); len(got) != 1 {
					t.Errorf("notes by tag = %d, want 1", len(got))
				}
				return nil
			}, opts...)
			if err != nil {
				t.Fatalf("second run: %v", err)
			}
		})
	}
}

func TestRunCommand_ErrorSkipsSave(t *testing.T) {
	cfg := testConfig(t, storage.DriverFile)
	ctx := context.Background()
	opts := []Option{WithConfig(cfg), WithLogOutput(io.Discard)}

	err := RunCommand(ctx, func(ctx context.Context, sess *session.Session) error {
		sess.AddNote(ctx, "draft", "")
		_, err := sess.AddContact(ctx, session.ContactInput{Name: "X", Phones: []string{"nope"}})
		return err
	}, opts...)
	if err == nil {
		t.Fatal("expected validation error")
	}

	RunCommand(ctx, func(_ context.Context, sess *session.Session) error {
		if n := len(sess.Notes()); n != 0 {
			t.Errorf("notes = %d, want 0 after failed command", n)
		}
		return nil
	}, opts...)
}

func TestRunShell(t *testing.T) {
	cfg := testConfig(t, storage.DriverFile)
	in := strings.NewReader("7\nshell note\n\n0\n")
	var out bytes.Buffer

	err := RunShell(context.Background(),
		WithConfig(cfg),
		WithIO(in, &out),
		WithLogOutput(io.Discard),
	)
	if err != nil {
		t.Fatalf("RunShell: %v", err)
	}
	if !strings.Contains(out.String(), "Note added.") {
		t.Errorf("output:\n%s", out.String())
	}

	store, err := storage.NewFS(cfg.Storage.Dir)
	if err != nil {
		t.Fatal(err)
	}
	nb, err := store.LoadNotes(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if nb.Len() != 1 {
		t.Errorf("saved notes = %d, want 1", nb.Len())
	}
}
