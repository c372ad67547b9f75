// Package testutil provides shared test helpers for sessions and data directories.
package testutil

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/starford/berkana/internal/session"
	"github.com/starford/berkana/internal/storage"
)

// Now is the fixed "today" used by test sessions: 30 Dec 2024, 10:00 UTC.
var Now = time.Date(2024, time.December, 30, 10, 0, 0, 0, time.UTC)

// Clock returns a time source frozen at Now.
func Clock() func() time.Time {
	return func() time.Time { return Now }
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestStore creates a YAML snapshot store in a temporary directory.
func TestStore(t *testing.T) *storage.FS {
	t.Helper()
	store, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// TestSession creates an empty session over a temporary store with a frozen clock.
func TestSession(t *testing.T, opts ...session.Option) (*session.Session, *storage.FS) {
	t.Helper()
	store := TestStore(t)
	opts = append([]session.Option{
		session.WithClock(Clock()),
		session.WithLogger(Logger()),
	}, opts...)
	return session.New(store, opts...), store
}
