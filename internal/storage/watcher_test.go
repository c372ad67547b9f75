package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/berkana/internal/contacts"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatch_ReportsExternalEditsOnly(t *testing.T) {
	fs := tempFS(t)
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var changes []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = fs.Watch(ctx, logger, func(name string) {
			mu.Lock()
			changes = append(changes, name)
			mu.Unlock()
		})
	}()
	time.Sleep(100 * time.Millisecond)

	// Our own save must not be reported.
	must(t, fs.SaveContacts(ctx, contacts.NewDirectory()))
	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	if len(changes) != 0 {
		t.Errorf("own write reported: %v", changes)
	}
	mu.Unlock()

	must(t, os.WriteFile(filepath.Join(fs.Root(), NotesFile), []byte("notes: []\n"), 0o644))
	must(t, os.WriteFile(filepath.Join(fs.Root(), "unrelated.txt"), []byte("x"), 0o644))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(changes) == 1 && changes[0] == NotesFile
	}, "expected a single notes.yaml change")

	cancel()
	<-done
}
