package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeConfig points storage at a fresh temp directory and returns the
// config path.
func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf(`app:
  log_level: error
  http:
    port: 8080
storage:
  driver: file
  dir: %s
birthdays:
  default_days: 7
`, filepath.Join(dir, "data"))
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes one berkana invocation and returns what it printed.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	defer func() { stdout = prev }()

	argv := append([]string{"berkana", "-c", cfgPath}, args...)
	err := newApp().Run(context.Background(), argv)
	return buf.String(), err
}

func mustRun(t *testing.T, cfgPath string, args ...string) string {
	t.Helper()
	out, err := run(t, cfgPath, args...)
	if err != nil {
		t.Fatalf("berkana %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestContactCommands(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, cfg, "contact", "add", "--phone", "0501234567", "--email", "alice@example.com", "Alice")
	if !strings.Contains(out, "Name: Alice") {
		t.Errorf("add output = %q", out)
	}

	out = mustRun(t, cfg, "contact", "edit", "--address", "Kyiv", "Alice")
	if !strings.Contains(out, "Phones: 0501234567") {
		t.Errorf("edit without --phone dropped phones: %q", out)
	}
	if !strings.Contains(out, "Address: Kyiv") {
		t.Errorf("edit output = %q", out)
	}

	out = mustRun(t, cfg, "contact", "edit", "--phone", "0670000000", "--name", "Alicia", "Alice")
	if !strings.Contains(out, "Phones: 0670000000") || strings.Contains(out, "0501234567") {
		t.Errorf("edit with --phone should replace phones: %q", out)
	}

	out = mustRun(t, cfg, "contact", "show", "Alicia")
	if !strings.Contains(out, "Email: alice@example.com") {
		t.Errorf("show after reopen = %q", out)
	}
	if _, err := run(t, cfg, "contact", "show", "Alice"); err == nil {
		t.Error("old name should be gone")
	}

	mustRun(t, cfg, "contact", "delete", "Alicia")
	if out := mustRun(t, cfg, "contact", "list"); !strings.Contains(out, "No contacts.") {
		t.Errorf("list after delete = %q", out)
	}
}

func TestContactEdit_ClearBirthday(t *testing.T) {
	cfg := writeConfig(t)
	mustRun(t, cfg, "contact", "add", "--birthday", "02.01.1990", "Olena")

	out := mustRun(t, cfg, "contact", "edit", "--clear-birthday", "Olena")
	if !strings.Contains(out, "Birthday: none") {
		t.Errorf("edit output = %q", out)
	}
}

func TestMissingArguments(t *testing.T) {
	cfg := writeConfig(t)
	for _, args := range [][]string{
		{"contact", "add"},
		{"contact", "show"},
		{"note", "add"},
		{"note", "edit", "1"},
	} {
		_, err := run(t, cfg, args...)
		if err == nil || !strings.Contains(err.Error(), "expected") {
			t.Errorf("berkana %s err = %v", strings.Join(args, " "), err)
		}
	}
}

func TestBirthdaysCommand(t *testing.T) {
	cfg := writeConfig(t)
	today := time.Now().Format("02.01.") + "1992"
	mustRun(t, cfg, "contact", "add", "--birthday", today, "Taras")

	out := mustRun(t, cfg, "birthdays", "--days", "0")
	if !strings.Contains(out, "Taras") {
		t.Errorf("birthdays today = %q", out)
	}
	if _, err := run(t, cfg, "birthdays", "--days=-1"); err == nil {
		t.Error("negative --days should fail")
	}
}

func TestNoteCommands(t *testing.T) {
	cfg := writeConfig(t)

	out := mustRun(t, cfg, "note", "add", "--tags", "home", "buy", "milk")
	if !strings.HasPrefix(out, "1. ") || !strings.Contains(out, "buy milk") {
		t.Errorf("add output = %q", out)
	}
	mustRun(t, cfg, "note", "add", "call #mom")

	out = mustRun(t, cfg, "note", "edit", "1", "buy", "oat", "milk")
	if !strings.Contains(out, "buy oat milk") {
		t.Errorf("edit should join the remaining args: %q", out)
	}

	if out := mustRun(t, cfg, "note", "find", "OAT"); !strings.Contains(out, "buy oat milk") {
		t.Errorf("find = %q", out)
	}
	if out := mustRun(t, cfg, "note", "tag", "#mom"); !strings.Contains(out, "call #mom") {
		t.Errorf("tag = %q", out)
	}

	if _, err := run(t, cfg, "note", "delete", "x"); err == nil {
		t.Error("non-numeric note number should fail")
	}
	if _, err := run(t, cfg, "note", "delete", "3"); err == nil {
		t.Error("out of range note number should fail")
	}
	mustRun(t, cfg, "note", "delete", "1")
	out = mustRun(t, cfg, "note", "list")
	if strings.Contains(out, "milk") || !strings.HasPrefix(out, "1. ") {
		t.Errorf("list after delete = %q", out)
	}
}
