// Package shell implements the interactive numbered menu over a session.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/starford/berkana/internal/session"
)

const rule = "========================================"

// Shell reads menu choices and field values line by line from in and writes
// results to out. All validation is left to the session.
type Shell struct {
	sess        *session.Session
	in          *bufio.Scanner
	out         io.Writer
	st          styles
	logger      *slog.Logger
	defaultDays int
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the logger used for save failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shell) { s.logger = l }
}

// WithDefaultDays sets the birthday window used when the days prompt is left blank.
func WithDefaultDays(days int) Option {
	return func(s *Shell) { s.defaultDays = days }
}

// New creates a shell over sess.
func New(sess *session.Session, in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		sess:        sess,
		in:          bufio.NewScanner(in),
		out:         out,
		st:          newStyles(out),
		logger:      slog.Default(),
		defaultDays: 7,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type menuItem struct {
	key    string
	label  string
	action func(ctx context.Context) string
}

func (s *Shell) menu() []menuItem {
	return []menuItem{
		{"1", "Add contact", s.addContact},
		{"2", "Show all contacts", s.showContacts},
		{"3", "Find contact", s.findContact},
		{"4", "Edit contact", s.editContact},
		{"5", "Delete contact", s.deleteContact},
		{"6", "Upcoming birthdays", s.birthdays},
		{"7", "Add note", s.addNote},
		{"8", "Find notes", s.findNotes},
		{"9", "Edit note", s.editNote},
		{"10", "Delete note", s.deleteNote},
		{"11", "List notes", s.listNotes},
	}
}

// errEOF signals that input ended mid-prompt.
var errEOF = errors.New("end of input")

// Run loops until the user chooses 0, input ends, or ctx is cancelled.
// Either way the session is saved before returning.
func (s *Shell) Run(ctx context.Context) error {
	items := s.menu()
	for ctx.Err() == nil {
		s.printMenu(items)
		choice, err := s.ask("Choose an action: ")
		if err != nil || choice == "0" {
			break
		}
		action := lookup(items, choice)
		if action == nil {
			s.println(s.st.err.Render("Invalid choice."))
			continue
		}
		s.println(action(ctx))
	}
	if err := s.sess.Save(ctx); err != nil {
		s.logger.Error("save on exit failed", slog.String("error", err.Error()))
		s.println(s.st.err.Render("Error: could not save: " + err.Error()))
		return fmt.Errorf("shell: save: %w", err)
	}
	s.println("Goodbye!")
	return nil
}

func lookup(items []menuItem, key string) func(context.Context) string {
	for _, it := range items {
		if it.key == key {
			return it.action
		}
	}
	return nil
}

func (s *Shell) printMenu(items []menuItem) {
	s.println("\n" + rule)
	s.println(s.st.title.Render("Contacts & notes"))
	s.println(rule)
	for _, it := range items {
		s.println(s.st.item.Render(it.key + ". " + it.label))
	}
	s.println(s.st.item.Render("0. Exit"))
}

func (s *Shell) println(text string) {
	fmt.Fprintln(s.out, text)
}

// ask prints prompt and returns the next input line with surrounding spaces trimmed.
func (s *Shell) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, s.st.prompt.Render(prompt))
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errEOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

// askAll collects answers for several prompts in order.
func (s *Shell) askAll(prompts ...string) ([]string, error) {
	answers := make([]string, len(prompts))
	for i, p := range prompts {
		a, err := s.ask(p)
		if err != nil {
			return nil, err
		}
		answers[i] = a
	}
	return answers, nil
}

func (s *Shell) fail(err error) string {
	return s.st.err.Render("Error: " + err.Error())
}

func (s *Shell) done(msg string) string {
	return s.st.ok.Render(msg)
}

// splitList parses a comma-separated answer. A blank answer yields nil.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// askNumber reads a 1-based note number and converts it to an index.
func (s *Shell) askNumber(prompt string) (int, error) {
	raw, err := s.ask(prompt)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return n - 1, nil
}
