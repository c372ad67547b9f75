package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/berkana/internal"
	"github.com/starford/berkana/internal/contacts"
	"github.com/starford/berkana/internal/notes"
	"github.com/starford/berkana/internal/session"
)

var stdout io.Writer = os.Stdout

// withSession adapts a session action into a one-shot CLI action that loads
// the data, runs fn and saves.
func withSession(fn func(ctx context.Context, cmd *cli.Command, sess *session.Session) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return internal.RunCommand(ctx, func(ctx context.Context, sess *session.Session) error {
			return fn(ctx, cmd, sess)
		}, internal.WithConfig(cfg))
	}
}

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.NArg() < n {
		return fmt.Errorf("%s: expected %d argument(s): %s", cmd.Name, n, cmd.ArgsUsage)
	}
	return nil
}

func contactFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{Name: "phone", Aliases: []string{"p"}, Usage: "Phone number, 10 digits (repeatable)"},
		&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address"},
		&cli.StringFlag{Name: "address", Aliases: []string{"a"}, Usage: "Postal address"},
		&cli.StringFlag{Name: "birthday", Aliases: []string{"b"}, Usage: "Birthday as DD.MM.YYYY"},
	}
}

func contactCommand() *cli.Command {
	return &cli.Command{
		Name:  "contact",
		Usage: "Manage contacts",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a contact",
				ArgsUsage: "NAME",
				Flags:     contactFlags(),
				Action: withSession(func(ctx context.Context, cmd *cli.Command, sess *session.Session) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					r, err := sess.AddContact(ctx, session.ContactInput{
						Name:     cmd.Args().First(),
						Phones:   cmd.StringSlice("phone"),
						Email:    cmd.String("email"),
						Address:  cmd.String("address"),
						Birthday: cmd.String("birthday"),
					})
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, r)
					return nil
				}),
			},
			{
				Name:      "show",
				Usage:     "Show one contact",
				ArgsUsage: "NAME",
				Action: withSession(func(_ context.Context, cmd *cli.Command, sess *session.Session) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					r, err := sess.Contact(cmd.Args().First())
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, r)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "List all contacts",
				Action: withSession(func(_ context.Context, _ *cli.Command, sess *session.Session) error {
					printContacts(stdout, sess.Contacts())
					return nil
				}),
			},
			{
				Name:      "edit",
				Usage:     "Edit a contact; only the given flags change",
				ArgsUsage: "NAME",
				Flags: append(contactFlags(),
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
					&cli.BoolFlag{Name: "clear-birthday", Usage: "Remove the stored birthday"},
				),
				Action: withSession(func(ctx context.Context, cmd *cli.Command, sess *session.Session) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					patch := session.ContactPatch{
						NewName:       cmd.String("name"),
						Email:         cmd.String("email"),
						Address:       cmd.String("address"),
						Birthday:      cmd.String("birthday"),
						ClearBirthday: cmd.Bool("clear-birthday"),
					}
					if cmd.IsSet("phone") {
						patch.Phones = cmd.StringSlice("phone")
					}
					r, err := sess.EditContact(ctx, cmd.Args().First(), patch)
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, r)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a contact",
				ArgsUsage: "NAME",
				Action: withSession(func(ctx context.Context, cmd *cli.Command, sess *session.Session) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					sess.DeleteContact(ctx, cmd.Args().First())
					return nil
				}),
			},
		},
	}
}

func printContacts(w io.Writer, all []*contacts.Record) {
	if len(all) == 0 {
		fmt.Fprintln(w, "No contacts.")
		return
	}
	parts := make([]string, len(all))
	for i, r := range all {
		parts[i] = r.String()
	}
	fmt.Fprintln(w, strings.Join(parts, "\n\n"))
}

func birthdaysCommand() *cli.Command {
	return &cli.Command{
		Name:  "birthdays",
		Usage: "List birthdays in the next N days, today included",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "days", Aliases: []string{"d"}, Usage: "Window size in days (defaults to birthdays.default_days)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			days := cfg.Birthdays.DefaultDays
			if cmd.IsSet("days") {
				days = int(cmd.Int("days"))
			}
			if days < 0 {
				return errors.New("birthdays: --days must not be negative")
			}
			return internal.RunCommand(ctx, func(_ context.Context, sess *session.Session) error {
				upcoming := sess.UpcomingBirthdays(days)
				if len(upcoming) == 0 {
					fmt.Fprintln(stdout, "No upcoming birthdays.")
					return nil
				}
				for _, u := range upcoming {
					fmt.Fprintln(stdout, u)
				}
				return nil
			}, internal.WithConfig(cfg))
		},
	}
}

// noteIndex parses a 1-based note number argument.
func noteIndex(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("note number %q is not a number", raw)
	}
	return n - 1, nil
}

func printNotes(w io.Writer, found []notes.Note) {
	if len(found) == 0 {
		fmt.Fprintln(w, "Nothing found.")
		return
	}
	for _, n := range found {
		fmt.Fprintln(w, n)
	}
}

func noteCommand() *cli.Command {
	return &cli.Command{
		Name:  "note",
		Usage: "Manage notes",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a note; inline #tags are picked up",
				ArgsUsage: "TEXT",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tags", Aliases: []string{"t"}, Usage: "Comma-separated tags"},
				},
				Action: withSession(func(ctx context.Context, cmd *cli.Command, sess *session.Session) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					n, idx := sess.AddNote(ctx, strings.Join(cmd.Args().Slice(), " "), cmd.String("tags"))
					fmt.Fprintf(stdout, "%d. %s\n", idx+1, n)
					return nil
				}),
			},
			{
				Name:  "list",
				Usage: "List notes with their numbers",
				Action: withSession(func(_ context.Context, _ *cli.Command, sess *session.Session) error {
					fmt.Fprintln(stdout, sess.NotesListing())
					return nil
				}),
			},
			{
				Name:      "find",
				Usage:     "Find notes containing a keyword, ignoring case",
				ArgsUsage: "KEYWORD",
				Action: withSession(func(_ context.Context, cmd *cli.Command, sess *session.Session) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					printNotes(stdout, sess.FindNotes(cmd.Args().First()))
					return nil
				}),
			},
			{
				Name:      "tag",
				Usage:     "List notes carrying a tag",
				ArgsUsage: "TAG",
				Action: withSession(func(_ context.Context, cmd *cli.Command, sess *session.Session) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					printNotes(stdout, sess.NotesByTag(strings.TrimPrefix(cmd.Args().First(), "#")))
					return nil
				}),
			},
			{
				Name:      "edit",
				Usage:     "Replace the text of a note",
				ArgsUsage: "NUMBER TEXT",
				Action: withSession(func(ctx context.Context, cmd *cli.Command, sess *session.Session) error {
					if err := requireArgs(cmd, 2); err != nil {
						return err
					}
					index, err := noteIndex(cmd.Args().First())
					if err != nil {
						return err
					}
					n, err := sess.EditNote(ctx, index, strings.Join(cmd.Args().Tail(), " "))
					if err != nil {
						return err
					}
					fmt.Fprintln(stdout, n)
					return nil
				}),
			},
			{
				Name:      "delete",
				Usage:     "Delete a note; later notes are renumbered",
				ArgsUsage: "NUMBER",
				Action: withSession(func(ctx context.Context, cmd *cli.Command, sess *session.Session) error {
					if err := requireArgs(cmd, 1); err != nil {
						return err
					}
					index, err := noteIndex(cmd.Args().First())
					if err != nil {
						return err
					}
					return sess.DeleteNote(ctx, index)
				}),
			},
		},
	}
}
