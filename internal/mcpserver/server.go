// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Berkana tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/berkana/internal/contacts"
	"github.com/starford/berkana/internal/notes"
	"github.com/starford/berkana/internal/session"
)

const contactFormatURI = "berkana://contact-format"

// Server wraps the MCP server with Berkana tools.
type Server struct {
	mcp         *server.MCPServer
	sess        *session.Session
	defaultDays int
}

// New creates a new MCP server with all Berkana tools registered.
// defaultDays is the birthday window used when a caller omits "days".
func New(sess *session.Session, defaultDays int) *Server {
	s := &Server{sess: sess, defaultDays: defaultDays}

	s.mcp = server.NewMCPServer(
		"Berkana",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("find_contact",
		mcp.WithDescription("Look up a contact by exact name and return its phones, email, address and birthday."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Contact name, case-sensitive")),
	), s.findContact)

	s.mcp.AddTool(mcp.NewTool("list_contacts",
		mcp.WithDescription("List every contact in the address book."),
	), s.listContacts)

	s.mcp.AddTool(mcp.NewTool("add_contact",
		mcp.WithDescription("Create a new contact. Field values MUST follow the contact format "+
			"returned by get_contact_format or the berkana://contact-format resource."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Contact name")),
		mcp.WithString("phones", mcp.Description("Comma-separated 10-digit phone numbers")),
		mcp.WithString("email", mcp.Description("Email address")),
		mcp.WithString("address", mcp.Description("Postal address")),
		mcp.WithString("birthday", mcp.Description("Birthday as DD.MM.YYYY")),
	), s.addContact)

	s.mcp.AddTool(mcp.NewTool("upcoming_birthdays",
		mcp.WithDescription("List contacts whose birthday falls within the next N days, today included."),
		mcp.WithNumber("days", mcp.Description("Window size in days (defaults to the configured value)")),
	), s.upcomingBirthdays)

	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Add a note. Inline #hashtags in the text become tags."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Note text")),
		mcp.WithString("tags", mcp.Description("Optional comma-separated tags")),
	), s.addNote)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Find notes whose text contains the keyword, ignoring case, or that carry a tag."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Keyword, or #tag to search by tag")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes with their 1-based numbers."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("get_contact_format",
		mcp.WithDescription("Returns the accepted contact field formats. "+
			"Call this before adding contacts to ensure values validate."),
	), s.getContactFormat)

	s.mcp.AddResource(
		mcp.NewResource(contactFormatURI, "Contact Format",
			mcp.WithResourceDescription("Field formats accepted for contacts and notes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContactFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

type contactView struct {
	Name     string   `json:"name"`
	Phones   []string `json:"phones"`
	Email    string   `json:"email,omitempty"`
	Address  string   `json:"address,omitempty"`
	Birthday string   `json:"birthday,omitempty"`
}

func viewContact(r *contacts.Record) contactView {
	v := contactView{Name: r.Name(), Phones: r.Phones()}
	if v.Phones == nil {
		v.Phones = []string{}
	}
	v.Email, _ = r.Email()
	v.Address, _ = r.Address()
	if b, ok := r.Birthday(); ok {
		v.Birthday = b.Raw()
	}
	return v
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func (s *Server) findContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	r, err := s.sess.Contact(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", name)), nil
	}
	return jsonResult(viewContact(r)), nil
}

func (s *Server) listContacts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records := s.sess.Contacts()
	if len(records) == 0 {
		return mcp.NewToolResultText("no contacts"), nil
	}
	views := make([]contactView, 0, len(records))
	for _, r := range records {
		views = append(views, viewContact(r))
	}
	return jsonResult(views), nil
}

func (s *Server) addContact(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in := session.ContactInput{
		Name:     name,
		Email:    req.GetString("email", ""),
		Address:  req.GetString("address", ""),
		Birthday: req.GetString("birthday", ""),
	}
	for _, p := range strings.Split(req.GetString("phones", ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			in.Phones = append(in.Phones, p)
		}
	}
	r, err := s.sess.AddContact(ctx, in)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", r.Name())), nil
}

func (s *Server) upcomingBirthdays(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", s.defaultDays)
	if days < 0 {
		return mcp.NewToolResultError("days must be non-negative"), nil
	}
	upcoming := s.sess.UpcomingBirthdays(days)
	if len(upcoming) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("no birthdays in the next %d days", days)), nil
	}
	lines := make([]string, 0, len(upcoming))
	for _, u := range upcoming {
		lines = append(lines, u.String())
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) addNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text must not be empty"), nil
	}
	n, idx := s.sess.AddNote(ctx, text, req.GetString("tags", ""))
	return mcp.NewToolResultText(fmt.Sprintf("added %d: %s", idx+1, n.String())), nil
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var found []notes.Note
	if tag, ok := strings.CutPrefix(query, "#"); ok && tag != "" {
		found = s.sess.NotesByTag(tag)
	} else {
		found = s.sess.FindNotes(query)
	}
	if len(found) == 0 {
		return mcp.NewToolResultText("no matching notes"), nil
	}
	lines := make([]string, 0, len(found))
	for _, n := range found {
		lines = append(lines, n.String())
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.sess.NotesListing()), nil
}

func (s *Server) getContactFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ContactFormatContract), nil
}

func (s *Server) readContactFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contactFormatURI,
			MIMEType: "text/markdown",
			Text:     ContactFormatContract,
		},
	}, nil
}
