package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/berkana/internal/apperr"
	"github.com/starford/berkana/internal/notes"
	"github.com/starford/berkana/internal/session"
)

// Handler holds API route handlers.
type Handler struct {
	sess        *session.Session
	defaultDays int
}

// NewHandler creates a new Handler.
func NewHandler(sess *session.Session, defaultDays int) *Handler {
	return &Handler{sess: sess, defaultDays: defaultDays}
}

// noteNumber parses the 1-based {number} URL parameter into a 0-based index.
func noteNumber(w http.ResponseWriter, r *http.Request, op string) (int, bool) {
	raw := chi.URLParam(r, "number")
	n, err := strconv.Atoi(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(fmt.Sprintf("note number %q is not an integer", raw)))
		return 0, false
	}
	if n < 1 {
		writeError(w, op, fmt.Errorf("note number %d: %w", n, apperr.ErrNotFound))
		return 0, false
	}
	return n - 1, true
}

// ListContacts handles GET /api/contacts.
//
//	@Summary		List all contacts in insertion order
//	@Tags			contacts
//	@Produce		json
//	@Success		200	{object}	map[string][]ContactResponse
//	@Security		BearerAuth
//	@Router			/contacts [get]
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	records := h.sess.Contacts()
	items := make([]ContactResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, contactResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"contacts": items,
		"total":    len(items),
	})
}

// GetContact handles GET /api/contacts/{name}.
//
//	@Summary		Get a single contact by exact name
//	@Tags			contacts
//	@Produce		json
//	@Param			name	path		string	true	"Contact name"
//	@Success		200		{object}	ContactResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts/{name} [get]
func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sess.Contact(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, "get contact", err)
		return
	}
	writeJSON(w, http.StatusOK, contactResponse(rec))
}

// CreateContact handles POST /api/contacts.
//
//	@Summary		Create a contact
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ContactRequest	true	"Contact"
//	@Success		201		{object}	ContactResponse
//	@Failure		400		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts [post]
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.sess.AddContact(r.Context(), session.ContactInput{
		Name:     req.Name,
		Phones:   req.Phones,
		Email:    req.Email,
		Address:  req.Address,
		Birthday: req.Birthday,
	})
	if err != nil {
		writeError(w, "create contact", err)
		return
	}
	writeJSON(w, http.StatusCreated, contactResponse(rec))
}

// EditContact handles PATCH /api/contacts/{name}.
//
//	@Summary		Edit a contact; all fields are validated before any change is applied
//	@Tags			contacts
//	@Accept			json
//	@Produce		json
//	@Param			name	path		string				true	"Contact name"
//	@Param			body	body		ContactPatchRequest	true	"Changes"
//	@Success		200		{object}	ContactResponse
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	errResponse
//	@Failure		422		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/contacts/{name} [patch]
func (h *Handler) EditContact(w http.ResponseWriter, r *http.Request) {
	var req ContactPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, err := h.sess.EditContact(r.Context(), chi.URLParam(r, "name"), session.ContactPatch{
		NewName:       req.Name,
		Phones:        req.Phones,
		Email:         req.Email,
		Address:       req.Address,
		Birthday:      req.Birthday,
		ClearBirthday: req.ClearBirthday,
	})
	if err != nil {
		writeError(w, "edit contact", err)
		return
	}
	writeJSON(w, http.StatusOK, contactResponse(rec))
}

// DeleteContact handles DELETE /api/contacts/{name}.
//
//	@Summary		Delete a contact; deleting an absent name is not an error
//	@Tags			contacts
//	@Param			name	path	string	true	"Contact name"
//	@Success		204
//	@Security		BearerAuth
//	@Router			/contacts/{name} [delete]
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	h.sess.DeleteContact(r.Context(), chi.URLParam(r, "name"))
	w.WriteHeader(http.StatusNoContent)
}

// UpcomingBirthdays handles GET /api/birthdays.
//
//	@Summary		List birthdays falling within the next N days, today included
//	@Tags			contacts
//	@Produce		json
//	@Param			days	query		int	false	"Window size in days"
//	@Success		200		{object}	map[string][]BirthdayResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/birthdays [get]
func (h *Handler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	days := h.defaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("days must be a non-negative integer"))
			return
		}
		days = n
	}
	upcoming := h.sess.UpcomingBirthdays(days)
	items := make([]BirthdayResponse, 0, len(upcoming))
	for _, u := range upcoming {
		items = append(items, BirthdayResponse{Name: u.Name, Date: u.Date.Format("02.01.2006")})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days":      days,
		"birthdays": items,
	})
}

// ListNotes handles GET /api/notes.
//
//	@Summary		List notes with optional tag filtering
//	@Tags			notes
//	@Produce		json
//	@Param			tag	query		string	false	"Filter by tag"
//	@Success		200	{object}	map[string][]NoteResponse
//	@Security		BearerAuth
//	@Router			/notes [get]
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	if tag := strings.TrimSpace(r.URL.Query().Get("tag")); tag != "" {
		writeNotes(w, h.sess.NotesByTag(tag), false)
		return
	}
	writeNotes(w, h.sess.Notes(), true)
}

// SearchNotes handles GET /api/notes/search.
//
//	@Summary		Find notes whose text contains q, ignoring case
//	@Tags			notes
//	@Produce		json
//	@Param			q	query		string	true	"Keyword"
//	@Success		200	{object}	map[string][]NoteResponse
//	@Failure		400	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/search [get]
func (h *Handler) SearchNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	writeNotes(w, h.sess.FindNotes(q), false)
}

// CreateNote handles POST /api/notes.
//
//	@Summary		Create a note; inline #tags are merged into tags
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			body	body		NoteRequest	true	"Note"
//	@Success		201		{object}	NoteResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes [post]
func (h *Handler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req NoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("text is required"))
		return
	}
	n, idx := h.sess.AddNote(r.Context(), req.Text, req.Tags)
	writeJSON(w, http.StatusCreated, noteResponse(n, idx+1))
}

// EditNote handles PUT /api/notes/{number}.
//
//	@Summary		Replace the text of a note by its 1-based number
//	@Tags			notes
//	@Accept			json
//	@Produce		json
//	@Param			number	path		int				true	"Note number"
//	@Param			body	body		NoteEditRequest	true	"New text"
//	@Success		200		{object}	NoteResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{number} [put]
func (h *Handler) EditNote(w http.ResponseWriter, r *http.Request) {
	index, ok := noteNumber(w, r, "edit note")
	if !ok {
		return
	}
	var req NoteEditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("text is required"))
		return
	}
	n, err := h.sess.EditNote(r.Context(), index, req.Text)
	if err != nil {
		writeError(w, "edit note", err)
		return
	}
	writeJSON(w, http.StatusOK, noteResponse(n, index+1))
}

// DeleteNote handles DELETE /api/notes/{number}.
//
//	@Summary		Delete a note by its 1-based number; later notes shift down
//	@Tags			notes
//	@Param			number	path	int	true	"Note number"
//	@Success		204
//	@Failure		400	{object}	errResponse
//	@Failure		404	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/notes/{number} [delete]
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	index, ok := noteNumber(w, r, "delete note")
	if !ok {
		return
	}
	if err := h.sess.DeleteNote(r.Context(), index); err != nil {
		writeError(w, "delete note", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeNotes renders a note list. Numbers are only attached when the list is
// the full notebook, since filtered results do not map to positions.
func writeNotes(w http.ResponseWriter, list []notes.Note, numbered bool) {
	items := make([]NoteResponse, 0, len(list))
	for i, n := range list {
		number := 0
		if numbered {
			number = i + 1
		}
		items = append(items, noteResponse(n, number))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"notes": items,
		"total": len(items),
	})
}
