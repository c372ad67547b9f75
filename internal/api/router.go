package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/berkana/internal/session"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// defaultDays is used by GET /birthdays when ?days is absent.
func NewRouter(sess *session.Session, authEnabled bool, token string, sseHandler http.Handler, defaultDays int) chi.Router {
	h := NewHandler(sess, defaultDays)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Contacts.
	r.Get("/contacts", h.ListContacts)
	r.Post("/contacts", h.CreateContact)
	r.Get("/contacts/{name}", h.GetContact)
	r.Patch("/contacts/{name}", h.EditContact)
	r.Delete("/contacts/{name}", h.DeleteContact)

	// Birthdays.
	r.Get("/birthdays", h.UpcomingBirthdays)

	// Notes.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/search", h.SearchNotes)
	r.Put("/notes/{number}", h.EditNote)
	r.Delete("/notes/{number}", h.DeleteNote)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
