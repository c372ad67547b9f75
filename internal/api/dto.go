package api

import (
	"time"

	"github.com/starford/berkana/internal/contacts"
	"github.com/starford/berkana/internal/notes"
)

// ContactRequest is the request body for creating a contact.
type ContactRequest struct {
	Name     string   `json:"name" example:"Olena" validate:"required"`
	Phones   []string `json:"phones,omitempty" example:"0501234567"`
	Email    string   `json:"email,omitempty" example:"olena@example.com"`
	Address  string   `json:"address,omitempty" example:"Kyiv"`
	Birthday string   `json:"birthday,omitempty" example:"02.01.1990"`
}

// ContactPatchRequest is the request body for editing a contact.
// Omitted or empty fields are left unchanged; phones, when present, replace all numbers.
type ContactPatchRequest struct {
	Name          string   `json:"name,omitempty" example:"Olena K."`
	Phones        []string `json:"phones,omitempty"`
	Email         string   `json:"email,omitempty"`
	Address       string   `json:"address,omitempty"`
	Birthday      string   `json:"birthday,omitempty"`
	ClearBirthday bool     `json:"clear_birthday,omitempty"`
}

// ContactResponse is the API representation of a contact.
type ContactResponse struct {
	Name     string   `json:"name" validate:"required"`
	Phones   []string `json:"phones" validate:"required"`
	Email    string   `json:"email,omitempty"`
	Address  string   `json:"address,omitempty"`
	Birthday string   `json:"birthday,omitempty"`
}

// BirthdayResponse is one upcoming birthday.
type BirthdayResponse struct {
	Name string `json:"name" validate:"required"`
	Date string `json:"date" example:"02.01.2025" validate:"required"`
}

// NoteRequest is the request body for creating a note.
type NoteRequest struct {
	Text string `json:"text" example:"Buy a gift #family" validate:"required"`
	Tags string `json:"tags,omitempty" example:"family, shopping"`
}

// NoteEditRequest is the request body for replacing a note's text.
type NoteEditRequest struct {
	Text string `json:"text" validate:"required"`
}

// NoteResponse is the API representation of a note. Number is the 1-based
// position at the time of the response.
type NoteResponse struct {
	Number  int       `json:"number,omitempty"`
	ID      string    `json:"id" validate:"required"`
	Text    string    `json:"text" validate:"required"`
	Created time.Time `json:"created" validate:"required"`
	Tags    []string  `json:"tags" validate:"required"`
}

func contactResponse(r *contacts.Record) ContactResponse {
	resp := ContactResponse{Name: r.Name(), Phones: nonNilSlice(r.Phones())}
	resp.Email, _ = r.Email()
	resp.Address, _ = r.Address()
	if b, ok := r.Birthday(); ok {
		resp.Birthday = b.Raw()
	}
	return resp
}

func noteResponse(n notes.Note, number int) NoteResponse {
	return NoteResponse{
		Number:  number,
		ID:      n.ID,
		Text:    n.Text,
		Created: n.Created,
		Tags:    nonNilSlice(n.Tags),
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
