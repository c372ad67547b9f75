// Package contacts implements contact records, the name-keyed directory and
// the upcoming-birthday query.
package contacts

import (
	"fmt"
	"strings"

	"github.com/starford/berkana/internal/apperr"
	"github.com/starford/berkana/internal/field"
)

// none is displayed in place of a missing value.
const none = "none"

// Record is one contact. Optional values are nil when unset.
type Record struct {
	name     field.Field
	phones   []field.Field
	email    *field.Field
	address  *field.Field
	birthday *field.Field
}

// NewRecord creates a record with the given name and no other data.
func NewRecord(name string) (*Record, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Record{name: field.NewText(name)}, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return apperr.Invalid("name", "name must not be empty")
	}
	return nil
}

// Clone returns a deep copy that shares no state with r.
func (r *Record) Clone() *Record {
	c := &Record{name: r.name, phones: append([]field.Field(nil), r.phones...)}
	if r.email != nil {
		e := *r.email
		c.email = &e
	}
	if r.address != nil {
		a := *r.address
		c.address = &a
	}
	if r.birthday != nil {
		b := *r.birthday
		c.birthday = &b
	}
	return c
}

// Name returns the identity key of the record.
func (r *Record) Name() string { return r.name.Raw() }

// Phones returns a copy of the phone numbers in insertion order.
func (r *Record) Phones() []string {
	out := make([]string, len(r.phones))
	for i, p := range r.phones {
		out[i] = p.Raw()
	}
	return out
}

// Email returns the email address and whether one is set.
func (r *Record) Email() (string, bool) { return optional(r.email) }

// Address returns the postal address and whether one is set.
func (r *Record) Address() (string, bool) { return optional(r.address) }

// Birthday returns the birthday field and whether one is set.
func (r *Record) Birthday() (field.Field, bool) {
	if r.birthday == nil {
		return field.Field{}, false
	}
	return *r.birthday, true
}

// AddPhone appends a validated phone number. Duplicates are kept.
func (r *Record) AddPhone(raw string) error {
	p, err := field.NewPhone(raw)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// SetPhones replaces all phone numbers. Nothing changes unless every value is valid.
func (r *Record) SetPhones(raws ...string) error {
	phones := make([]field.Field, 0, len(raws))
	for _, raw := range raws {
		p, err := field.NewPhone(raw)
		if err != nil {
			return err
		}
		phones = append(phones, p)
	}
	r.phones = phones
	return nil
}

// SetEmail validates and stores an email address. An empty value clears it.
func (r *Record) SetEmail(raw string) error {
	e, err := field.NewEmail(raw)
	if err != nil {
		return err
	}
	if e.IsZero() {
		r.email = nil
		return nil
	}
	r.email = &e
	return nil
}

// SetAddress stores a free-form address. An empty value clears it.
func (r *Record) SetAddress(raw string) {
	if raw == "" {
		r.address = nil
		return
	}
	a := field.NewText(raw)
	r.address = &a
}

// SetBirthday validates and stores a DD.MM.YYYY birthday.
func (r *Record) SetBirthday(raw string) error {
	b, err := field.NewDate(raw)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// ClearBirthday removes the birthday.
func (r *Record) ClearBirthday() { r.birthday = nil }

func (r *Record) String() string {
	phones := strings.Join(r.Phones(), ", ")
	if phones == "" {
		phones = none
	}
	email, _ := r.Email()
	address, _ := r.Address()
	var birthday string
	if b, ok := r.Birthday(); ok {
		birthday = b.Raw()
	}
	return fmt.Sprintf("Name: %s\nPhones: %s\nEmail: %s\nAddress: %s\nBirthday: %s",
		r.Name(), phones, orNone(email), orNone(address), orNone(birthday))
}

func optional(f *field.Field) (string, bool) {
	if f == nil {
		return "", false
	}
	return f.Raw(), true
}

func orNone(s string) string {
	if s == "" {
		return none
	}
	return s
}
