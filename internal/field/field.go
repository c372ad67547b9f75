// Package field implements validated contact field values.
//
// A Field wraps the raw string the user typed together with the rule it was
// checked against. Fields are immutable; replacing a value means building a
// new Field.
package field

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/berkana/internal/apperr"
)

// DateLayout is the textual birthday format (DD.MM.YYYY).
const DateLayout = "02.01.2006"

// Kind selects the validation rule attached to a Field.
type Kind int

const (
	KindText Kind = iota
	KindPhone
	KindEmail
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindPhone:
		return "phone"
	case KindEmail:
		return "email"
	case KindDate:
		return "birthday"
	default:
		return "text"
	}
}

var (
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
	emailRe = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	dateRe  = regexp.MustCompile(`^[0-9]{2}\.[0-9]{2}\.[0-9]{4}$`)
)

type rule struct {
	rules  []validation.Rule
	reason string
}

// Empty values skip ozzo's Match and Date rules, so kinds that must not be
// empty carry an explicit Required.
var rules = map[Kind]rule{
	KindText: {},
	KindPhone: {
		rules:  []validation.Rule{validation.Required, validation.Match(phoneRe)},
		reason: "phone must contain exactly 10 digits",
	},
	KindEmail: {
		rules:  []validation.Rule{validation.Match(emailRe)},
		reason: "email must look like local@domain.tld",
	},
	KindDate: {
		rules: []validation.Rule{
			validation.Required,
			validation.Match(dateRe),
			validation.Date(DateLayout),
		},
		reason: "date must be a real calendar day in DD.MM.YYYY format",
	},
}

// Field is a raw value that passed its kind's validation rule.
type Field struct {
	kind Kind
	raw  string
	date time.Time
}

// New validates raw against kind's rule.
// A rejected value yields an error matching apperr.ErrInvalidFormat.
func New(kind Kind, raw string) (Field, error) {
	r, ok := rules[kind]
	if !ok {
		return Field{}, apperr.Invalid(kind.String(), "unknown field kind")
	}
	if err := validation.Validate(raw, r.rules...); err != nil {
		return Field{}, apperr.Invalid(kind.String(), r.reason)
	}

	f := Field{kind: kind, raw: raw}
	if kind == KindDate {
		d, err := time.Parse(DateLayout, raw)
		if err != nil {
			return Field{}, apperr.Invalid(kind.String(), r.reason)
		}
		f.date = d
	}
	return f, nil
}

// NewText wraps an unconstrained value.
func NewText(raw string) Field {
	return Field{kind: KindText, raw: raw}
}

// NewPhone validates a 10-digit phone number.
func NewPhone(raw string) (Field, error) { return New(KindPhone, raw) }

// NewEmail validates an email address. The empty string is accepted and means unset.
func NewEmail(raw string) (Field, error) { return New(KindEmail, raw) }

// NewDate validates a DD.MM.YYYY calendar date.
func NewDate(raw string) (Field, error) { return New(KindDate, raw) }

// Kind reports which rule the value was validated against.
func (f Field) Kind() Kind { return f.kind }

// Raw returns the value exactly as it was supplied.
func (f Field) Raw() string { return f.raw }

func (f Field) String() string { return f.raw }

// IsZero reports whether the field holds an empty value.
func (f Field) IsZero() bool { return f.raw == "" }

// Date returns the parsed calendar date (midnight UTC) of a KindDate field.
func (f Field) Date() (time.Time, bool) {
	if f.kind != KindDate {
		return time.Time{}, false
	}
	return f.date, true
}
