package storage

import (
	"fmt"

	"github.com/starford/berkana/internal/contacts"
	"github.com/starford/berkana/internal/notes"
)

// contactDoc is the persisted shape of a contact record.
type contactDoc struct {
	Name     string   `yaml:"name"`
	Phones   []string `yaml:"phones,omitempty"`
	Email    string   `yaml:"email,omitempty"`
	Address  string   `yaml:"address,omitempty"`
	Birthday string   `yaml:"birthday,omitempty"`
}

type contactsFile struct {
	Contacts []contactDoc `yaml:"contacts"`
}

type notesFile struct {
	Notes []*notes.Note `yaml:"notes"`
}

func toContactDocs(dir *contacts.Directory) []contactDoc {
	docs := make([]contactDoc, 0, dir.Len())
	for _, r := range dir.All() {
		doc := contactDoc{Name: r.Name(), Phones: r.Phones()}
		doc.Email, _ = r.Email()
		doc.Address, _ = r.Address()
		if b, ok := r.Birthday(); ok {
			doc.Birthday = b.Raw()
		}
		docs = append(docs, doc)
	}
	return docs
}

// fromContactDocs rebuilds a directory, running every value through the
// field rules again so a hand-edited snapshot cannot smuggle in bad data.
func fromContactDocs(docs []contactDoc) (*contacts.Directory, error) {
	dir := contacts.NewDirectory()
	for i, doc := range docs {
		r, err := contactFromDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("contact #%d (%q): %w", i+1, doc.Name, err)
		}
		if _, dup := dir.Find(r.Name()); dup {
			return nil, fmt.Errorf("contact #%d: duplicate name %q", i+1, doc.Name)
		}
		dir.Add(r)
	}
	return dir, nil
}

func contactFromDoc(doc contactDoc) (*contacts.Record, error) {
	r, err := contacts.NewRecord(doc.Name)
	if err != nil {
		return nil, err
	}
	if err := r.SetPhones(doc.Phones...); err != nil {
		return nil, err
	}
	if err := r.SetEmail(doc.Email); err != nil {
		return nil, err
	}
	r.SetAddress(doc.Address)
	if doc.Birthday != "" {
		if err := r.SetBirthday(doc.Birthday); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func fromNotes(list []*notes.Note, opts ...notes.Option) *notes.Notebook {
	nb := notes.New(opts...)
	for _, n := range list {
		if n == nil {
			continue
		}
		nb.Restore(n)
	}
	return nb
}
