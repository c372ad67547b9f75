package contacts

import (
	"github.com/starford/berkana/internal/apperr"
	"github.com/starford/berkana/internal/field"
)

// Directory is the name-keyed collection of contact records.
//
// Keys are unique and every entry satisfies record.Name() == key. Insertion
// order is remembered for listings. Directory is not safe for concurrent use.
type Directory struct {
	records map[string]*Record
	order   []string
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{records: make(map[string]*Record)}
}

// Add stores r under its name, replacing any record already stored there.
// Callers that must not overwrite check Find first.
func (d *Directory) Add(r *Record) {
	key := r.Name()
	if _, ok := d.records[key]; !ok {
		d.order = append(d.order, key)
	}
	d.records[key] = r
}

// Find looks a record up by exact, case-sensitive name.
// The returned pointer is the stored record; mutations are visible in the directory.
func (d *Directory) Find(name string) (*Record, bool) {
	r, ok := d.records[name]
	return r, ok
}

// Delete removes the named record. Deleting an absent name is a no-op.
func (d *Directory) Delete(name string) {
	if _, ok := d.records[name]; !ok {
		return
	}
	delete(d.records, name)
	for i, k := range d.order {
		if k == name {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Rename changes a record's name and its key in one step.
// The record keeps its position in the listing order.
func (d *Directory) Rename(oldName, newName string) error {
	r, ok := d.records[oldName]
	if !ok {
		return apperr.ErrNotFound
	}
	if newName == oldName {
		return nil
	}
	if _, taken := d.records[newName]; taken {
		return apperr.ErrAlreadyExists
	}
	if err := validateName(newName); err != nil {
		return err
	}

	r.name = field.NewText(newName)
	delete(d.records, oldName)
	d.records[newName] = r
	for i, k := range d.order {
		if k == oldName {
			d.order[i] = newName
			break
		}
	}
	return nil
}

// All returns the stored records in insertion order.
func (d *Directory) All() []*Record {
	out := make([]*Record, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.records[k])
	}
	return out
}

// Len returns the number of records.
func (d *Directory) Len() int { return len(d.records) }
