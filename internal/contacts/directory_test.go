package contacts

import (
	"errors"
	"strings"
	"testing"

	"github.com/starford/berkana/internal/apperr"
)

func mustRecord(t *testing.T, name string) *Record {
	t.Helper()
	r, err := NewRecord(name)
	if err != nil {
		t.Fatalf("NewRecord(%q): %v", name, err)
	}
	return r
}

func TestNewRecord_EmptyName(t *testing.T) {
	for _, name := range []string{"", "   "} {
		if _, err := NewRecord(name); !errors.Is(err, apperr.ErrInvalidFormat) {
			t.Errorf("NewRecord(%q) err = %v, want ErrInvalidFormat", name, err)
		}
	}
}

func TestRecord_Fields(t *testing.T) {
	r := mustRecord(t, "Alice")
	if err := r.AddPhone("0501234567"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddPhone("0501234567"); err != nil {
		t.Fatal(err)
	}
	if err := r.AddPhone("12"); !errors.Is(err, apperr.ErrInvalidFormat) {
		t.Errorf("AddPhone(12) err = %v", err)
	}
	if got := r.Phones(); len(got) != 2 {
		t.Errorf("phones = %v, want two duplicates", got)
	}

	if err := r.SetEmail("alice@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := r.SetEmail("broken"); err == nil {
		t.Error("expected invalid email error")
	}
	if e, ok := r.Email(); !ok || e != "alice@example.com" {
		t.Errorf("email = %q, %v; rejected value must not replace it", e, ok)
	}
	if err := r.SetEmail(""); err != nil {
		t.Fatal(err)
	}
	if _, ok := r.Email(); ok {
		t.Error("empty email should clear the value")
	}

	if err := r.SetBirthday("31.02.2024"); err == nil {
		t.Error("expected invalid birthday error")
	}
	if err := r.SetBirthday("15.08.1987"); err != nil {
		t.Fatal(err)
	}
	r.SetAddress("Kyiv")

	out := r.String()
	for _, want := range []string{"Name: Alice", "Phones: 0501234567, 0501234567", "Email: none", "Address: Kyiv", "Birthday: 15.08.1987"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}
}

func TestRecord_SetPhonesAllOrNothing(t *testing.T) {
	r := mustRecord(t, "Bob")
	_ = r.AddPhone("1111111111")
	if err := r.SetPhones("2222222222", "bad"); err == nil {
		t.Fatal("expected error")
	}
	if got := r.Phones(); len(got) != 1 || got[0] != "1111111111" {
		t.Errorf("phones = %v, want unchanged", got)
	}
	if err := r.SetPhones("3333333333"); err != nil {
		t.Fatal(err)
	}
	if got := r.Phones(); len(got) != 1 || got[0] != "3333333333" {
		t.Errorf("phones = %v", got)
	}
}

func TestDirectory_AddFindDelete(t *testing.T) {
	d := NewDirectory()
	alice := mustRecord(t, "Alice")
	d.Add(alice)

	got, ok := d.Find("Alice")
	if !ok || got != alice {
		t.Fatal("Find should return the stored record")
	}
	if _, ok := d.Find("alice"); ok {
		t.Error("lookup must be case-sensitive")
	}
	if _, ok := d.Find(" Alice"); ok {
		t.Error("lookup must not normalise")
	}

	_ = got.AddPhone("0501234567")
	again, _ := d.Find("Alice")
	if len(again.Phones()) != 1 {
		t.Error("mutation through Find should be visible in the directory")
	}

	d.Delete("Alice")
	if _, ok := d.Find("Alice"); ok {
		t.Error("Alice should be gone")
	}
	if d.Len() != 0 {
		t.Errorf("Len = %d, want 0", d.Len())
	}
}

func TestDirectory_DeleteAbsentIsNoop(t *testing.T) {
	d := NewDirectory()
	d.Add(mustRecord(t, "Bob"))
	d.Delete("Alice")
	if _, ok := d.Find("Alice"); ok {
		t.Error("Alice should not exist")
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
}

func TestDirectory_AddOverwrites(t *testing.T) {
	d := NewDirectory()
	first := mustRecord(t, "Alice")
	second := mustRecord(t, "Alice")
	_ = second.SetEmail("new@example.com")
	d.Add(first)
	d.Add(mustRecord(t, "Bob"))
	d.Add(second)

	got, _ := d.Find("Alice")
	if got != second {
		t.Error("Add should replace the existing record")
	}
	all := d.All()
	if len(all) != 2 || all[0].Name() != "Alice" || all[1].Name() != "Bob" {
		t.Errorf("order = %v, overwrite should keep original position", names(all))
	}
}

func TestDirectory_Rename(t *testing.T) {
	d := NewDirectory()
	d.Add(mustRecord(t, "Alice"))
	d.Add(mustRecord(t, "Bob"))
	d.Add(mustRecord(t, "Carol"))

	if err := d.Rename("Bob", "Robert"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, ok := d.Find("Bob"); ok {
		t.Error("old key should be gone")
	}
	r, ok := d.Find("Robert")
	if !ok || r.Name() != "Robert" {
		t.Fatalf("renamed record = %v, %v", r, ok)
	}
	if got := names(d.All()); strings.Join(got, ",") != "Alice,Robert,Carol" {
		t.Errorf("order = %v", got)
	}
	for _, rec := range d.All() {
		if found, _ := d.Find(rec.Name()); found != rec {
			t.Errorf("key/record desync for %q", rec.Name())
		}
	}
}

func TestDirectory_RenameErrors(t *testing.T) {
	d := NewDirectory()
	d.Add(mustRecord(t, "Alice"))
	d.Add(mustRecord(t, "Bob"))

	if err := d.Rename("Nobody", "X"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing source err = %v", err)
	}
	if err := d.Rename("Alice", "Bob"); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("taken target err = %v", err)
	}
	if err := d.Rename("Alice", ""); !errors.Is(err, apperr.ErrInvalidFormat) {
		t.Errorf("empty target err = %v", err)
	}
	if err := d.Rename("Alice", "Alice"); err != nil {
		t.Errorf("same-name rename err = %v", err)
	}
	if _, ok := d.Find("Alice"); !ok {
		t.Error("failed renames must leave Alice in place")
	}
}

func names(rs []*Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name()
	}
	return out
}

func TestRecord_CloneIsDetached(t *testing.T) {
	r := mustRecord(t, "Alice")
	_ = r.AddPhone("0501234567")
	_ = r.SetEmail("a@b.co")

	c := r.Clone()
	_ = c.AddPhone("0670000000")
	_ = c.SetEmail("other@b.co")
	c.SetAddress("Lviv")

	if len(r.Phones()) != 1 {
		t.Errorf("original phones = %v", r.Phones())
	}
	if e, _ := r.Email(); e != "a@b.co" {
		t.Errorf("original email = %q", e)
	}
	if _, ok := r.Address(); ok {
		t.Error("original address should stay unset")
	}
}
