package contacts

import (
	"fmt"
	"time"

	"github.com/starford/berkana/internal/field"
)

// Upcoming is one match of an upcoming-birthday query.
type Upcoming struct {
	Name string
	// Date is the occurrence of the birthday inside the query window.
	Date time.Time
}

func (u Upcoming) String() string {
	return fmt.Sprintf("%s: %s", u.Name, u.Date.Format(field.DateLayout))
}

// UpcomingBirthdays returns contacts whose next birthday falls within
// daysAhead days of today, today included. A negative window matches nothing.
// Results follow directory order; callers must not rely on any sorting.
func (d *Directory) UpcomingBirthdays(today time.Time, daysAhead int) []Upcoming {
	if daysAhead < 0 {
		return nil
	}
	start := calendarDay(today)

	var out []Upcoming
	for _, r := range d.All() {
		b, ok := r.Birthday()
		if !ok {
			continue
		}
		born, _ := b.Date()
		next := NextOccurrence(born, start)
		if daysBetween(start, next) <= daysAhead {
			out = append(out, Upcoming{Name: r.Name(), Date: next})
		}
	}
	return out
}

// NextOccurrence returns the first anniversary of born that is not before today.
// In non-leap years a 29 February birthday occurs on 28 February.
func NextOccurrence(born, today time.Time) time.Time {
	start := calendarDay(today)
	occ := anniversary(born, start.Year())
	if occ.Before(start) {
		occ = anniversary(born, start.Year()+1)
	}
	return occ
}

func anniversary(born time.Time, year int) time.Time {
	month, day := born.Month(), born.Day()
	if month == time.February && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// calendarDay drops the clock and zone of t, keeping its local calendar date.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
