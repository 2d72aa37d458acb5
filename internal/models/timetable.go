package models

import (
	"strings"
	"time"
)

// Semester identifies the academic term within a year.
type Semester string

const (
	SemesterSpring Semester = "SPRING"
	SemesterSummer Semester = "SUMMER"
	SemesterFall   Semester = "FALL"
	SemesterWinter Semester = "WINTER"
)

// Valid reports whether s is one of the known semesters.
func (s Semester) Valid() bool {
	switch s {
	case SemesterSpring, SemesterSummer, SemesterFall, SemesterWinter:
		return true
	}
	return false
}

// ParseSemester accepts any letter case and surrounding whitespace.
func ParseSemester(raw string) (Semester, bool) {
	s := Semester(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// TermWindow returns the first and last calendar day of the term. WINTER runs into the next year.
func (s Semester) TermWindow(year int) (time.Time, time.Time) {
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }
	switch s {
	case SemesterSpring:
		return day(year, time.March, 1), day(year, time.June, 21)
	case SemesterSummer:
		return day(year, time.June, 22), day(year, time.August, 31)
	case SemesterFall:
		return day(year, time.September, 1), day(year, time.December, 21)
	case SemesterWinter:
		// day 0 of March is the last day of February.
		return day(year, time.December, 22), day(year+1, time.March, 0)
	}
	return time.Time{}, time.Time{}
}

// Timetable is a named, term-scoped schedule owned by exactly one user.
type Timetable struct {
	ID        int64     `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Year      int       `db:"year" json:"year"`
	Semester  Semester  `db:"semester" json:"semester"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// TimetableFilter narrows a user's timetable listing. Nil fields are not applied.
type TimetableFilter struct {
	Year     *int
	Semester *Semester
}
