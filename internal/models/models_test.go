package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeSlotOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b TimeSlot
		want bool
	}{
		{"identical", TimeSlot{Monday, 540, 615}, TimeSlot{Monday, 540, 615}, true},
		{"partial", TimeSlot{Monday, 540, 615}, TimeSlot{Monday, 600, 700}, true},
		{"contained", TimeSlot{Monday, 540, 700}, TimeSlot{Monday, 600, 610}, true},
		{"touching end", TimeSlot{Monday, 540, 615}, TimeSlot{Monday, 615, 690}, false},
		{"touching start", TimeSlot{Monday, 615, 690}, TimeSlot{Monday, 540, 615}, false},
		{"disjoint", TimeSlot{Monday, 540, 600}, TimeSlot{Monday, 700, 760}, false},
		{"different day", TimeSlot{Monday, 540, 615}, TimeSlot{Tuesday, 540, 615}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a))
		})
	}
}

func TestTimeSlotOverlapsMatchesFormula(t *testing.T) {
	for aStart := 0; aStart < 6; aStart++ {
		for aEnd := aStart + 1; aEnd <= 6; aEnd++ {
			for bStart := 0; bStart < 6; bStart++ {
				for bEnd := bStart + 1; bEnd <= 6; bEnd++ {
					a := TimeSlot{Friday, aStart, aEnd}
					b := TimeSlot{Friday, bStart, bEnd}
					assert.Equal(t, aStart < bEnd && bStart < aEnd, a.Overlaps(b))
				}
			}
		}
	}
}

func TestParseSemester(t *testing.T) {
	s, ok := ParseSemester(" fall ")
	assert.True(t, ok)
	assert.Equal(t, SemesterFall, s)

	_, ok = ParseSemester("AUTUMN")
	assert.False(t, ok)
}

func TestTermWindow(t *testing.T) {
	first, last := SemesterWinter.TermWindow(2023)
	assert.Equal(t, time.Date(2023, time.December, 22, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), last)

	first, last = SemesterSpring.TermWindow(2024)
	assert.Equal(t, time.March, first.Month())
	assert.Equal(t, 21, last.Day())

	first, _ = Semester("BOGUS").TermWindow(2024)
	assert.True(t, first.IsZero())
}

func TestDayOfWeek(t *testing.T) {
	assert.True(t, Sunday.Valid())
	assert.False(t, DayOfWeek("FUN").Valid())
	assert.Equal(t, time.Wednesday, Wednesday.Weekday())
	assert.Len(t, Weekdays, 7)
}

func TestCourseEditable(t *testing.T) {
	assert.True(t, Course{Origin: CourseOriginCustom}.Editable())
	assert.False(t, Course{Origin: CourseOriginCrawled}.Editable())
}

func TestJWTClaimsIdentity(t *testing.T) {
	c := &JWTClaims{}
	c.Subject = "sub-1"
	assert.Equal(t, "sub-1", c.Identity())
	c.UserID = "user-1"
	assert.Equal(t, "user-1", c.Identity())
	var nilClaims *JWTClaims
	assert.Empty(t, nilClaims.Identity())
}
