package models

import "time"

// MinutesPerDay bounds minute-of-day offsets.
const MinutesPerDay = 24 * 60

// CourseOrigin tells user-authored courses apart from catalog imports.
type CourseOrigin string

const (
	CourseOriginCustom  CourseOrigin = "CUSTOM"
	CourseOriginCrawled CourseOrigin = "CRAWLED"
)

// DayOfWeek is the weekday a slot recurs on.
type DayOfWeek string

const (
	Monday    DayOfWeek = "MON"
	Tuesday   DayOfWeek = "TUE"
	Wednesday DayOfWeek = "WED"
	Thursday  DayOfWeek = "THU"
	Friday    DayOfWeek = "FRI"
	Saturday  DayOfWeek = "SAT"
	Sunday    DayOfWeek = "SUN"
)

// Weekdays lists every day in display order.
var Weekdays = []DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var stdWeekdays = map[DayOfWeek]time.Weekday{
	Monday:    time.Monday,
	Tuesday:   time.Tuesday,
	Wednesday: time.Wednesday,
	Thursday:  time.Thursday,
	Friday:    time.Friday,
	Saturday:  time.Saturday,
	Sunday:    time.Sunday,
}

// Valid reports whether d is one of MON..SUN.
func (d DayOfWeek) Valid() bool {
	_, ok := stdWeekdays[d]
	return ok
}

// Weekday converts to the standard library weekday.
func (d DayOfWeek) Weekday() time.Weekday {
	return stdWeekdays[d]
}

// Course is a subject that can be enrolled into timetables.
type Course struct {
	ID            int64        `db:"id" json:"id"`
	Year          int          `db:"year" json:"year"`
	Semester      Semester     `db:"semester" json:"semester"`
	CourseTitle   string       `db:"course_title" json:"courseTitle"`
	Origin        CourseOrigin `db:"origin" json:"origin"`
	UserID        *string      `db:"user_id" json:"-"`
	CourseNumber  *string      `db:"course_number" json:"courseNumber,omitempty"`
	LectureNumber *string      `db:"lecture_number" json:"lectureNumber,omitempty"`
	Credit        *int         `db:"credit" json:"credit,omitempty"`
	Instructor    *string      `db:"instructor" json:"instructor,omitempty"`
	CreatedAt     time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time    `db:"updated_at" json:"updatedAt"`
}

// Editable reports whether the enrollment-editing path may change the course.
func (c Course) Editable() bool {
	return c.Origin == CourseOriginCustom
}

// TimeSlot is a weekly recurring half-open minute range [StartMinute, EndMinute).
type TimeSlot struct {
	DayOfWeek   DayOfWeek `db:"day_of_week" json:"dayOfWeek"`
	StartMinute int       `db:"start_minute" json:"startMinute"`
	EndMinute   int       `db:"end_minute" json:"endMinute"`
}

// Overlaps reports whether both slots share a day and intersect. Touching endpoints do not overlap.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.DayOfWeek == other.DayOfWeek && s.StartMinute < other.EndMinute && other.StartMinute < s.EndMinute
}

// CourseTimeSlot is a persisted slot owned by a course.
type CourseTimeSlot struct {
	ID       int64 `db:"id" json:"-"`
	CourseID int64 `db:"course_id" json:"-"`
	TimeSlot
}

// CourseDetail composes a course with its slots in insertion order.
type CourseDetail struct {
	Course
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// CourseFilter narrows the course catalog.
type CourseFilter struct {
	Year     int
	Semester Semester
}
