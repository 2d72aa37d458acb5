package dto

import "github.com/noah-isme/campus-timetable-api/internal/models"

// TimeSlotRequest is a weekly slot as sent by clients.
type TimeSlotRequest struct {
	DayOfWeek   string `json:"dayOfWeek" validate:"required,oneof=MON TUE WED THU FRI SAT SUN"`
	StartMinute int    `json:"startMinute" validate:"min=0,max=1439"`
	EndMinute   int    `json:"endMinute" validate:"min=1,max=1440,gtfield=StartMinute"`
}

// Slot converts the request into the domain value.
func (r TimeSlotRequest) Slot() models.TimeSlot {
	return models.TimeSlot{
		DayOfWeek:   models.DayOfWeek(r.DayOfWeek),
		StartMinute: r.StartMinute,
		EndMinute:   r.EndMinute,
	}
}

// Slots converts a request slice.
func Slots(reqs []TimeSlotRequest) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Slot())
	}
	return out
}

// Custom course limits. The validate tags on CreateCustomCourseRequest carry the same values.
const (
	MaxCourseTitleLength   = 200
	MaxTimeSlots           = 32
	MaxCourseNumberLength  = 50
	MaxLectureNumberLength = 50
	MaxCredit              = 100
	MaxInstructorLength    = 100
)

// CreateCustomCourseRequest creates a user-authored course and enrolls it.
type CreateCustomCourseRequest struct {
	Year          int               `json:"year" validate:"required,min=1,max=9999"`
	Semester      string            `json:"semester" validate:"required"`
	CourseTitle   string            `json:"courseTitle" validate:"required,max=200"`
	TimeSlots     []TimeSlotRequest `json:"timeSlots" validate:"required,min=1,max=32,dive"`
	CourseNumber  *string           `json:"courseNumber" validate:"omitempty,max=50"`
	LectureNumber *string           `json:"lectureNumber" validate:"omitempty,max=50"`
	Credit        *int              `json:"credit" validate:"omitempty,min=0,max=100"`
	Instructor    *string           `json:"instructor" validate:"omitempty,max=100"`
}

// EnrollCourseRequest attaches an existing catalog course to a timetable.
type EnrollCourseRequest struct {
	CourseID int64 `json:"courseId" validate:"required,min=1"`
}

// ListCoursesQuery selects the catalog term.
type ListCoursesQuery struct {
	Year     int    `form:"year" validate:"required,min=1,max=9999"`
	Semester string `form:"semester" validate:"required"`
}
