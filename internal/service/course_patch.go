package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

// coursePatchResult is the outcome of applying a patch to a course.
type coursePatchResult struct {
	course       models.Course
	slots        []models.TimeSlot
	replaceSlots bool
}

// interpretCoursePatch applies absent/null/value semantics to a copy of current.
// Required fields reject null; optional fields clear on null.
func interpretCoursePatch(current models.Course, patch dto.CustomCoursePatch) (coursePatchResult, error) {
	result := coursePatchResult{course: current}
	if patch.Empty() {
		return result, appErrors.Clone(appErrors.ErrInvalidRequest, "empty patch")
	}

	switch patch.CourseTitle.State {
	case dto.Null:
		return result, appErrors.Clone(appErrors.ErrInvalidRequest, "courseTitle cannot be null")
	case dto.Present:
		title := strings.TrimSpace(patch.CourseTitle.Value)
		if title == "" {
			return result, appErrors.Clone(appErrors.ErrInvalidRequest, "courseTitle cannot be blank")
		}
		if utf8.RuneCountInString(title) > dto.MaxCourseTitleLength {
			return result, tooLong("courseTitle", dto.MaxCourseTitleLength)
		}
		result.course.CourseTitle = title
	}

	switch patch.TimeSlots.State {
	case dto.Null:
		return result, appErrors.Clone(appErrors.ErrInvalidRequest, "timeSlots cannot be null")
	case dto.Present:
		if len(patch.TimeSlots.Value) > dto.MaxTimeSlots {
			return result, appErrors.Clone(appErrors.ErrInvalidRequest, fmt.Sprintf("timeSlots cannot have more than %d entries", dto.MaxTimeSlots))
		}
		slots := dto.Slots(patch.TimeSlots.Value)
		if err := validateSlots(slots); err != nil {
			return result, err
		}
		result.slots = slots
		result.replaceSlots = true
	}

	if patch.Credit.IsPresent() {
		switch {
		case patch.Credit.Value < 0:
			return result, appErrors.Clone(appErrors.ErrInvalidRequest, "credit cannot be negative")
		case patch.Credit.Value > dto.MaxCredit:
			return result, appErrors.Clone(appErrors.ErrInvalidRequest, fmt.Sprintf("credit cannot exceed %d", dto.MaxCredit))
		}
	}
	for _, limit := range []struct {
		name  string
		field dto.Field[string]
		max   int
	}{
		{"courseNumber", patch.CourseNumber, dto.MaxCourseNumberLength},
		{"lectureNumber", patch.LectureNumber, dto.MaxLectureNumberLength},
		{"instructor", patch.Instructor, dto.MaxInstructorLength},
	} {
		if limit.field.IsPresent() && utf8.RuneCountInString(limit.field.Value) > limit.max {
			return result, tooLong(limit.name, limit.max)
		}
	}

	applyOptional(&result.course.CourseNumber, patch.CourseNumber)
	applyOptional(&result.course.LectureNumber, patch.LectureNumber)
	applyOptional(&result.course.Credit, patch.Credit)
	applyOptional(&result.course.Instructor, patch.Instructor)
	return result, nil
}

func tooLong(field string, max int) error {
	return appErrors.Clone(appErrors.ErrInvalidRequest, fmt.Sprintf("%s cannot exceed %d characters", field, max))
}

func applyOptional[T any](target **T, field dto.Field[T]) {
	if field.IsAbsent() {
		return
	}
	*target = field.Ptr()
}
