package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// FieldState distinguishes an omitted key from an explicit null.
type FieldState uint8

const (
	Absent FieldState = iota
	Null
	Present
)

// Field carries one patch attribute in one of three states.
type Field[T any] struct {
	State FieldState
	Value T
}

// Set builds a Present field.
func Set[T any](v T) Field[T] {
	return Field[T]{State: Present, Value: v}
}

// Clear builds a Null field.
func Clear[T any]() Field[T] {
	return Field[T]{State: Null}
}

func (f Field[T]) IsAbsent() bool  { return f.State == Absent }
func (f Field[T]) IsNull() bool    { return f.State == Null }
func (f Field[T]) IsPresent() bool { return f.State == Present }

// Ptr returns nil for Null, the value for Present. Callers check IsAbsent first.
func (f Field[T]) Ptr() *T {
	if f.State != Present {
		return nil
	}
	v := f.Value
	return &v
}

// CustomCoursePatch is the decoded body of a custom course update.
type CustomCoursePatch struct {
	CourseTitle   Field[string]
	TimeSlots     Field[[]TimeSlotRequest]
	CourseNumber  Field[string]
	LectureNumber Field[string]
	Credit        Field[int]
	Instructor    Field[string]
}

// Empty reports whether no recognised key was supplied.
func (p CustomCoursePatch) Empty() bool {
	return p.CourseTitle.IsAbsent() &&
		p.TimeSlots.IsAbsent() &&
		p.CourseNumber.IsAbsent() &&
		p.LectureNumber.IsAbsent() &&
		p.Credit.IsAbsent() &&
		p.Instructor.IsAbsent()
}

// PatchDecodeError reports a malformed patch body or a mistyped field.
type PatchDecodeError struct {
	Field string
	Err   error
}

func (e *PatchDecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid patch body: %v", e.Err)
	}
	return fmt.Sprintf("invalid value for %s: %v", e.Field, e.Err)
}

func (e *PatchDecodeError) Unwrap() error { return e.Err }

var errNotObject = errors.New("body must be a JSON object")

// ParseCustomCoursePatch decodes a raw JSON object keeping key presence.
// Unknown keys are ignored.
func ParseCustomCoursePatch(body []byte) (CustomCoursePatch, error) {
	var patch CustomCoursePatch

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return patch, &PatchDecodeError{Err: errNotObject}
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return patch, &PatchDecodeError{Err: err}
	}

	var err error
	if patch.CourseTitle, err = decodeField[string](raw, "courseTitle"); err != nil {
		return patch, err
	}
	if patch.TimeSlots, err = decodeField[[]TimeSlotRequest](raw, "timeSlots"); err != nil {
		return patch, err
	}
	if patch.CourseNumber, err = decodeField[string](raw, "courseNumber"); err != nil {
		return patch, err
	}
	if patch.LectureNumber, err = decodeField[string](raw, "lectureNumber"); err != nil {
		return patch, err
	}
	if patch.Credit, err = decodeField[int](raw, "credit"); err != nil {
		return patch, err
	}
	if patch.Instructor, err = decodeField[string](raw, "instructor"); err != nil {
		return patch, err
	}
	return patch, nil
}

func decodeField[T any](raw map[string]json.RawMessage, key string) (Field[T], error) {
	msg, ok := raw[key]
	if !ok {
		return Field[T]{}, nil
	}
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return Clear[T](), nil
	}
	var v T
	if err := json.Unmarshal(msg, &v); err != nil {
		return Field[T]{}, &PatchDecodeError{Field: key, Err: err}
	}
	return Set(v), nil
}
