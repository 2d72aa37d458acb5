package dto

// CreateTimetableRequest creates a named timetable for a term.
type CreateTimetableRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Year     int    `json:"year" validate:"required,min=1,max=9999"`
	Semester string `json:"semester" validate:"required"`
}

// RenameTimetableRequest is the only supported timetable update.
type RenameTimetableRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ListTimetablesQuery carries the optional term filters.
type ListTimetablesQuery struct {
	Year     *int   `form:"year" validate:"omitempty,min=1,max=9999"`
	Semester string `form:"semester"`
}
