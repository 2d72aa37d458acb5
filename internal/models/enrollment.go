package models

import "time"

// Enrollment places one course on one timetable.
type Enrollment struct {
	ID          int64     `db:"id" json:"id"`
	TimetableID int64     `db:"timetable_id" json:"timetableId"`
	CourseID    int64     `db:"course_id" json:"courseId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// EnrollmentCourse is an enrollment row joined with its course.
type EnrollmentCourse struct {
	EnrollmentID int64 `db:"enrollment_id"`
	TimetableID  int64 `db:"timetable_id"`
	Course
}

// EnrollmentDetail is the composed enrollment view returned to clients.
type EnrollmentDetail struct {
	EnrollID int64        `json:"enrollId"`
	Course   CourseDetail `json:"course"`
}
