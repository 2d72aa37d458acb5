package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

const enrollmentCourseSelect = `SELECT e.id AS enrollment_id, e.timetable_id,
       c.id, c.year, c.semester, c.course_title, c.origin, c.user_id, c.course_number,
       c.lecture_number, c.credit, c.instructor, c.created_at, c.updated_at
FROM enrollments e
JOIN timetables t ON t.id = e.timetable_id
JOIN courses c ON c.id = e.course_id`

const uniqueViolation = "23505"

// ErrDuplicateEnrollment signals the course is already on the timetable.
var ErrDuplicateEnrollment = errors.New("course already enrolled in timetable")

// EnrollmentRepository persists timetable/course associations. Reads join the owning timetable.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByTimetable returns the enrollments of an owned timetable joined with their courses, newest first.
func (r *EnrollmentRepository) ListByTimetable(ctx context.Context, exec sqlx.ExtContext, timetableID int64, userID string) ([]models.EnrollmentCourse, error) {
	query := enrollmentCourseSelect + `
WHERE e.timetable_id = $1 AND t.user_id = $2
ORDER BY e.id DESC`
	rows := []models.EnrollmentCourse{}
	if err := sqlx.SelectContext(ctx, r.exec(exec), &rows, query, timetableID, userID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return rows, nil
}

// FindInTimetable returns one enrollment scoped by (id, timetable, owner), otherwise sql.ErrNoRows.
func (r *EnrollmentRepository) FindInTimetable(ctx context.Context, exec sqlx.ExtContext, id, timetableID int64, userID string) (*models.EnrollmentCourse, error) {
	query := enrollmentCourseSelect + `
WHERE e.id = $1 AND e.timetable_id = $2 AND t.user_id = $3`
	var row models.EnrollmentCourse
	if err := sqlx.GetContext(ctx, r.exec(exec), &row, query, id, timetableID, userID); err != nil {
		return nil, err
	}
	return &row, nil
}

// ListCourseIDs returns the courses enrolled in an owned timetable, skipping excludeCourseID when non-zero.
func (r *EnrollmentRepository) ListCourseIDs(ctx context.Context, exec sqlx.ExtContext, timetableID int64, userID string, excludeCourseID int64) ([]int64, error) {
	const query = `SELECT e.course_id
FROM enrollments e
JOIN timetables t ON t.id = e.timetable_id
WHERE e.timetable_id = $1 AND t.user_id = $2 AND e.course_id <> $3
ORDER BY e.id ASC`
	ids := []int64{}
	if err := sqlx.SelectContext(ctx, r.exec(exec), &ids, query, timetableID, userID, excludeCourseID); err != nil {
		return nil, fmt.Errorf("list enrolled courses: %w", err)
	}
	return ids, nil
}

// CountByCourse returns how many timetables the course is enrolled in.
func (r *EnrollmentRepository) CountByCourse(ctx context.Context, exec sqlx.ExtContext, courseID int64) (int, error) {
	const query = `SELECT COUNT(*) FROM enrollments WHERE course_id = $1`
	var count int
	if err := sqlx.GetContext(ctx, r.exec(exec), &count, query, courseID); err != nil {
		return 0, fmt.Errorf("count course enrollments: %w", err)
	}
	return count, nil
}

// Create inserts an enrollment. A second enrollment of the same course yields ErrDuplicateEnrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (timetable_id, course_id)
VALUES ($1, $2)
RETURNING id, timetable_id, course_id, created_at`
	if err := sqlx.GetContext(ctx, r.exec(exec), enrollment, query, enrollment.TimetableID, enrollment.CourseID); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEnrollment
		}
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment scoped by (id, timetable, owner). Returns sql.ErrNoRows when nothing matched.
func (r *EnrollmentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id, timetableID int64, userID string) error {
	const query = `DELETE FROM enrollments e
USING timetables t
WHERE e.id = $1 AND e.timetable_id = $2 AND t.id = e.timetable_id AND t.user_id = $3`
	res, err := r.exec(exec).ExecContext(ctx, query, id, timetableID, userID)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("enrollment rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
