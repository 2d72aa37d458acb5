package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

const courseColumns = `id, year, semester, course_title, origin, user_id, course_number, lecture_number, credit, instructor, created_at, updated_at`

// CourseRepository persists course metadata. Visibility is CRAWLED courses plus the caller's own.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a course and fills its generated fields.
func (r *CourseRepository) Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error {
	query := fmt.Sprintf(`INSERT INTO courses (year, semester, course_title, origin, user_id, course_number, lecture_number, credit, instructor)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING %s`, courseColumns)
	if err := sqlx.GetContext(ctx, r.exec(exec), course, query,
		course.Year, course.Semester, course.CourseTitle, course.Origin, course.UserID,
		course.CourseNumber, course.LectureNumber, course.Credit, course.Instructor,
	); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindVisible returns a course the user may enroll: any CRAWLED course or one of their CUSTOM courses.
func (r *CourseRepository) FindVisible(ctx context.Context, exec sqlx.ExtContext, id int64, userID string) (*models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses
WHERE id = $1 AND (origin = 'CRAWLED' OR user_id = $2)`, courseColumns)
	var course models.Course
	if err := sqlx.GetContext(ctx, r.exec(exec), &course, query, id, userID); err != nil {
		return nil, err
	}
	return &course, nil
}

// LockCustom locks a CUSTOM course owned by userID for the rest of the transaction.
// Returns sql.ErrNoRows when the course is missing, crawled or owned by someone else.
func (r *CourseRepository) LockCustom(ctx context.Context, tx sqlx.ExtContext, id int64, userID string) error {
	const query = `SELECT id FROM courses WHERE id = $1 AND user_id = $2 AND origin = 'CUSTOM' FOR UPDATE`
	var locked int64
	return sqlx.GetContext(ctx, r.exec(tx), &locked, query, id, userID)
}

// ListVisible returns the catalog for a term as seen by userID.
func (r *CourseRepository) ListVisible(ctx context.Context, userID string, filter models.CourseFilter) ([]models.Course, error) {
	query := fmt.Sprintf(`SELECT %s FROM courses
WHERE year = $1 AND semester = $2 AND (origin = 'CRAWLED' OR user_id = $3)
ORDER BY course_title ASC, id ASC`, courseColumns)
	courses := []models.Course{}
	if err := sqlx.SelectContext(ctx, r.db, &courses, query, filter.Year, filter.Semester, userID); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// UpdateCustom writes the mutable fields of a CUSTOM course owned by userID and refreshes UpdatedAt.
// Returns sql.ErrNoRows when the course is missing, not custom or owned by someone else.
func (r *CourseRepository) UpdateCustom(ctx context.Context, exec sqlx.ExtContext, course *models.Course, userID string) error {
	const query = `UPDATE courses
SET course_title = $3, course_number = $4, lecture_number = $5, credit = $6, instructor = $7, updated_at = NOW()
WHERE id = $1 AND user_id = $2 AND origin = 'CUSTOM'
RETURNING updated_at`
	err := sqlx.GetContext(ctx, r.exec(exec), &course.UpdatedAt, query,
		course.ID, userID, course.CourseTitle, course.CourseNumber, course.LectureNumber, course.Credit, course.Instructor,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return nil
}
