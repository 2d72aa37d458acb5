package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

// CourseTimeSlotRepository persists the weekly slots a course owns.
type CourseTimeSlotRepository struct {
	db *sqlx.DB
}

// NewCourseTimeSlotRepository constructs the repository.
func NewCourseTimeSlotRepository(db *sqlx.DB) *CourseTimeSlotRepository {
	return &CourseTimeSlotRepository{db: db}
}

func (r *CourseTimeSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListByCourseIDs fetches the slots of many courses in one round trip, grouped by course id.
func (r *CourseTimeSlotRepository) ListByCourseIDs(ctx context.Context, exec sqlx.ExtContext, courseIDs []int64) (map[int64][]models.TimeSlot, error) {
	grouped := make(map[int64][]models.TimeSlot, len(courseIDs))
	if len(courseIDs) == 0 {
		return grouped, nil
	}
	const query = `SELECT id, course_id, day_of_week, start_minute, end_minute
FROM course_time_slots WHERE course_id = ANY($1) ORDER BY course_id ASC, id ASC`
	var rows []models.CourseTimeSlot
	if err := sqlx.SelectContext(ctx, r.exec(exec), &rows, query, pq.Array(courseIDs)); err != nil {
		return nil, fmt.Errorf("list course time slots: %w", err)
	}
	for _, row := range rows {
		grouped[row.CourseID] = append(grouped[row.CourseID], row.TimeSlot)
	}
	return grouped, nil
}

// DeleteByCourse removes every slot of a course.
func (r *CourseTimeSlotRepository) DeleteByCourse(ctx context.Context, exec sqlx.ExtContext, courseID int64) error {
	const query = `DELETE FROM course_time_slots WHERE course_id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, courseID); err != nil {
		return fmt.Errorf("delete course time slots: %w", err)
	}
	return nil
}

// InsertBatch writes all slots for a course in a single statement.
func (r *CourseTimeSlotRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, courseID int64, slots []models.TimeSlot) error {
	if len(slots) == 0 {
		return nil
	}
	rows := make([]models.CourseTimeSlot, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, models.CourseTimeSlot{CourseID: courseID, TimeSlot: slot})
	}
	const query = `INSERT INTO course_time_slots (course_id, day_of_week, start_minute, end_minute)
VALUES (:course_id, :day_of_week, :start_minute, :end_minute)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, rows); err != nil {
		return fmt.Errorf("insert course time slots: %w", err)
	}
	return nil
}
