package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-timetable-api/internal/models"
)

const timetableColumns = `id, user_id, name, year, semester, created_at, updated_at`

// TimetableRepository persists timetables. Every query is scoped to the owning user.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns the user's timetables, newest first, optionally narrowed by year and semester.
func (r *TimetableRepository) List(ctx context.Context, userID string, filter models.TimetableFilter) ([]models.Timetable, error) {
	conditions := []string{"user_id = $1"}
	args := []interface{}{userID}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("year = $%d", len(args)+1))
		args = append(args, *filter.Year)
	}
	if filter.Semester != nil {
		conditions = append(conditions, fmt.Sprintf("semester = $%d", len(args)+1))
		args = append(args, *filter.Semester)
	}

	query := fmt.Sprintf("SELECT %s FROM timetables WHERE %s ORDER BY id DESC", timetableColumns, strings.Join(conditions, " AND "))
	timetables := []models.Timetable{}
	if err := sqlx.SelectContext(ctx, r.db, &timetables, query, args...); err != nil {
		return nil, fmt.Errorf("list timetables: %w", err)
	}
	return timetables, nil
}

// FindOwned returns the timetable when it exists and belongs to userID, otherwise sql.ErrNoRows.
func (r *TimetableRepository) FindOwned(ctx context.Context, exec sqlx.ExtContext, id int64, userID string) (*models.Timetable, error) {
	query := fmt.Sprintf("SELECT %s FROM timetables WHERE id = $1 AND user_id = $2", timetableColumns)
	var timetable models.Timetable
	if err := sqlx.GetContext(ctx, r.exec(exec), &timetable, query, id, userID); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// LockOwned is FindOwned with a row lock held until the surrounding transaction ends.
func (r *TimetableRepository) LockOwned(ctx context.Context, tx sqlx.ExtContext, id int64, userID string) (*models.Timetable, error) {
	query := fmt.Sprintf("SELECT %s FROM timetables WHERE id = $1 AND user_id = $2 FOR UPDATE", timetableColumns)
	var timetable models.Timetable
	if err := sqlx.GetContext(ctx, r.exec(tx), &timetable, query, id, userID); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// Create inserts a timetable and fills its generated fields.
func (r *TimetableRepository) Create(ctx context.Context, timetable *models.Timetable) error {
	query := fmt.Sprintf(`INSERT INTO timetables (user_id, name, year, semester)
VALUES ($1, $2, $3, $4)
RETURNING %s`, timetableColumns)
	if err := sqlx.GetContext(ctx, r.db, timetable, query, timetable.UserID, timetable.Name, timetable.Year, timetable.Semester); err != nil {
		return fmt.Errorf("create timetable: %w", err)
	}
	return nil
}

// Rename updates the name of an owned timetable. Returns sql.ErrNoRows when not owned.
func (r *TimetableRepository) Rename(ctx context.Context, id int64, userID, name string) (*models.Timetable, error) {
	query := fmt.Sprintf(`UPDATE timetables SET name = $3, updated_at = NOW()
WHERE id = $1 AND user_id = $2
RETURNING %s`, timetableColumns)
	var timetable models.Timetable
	if err := sqlx.GetContext(ctx, r.db, &timetable, query, id, userID, name); err != nil {
		return nil, err
	}
	return &timetable, nil
}

// Delete removes an owned timetable. Enrollments go with it through the foreign key cascade.
func (r *TimetableRepository) Delete(ctx context.Context, id int64, userID string) error {
	const query = `DELETE FROM timetables WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("timetable rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
