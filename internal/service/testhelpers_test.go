package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/internal/repository"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

type txProviderMock struct {
	db   *sqlx.DB
	mock sqlmock.Sqlmock
}

func newTxProviderMock(t *testing.T) (txProvider, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return &txProviderMock{db: sqlxdb, mock: mock}, mock
}

func (t *txProviderMock) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return t.db.BeginTxx(ctx, opts)
}

// memDB backs the in-memory repository fakes. The fakes ignore the transaction handle.
type memDB struct {
	timetables  map[int64]models.Timetable
	courses     map[int64]models.Course
	slots       map[int64][]models.TimeSlot
	enrollments map[int64]models.Enrollment
	nextID      int64
	slotErr     error
}

func newMemDB() *memDB {
	return &memDB{
		timetables:  map[int64]models.Timetable{},
		courses:     map[int64]models.Course{},
		slots:       map[int64][]models.TimeSlot{},
		enrollments: map[int64]models.Enrollment{},
		nextID:      100,
	}
}

func (m *memDB) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memDB) addTimetable(id int64, userID string, year int, semester models.Semester) {
	m.timetables[id] = models.Timetable{ID: id, UserID: userID, Name: "tt", Year: year, Semester: semester}
}

func (m *memDB) addCourse(course models.Course, slots ...models.TimeSlot) int64 {
	if course.ID == 0 {
		course.ID = m.id()
	}
	m.courses[course.ID] = course
	m.slots[course.ID] = append([]models.TimeSlot(nil), slots...)
	return course.ID
}

func (m *memDB) enroll(timetableID, courseID int64) int64 {
	id := m.id()
	m.enrollments[id] = models.Enrollment{ID: id, TimetableID: timetableID, CourseID: courseID}
	return id
}

func (m *memDB) owned(id int64, userID string) (models.Timetable, bool) {
	tt, ok := m.timetables[id]
	return tt, ok && tt.UserID == userID
}

type fakeTimetables struct{ db *memDB }

func (f fakeTimetables) List(ctx context.Context, userID string, filter models.TimetableFilter) ([]models.Timetable, error) {
	out := []models.Timetable{}
	for _, tt := range f.db.timetables {
		if tt.UserID != userID {
			continue
		}
		if filter.Year != nil && tt.Year != *filter.Year {
			continue
		}
		if filter.Semester != nil && tt.Semester != *filter.Semester {
			continue
		}
		out = append(out, tt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f fakeTimetables) FindOwned(ctx context.Context, exec sqlx.ExtContext, id int64, userID string) (*models.Timetable, error) {
	tt, ok := f.db.owned(id, userID)
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &tt, nil
}

func (f fakeTimetables) LockOwned(ctx context.Context, tx sqlx.ExtContext, id int64, userID string) (*models.Timetable, error) {
	return f.FindOwned(ctx, tx, id, userID)
}

func (f fakeTimetables) Create(ctx context.Context, timetable *models.Timetable) error {
	timetable.ID = f.db.id()
	timetable.CreatedAt = time.Now()
	timetable.UpdatedAt = timetable.CreatedAt
	f.db.timetables[timetable.ID] = *timetable
	return nil
}

func (f fakeTimetables) Rename(ctx context.Context, id int64, userID, name string) (*models.Timetable, error) {
	tt, ok := f.db.owned(id, userID)
	if !ok {
		return nil, sql.ErrNoRows
	}
	tt.Name = name
	f.db.timetables[id] = tt
	return &tt, nil
}

func (f fakeTimetables) Delete(ctx context.Context, id int64, userID string) error {
	if _, ok := f.db.owned(id, userID); !ok {
		return sql.ErrNoRows
	}
	delete(f.db.timetables, id)
	for eid, e := range f.db.enrollments {
		if e.TimetableID == id {
			delete(f.db.enrollments, eid)
		}
	}
	return nil
}

type fakeCourses struct{ db *memDB }

func (f fakeCourses) Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error {
	course.ID = f.db.id()
	f.db.courses[course.ID] = *course
	return nil
}

func (f fakeCourses) visible(course models.Course, userID string) bool {
	return course.Origin == models.CourseOriginCrawled || (course.UserID != nil && *course.UserID == userID)
}

func (f fakeCourses) FindVisible(ctx context.Context, exec sqlx.ExtContext, id int64, userID string) (*models.Course, error) {
	course, ok := f.db.courses[id]
	if !ok || !f.visible(course, userID) {
		return nil, sql.ErrNoRows
	}
	return &course, nil
}

func (f fakeCourses) LockCustom(ctx context.Context, tx sqlx.ExtContext, id int64, userID string) error {
	course, ok := f.db.courses[id]
	if !ok || course.Origin != models.CourseOriginCustom || course.UserID == nil || *course.UserID != userID {
		return sql.ErrNoRows
	}
	return nil
}

func (f fakeCourses) ListVisible(ctx context.Context, userID string, filter models.CourseFilter) ([]models.Course, error) {
	out := []models.Course{}
	for _, course := range f.db.courses {
		if f.visible(course, userID) && course.Year == filter.Year && course.Semester == filter.Semester {
			out = append(out, course)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeCourses) UpdateCustom(ctx context.Context, exec sqlx.ExtContext, course *models.Course, userID string) error {
	current, ok := f.db.courses[course.ID]
	if !ok || current.Origin != models.CourseOriginCustom || current.UserID == nil || *current.UserID != userID {
		return sql.ErrNoRows
	}
	course.UpdatedAt = time.Now()
	f.db.courses[course.ID] = *course
	return nil
}

type fakeSlots struct{ db *memDB }

func (f fakeSlots) ListByCourseIDs(ctx context.Context, exec sqlx.ExtContext, courseIDs []int64) (map[int64][]models.TimeSlot, error) {
	if f.db.slotErr != nil {
		return nil, f.db.slotErr
	}
	out := make(map[int64][]models.TimeSlot, len(courseIDs))
	for _, id := range courseIDs {
		if slots, ok := f.db.slots[id]; ok && len(slots) > 0 {
			out[id] = append([]models.TimeSlot(nil), slots...)
		}
	}
	return out, nil
}

func (f fakeSlots) DeleteByCourse(ctx context.Context, exec sqlx.ExtContext, courseID int64) error {
	delete(f.db.slots, courseID)
	return nil
}

func (f fakeSlots) InsertBatch(ctx context.Context, exec sqlx.ExtContext, courseID int64, slots []models.TimeSlot) error {
	f.db.slots[courseID] = append(f.db.slots[courseID], slots...)
	return nil
}

type fakeEnrollments struct{ db *memDB }

func (f fakeEnrollments) row(e models.Enrollment) models.EnrollmentCourse {
	return models.EnrollmentCourse{EnrollmentID: e.ID, TimetableID: e.TimetableID, Course: f.db.courses[e.CourseID]}
}

func (f fakeEnrollments) ListByTimetable(ctx context.Context, exec sqlx.ExtContext, timetableID int64, userID string) ([]models.EnrollmentCourse, error) {
	out := []models.EnrollmentCourse{}
	if _, ok := f.db.owned(timetableID, userID); !ok {
		return out, nil
	}
	for _, e := range f.db.enrollments {
		if e.TimetableID == timetableID {
			out = append(out, f.row(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrollmentID > out[j].EnrollmentID })
	return out, nil
}

func (f fakeEnrollments) FindInTimetable(ctx context.Context, exec sqlx.ExtContext, id, timetableID int64, userID string) (*models.EnrollmentCourse, error) {
	e, ok := f.db.enrollments[id]
	if !ok || e.TimetableID != timetableID {
		return nil, sql.ErrNoRows
	}
	if _, owned := f.db.owned(timetableID, userID); !owned {
		return nil, sql.ErrNoRows
	}
	row := f.row(e)
	return &row, nil
}

func (f fakeEnrollments) ListCourseIDs(ctx context.Context, exec sqlx.ExtContext, timetableID int64, userID string, excludeCourseID int64) ([]int64, error) {
	ids := []int64{}
	for _, e := range f.db.enrollments {
		if e.TimetableID == timetableID && e.CourseID != excludeCourseID {
			ids = append(ids, e.CourseID)
		}
	}
	return ids, nil
}

func (f fakeEnrollments) CountByCourse(ctx context.Context, exec sqlx.ExtContext, courseID int64) (int, error) {
	count := 0
	for _, e := range f.db.enrollments {
		if e.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (f fakeEnrollments) Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error {
	for _, e := range f.db.enrollments {
		if e.TimetableID == enrollment.TimetableID && e.CourseID == enrollment.CourseID {
			return repository.ErrDuplicateEnrollment
		}
	}
	enrollment.ID = f.db.id()
	f.db.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (f fakeEnrollments) Delete(ctx context.Context, exec sqlx.ExtContext, id, timetableID int64, userID string) error {
	e, ok := f.db.enrollments[id]
	if !ok || e.TimetableID != timetableID {
		return sql.ErrNoRows
	}
	if _, owned := f.db.owned(timetableID, userID); !owned {
		return sql.ErrNoRows
	}
	delete(f.db.enrollments, id)
	return nil
}

// memCache stores JSON payloads like the redis-backed repository.
type memCache struct {
	items   map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{items: map[string][]byte{}}
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.items[key] = raw
	return nil
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.items, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, appErrors.HasCode(err, code), "expected %s, got %v", code, err)
}

func slot(day models.DayOfWeek, start, end int) models.TimeSlot {
	return models.TimeSlot{DayOfWeek: day, StartMinute: start, EndMinute: end}
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }
