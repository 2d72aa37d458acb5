package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	"github.com/noah-isme/campus-timetable-api/internal/repository"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type enrollmentTimetableReader interface {
	FindOwned(ctx context.Context, exec sqlx.ExtContext, id int64, userID string) (*models.Timetable, error)
	LockOwned(ctx context.Context, tx sqlx.ExtContext, id int64, userID string) (*models.Timetable, error)
}

type enrollmentCourseStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, course *models.Course) error
	FindVisible(ctx context.Context, exec sqlx.ExtContext, id int64, userID string) (*models.Course, error)
	LockCustom(ctx context.Context, tx sqlx.ExtContext, id int64, userID string) error
	UpdateCustom(ctx context.Context, exec sqlx.ExtContext, course *models.Course, userID string) error
}

type courseSlotStore interface {
	ListByCourseIDs(ctx context.Context, exec sqlx.ExtContext, courseIDs []int64) (map[int64][]models.TimeSlot, error)
	DeleteByCourse(ctx context.Context, exec sqlx.ExtContext, courseID int64) error
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, courseID int64, slots []models.TimeSlot) error
}

type enrollmentStore interface {
	ListByTimetable(ctx context.Context, exec sqlx.ExtContext, timetableID int64, userID string) ([]models.EnrollmentCourse, error)
	FindInTimetable(ctx context.Context, exec sqlx.ExtContext, id, timetableID int64, userID string) (*models.EnrollmentCourse, error)
	ListCourseIDs(ctx context.Context, exec sqlx.ExtContext, timetableID int64, userID string, excludeCourseID int64) ([]int64, error)
	CountByCourse(ctx context.Context, exec sqlx.ExtContext, courseID int64) (int, error)
	Create(ctx context.Context, exec sqlx.ExtContext, enrollment *models.Enrollment) error
	Delete(ctx context.Context, exec sqlx.ExtContext, id, timetableID int64, userID string) error
}

// EnrollmentService composes timetables, courses, slots and enrollments.
// Every mutation keeps enrolled courses of a timetable free of same-day overlaps.
type EnrollmentService struct {
	timetables  enrollmentTimetableReader
	courses     enrollmentCourseStore
	slots       courseSlotStore
	enrollments enrollmentStore
	tx          txProvider
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService wires enrollment dependencies. cache and metrics may be nil.
func NewEnrollmentService(
	timetables enrollmentTimetableReader,
	courses enrollmentCourseStore,
	slots courseSlotStore,
	enrollments enrollmentStore,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		timetables:  timetables,
		courses:     courses,
		slots:       slots,
		enrollments: enrollments,
		tx:          tx,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// List returns the composed enrollments of an owned timetable, newest first.
func (s *EnrollmentService) List(ctx context.Context, userID string, timetableID int64) ([]models.EnrollmentDetail, error) {
	key := EnrollmentListKey(userID, timetableID)
	var cached []models.EnrollmentDetail
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	if _, err := s.ownedTimetable(ctx, nil, userID, timetableID); err != nil {
		return nil, err
	}
	rows, err := s.enrollments.ListByTimetable(ctx, nil, timetableID, userID)
	if err != nil {
		return nil, s.internal(err, "failed to list enrollments")
	}
	details, err := s.compose(ctx, nil, rows)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, key, details, 0)
	return details, nil
}

// Get returns one enrollment. An id that belongs to another timetable is reported as not found.
func (s *EnrollmentService) Get(ctx context.Context, userID string, timetableID, enrollID int64) (*models.EnrollmentDetail, error) {
	if _, err := s.ownedTimetable(ctx, nil, userID, timetableID); err != nil {
		return nil, err
	}
	row, err := s.findEnrollment(ctx, nil, userID, timetableID, enrollID)
	if err != nil {
		return nil, err
	}
	details, err := s.compose(ctx, nil, []models.EnrollmentCourse{*row})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// CreateCustom creates a user-authored course with its slots and enrolls it, all or nothing.
func (s *EnrollmentService) CreateCustom(ctx context.Context, userID string, timetableID int64, req dto.CreateCustomCourseRequest) (detail *models.EnrollmentDetail, err error) {
	const op = "create_custom"
	defer func() { s.recordMutation(op, err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "invalid custom course payload")
	}
	semester, ok := models.ParseSemester(req.Semester)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "invalid semester")
	}
	title := strings.TrimSpace(req.CourseTitle)
	if title == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "courseTitle cannot be blank")
	}
	slots := dto.Slots(req.TimeSlots)
	if err = validateSlots(slots); err != nil {
		return nil, err
	}

	owner := userID
	course := models.Course{
		Year:          req.Year,
		Semester:      semester,
		CourseTitle:   title,
		Origin:        models.CourseOriginCustom,
		UserID:        &owner,
		CourseNumber:  req.CourseNumber,
		LectureNumber: req.LectureNumber,
		Credit:        req.Credit,
		Instructor:    req.Instructor,
	}

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		timetable, err := s.lockTimetable(ctx, tx, userID, timetableID)
		if err != nil {
			return err
		}
		if err := ensureSameTerm(timetable, course); err != nil {
			return err
		}
		if err := s.ensureNoConflict(ctx, tx, userID, timetableID, 0, slots); err != nil {
			return err
		}
		if err := s.courses.Create(ctx, tx, &course); err != nil {
			return s.internal(err, "failed to create course")
		}
		if err := s.slots.InsertBatch(ctx, tx, course.ID, slots); err != nil {
			return s.internal(err, "failed to create course time slots")
		}
		enrollment := models.Enrollment{TimetableID: timetableID, CourseID: course.ID}
		if err := s.enrollments.Create(ctx, tx, &enrollment); err != nil {
			return s.enrollmentCreateError(err)
		}
		detail = &models.EnrollmentDetail{
			EnrollID: enrollment.ID,
			Course:   models.CourseDetail{Course: course, TimeSlots: slots},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateEnrollments(ctx, userID, timetableID)
	return detail, nil
}

// EnrollCourse attaches an existing course visible to the user. A CUSTOM course
// lives on at most one timetable, so only an orphaned one can be enrolled again.
func (s *EnrollmentService) EnrollCourse(ctx context.Context, userID string, timetableID int64, req dto.EnrollCourseRequest) (detail *models.EnrollmentDetail, err error) {
	const op = "enroll_existing"
	defer func() { s.recordMutation(op, err) }()

	if err = s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "invalid enrollment payload")
	}

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		timetable, err := s.lockTimetable(ctx, tx, userID, timetableID)
		if err != nil {
			return err
		}
		course, err := s.courses.FindVisible(ctx, tx, req.CourseID, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotFound, "course not found")
			}
			return s.internal(err, "failed to load course")
		}
		if course.Origin == models.CourseOriginCustom {
			if err := s.claimOrphanCourse(ctx, tx, userID, course.ID); err != nil {
				return err
			}
		}
		if err := ensureSameTerm(timetable, *course); err != nil {
			return err
		}
		grouped, err := s.slots.ListByCourseIDs(ctx, tx, []int64{course.ID})
		if err != nil {
			return s.internal(err, "failed to load course time slots")
		}
		slots := nonNilSlots(grouped[course.ID])
		if err := s.ensureNoConflict(ctx, tx, userID, timetableID, course.ID, slots); err != nil {
			return err
		}
		enrollment := models.Enrollment{TimetableID: timetableID, CourseID: course.ID}
		if err := s.enrollments.Create(ctx, tx, &enrollment); err != nil {
			return s.enrollmentCreateError(err)
		}
		detail = &models.EnrollmentDetail{
			EnrollID: enrollment.ID,
			Course:   models.CourseDetail{Course: *course, TimeSlots: slots},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateEnrollments(ctx, userID, timetableID)
	return detail, nil
}

// UpdateCustom applies a partial update to the custom course behind an enrollment.
// Replaced slots are re-checked against every other enrolled course.
func (s *EnrollmentService) UpdateCustom(ctx context.Context, userID string, timetableID, enrollID int64, patch dto.CustomCoursePatch) (detail *models.EnrollmentDetail, err error) {
	const op = "update_custom"
	defer func() { s.recordMutation(op, err) }()

	if patch.Empty() {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "empty patch")
	}

	err = s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.lockTimetable(ctx, tx, userID, timetableID); err != nil {
			return err
		}
		row, err := s.findEnrollment(ctx, tx, userID, timetableID, enrollID)
		if err != nil {
			return err
		}
		if !row.Course.Editable() {
			return appErrors.Clone(appErrors.ErrNotEditable, "course is not editable")
		}

		result, err := interpretCoursePatch(row.Course, patch)
		if err != nil {
			return err
		}

		slots := result.slots
		if result.replaceSlots {
			if err := s.ensureNoConflict(ctx, tx, userID, timetableID, row.Course.ID, slots); err != nil {
				return err
			}
			if err := s.slots.DeleteByCourse(ctx, tx, row.Course.ID); err != nil {
				return s.internal(err, "failed to clear course time slots")
			}
			if err := s.slots.InsertBatch(ctx, tx, row.Course.ID, slots); err != nil {
				return s.internal(err, "failed to replace course time slots")
			}
		} else {
			grouped, err := s.slots.ListByCourseIDs(ctx, tx, []int64{row.Course.ID})
			if err != nil {
				return s.internal(err, "failed to load course time slots")
			}
			slots = nonNilSlots(grouped[row.Course.ID])
		}

		course := result.course
		if err := s.courses.UpdateCustom(ctx, tx, &course, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrNotEditable, "course is not editable")
			}
			return s.internal(err, "failed to update course")
		}

		detail = &models.EnrollmentDetail{
			EnrollID: row.EnrollmentID,
			Course:   models.CourseDetail{Course: course, TimeSlots: slots},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateEnrollments(ctx, userID, timetableID)
	return detail, nil
}

// Delete removes an enrollment scoped to its timetable. The course and its slots are kept.
func (s *EnrollmentService) Delete(ctx context.Context, userID string, timetableID, enrollID int64) (err error) {
	const op = "delete"
	defer func() { s.recordMutation(op, err) }()

	if _, err = s.ownedTimetable(ctx, nil, userID, timetableID); err != nil {
		return err
	}
	if err = s.enrollments.Delete(ctx, nil, enrollID, timetableID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return s.internal(err, "failed to delete enrollment")
	}

	s.cache.InvalidateEnrollments(ctx, userID, timetableID)
	return nil
}

func (s *EnrollmentService) ownedTimetable(ctx context.Context, exec sqlx.ExtContext, userID string, timetableID int64) (*models.Timetable, error) {
	timetable, err := s.timetables.FindOwned(ctx, exec, timetableID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, s.internal(err, "failed to load timetable")
	}
	return timetable, nil
}

func (s *EnrollmentService) lockTimetable(ctx context.Context, tx sqlx.ExtContext, userID string, timetableID int64) (*models.Timetable, error) {
	timetable, err := s.timetables.LockOwned(ctx, tx, timetableID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, s.internal(err, "failed to lock timetable")
	}
	return timetable, nil
}

func (s *EnrollmentService) findEnrollment(ctx context.Context, exec sqlx.ExtContext, userID string, timetableID, enrollID int64) (*models.EnrollmentCourse, error) {
	row, err := s.enrollments.FindInTimetable(ctx, exec, enrollID, timetableID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, s.internal(err, "failed to load enrollment")
	}
	return row, nil
}

// ensureNoConflict rejects proposed slots overlapping any other enrolled course.
func (s *EnrollmentService) ensureNoConflict(ctx context.Context, tx sqlx.ExtContext, userID string, timetableID, excludeCourseID int64, proposed []models.TimeSlot) error {
	if len(proposed) == 0 {
		return nil
	}
	courseIDs, err := s.enrollments.ListCourseIDs(ctx, tx, timetableID, userID, excludeCourseID)
	if err != nil {
		return s.internal(err, "failed to load enrolled courses")
	}
	if len(courseIDs) == 0 {
		return nil
	}
	enrolled, err := s.slots.ListByCourseIDs(ctx, tx, courseIDs)
	if err != nil {
		return s.internal(err, "failed to load enrolled time slots")
	}
	if conflict := findConflict(proposed, enrolled); conflict != nil {
		s.metrics.RecordEnrollmentConflict()
		s.logger.Info("enrollment time conflict",
			zap.Int64("timetable_id", timetableID),
			zap.Int64("conflicting_course_id", conflict.CourseID),
			zap.String("detail", conflict.Error()),
		)
		return appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "time slots overlap an enrolled course")
	}
	return nil
}

// claimOrphanCourse locks a custom course and requires that no timetable holds it.
// The count runs after the lock so it sees enrollments committed while waiting.
func (s *EnrollmentService) claimOrphanCourse(ctx context.Context, tx sqlx.ExtContext, userID string, courseID int64) error {
	if err := s.courses.LockCustom(ctx, tx, courseID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return s.internal(err, "failed to lock course")
	}
	count, err := s.enrollments.CountByCourse(ctx, tx, courseID)
	if err != nil {
		return s.internal(err, "failed to count course enrollments")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "custom course is already enrolled in a timetable")
	}
	return nil
}

func (s *EnrollmentService) enrollmentCreateError(err error) error {
	if errors.Is(err, repository.ErrDuplicateEnrollment) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "course already enrolled in timetable")
	}
	return s.internal(err, "failed to create enrollment")
}

// compose attaches slots to joined enrollment rows with one batched slot query.
func (s *EnrollmentService) compose(ctx context.Context, exec sqlx.ExtContext, rows []models.EnrollmentCourse) ([]models.EnrollmentDetail, error) {
	details := make([]models.EnrollmentDetail, 0, len(rows))
	if len(rows) == 0 {
		return details, nil
	}
	courseIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		courseIDs = append(courseIDs, row.Course.ID)
	}
	grouped, err := s.slots.ListByCourseIDs(ctx, exec, courseIDs)
	if err != nil {
		return nil, s.internal(err, "failed to load course time slots")
	}
	for _, row := range rows {
		details = append(details, models.EnrollmentDetail{
			EnrollID: row.EnrollmentID,
			Course:   models.CourseDetail{Course: row.Course, TimeSlots: nonNilSlots(grouped[row.Course.ID])},
		})
	}
	return details, nil
}

func (s *EnrollmentService) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return s.internal(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return s.internal(err, "failed to commit enrollment transaction")
	}
	return nil
}

func (s *EnrollmentService) internal(err error, msg string) error {
	s.logger.Error(msg, zap.Error(err))
	return appErrors.Internal(err, msg)
}

func (s *EnrollmentService) recordMutation(op string, err error) {
	outcome := OutcomeSuccess
	switch {
	case err == nil:
	case appErrors.HasCode(err, appErrors.ErrConflict.Code):
		outcome = OutcomeConflict
	case appErrors.HasCode(err, appErrors.ErrInternal.Code):
		outcome = OutcomeError
	default:
		outcome = OutcomeRejected
	}
	s.metrics.RecordEnrollmentMutation(op, outcome)
}

func ensureSameTerm(timetable *models.Timetable, course models.Course) error {
	if timetable.Year != course.Year || timetable.Semester != course.Semester {
		return appErrors.Clone(appErrors.ErrInvalidRequest, "course term does not match timetable term")
	}
	return nil
}

func nonNilSlots(slots []models.TimeSlot) []models.TimeSlot {
	if slots == nil {
		return []models.TimeSlot{}
	}
	return slots
}
