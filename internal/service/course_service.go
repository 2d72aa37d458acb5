package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

type courseCatalog interface {
	ListVisible(ctx context.Context, userID string, filter models.CourseFilter) ([]models.Course, error)
}

type courseSlotReader interface {
	ListByCourseIDs(ctx context.Context, exec sqlx.ExtContext, courseIDs []int64) (map[int64][]models.TimeSlot, error)
}

// CourseService exposes the term catalog a user can enroll from.
type CourseService struct {
	courses   courseCatalog
	slots     courseSlotReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses courseCatalog, slots courseSlotReader, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, slots: slots, validator: validate, logger: logger}
}

// List returns crawled courses and the user's own custom courses for one term.
func (s *CourseService) List(ctx context.Context, userID string, query dto.ListCoursesQuery) ([]models.CourseDetail, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "invalid course filter")
	}
	semester, ok := models.ParseSemester(query.Semester)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "invalid semester")
	}

	courses, err := s.courses.ListVisible(ctx, userID, models.CourseFilter{Year: query.Year, Semester: semester})
	if err != nil {
		s.logger.Error("failed to list courses", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to list courses")
	}
	details := make([]models.CourseDetail, 0, len(courses))
	if len(courses) == 0 {
		return details, nil
	}

	ids := make([]int64, 0, len(courses))
	for _, course := range courses {
		ids = append(ids, course.ID)
	}
	grouped, err := s.slots.ListByCourseIDs(ctx, nil, ids)
	if err != nil {
		s.logger.Error("failed to load course time slots", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load course time slots")
	}
	for _, course := range courses {
		details = append(details, models.CourseDetail{Course: course, TimeSlots: nonNilSlots(grouped[course.ID])})
	}
	return details, nil
}
