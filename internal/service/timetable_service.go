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
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

type timetableRepository interface {
	List(ctx context.Context, userID string, filter models.TimetableFilter) ([]models.Timetable, error)
	FindOwned(ctx context.Context, exec sqlx.ExtContext, id int64, userID string) (*models.Timetable, error)
	Create(ctx context.Context, timetable *models.Timetable) error
	Rename(ctx context.Context, id int64, userID, name string) (*models.Timetable, error)
	Delete(ctx context.Context, id int64, userID string) error
}

// TimetableService manages the lifecycle of user-owned timetables.
type TimetableService struct {
	repo      timetableRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo timetableRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns the user's timetables, newest first, optionally narrowed by term.
func (s *TimetableService) List(ctx context.Context, userID string, query dto.ListTimetablesQuery) ([]models.Timetable, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "invalid timetable filter")
	}
	filter := models.TimetableFilter{Year: query.Year}
	if strings.TrimSpace(query.Semester) != "" {
		semester, ok := models.ParseSemester(query.Semester)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "invalid semester")
		}
		filter.Semester = &semester
	}

	timetables, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		s.logger.Error("failed to list timetables", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to list timetables")
	}
	return timetables, nil
}

// Get returns an owned timetable.
func (s *TimetableService) Get(ctx context.Context, userID string, id int64) (*models.Timetable, error) {
	return s.owned(ctx, userID, id)
}

// Create stores a new timetable for the user.
func (s *TimetableService) Create(ctx context.Context, userID string, req dto.CreateTimetableRequest) (*models.Timetable, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "name cannot be blank")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "invalid timetable payload")
	}
	semester, ok := models.ParseSemester(req.Semester)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "invalid semester")
	}

	timetable := &models.Timetable{
		UserID:   userID,
		Name:     req.Name,
		Year:     req.Year,
		Semester: semester,
	}
	if err := s.repo.Create(ctx, timetable); err != nil {
		s.logger.Error("failed to create timetable", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to create timetable")
	}
	return timetable, nil
}

// Rename changes the timetable name, the only mutable attribute.
func (s *TimetableService) Rename(ctx context.Context, userID string, id int64, req dto.RenameTimetableRequest) (*models.Timetable, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, "name cannot be blank")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "invalid timetable payload")
	}
	if _, err := s.owned(ctx, userID, id); err != nil {
		return nil, err
	}

	timetable, err := s.repo.Rename(ctx, id, userID, req.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		s.logger.Error("failed to rename timetable", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to rename timetable")
	}
	return timetable, nil
}

// Delete removes the timetable. Its enrollments go with it; courses stay.
func (s *TimetableService) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		s.logger.Error("failed to delete timetable", zap.Error(err))
		return appErrors.Internal(err, "failed to delete timetable")
	}
	s.cache.InvalidateEnrollments(ctx, userID, id)
	return nil
}

// owned is the single ownership check. A timetable of another user is reported as missing.
func (s *TimetableService) owned(ctx context.Context, userID string, id int64) (*models.Timetable, error) {
	timetable, err := s.repo.FindOwned(ctx, nil, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		s.logger.Error("failed to load timetable", zap.Error(err))
		return nil, appErrors.Internal(err, "failed to load timetable")
	}
	return timetable, nil
}
