package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/response"
)

type enrollmentService interface {
	List(ctx context.Context, userID string, timetableID int64) ([]models.EnrollmentDetail, error)
	Get(ctx context.Context, userID string, timetableID, enrollID int64) (*models.EnrollmentDetail, error)
	CreateCustom(ctx context.Context, userID string, timetableID int64, req dto.CreateCustomCourseRequest) (*models.EnrollmentDetail, error)
	EnrollCourse(ctx context.Context, userID string, timetableID int64, req dto.EnrollCourseRequest) (*models.EnrollmentDetail, error)
	UpdateCustom(ctx context.Context, userID string, timetableID, enrollID int64, patch dto.CustomCoursePatch) (*models.EnrollmentDetail, error)
	Delete(ctx context.Context, userID string, timetableID, enrollID int64) error
}

// EnrollmentHandler exposes the courses enrolled in a timetable.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(svc enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// List godoc
// @Summary List enrollments of a timetable
// @Tags Enrollments
// @Produce json
// @Param timetableId path int true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{timetableId}/enrolls [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	userID, timetableID, ok := timetableScope(c)
	if !ok {
		return
	}
	enrollments, err := h.service.List(c.Request.Context(), userID, timetableID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollments)
}

// Get godoc
// @Summary Get enrollment
// @Tags Enrollments
// @Produce json
// @Param timetableId path int true "Timetable ID"
// @Param enrollId path int true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{timetableId}/enrolls/{enrollId} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	userID, timetableID, ok := timetableScope(c)
	if !ok {
		return
	}
	enrollID, ok := idParam(c, "enrollId")
	if !ok {
		return
	}
	enrollment, err := h.service.Get(c.Request.Context(), userID, timetableID, enrollID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}

// CreateCustom godoc
// @Summary Create a custom course and enroll it
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param timetableId path int true "Timetable ID"
// @Param payload body dto.CreateCustomCourseRequest true "Custom course"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{timetableId}/enrolls/custom [post]
func (h *EnrollmentHandler) CreateCustom(c *gin.Context) {
	userID, timetableID, ok := timetableScope(c)
	if !ok {
		return
	}
	var req dto.CreateCustomCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	enrollment, err := h.service.CreateCustom(c.Request.Context(), userID, timetableID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// EnrollCourse godoc
// @Summary Enroll an existing course
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param timetableId path int true "Timetable ID"
// @Param payload body dto.EnrollCourseRequest true "Course reference"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{timetableId}/enrolls [post]
func (h *EnrollmentHandler) EnrollCourse(c *gin.Context) {
	userID, timetableID, ok := timetableScope(c)
	if !ok {
		return
	}
	var req dto.EnrollCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	enrollment, err := h.service.EnrollCourse(c.Request.Context(), userID, timetableID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// UpdateCustom godoc
// @Summary Partially update an enrolled custom course
// @Description Omitted keys are kept, null clears optional fields, courseTitle and timeSlots reject null.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param timetableId path int true "Timetable ID"
// @Param enrollId path int true "Enrollment ID"
// @Param payload body object true "Patch document"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{timetableId}/enrolls/{enrollId}/custom [patch]
func (h *EnrollmentHandler) UpdateCustom(c *gin.Context) {
	userID, timetableID, ok := timetableScope(c)
	if !ok {
		return
	}
	enrollID, ok := idParam(c, "enrollId")
	if !ok {
		return
	}
	body, err := c.GetRawData()
	if err != nil {
		invalidPayload(c, err)
		return
	}
	patch, err := dto.ParseCustomCoursePatch(body)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, err.Error()))
		return
	}
	enrollment, err := h.service.UpdateCustom(c.Request.Context(), userID, timetableID, enrollID, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollment)
}

// Delete godoc
// @Summary Remove an enrollment
// @Tags Enrollments
// @Param timetableId path int true "Timetable ID"
// @Param enrollId path int true "Enrollment ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{timetableId}/enrolls/{enrollId} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	userID, timetableID, ok := timetableScope(c)
	if !ok {
		return
	}
	enrollID, ok := idParam(c, "enrollId")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, timetableID, enrollID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func timetableScope(c *gin.Context) (string, int64, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return "", 0, false
	}
	timetableID, ok := idParam(c, "timetableId")
	if !ok {
		return "", 0, false
	}
	return userID, timetableID, true
}
