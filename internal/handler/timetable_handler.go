package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable-api/internal/dto"
	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/response"
)

type timetableService interface {
	List(ctx context.Context, userID string, query dto.ListTimetablesQuery) ([]models.Timetable, error)
	Get(ctx context.Context, userID string, id int64) (*models.Timetable, error)
	Create(ctx context.Context, userID string, req dto.CreateTimetableRequest) (*models.Timetable, error)
	Rename(ctx context.Context, userID string, id int64, req dto.RenameTimetableRequest) (*models.Timetable, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// TimetableHandler exposes timetable lifecycle endpoints.
type TimetableHandler struct {
	service timetableService
}

// NewTimetableHandler constructs a timetable handler.
func NewTimetableHandler(svc timetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// List godoc
// @Summary List my timetables
// @Tags Timetables
// @Produce json
// @Param year query int false "Filter by year"
// @Param semester query string false "Filter by semester" Enums(SPRING, SUMMER, FALL, WINTER)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables [get]
func (h *TimetableHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var query dto.ListTimetablesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInvalidRequest.Code, appErrors.ErrInvalidRequest.Status, "invalid query"))
		return
	}
	timetables, err := h.service.List(c.Request.Context(), userID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, timetables)
}

// Create godoc
// @Summary Create timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimetableRequest true "Timetable payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables [post]
func (h *TimetableHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	timetable, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, timetable)
}

// Get godoc
// @Summary Get timetable
// @Tags Timetables
// @Produce json
// @Param timetableId path int true "Timetable ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{timetableId} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "timetableId")
	if !ok {
		return
	}
	timetable, err := h.service.Get(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, timetable)
}

// Rename godoc
// @Summary Rename timetable
// @Tags Timetables
// @Accept json
// @Produce json
// @Param timetableId path int true "Timetable ID"
// @Param payload body dto.RenameTimetableRequest true "New name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{timetableId} [patch]
func (h *TimetableHandler) Rename(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "timetableId")
	if !ok {
		return
	}
	var req dto.RenameTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	timetable, err := h.service.Rename(c.Request.Context(), userID, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, timetable)
}

// Delete godoc
// @Summary Delete timetable
// @Tags Timetables
// @Param timetableId path int true "Timetable ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{timetableId} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "timetableId")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
