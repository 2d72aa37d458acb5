package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable-api/internal/service"
	"github.com/noah-isme/campus-timetable-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, userID string, timetableID int64, format string) (*service.ExportFile, error)
}

// ExportHandler streams rendered timetables.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Download a timetable
// @Description Renders the timetable as an iCalendar feed with weekly recurrences, a CSV sheet or a PDF table.
// @Tags Timetables
// @Produce text/calendar
// @Produce text/csv
// @Produce application/pdf
// @Param timetableId path int true "Timetable ID"
// @Param format query string false "Export format" Enums(ics, csv, pdf) default(ics)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /timetables/{timetableId}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	userID, timetableID, ok := timetableScope(c)
	if !ok {
		return
	}
	file, err := h.service.Export(c.Request.Context(), userID, timetableID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
