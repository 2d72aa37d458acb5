package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
	"github.com/noah-isme/campus-timetable-api/pkg/export"
)

// ExportFormat names a rendered timetable representation.
type ExportFormat string

const (
	ExportFormatICS ExportFormat = "ics"
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

var exportContentTypes = map[ExportFormat]string{
	ExportFormatICS: "text/calendar; charset=utf-8",
	ExportFormatCSV: "text/csv; charset=utf-8",
	ExportFormatPDF: "application/pdf",
}

var exportHeaders = []string{"Course", "Day", "Start", "End", "Course No.", "Lecture No.", "Credit", "Instructor"}

type timetableGetter interface {
	Get(ctx context.Context, userID string, id int64) (*models.Timetable, error)
}

type enrollmentLister interface {
	List(ctx context.Context, userID string, timetableID int64) ([]models.EnrollmentDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

type icsRenderer interface {
	Render(name string, window export.CalendarWindow, events []export.RecurringEvent) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	CalendarName string
	Location     *time.Location
}

// ExportFile is a rendered timetable ready to be downloaded.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders a timetable's enrollments as a calendar, spreadsheet or printable table.
type ExportService struct {
	timetables  timetableGetter
	enrollments enrollmentLister
	csv         csvRenderer
	pdf         pdfRenderer
	ics         icsRenderer
	metrics     *MetricsService
	logger      *zap.Logger
	cfg         ExportConfig
}

// NewExportService constructs an ExportService. Nil renderers fall back to the pkg/export defaults.
func NewExportService(timetables timetableGetter, enrollments enrollmentLister, metrics *MetricsService, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, ics icsRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CalendarName == "" {
		cfg.CalendarName = "campus-timetable"
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if ics == nil {
		ics = export.NewICSExporter(cfg.CalendarName)
	}
	return &ExportService{
		timetables:  timetables,
		enrollments: enrollments,
		csv:         csv,
		pdf:         pdf,
		ics:         ics,
		metrics:     metrics,
		logger:      logger,
		cfg:         cfg,
	}
}

// ParseExportFormat accepts any letter case; an empty value selects ics.
func ParseExportFormat(raw string) (ExportFormat, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ExportFormatICS, true
	}
	format := ExportFormat(raw)
	_, ok := exportContentTypes[format]
	return format, ok
}

// Export renders an owned timetable in the requested format.
func (s *ExportService) Export(ctx context.Context, userID string, timetableID int64, rawFormat string) (*ExportFile, error) {
	format, ok := ParseExportFormat(rawFormat)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidRequest, fmt.Sprintf("unsupported export format %q", rawFormat))
	}
	timetable, err := s.timetables.Get(ctx, userID, timetableID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.enrollments.List(ctx, userID, timetableID)
	if err != nil {
		return nil, err
	}
	rows := flattenSlots(enrollments)

	var body []byte
	switch format {
	case ExportFormatICS:
		body, err = s.renderICS(timetable, rows)
	case ExportFormatCSV:
		body, err = s.csv.Render(buildDataset(rows))
	case ExportFormatPDF:
		subtitle := fmt.Sprintf("%d %s", timetable.Year, timetable.Semester)
		body, err = s.pdf.Render(buildDataset(rows), timetable.Name, subtitle)
	}
	if err != nil {
		s.logger.Error("failed to render timetable export",
			zap.Int64("timetable_id", timetableID),
			zap.String("format", string(format)),
			zap.Error(err),
		)
		return nil, appErrors.Internal(err, "failed to render export")
	}

	s.metrics.RecordExport(string(format))
	return &ExportFile{
		Filename:    buildExportFilename(timetable, format),
		ContentType: exportContentTypes[format],
		Body:        body,
	}, nil
}

func (s *ExportService) renderICS(timetable *models.Timetable, rows []slotRow) ([]byte, error) {
	first, last := timetable.Semester.TermWindow(timetable.Year)
	window := export.CalendarWindow{First: first, Last: last, Location: s.cfg.Location}

	events := make([]export.RecurringEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, export.RecurringEvent{
			Key:         fmt.Sprintf("timetable/%d/course/%d/%s-%d", timetable.ID, row.course.ID, row.slot.DayOfWeek, row.slot.StartMinute),
			Summary:     row.course.CourseTitle,
			Description: describeCourse(row.course),
			Weekday:     row.slot.DayOfWeek.Weekday(),
			StartMinute: row.slot.StartMinute,
			EndMinute:   row.slot.EndMinute,
		})
	}
	return s.ics.Render(timetable.Name, window, events)
}

type slotRow struct {
	course models.Course
	slot   models.TimeSlot
}

// flattenSlots yields one row per slot ordered by weekday, start minute, then title.
func flattenSlots(enrollments []models.EnrollmentDetail) []slotRow {
	dayOrder := make(map[models.DayOfWeek]int, len(models.Weekdays))
	for i, day := range models.Weekdays {
		dayOrder[day] = i
	}

	rows := make([]slotRow, 0, len(enrollments))
	for _, enrollment := range enrollments {
		for _, slot := range enrollment.Course.TimeSlots {
			rows = append(rows, slotRow{course: enrollment.Course.Course, slot: slot})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if dayOrder[a.slot.DayOfWeek] != dayOrder[b.slot.DayOfWeek] {
			return dayOrder[a.slot.DayOfWeek] < dayOrder[b.slot.DayOfWeek]
		}
		if a.slot.StartMinute != b.slot.StartMinute {
			return a.slot.StartMinute < b.slot.StartMinute
		}
		return a.course.CourseTitle < b.course.CourseTitle
	})
	return rows
}

func buildDataset(rows []slotRow) export.Dataset {
	dataset := export.Dataset{Headers: exportHeaders}
	for _, row := range rows {
		credit := ""
		if row.course.Credit != nil {
			credit = strconv.Itoa(*row.course.Credit)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Course":      row.course.CourseTitle,
			"Day":         string(row.slot.DayOfWeek),
			"Start":       formatMinute(row.slot.StartMinute),
			"End":         formatMinute(row.slot.EndMinute),
			"Course No.":  deref(row.course.CourseNumber),
			"Lecture No.": deref(row.course.LectureNumber),
			"Credit":      credit,
			"Instructor":  deref(row.course.Instructor),
		})
	}
	return dataset
}

func describeCourse(course models.Course) string {
	parts := make([]string, 0, 3)
	if course.CourseNumber != nil {
		number := *course.CourseNumber
		if course.LectureNumber != nil {
			number += "-" + *course.LectureNumber
		}
		parts = append(parts, number)
	}
	if course.Instructor != nil {
		parts = append(parts, *course.Instructor)
	}
	if course.Credit != nil {
		parts = append(parts, fmt.Sprintf("%d credits", *course.Credit))
	}
	return strings.Join(parts, " / ")
}

// formatMinute renders a minute-of-day offset as HH:MM; 1440 renders as 24:00.
func formatMinute(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func buildExportFilename(timetable *models.Timetable, format ExportFormat) string {
	name := fmt.Sprintf("%s_%d_%s", sanitizeFilename(timetable.Name), timetable.Year, strings.ToLower(string(timetable.Semester)))
	return name + "." + string(format)
}

func sanitizeFilename(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "timetable"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "\"", "", "..", ".", "__", "_")
	result := replacer.Replace(strings.TrimSpace(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
