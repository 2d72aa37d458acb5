package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

type timetableGetterStub struct {
	timetable *models.Timetable
	err       error
}

func (s timetableGetterStub) Get(ctx context.Context, userID string, id int64) (*models.Timetable, error) {
	return s.timetable, s.err
}

type enrollmentListerStub struct {
	details []models.EnrollmentDetail
}

func (s enrollmentListerStub) List(ctx context.Context, userID string, timetableID int64) ([]models.EnrollmentDetail, error) {
	return s.details, nil
}

func exportFixture() ([]models.EnrollmentDetail, *models.Timetable) {
	timetable := &models.Timetable{ID: 7, UserID: owner, Name: "Spring plan", Year: 2024, Semester: models.SemesterSpring}
	details := []models.EnrollmentDetail{
		{EnrollID: 2, Course: models.CourseDetail{
			Course: models.Course{ID: 20, CourseTitle: "Databases", CourseNumber: strPtr("CS340"), LectureNumber: strPtr("01"), Credit: intPtr(3), Instructor: strPtr("Lee")},
			TimeSlots: []models.TimeSlot{slot(models.Wednesday, 780, 870)},
		}},
		{EnrollID: 1, Course: models.CourseDetail{
			Course:    models.Course{ID: 10, CourseTitle: "Algorithms"},
			TimeSlots: []models.TimeSlot{slot(models.Wednesday, 540, 630), slot(models.Monday, 540, 630)},
		}},
	}
	return details, timetable
}

func newExportService(metrics *MetricsService, location *time.Location) *ExportService {
	details, timetable := exportFixture()
	return NewExportService(
		timetableGetterStub{timetable: timetable},
		enrollmentListerStub{details: details},
		metrics,
		ExportConfig{CalendarName: "campus-test", Location: location},
		nil, nil, nil, nil,
	)
}

func TestExportServiceCSV(t *testing.T) {
	metrics := NewMetricsService()
	svc := newExportService(metrics, nil)

	file, err := svc.Export(context.Background(), owner, 7, "CSV")
	require.NoError(t, err)
	assert.Equal(t, "Spring_plan_2024_spring.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Body)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Course,Day,Start,End,Course No.,Lecture No.,Credit,Instructor", lines[0])
	assert.Equal(t, "Algorithms,MON,09:00,10:30,,,,", lines[1])
	assert.Equal(t, "Algorithms,WED,09:00,10:30,,,,", lines[2])
	assert.Equal(t, "Databases,WED,13:00,14:30,CS340,01,3,Lee", lines[3])
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.exportsTotal.WithLabelValues("csv")))
}

func TestExportServiceICSDefault(t *testing.T) {
	svc := newExportService(nil, time.UTC)

	file, err := svc.Export(context.Background(), owner, 7, "")
	require.NoError(t, err)
	assert.Equal(t, "Spring_plan_2024_spring.ics", file.Filename)
	assert.Equal(t, "text/calendar; charset=utf-8", file.ContentType)

	body := string(file.Body)
	assert.Equal(t, 3, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "SUMMARY:Algorithms")
	assert.Contains(t, body, "DTSTART:20240304T090000Z")
	assert.Contains(t, body, "RRULE:FREQ=WEEKLY;UNTIL=20240621T235959Z;BYDAY=MO")
	assert.Contains(t, body, "DTSTART:20240306T130000Z")
	assert.Contains(t, body, "DESCRIPTION:CS340-01 / Lee / 3 credits")
}

func TestExportServicePDF(t *testing.T) {
	svc := newExportService(nil, nil)

	file, err := svc.Export(context.Background(), owner, 7, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Body), "%PDF-"))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc := newExportService(nil, nil)

	_, err := svc.Export(context.Background(), owner, 7, "xlsx")
	requireCode(t, err, appErrors.ErrInvalidRequest.Code)
}

func TestExportServicePropagatesNotFound(t *testing.T) {
	svc := NewExportService(
		timetableGetterStub{err: appErrors.Clone(appErrors.ErrNotFound, "timetable not found")},
		enrollmentListerStub{},
		nil, ExportConfig{}, nil, nil, nil, nil,
	)

	_, err := svc.Export(context.Background(), stranger, 7, "ics")
	requireCode(t, err, appErrors.ErrNotFound.Code)
}

func TestFormatMinute(t *testing.T) {
	assert.Equal(t, "00:00", formatMinute(0))
	assert.Equal(t, "09:05", formatMinute(545))
	assert.Equal(t, "24:00", formatMinute(1440))
}
