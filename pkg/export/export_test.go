package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"title", "day", "start"},
		Rows: []map[string]string{
			{"title": "Algorithms", "day": "MON", "start": "09:00"},
			{"title": "Databases, Intro", "day": "WED"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "title,day,start", lines[0])
	assert.Equal(t, "Algorithms,MON,09:00", lines[1])
	assert.Equal(t, `"Databases, Intro",WED,`, lines[2])
}

func TestCSVExporterNeutralizesFormulas(t *testing.T) {
	data := Dataset{
		Headers: []string{"title", "instructor"},
		Rows:    []map[string]string{{"title": "=HYPERLINK(\"x\")", "instructor": "@lee"}},
	}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"'=HYPERLINK(""x"")",'@lee`, lines[1])
}

func TestCSVExporterBOM(t *testing.T) {
	out, err := NewCSVExporter(WithBOM(true)).Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF, 't'}))

	plain, err := NewCSVExporter(WithBOM(false)).Render(sampleDataset())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(plain, []byte("title")))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Timetable", "2024 SPRING")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestPDFExporterRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{}, "", "")
	assert.Error(t, err)
}

func fixedICS() *ICSExporter {
	e := NewICSExporter("campus-timetable")
	e.now = func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }
	return e
}

func TestICSExporterWeeklyRule(t *testing.T) {
	window := CalendarWindow{
		First:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Last:     time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		Location: time.UTC,
	}
	events := []RecurringEvent{{
		Key:         "enroll/7/0",
		Summary:     "Algorithms",
		Weekday:     time.Monday,
		StartMinute: 9 * 60,
		EndMinute:   10*60 + 30,
	}}

	out, err := fixedICS().Render("My timetable", window, events)
	require.NoError(t, err)
	body := string(out)

	assert.Contains(t, body, "BEGIN:VEVENT")
	assert.Contains(t, body, "SUMMARY:Algorithms")
	// 2024-03-01 is a Friday; the first Monday is 03-04.
	assert.Contains(t, body, "DTSTART:20240304T090000Z")
	assert.Contains(t, body, "DTEND:20240304T103000Z")
	assert.Contains(t, body, "RRULE:FREQ=WEEKLY;UNTIL=20240621T235959Z;BYDAY=MO")
	assert.Contains(t, body, "X-WR-CALNAME:My timetable")
}

func TestICSExporterLocalTimezone(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	window := CalendarWindow{
		First:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Last:     time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		Location: loc,
	}
	events := []RecurringEvent{{Summary: "Late", Weekday: time.Friday, StartMinute: 0, EndMinute: 60}}

	out, err := fixedICS().Render("tt", window, events)
	require.NoError(t, err)
	assert.Contains(t, string(out), "DTSTART;TZID=KST:20240301T000000")
}

func TestICSExporterStableUID(t *testing.T) {
	ev := RecurringEvent{Key: "enroll/1/0"}
	assert.Equal(t, eventUID(ev, "svc"), eventUID(ev, "svc"))
	assert.NotEqual(t, eventUID(ev, "svc"), eventUID(RecurringEvent{Key: "enroll/1/1"}, "svc"))
}

func TestICSExporterRejectsInvertedWindow(t *testing.T) {
	window := CalendarWindow{
		First: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Last:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := fixedICS().Render("tt", window, nil)
	assert.Error(t, err)
}
