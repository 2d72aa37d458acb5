package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const icsLocalFormat = "20060102T150405"

// RecurringEvent is a weekly meeting rendered as one VEVENT with an RRULE.
type RecurringEvent struct {
	Key         string
	Summary     string
	Description string
	Location    string
	Weekday     time.Weekday
	StartMinute int
	EndMinute   int
}

// CalendarWindow bounds recurrences to the inclusive date range [First, Last].
type CalendarWindow struct {
	First    time.Time
	Last     time.Time
	Location *time.Location
}

// ICSExporter renders weekly recurring events as an iCalendar document.
type ICSExporter struct {
	service string
	now     func() time.Time
}

// NewICSExporter builds an exporter whose PRODID names service.
func NewICSExporter(service string) *ICSExporter {
	return &ICSExporter{service: service, now: time.Now}
}

var weekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Render builds the calendar. Events with no occurrence inside the window are skipped.
func (e *ICSExporter) Render(name string, window CalendarWindow, events []RecurringEvent) ([]byte, error) {
	loc := window.Location
	if loc == nil {
		loc = time.UTC
	}
	if window.Last.Before(window.First) {
		return nil, fmt.Errorf("calendar window ends before it starts")
	}

	cal := ics.NewCalendarFor(e.service)
	cal.SetMethod(ics.MethodPublish)
	cal.SetName(name)
	cal.SetXWRCalName(name)
	cal.SetXWRTimezone(loc.String())

	first := dateIn(window.First, loc)
	until := dateIn(window.Last, loc).Add(24*time.Hour - time.Second)
	stamp := e.now().UTC()

	for _, ev := range events {
		wd, ok := weekdays[ev.Weekday]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %d", ev.Weekday)
		}
		if ev.StartMinute >= ev.EndMinute {
			return nil, fmt.Errorf("event %q has an empty time range", ev.Summary)
		}

		opt := rrule.ROption{
			Freq:      rrule.WEEKLY,
			Dtstart:   first.Add(time.Duration(ev.StartMinute) * time.Minute),
			Until:     until,
			Byweekday: []rrule.Weekday{wd},
		}
		rule, err := rrule.NewRRule(opt)
		if err != nil {
			return nil, fmt.Errorf("build recurrence for %q: %w", ev.Summary, err)
		}
		start := rule.After(opt.Dtstart, true)
		if start.IsZero() {
			continue
		}
		end := start.Add(time.Duration(ev.EndMinute-ev.StartMinute) * time.Minute)

		vevent := cal.AddEvent(eventUID(ev, e.service))
		vevent.SetDtStampTime(stamp)
		setLocalTime(vevent, ics.ComponentPropertyDtStart, start, loc)
		setLocalTime(vevent, ics.ComponentPropertyDtEnd, end, loc)
		vevent.SetSummary(ev.Summary)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		vevent.AddRrule(rule.OrigOptions.RRuleString())
	}

	return []byte(cal.Serialize()), nil
}

func setLocalTime(ev *ics.VEvent, prop ics.ComponentProperty, t time.Time, loc *time.Location) {
	if loc == time.UTC {
		if prop == ics.ComponentPropertyDtStart {
			ev.SetStartAt(t)
		} else {
			ev.SetEndAt(t)
		}
		return
	}
	ev.SetProperty(prop, t.In(loc).Format(icsLocalFormat), ics.WithTZID(loc.String()))
}

// eventUID is stable per key so re-imports update instead of duplicating.
func eventUID(ev RecurringEvent, service string) string {
	if ev.Key == "" {
		return uuid.NewString() + "@" + service
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(service+"/"+ev.Key)).String() + "@" + service
}

func dateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
