package service

import (
	"fmt"
	"sort"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

// SlotConflict names the first overlapping pair found. It is logged, never serialised.
type SlotConflict struct {
	Proposed models.TimeSlot
	CourseID int64
	Existing models.TimeSlot
}

func (c *SlotConflict) Error() string {
	return fmt.Sprintf("%s %d-%d overlaps course %d at %s %d-%d",
		c.Proposed.DayOfWeek, c.Proposed.StartMinute, c.Proposed.EndMinute,
		c.CourseID, c.Existing.DayOfWeek, c.Existing.StartMinute, c.Existing.EndMinute)
}

type enrolledSlot struct {
	courseID int64
	slot     models.TimeSlot
}

// findConflict checks proposed slots against enrolled slots, comparing only within the same weekday.
func findConflict(proposed []models.TimeSlot, enrolled map[int64][]models.TimeSlot) *SlotConflict {
	courseIDs := make([]int64, 0, len(enrolled))
	for id := range enrolled {
		courseIDs = append(courseIDs, id)
	}
	sort.Slice(courseIDs, func(i, j int) bool { return courseIDs[i] < courseIDs[j] })

	byDay := make(map[models.DayOfWeek][]enrolledSlot)
	for _, id := range courseIDs {
		for _, slot := range enrolled[id] {
			byDay[slot.DayOfWeek] = append(byDay[slot.DayOfWeek], enrolledSlot{courseID: id, slot: slot})
		}
	}

	for _, candidate := range proposed {
		for _, existing := range byDay[candidate.DayOfWeek] {
			if candidate.Overlaps(existing.slot) {
				return &SlotConflict{Proposed: candidate, CourseID: existing.courseID, Existing: existing.slot}
			}
		}
	}
	return nil
}

// validateSlots enforces the slot invariants for a full slot set.
func validateSlots(slots []models.TimeSlot) error {
	if len(slots) == 0 {
		return appErrors.Clone(appErrors.ErrInvalidRequest, "timeSlots cannot be empty")
	}
	for i, slot := range slots {
		switch {
		case !slot.DayOfWeek.Valid():
			return appErrors.Clone(appErrors.ErrInvalidRequest, fmt.Sprintf("timeSlots[%d]: invalid dayOfWeek %q", i, slot.DayOfWeek))
		case slot.StartMinute < 0 || slot.StartMinute >= models.MinutesPerDay:
			return appErrors.Clone(appErrors.ErrInvalidRequest, fmt.Sprintf("timeSlots[%d]: startMinute must be within 0..%d", i, models.MinutesPerDay-1))
		case slot.EndMinute < 1 || slot.EndMinute > models.MinutesPerDay:
			return appErrors.Clone(appErrors.ErrInvalidRequest, fmt.Sprintf("timeSlots[%d]: endMinute must be within 1..%d", i, models.MinutesPerDay))
		case slot.StartMinute >= slot.EndMinute:
			return appErrors.Clone(appErrors.ErrInvalidRequest, fmt.Sprintf("timeSlots[%d]: startMinute must be before endMinute", i))
		}
	}
	return nil
}
