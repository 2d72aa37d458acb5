package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-timetable-api/internal/models"
	appErrors "github.com/noah-isme/campus-timetable-api/pkg/errors"
)

func TestFindConflict(t *testing.T) {
	enrolled := map[int64][]models.TimeSlot{
		7: {slot(models.Monday, 540, 630), slot(models.Wednesday, 540, 630)},
		3: {slot(models.Tuesday, 600, 720)},
	}

	cases := []struct {
		name     string
		proposed []models.TimeSlot
		courseID int64
	}{
		{name: "disjoint", proposed: []models.TimeSlot{slot(models.Monday, 630, 700)}},
		{name: "touching before", proposed: []models.TimeSlot{slot(models.Tuesday, 500, 600)}},
		{name: "other day same time", proposed: []models.TimeSlot{slot(models.Thursday, 540, 630)}},
		{name: "contained", proposed: []models.TimeSlot{slot(models.Wednesday, 560, 600)}, courseID: 7},
		{name: "second slot overlaps", proposed: []models.TimeSlot{slot(models.Friday, 0, 60), slot(models.Tuesday, 719, 780)}, courseID: 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conflict := findConflict(tc.proposed, enrolled)
			if tc.courseID == 0 {
				assert.Nil(t, conflict)
				return
			}
			require.NotNil(t, conflict)
			assert.Equal(t, tc.courseID, conflict.CourseID)
			assert.True(t, conflict.Proposed.Overlaps(conflict.Existing))
		})
	}
}

func TestFindConflictIsDeterministic(t *testing.T) {
	enrolled := map[int64][]models.TimeSlot{
		9: {slot(models.Monday, 540, 600)},
		4: {slot(models.Monday, 560, 620)},
		6: {slot(models.Monday, 500, 700)},
	}
	for i := 0; i < 20; i++ {
		conflict := findConflict([]models.TimeSlot{slot(models.Monday, 550, 570)}, enrolled)
		require.NotNil(t, conflict)
		assert.Equal(t, int64(4), conflict.CourseID)
	}
}

func TestSlotConflictMessage(t *testing.T) {
	c := &SlotConflict{Proposed: slot(models.Monday, 600, 700), CourseID: 12, Existing: slot(models.Monday, 540, 630)}
	assert.Equal(t, "MON 600-700 overlaps course 12 at MON 540-630", c.Error())
}

func TestValidateSlots(t *testing.T) {
	require.NoError(t, validateSlots([]models.TimeSlot{slot(models.Sunday, 0, 1440)}))

	invalid := map[string][]models.TimeSlot{
		"empty":          nil,
		"bad day":        {slot("FUNDAY", 0, 60)},
		"negative start": {slot(models.Monday, -1, 60)},
		"end past day":   {slot(models.Monday, 0, 1441)},
		"equal bounds":   {slot(models.Monday, 60, 60)},
		"inverted":       {slot(models.Monday, 120, 60)},
	}
	for name, slots := range invalid {
		t.Run(name, func(t *testing.T) {
			requireCode(t, validateSlots(slots), appErrors.ErrInvalidRequest.Code)
		})
	}
}
