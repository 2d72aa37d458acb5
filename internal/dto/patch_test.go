package dto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomCoursePatchStates(t *testing.T) {
	patch, err := ParseCustomCoursePatch([]byte(`{"courseTitle":"  Networks ","courseNumber":null,"credit":3}`))
	require.NoError(t, err)

	assert.True(t, patch.CourseTitle.IsPresent())
	assert.Equal(t, "  Networks ", patch.CourseTitle.Value)
	assert.True(t, patch.CourseNumber.IsNull())
	assert.Nil(t, patch.CourseNumber.Ptr())
	assert.True(t, patch.Credit.IsPresent())
	assert.Equal(t, 3, *patch.Credit.Ptr())
	assert.True(t, patch.LectureNumber.IsAbsent())
	assert.True(t, patch.TimeSlots.IsAbsent())
	assert.True(t, patch.Instructor.IsAbsent())
	assert.False(t, patch.Empty())
}

func TestParseCustomCoursePatchEmptyAndUnknown(t *testing.T) {
	patch, err := ParseCustomCoursePatch([]byte(`{}`))
	require.NoError(t, err)
	assert.True(t, patch.Empty())

	patch, err = ParseCustomCoursePatch([]byte(`{"room":"B101"}`))
	require.NoError(t, err)
	assert.True(t, patch.Empty())
}

func TestParseCustomCoursePatchSlots(t *testing.T) {
	patch, err := ParseCustomCoursePatch([]byte(`{"timeSlots":[{"dayOfWeek":"MON","startMinute":540,"endMinute":615}]}`))
	require.NoError(t, err)
	require.True(t, patch.TimeSlots.IsPresent())
	require.Len(t, patch.TimeSlots.Value, 1)
	assert.Equal(t, 615, patch.TimeSlots.Value[0].EndMinute)

	patch, err = ParseCustomCoursePatch([]byte(`{"timeSlots":[]}`))
	require.NoError(t, err)
	assert.True(t, patch.TimeSlots.IsPresent())
	assert.Empty(t, patch.TimeSlots.Value)

	patch, err = ParseCustomCoursePatch([]byte(`{"timeSlots": null }`))
	require.NoError(t, err)
	assert.True(t, patch.TimeSlots.IsNull())
}

func TestParseCustomCoursePatchErrors(t *testing.T) {
	bodies := map[string]string{
		"empty body":    ``,
		"array body":    `[]`,
		"null body":     `null`,
		"broken json":   `{"courseTitle":`,
		"type mismatch": `{"credit":"three"}`,
		"slot mismatch": `{"timeSlots":"MON"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCustomCoursePatch([]byte(body))
			var decodeErr *PatchDecodeError
			assert.True(t, errors.As(err, &decodeErr))
		})
	}

	_, err := ParseCustomCoursePatch([]byte(`{"credit":"three"}`))
	var decodeErr *PatchDecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "credit", decodeErr.Field)
}

func TestTimeSlotRequestConversion(t *testing.T) {
	slots := Slots([]TimeSlotRequest{{DayOfWeek: "TUE", StartMinute: 60, EndMinute: 120}})
	require.Len(t, slots, 1)
	assert.Equal(t, "TUE", string(slots[0].DayOfWeek))
	assert.Equal(t, 60, slots[0].StartMinute)
}
