package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want MinuteOfDay
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"09:30", 570},
		{"23:59", 1439},
		{"24:00", 1440},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
		assert.Equal(t, tc.in, got.Clock(), "round trip")
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, in := range []string{"", "9", "25:00", "24:01", "09:60", "9am", "09:30:00"} {
		_, err := ParseClock(in)
		assert.Error(t, err, in)
	}
}

func TestMinuteOfDay_At(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	m, err := ParseClock("09:15")
	require.NoError(t, err)

	got := m.At(2025, time.June, 2, ist)
	assert.Equal(t, time.Date(2025, time.June, 2, 9, 15, 0, 0, ist), got)
	assert.Equal(t, time.Date(2025, time.June, 2, 3, 45, 0, 0, time.UTC), got.UTC())
}

func TestAvailabilityWindow_Overlaps(t *testing.T) {
	base := &AvailabilityWindow{DayOfWeek: Monday, StartMinute: 540, EndMinute: 600} // 09:00-10:00

	assert.True(t, base.Overlaps(&AvailabilityWindow{DayOfWeek: Monday, StartMinute: 570, EndMinute: 630}))
	assert.False(t, base.Overlaps(&AvailabilityWindow{DayOfWeek: Monday, StartMinute: 600, EndMinute: 660}),
		"touching windows do not overlap")
	assert.False(t, base.Overlaps(&AvailabilityWindow{DayOfWeek: Tuesday, StartMinute: 540, EndMinute: 600}),
		"different days never overlap")
}
