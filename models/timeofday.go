package models

import (
	"fmt"
	"time"
)

// MinuteOfDay is a time of day stored as minutes since midnight.
// All slot arithmetic happens on this type; "HH:MM" strings exist
// only at the API boundary.
type MinuteOfDay int

const MinutesPerDay = 24 * 60

// ParseClock converts an "HH:MM" 24h string into a MinuteOfDay.
// "24:00" is accepted as the exclusive end-of-day bound.
func ParseClock(s string) (MinuteOfDay, error) {
	if s == "24:00" {
		return MinutesPerDay, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM 24h format", s)
	}
	return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
}

// Clock formats the minute count back into "HH:MM".
func (m MinuteOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// Valid reports whether the value falls within a single day.
func (m MinuteOfDay) Valid() bool {
	return m >= 0 && m <= MinutesPerDay
}

// At anchors the time of day onto a calendar date in the given location.
func (m MinuteOfDay) At(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, int(m)/60, int(m)%60, 0, 0, loc)
}
