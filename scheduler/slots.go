package scheduler

import (
	"github.com/docwell/docwell-backend/models"
)

// Slot is a fixed-duration bookable sub-interval of an availability
// window, expressed as minutes since midnight. It is derived on demand
// and never persisted.
type Slot struct {
	Start models.MinuteOfDay
	End   models.MinuteOfDay
}

// GenerateSlots expands [start, end) into contiguous slots of exactly
// durationMinutes each, walking forward from start. A trailing
// remainder shorter than the duration is dropped rather than emitted
// as a short slot.
//
// A window too short to fit a single slot yields an empty list, not an
// error; ErrInvalidWindow is reserved for inverted windows and
// non-positive durations.
func GenerateSlots(start, end models.MinuteOfDay, durationMinutes int) ([]Slot, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidWindow
	}
	if !start.Valid() || !end.Valid() || start >= end {
		return nil, ErrInvalidWindow
	}

	step := models.MinuteOfDay(durationMinutes)
	slots := make([]Slot, 0, int(end-start)/durationMinutes)
	for cursor := start; cursor+step <= end; cursor += step {
		slots = append(slots, Slot{Start: cursor, End: cursor + step})
	}
	return slots, nil
}
