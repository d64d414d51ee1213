package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docwell/docwell-backend/models"
)

// 2025-06-02 is a Monday.
const monday = "2025-06-02"

func TestResolveAvailableSlots_ExpandsWindows(t *testing.T) {
	gdb := newTestDB(t)
	doctorID := seedDoctor(t, gdb, "UTC")
	addWindow(t, gdb, doctorID, models.Monday, "09:00", "12:00")

	sched := New(gdb)
	slots, err := sched.ResolveAvailableSlots(doctorID, mustDate(t, monday), 30)
	require.NoError(t, err)
	require.Len(t, slots, 6)

	assert.Equal(t, time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC), slots[0].End)
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].End, slots[i].Start, "slots must be contiguous and sorted")
	}
	assert.Equal(t, time.Date(2025, time.June, 2, 12, 0, 0, 0, time.UTC), slots[len(slots)-1].End)
}

func TestResolveAvailableSlots_MergesMultipleWindows(t *testing.T) {
	gdb := newTestDB(t)
	doctorID := seedDoctor(t, gdb, "UTC")
	addWindow(t, gdb, doctorID, models.Monday, "14:00", "15:00")
	addWindow(t, gdb, doctorID, models.Monday, "09:00", "10:00")

	sched := New(gdb)
	slots, err := sched.ResolveAvailableSlots(doctorID, mustDate(t, monday), 30)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	assert.Equal(t, 9, slots[0].Start.Hour())
	assert.Equal(t, 14, slots[2].Start.Hour(), "windows sorted ascending regardless of insert order")
}

func TestResolveAvailableSlots_SubtractsBookedAppointments(t *testing.T) {
	gdb := newTestDB(t)
	doctorID := seedDoctor(t, gdb, "UTC")
	patientID := seedPatient(t, gdb)
	addWindow(t, gdb, doctorID, models.Monday, "09:00", "11:00")

	require.NoError(t, gdb.Create(&models.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentTime: time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          models.StatusPending,
	}).Error)

	sched := New(gdb)
	slots, err := sched.ResolveAvailableSlots(doctorID, mustDate(t, monday), 30)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for _, slot := range slots {
		assert.False(t, slot.Start.Equal(time.Date(2025, time.June, 2, 9, 30, 0, 0, time.UTC)),
			"booked 09:30 slot must be excluded")
	}
}

func TestResolveAvailableSlots_PartialOverlapExcludesSlot(t *testing.T) {
	gdb := newTestDB(t)
	doctorID := seedDoctor(t, gdb, "UTC")
	patientID := seedPatient(t, gdb)
	addWindow(t, gdb, doctorID, models.Monday, "09:00", "10:00")

	// 45-minute appointment straddling both half-hour slots
	require.NoError(t, gdb.Create(&models.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentTime: time.Date(2025, time.June, 2, 9, 15, 0, 0, time.UTC),
		DurationMinutes: 45,
		Status:          models.StatusConfirmed,
	}).Error)

	sched := New(gdb)
	slots, err := sched.ResolveAvailableSlots(doctorID, mustDate(t, monday), 30)
	require.NoError(t, err)
	assert.Empty(t, slots, "any overlap excludes a slot, not just exact matches")
}

func TestResolveAvailableSlots_CanceledDoesNotBlock(t *testing.T) {
	gdb := newTestDB(t)
	doctorID := seedDoctor(t, gdb, "UTC")
	patientID := seedPatient(t, gdb)
	addWindow(t, gdb, doctorID, models.Monday, "09:00", "10:00")

	require.NoError(t, gdb.Create(&models.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentTime: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          models.StatusCanceled,
	}).Error)

	sched := New(gdb)
	slots, err := sched.ResolveAvailableSlots(doctorID, mustDate(t, monday), 30)
	require.NoError(t, err)
	assert.Len(t, slots, 2, "canceled appointments free their interval")
}

func TestResolveAvailableSlots_NoWindowsForDay(t *testing.T) {
	gdb := newTestDB(t)
	doctorID := seedDoctor(t, gdb, "UTC")
	addWindow(t, gdb, doctorID, models.Tuesday, "09:00", "12:00")

	sched := New(gdb)
	slots, err := sched.ResolveAvailableSlots(doctorID, mustDate(t, monday), 30)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestResolveAvailableSlots_UnknownDoctor(t *testing.T) {
	gdb := newTestDB(t)

	sched := New(gdb)
	_, err := sched.ResolveAvailableSlots(9999, mustDate(t, monday), 30)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestResolveAvailableSlots_PatientIsNotADoctor(t *testing.T) {
	gdb := newTestDB(t)
	patientID := seedPatient(t, gdb)

	sched := New(gdb)
	_, err := sched.ResolveAvailableSlots(patientID, mustDate(t, monday), 30)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestResolveAvailableSlots_Idempotent(t *testing.T) {
	gdb := newTestDB(t)
	doctorID := seedDoctor(t, gdb, "UTC")
	addWindow(t, gdb, doctorID, models.Monday, "09:00", "17:00")

	sched := New(gdb)
	first, err := sched.ResolveAvailableSlots(doctorID, mustDate(t, monday), 45)
	require.NoError(t, err)
	second, err := sched.ResolveAvailableSlots(doctorID, mustDate(t, monday), 45)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveAvailableSlots_DoctorTimezone(t *testing.T) {
	gdb := newTestDB(t)
	doctorID := seedDoctor(t, gdb, "Asia/Kolkata")
	addWindow(t, gdb, doctorID, models.Monday, "09:00", "10:00")

	sched := New(gdb)
	slots, err := sched.ResolveAvailableSlots(doctorID, mustDate(t, monday), 30)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	// 09:00 IST is 03:30 UTC
	assert.Equal(t, time.Date(2025, time.June, 2, 3, 30, 0, 0, time.UTC), slots[0].Start)
	assert.Equal(t, time.UTC, slots[0].Start.Location(), "slots are reported in UTC")
}

func TestResolveAvailableDates(t *testing.T) {
	gdb := newTestDB(t)
	doctorID := seedDoctor(t, gdb, "UTC")
	addWindow(t, gdb, doctorID, models.Monday, "09:00", "10:00")

	sched := New(gdb)
	dates, err := sched.ResolveAvailableDates(doctorID, 2025, time.June, 30)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06-02", "2025-06-09", "2025-06-16", "2025-06-23", "2025-06-30"}, dates)
}

func TestResolveAvailableDates_FullyBookedDayExcluded(t *testing.T) {
	gdb := newTestDB(t)
	doctorID := seedDoctor(t, gdb, "UTC")
	patientID := seedPatient(t, gdb)
	addWindow(t, gdb, doctorID, models.Monday, "09:00", "09:30")

	require.NoError(t, gdb.Create(&models.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentTime: time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		Status:          models.StatusConfirmed,
	}).Error)

	sched := New(gdb)
	dates, err := sched.ResolveAvailableDates(doctorID, 2025, time.June, 30)
	require.NoError(t, err)
	assert.NotContains(t, dates, "2025-06-02")
	assert.Contains(t, dates, "2025-06-09")
}
