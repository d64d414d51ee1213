package scheduler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/docwell/docwell-backend/db"
	"github.com/docwell/docwell-backend/models"
)

// newTestDB opens an isolated in-memory database with the production
// schema, including the partial unique booking index.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func seedDoctor(t *testing.T, gdb *gorm.DB, tz string) uint {
	t.Helper()
	doctor := models.User{
		Name:  "Dr. Asha Rao",
		Email: strings.ReplaceAll(t.Name(), "/", "_") + "-doctor@example.com",
		Role:  models.RoleDoctor,
	}
	require.NoError(t, gdb.Create(&doctor).Error)
	require.NoError(t, gdb.Create(&models.DoctorProfile{
		UserID:         doctor.ID,
		Specialization: "Cardiology",
		TimeZone:       tz,
	}).Error)
	return doctor.ID
}

func seedPatient(t *testing.T, gdb *gorm.DB) uint {
	t.Helper()
	patient := models.User{
		Name:  "Ravi Kumar",
		Email: strings.ReplaceAll(t.Name(), "/", "_") + "-patient@example.com",
		Role:  models.RolePatient,
	}
	require.NoError(t, gdb.Create(&patient).Error)
	return patient.ID
}

func addWindow(t *testing.T, gdb *gorm.DB, doctorID uint, day models.DayOfWeek, start, end string) *models.AvailabilityWindow {
	t.Helper()
	startMin, err := models.ParseClock(start)
	require.NoError(t, err)
	endMin, err := models.ParseClock(end)
	require.NoError(t, err)

	window := &models.AvailabilityWindow{
		DoctorID:    doctorID,
		DayOfWeek:   day,
		StartMinute: startMin,
		EndMinute:   endMin,
	}
	require.NoError(t, gdb.Create(window).Error)
	return window
}

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}
