package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/docwell/docwell-backend/cache"
	"github.com/docwell/docwell-backend/mailer"
	"github.com/docwell/docwell-backend/models"
)

// Jobs owns the background loops: the one-hour-ahead reminder mail and
// the sweep that completes confirmed appointments whose interval has
// passed. The sweep is the "automated process" writer of appointment
// status.
type Jobs struct {
	db     *gorm.DB
	mailer *mailer.Mailer
	cache  *cache.SlotCache
	log    zerolog.Logger
	cron   *cron.Cron
}

func New(db *gorm.DB, m *mailer.Mailer, sc *cache.SlotCache, log zerolog.Logger) *Jobs {
	return &Jobs{db: db, mailer: m, cache: sc, log: log, cron: cron.New()}
}

// Start registers and launches the schedules.
func (j *Jobs) Start() error {
	if _, err := j.cron.AddFunc("* * * * *", j.sendReminders); err != nil {
		return err
	}
	if _, err := j.cron.AddFunc("*/10 * * * *", j.completeElapsed); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Info().Msg("cron jobs started")
	return nil
}

// Stop waits for running jobs to finish.
func (j *Jobs) Stop() {
	<-j.cron.Stop().Done()
}

// sendReminders mails patients whose confirmed appointment starts in
// roughly one hour.
func (j *Jobs) sendReminders() {
	now := time.Now()
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	var appointments []models.Appointment
	err := j.db.Preload("Patient").Preload("Doctor").
		Where("status = ? AND appointment_time BETWEEN ? AND ?",
			models.StatusConfirmed, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		j.log.Error().Err(err).Msg("failed to fetch appointments for reminders")
		return
	}

	for i := range appointments {
		j.mailer.SendReminder(&appointments[i])
	}
	if len(appointments) > 0 {
		j.log.Info().Int("count", len(appointments)).Msg("sent appointment reminders")
	}
}

// completeElapsed marks confirmed appointments as completed once their
// end time has passed, and frees the cache entries they pinned.
func (j *Jobs) completeElapsed() {
	var appointments []models.Appointment
	err := j.db.
		Where("status = ? AND appointment_time <= ?", models.StatusConfirmed, time.Now()).
		Find(&appointments).Error
	if err != nil {
		j.log.Error().Err(err).Msg("failed to fetch elapsed appointments")
		return
	}

	now := time.Now()
	for i := range appointments {
		a := &appointments[i]
		if a.EndTime().After(now) {
			continue
		}
		if err := a.UpdateStatus(j.db, models.StatusCompleted); err != nil {
			j.log.Error().Err(err).Uint("appointment_id", a.ID).Msg("failed to complete appointment")
			continue
		}
		j.cache.InvalidateDoctor(context.Background(), a.DoctorID)
	}
}
