package mailer

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/docwell/docwell-backend/config"
	"github.com/docwell/docwell-backend/models"
)

// Mailer sends transactional mail for bookings. Delivery is
// best-effort: a failed send is logged and never fails the booking
// that triggered it.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    zerolog.Logger
}

// New returns nil when SMTP is not configured; a nil Mailer silently
// drops every send.
func New(cfg *config.Config, log zerolog.Logger) *Mailer {
	if cfg.SMTPHost == "" || cfg.EmailUser == "" {
		log.Warn().Msg("SMTP not configured, booking mail disabled")
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.EmailUser, cfg.EmailPass),
		from:   cfg.EmailUser,
		log:    log,
	}
}

func (m *Mailer) send(to, subject, body string) {
	if m == nil {
		return
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send mail")
	}
}

// SendBookingConfirmation notifies both parties of a new booking.
func (m *Mailer) SendBookingConfirmation(appointment *models.Appointment, doctor, patient *models.User) {
	if m == nil {
		return
	}
	details := fmt.Sprintf(`
		<ul>
			<li><strong>Reference:</strong> %s</li>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Patient:</strong> %s</li>
			<li><strong>Start:</strong> %s</li>
			<li><strong>End:</strong> %s</li>
			<li><strong>Status:</strong> %s</li>
		</ul>`,
		appointment.Reference, doctor.Name, patient.Name,
		appointment.AppointmentTime.Format("2006-01-02 15:04"),
		appointment.EndTime().Format("2006-01-02 15:04"),
		appointment.Status)

	m.send(patient.Email, "Appointment Booked",
		fmt.Sprintf("<p>Dear %s,</p><p>Your appointment has been booked.</p>%s", patient.Name, details))
	m.send(doctor.Email, "New Appointment Scheduled",
		fmt.Sprintf("<p>Dear Dr. %s,</p><p>You have a new appointment.</p>%s", doctor.Name, details))
}

// SendStatusUpdate notifies the patient when the doctor moves the
// appointment through its lifecycle.
func (m *Mailer) SendStatusUpdate(appointment *models.Appointment, patient *models.User) {
	if m == nil {
		return
	}
	m.send(patient.Email, "Appointment Status Updated",
		fmt.Sprintf(`<p>Dear %s,</p><p>Your appointment %s is now <strong>%s</strong>.</p>`,
			patient.Name, appointment.Reference, appointment.Status))
}

// SendReminder is used by the cron loop for the one-hour-ahead nudge.
func (m *Mailer) SendReminder(appointment *models.Appointment) {
	if m == nil {
		return
	}
	m.send(appointment.Patient.Email, "Reminder: Upcoming Appointment",
		fmt.Sprintf(`<p>Dear %s,</p><p>This is a reminder for your appointment with Dr. %s at %s.</p>`,
			appointment.Patient.Name, appointment.Doctor.Name,
			appointment.AppointmentTime.Format("2006-01-02 15:04")))
}
