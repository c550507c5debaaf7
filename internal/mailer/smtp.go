package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"outrexo/internal/model"
)

// SMTPSettings is the decrypted connection configuration for a user's
// own SMTP server.
type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	SSL      bool
}

// SettingsFromUser builds SMTPSettings from a user row and the already
// decrypted password. Port 587 is assumed when none is stored.
func SettingsFromUser(u *model.User, password string) SMTPSettings {
	port := u.SMTPPort
	if port == 0 {
		port = 587
	}
	return SMTPSettings{
		Host:     u.SMTPHost,
		Port:     port,
		Username: u.SMTPUser,
		Password: password,
		SSL:      u.SMTPSecure,
	}
}

// SMTPChannel sends mail over user-supplied SMTP credentials.
type SMTPChannel struct{}

// NewSMTPChannel creates an SMTP channel.
func NewSMTPChannel() *SMTPChannel {
	return &SMTPChannel{}
}

// Send delivers one HTML message. The From header is the SMTP username,
// which is what most providers require anyway.
func (s *SMTPChannel) Send(settings SMTPSettings, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", settings.Username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(settings.Host, settings.Port, settings.Username, settings.Password)
	d.SSL = settings.SSL

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

// Verify opens and closes a connection to check the credentials, the way
// the settings endpoint probes a configuration before persisting it.
func (s *SMTPChannel) Verify(settings SMTPSettings) error {
	d := gomail.NewDialer(settings.Host, settings.Port, settings.Username, settings.Password)
	d.SSL = settings.SSL

	closer, err := d.Dial()
	if err != nil {
		return fmt.Errorf("smtp verification failed: %w", err)
	}
	return closer.Close()
}
