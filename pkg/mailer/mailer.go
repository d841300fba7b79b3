package mailer

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Mailer sends transactional mail (OTP codes) over SMTP.
type Mailer struct {
	host   string
	port   int
	user   string
	pass   string
	sender string
}

func New(host string, port int, user, pass, sender string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, sender: sender}
}

func (m *Mailer) configured() bool {
	return m != nil && m.host != "" && m.sender != ""
}

// SendOTP delivers a one-time code to the given address.
func (m *Mailer) SendOTP(toEmail, subject, otp string, validFor string) error {
	if !m.configured() {
		return errors.New("smtp not configured")
	}
	if strings.TrimSpace(toEmail) == "" {
		return errors.New("empty recipient")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", subject)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>TrackFlow</h2>
    <p>Your one-time code is:</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
    <p>The code is valid for %s.</p>
  </div>
</body>
</html>`, otp, validFor)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(m.host, m.port, m.user, m.pass)
	if err := d.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
