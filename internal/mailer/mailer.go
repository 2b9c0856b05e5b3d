package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/agstore/storefront/internal/logger"
	"go.uber.org/zap"
)

// Mailer delivers password-reset codes over SMTP. With an empty host it
// degrades to logging the code, which keeps local setups working without a
// mail account.
type Mailer struct {
	host string
	port string
	user string
	pass string
}

// New creates new Mailer instance
func New(host, port, user, pass string) *Mailer {
	return &Mailer{
		host: host,
		port: port,
		user: user,
		pass: pass,
	}
}

// SendOTP mails the password-reset code to email
func (m *Mailer) SendOTP(ctx context.Context, email, code string) error {
	if m.host == "" {
		logger.Log.Info("smtp is not configured, otp not mailed",
			zap.String("email", email), zap.String("otp", code))
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Resetting your password\r\n\r\nYour OTP for password reset is: %s\r\n",
		m.user, email, code)

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)

	return smtp.SendMail(m.host+":"+m.port, auth, m.user, []string{email}, []byte(msg))
}
