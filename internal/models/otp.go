package models

import "time"

// OTP is a one-time password-reset code bound to an email.
type OTP struct {
	ID        uint64
	Email     string
	Code      string
	CreatedAt time.Time
}
