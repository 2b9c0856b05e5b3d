package repository

import (
	"context"
	"errors"
	"time"

	"github.com/agstore/storefront/internal/models"
	"github.com/agstore/storefront/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const (
	insertOTPQuery = `
						INSERT INTO otps (email, code)
						VALUES ($1, $2)
						RETURNING id, created_at
`
	selectOTPByEmailQuery = `
						SELECT id, email, code, created_at
						FROM otps
						WHERE email = $1
						ORDER BY created_at DESC
						LIMIT 1
`
	deleteOTPsByEmailQuery = `
						DELETE FROM otps
						WHERE email = $1
`
	deleteOTPsBeforeQuery = `
						DELETE FROM otps
						WHERE created_at < $1
`
)

// OTPRepository implements OTPRepository interface
type OTPRepository struct {
	db *postgres.DB
}

// NewOTPRepository creates new OTPRepository instance
func NewOTPRepository(db *postgres.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// CreateOTP stores a password-reset code for email
func (or *OTPRepository) CreateOTP(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	err := or.db.QueryRow(ctx, insertOTPQuery, otp.Email, otp.Code).Scan(&otp.ID, &otp.CreatedAt)
	if err != nil {
		return nil, err
	}

	return otp, nil
}

// GetOTPByEmail returns the latest code stored for email
func (or *OTPRepository) GetOTPByEmail(ctx context.Context, email string) (*models.OTP, error) {
	otp := models.OTP{}
	err := or.db.QueryRow(ctx, selectOTPByEmailQuery, email).Scan(&otp.ID, &otp.Email, &otp.Code, &otp.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &otp, nil
}

// DeleteOTPsByEmail removes every code stored for email
func (or *OTPRepository) DeleteOTPsByEmail(ctx context.Context, email string) error {
	_, err := or.db.Exec(ctx, deleteOTPsByEmailQuery, email)
	return err
}

// DeleteOTPsBefore removes codes created before the cutoff
func (or *OTPRepository) DeleteOTPsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := or.db.Exec(ctx, deleteOTPsBeforeQuery, cutoff)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}
