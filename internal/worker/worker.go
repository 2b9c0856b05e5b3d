package worker

import (
	"context"
	"time"

	"github.com/agstore/storefront/internal/logger"
	"go.uber.org/zap"
)

const purgeInterval = 10 * time.Minute

type UserService interface {
	PurgeExpiredOTPs(ctx context.Context) error
}

// OTPCleaner periodically purges expired password-reset codes.
type OTPCleaner struct {
	svc UserService
}

// NewOTPCleaner create new otp cleaner
func NewOTPCleaner(svc UserService) *OTPCleaner {
	return &OTPCleaner{svc: svc}
}

// Run blocks until ctx is done, purging expired codes on a fixed interval.
func (oc *OTPCleaner) Run(ctx context.Context) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Debug("otp cleaner is done")
			return
		case <-ticker.C:
			if err := oc.svc.PurgeExpiredOTPs(ctx); err != nil {
				logger.Log.Error("error purging expired otps", zap.Error(err))
			}
		}
	}
}
