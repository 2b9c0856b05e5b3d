package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/agstore/storefront/internal/logger"
	"github.com/agstore/storefront/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// otpTTL is how long a password-reset code stays valid.
const otpTTL = 15 * time.Minute

// UserRepository is interface for interacting with user-related data
type UserRepository interface {
	// CreateUser inserts new user to database
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByEmail returns user by email
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns user by id
	GetUserByID(ctx context.Context, id uint64) (*models.User, error)
	// GetUsers returns all users
	GetUsers(ctx context.Context) ([]models.User, error)
	// UpdateUserRole sets the role of the user
	UpdateUserRole(ctx context.Context, id uint64, role string) (*models.User, error)
	// UpdateUserPassword replaces the stored password hash
	UpdateUserPassword(ctx context.Context, email, password string) error
	// DeleteUser removes user by id
	DeleteUser(ctx context.Context, id uint64) error
}

// OTPRepository is interface for interacting with password-reset codes
type OTPRepository interface {
	// CreateOTP stores a password-reset code for email
	CreateOTP(ctx context.Context, otp *models.OTP) (*models.OTP, error)
	// GetOTPByEmail returns the latest code stored for email
	GetOTPByEmail(ctx context.Context, email string) (*models.OTP, error)
	// DeleteOTPsByEmail removes every code stored for email
	DeleteOTPsByEmail(ctx context.Context, email string) error
	// DeleteOTPsBefore removes codes created before the cutoff
	DeleteOTPsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// OrderCleaner removes order data when a user account is deleted
type OrderCleaner interface {
	DeleteOrdersByEmail(ctx context.Context, email string) (int64, error)
}

// ReviewCleaner removes review data when a user account is deleted
type ReviewCleaner interface {
	DeleteReviewsByEmail(ctx context.Context, email string) (int64, error)
}

// Mailer delivers password-reset codes
type Mailer interface {
	SendOTP(ctx context.Context, email, code string) error
}

// DeletedUserData reports what a cascading account deletion removed.
type DeletedUserData struct {
	Email          string
	OrdersDeleted  int64
	ReviewsDeleted int64
}

// UserService implements UserService interface
type UserService struct {
	repo    UserRepository
	otps    OTPRepository
	orders  OrderCleaner
	reviews ReviewCleaner
	mailer  Mailer
}

// NewUserService creates new UserService instance
func NewUserService(repo UserRepository, otps OTPRepository, orders OrderCleaner, reviews ReviewCleaner, mailer Mailer) *UserService {
	return &UserService{
		repo:    repo,
		otps:    otps,
		orders:  orders,
		reviews: reviews,
		mailer:  mailer,
	}
}

// Register hashes the password and creates the account
func (us *UserService) Register(ctx context.Context, user *models.User) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hash)

	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	if !models.IsValidRole(user.Role) {
		return nil, models.ErrInvalidRole
	}

	return us.repo.CreateUser(ctx, user)
}

// List returns all user accounts. Admin only.
func (us *UserService) List(ctx context.Context, payload *models.TokenPayload) ([]models.User, error) {
	if !payload.IsAdmin() {
		return nil, models.ErrNotAllowed
	}

	return us.repo.GetUsers(ctx)
}

// UpdateRole sets the role of a user. Admin only.
func (us *UserService) UpdateRole(ctx context.Context, payload *models.TokenPayload, id uint64, role string) (*models.User, error) {
	if !payload.IsAdmin() {
		return nil, models.ErrNotAllowed
	}

	if !models.IsValidRole(role) {
		return nil, models.ErrInvalidRole
	}

	return us.repo.UpdateUserRole(ctx, id, role)
}

// Delete removes an account together with the orders and reviews tied to its
// email. Admin only.
func (us *UserService) Delete(ctx context.Context, payload *models.TokenPayload, id uint64) (*DeletedUserData, error) {
	if !payload.IsAdmin() {
		return nil, models.ErrNotAllowed
	}

	user, err := us.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ordersDeleted, err := us.orders.DeleteOrdersByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	reviewsDeleted, err := us.reviews.DeleteReviewsByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	if err := us.repo.DeleteUser(ctx, id); err != nil {
		return nil, err
	}

	return &DeletedUserData{
		Email:          user.Email,
		OrdersDeleted:  ordersDeleted,
		ReviewsDeleted: reviewsDeleted,
	}, nil
}

// SendOTP issues a fresh 6-digit reset code for email, replacing any pending
// codes, and mails it.
func (us *UserService) SendOTP(ctx context.Context, email string) error {
	if _, err := us.repo.GetUserByEmail(ctx, email); err != nil {
		return err
	}

	if err := us.otps.DeleteOTPsByEmail(ctx, email); err != nil {
		return err
	}

	code := fmt.Sprintf("%06d", rand.Intn(900000)+100000)

	if _, err := us.otps.CreateOTP(ctx, &models.OTP{Email: email, Code: code}); err != nil {
		return err
	}

	return us.mailer.SendOTP(ctx, email, code)
}

// ResetPassword verifies the pending code for email and replaces the password
func (us *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	otp, err := us.otps.GetOTPByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return models.ErrOTPNotFound
		}
		return err
	}

	if otp.Code != code {
		return models.ErrInvalidOTP
	}

	if time.Since(otp.CreatedAt) > otpTTL {
		return models.ErrOTPNotFound
	}

	if err := us.otps.DeleteOTPsByEmail(ctx, email); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return us.repo.UpdateUserPassword(ctx, email, string(hash))
}

// PurgeExpiredOTPs removes reset codes past their TTL
func (us *UserService) PurgeExpiredOTPs(ctx context.Context) error {
	purged, err := us.otps.DeleteOTPsBefore(ctx, time.Now().Add(-otpTTL))
	if err != nil {
		return err
	}

	if purged > 0 {
		logger.Log.Debug("purged expired otps", zap.Int64("count", purged))
	}

	return nil
}
