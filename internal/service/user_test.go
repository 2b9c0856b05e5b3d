package service

import (
	"context"
	"testing"
	"time"

	"github.com/agstore/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.users[user.Email]; ok {
		return nil, models.ErrConflictData
	}
	user.ID = uint64(len(f.users) + 1)
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uint64) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, models.ErrDataNotFound
}

func (f *fakeUserRepo) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepo) UpdateUserRole(ctx context.Context, id uint64, role string) (*models.User, error) {
	user, err := f.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (f *fakeUserRepo) UpdateUserPassword(ctx context.Context, email, password string) error {
	user, ok := f.users[email]
	if !ok {
		return models.ErrDataNotFound
	}
	user.Password = password
	return nil
}

func (f *fakeUserRepo) DeleteUser(ctx context.Context, id uint64) error {
	for email, user := range f.users {
		if user.ID == id {
			delete(f.users, email)
			return nil
		}
	}
	return models.ErrDataNotFound
}

type fakeOTPRepo struct {
	otps map[string]*models.OTP
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{otps: map[string]*models.OTP{}}
}

func (f *fakeOTPRepo) CreateOTP(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now()
	}
	f.otps[otp.Email] = otp
	return otp, nil
}

func (f *fakeOTPRepo) GetOTPByEmail(ctx context.Context, email string) (*models.OTP, error) {
	otp, ok := f.otps[email]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return otp, nil
}

func (f *fakeOTPRepo) DeleteOTPsByEmail(ctx context.Context, email string) error {
	delete(f.otps, email)
	return nil
}

func (f *fakeOTPRepo) DeleteOTPsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var purged int64
	for email, otp := range f.otps {
		if otp.CreatedAt.Before(cutoff) {
			delete(f.otps, email)
			purged++
		}
	}
	return purged, nil
}

type fakeCleaner struct {
	deleted int64
}

func (f *fakeCleaner) DeleteOrdersByEmail(ctx context.Context, email string) (int64, error) {
	return f.deleted, nil
}

func (f *fakeCleaner) DeleteReviewsByEmail(ctx context.Context, email string) (int64, error) {
	return f.deleted, nil
}

type fakeMailer struct {
	sent []string
}

func (f *fakeMailer) SendOTP(ctx context.Context, email, code string) error {
	f.sent = append(f.sent, code)
	return nil
}

func newTestUserService(users *fakeUserRepo, otps *fakeOTPRepo, mailer *fakeMailer) *UserService {
	return NewUserService(users, otps, &fakeCleaner{deleted: 2}, &fakeCleaner{deleted: 1}, mailer)
}

func TestUserService_Register(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestUserService(users, newFakeOTPRepo(), &fakeMailer{})

	user, err := svc.Register(context.Background(), &models.User{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret")))

	_, err = svc.Register(context.Background(), &models.User{
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  "secret",
	})
	assert.ErrorIs(t, err, models.ErrConflictData)

	_, err = svc.Register(context.Background(), &models.User{
		Email:     "bob@example.com",
		FirstName: "Bob",
		LastName:  "Roe",
		Password:  "secret",
		Role:      "superuser",
	})
	assert.ErrorIs(t, err, models.ErrInvalidRole)
}

func TestUserService_SendOTP(t *testing.T) {
	users := newFakeUserRepo()
	otps := newFakeOTPRepo()
	mailer := &fakeMailer{}
	svc := newTestUserService(users, otps, mailer)

	_, err := svc.Register(context.Background(), &models.User{
		Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Password: "secret",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SendOTP(context.Background(), "jane@example.com"))

	otp, err := otps.GetOTPByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Len(t, otp.Code, 6)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, otp.Code, mailer.sent[0])

	// a fresh request replaces the pending code
	require.NoError(t, svc.SendOTP(context.Background(), "jane@example.com"))
	assert.Len(t, mailer.sent, 2)

	err = svc.SendOTP(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}

func TestUserService_ResetPassword(t *testing.T) {
	users := newFakeUserRepo()
	otps := newFakeOTPRepo()
	svc := newTestUserService(users, otps, &fakeMailer{})

	_, err := svc.Register(context.Background(), &models.User{
		Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Password: "secret",
	})
	require.NoError(t, err)

	_, err = otps.CreateOTP(context.Background(), &models.OTP{Email: "jane@example.com", Code: "123456"})
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "jane@example.com", "654321", "newpass")
	assert.ErrorIs(t, err, models.ErrInvalidOTP)

	err = svc.ResetPassword(context.Background(), "nobody@example.com", "123456", "newpass")
	assert.ErrorIs(t, err, models.ErrOTPNotFound)

	require.NoError(t, svc.ResetPassword(context.Background(), "jane@example.com", "123456", "newpass"))

	user, err := users.GetUserByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("newpass")))

	// the code is single use
	err = svc.ResetPassword(context.Background(), "jane@example.com", "123456", "again")
	assert.ErrorIs(t, err, models.ErrOTPNotFound)
}

func TestUserService_ResetPassword_ExpiredCode(t *testing.T) {
	users := newFakeUserRepo()
	otps := newFakeOTPRepo()
	svc := newTestUserService(users, otps, &fakeMailer{})

	_, err := svc.Register(context.Background(), &models.User{
		Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Password: "secret",
	})
	require.NoError(t, err)

	_, err = otps.CreateOTP(context.Background(), &models.OTP{
		Email:     "jane@example.com",
		Code:      "123456",
		CreatedAt: time.Now().Add(-otpTTL - time.Minute),
	})
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), "jane@example.com", "123456", "newpass")
	assert.ErrorIs(t, err, models.ErrOTPNotFound)
}

func TestUserService_Delete(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestUserService(users, newFakeOTPRepo(), &fakeMailer{})

	user, err := svc.Register(context.Background(), &models.User{
		Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Password: "secret",
	})
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), customerPayload(), user.ID)
	assert.ErrorIs(t, err, models.ErrNotAllowed)

	deleted, err := svc.Delete(context.Background(), adminPayload(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", deleted.Email)
	assert.Equal(t, int64(2), deleted.OrdersDeleted)
	assert.Equal(t, int64(1), deleted.ReviewsDeleted)

	_, err = users.GetUserByEmail(context.Background(), "jane@example.com")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}

func TestUserService_PurgeExpiredOTPs(t *testing.T) {
	otps := newFakeOTPRepo()
	svc := newTestUserService(newFakeUserRepo(), otps, &fakeMailer{})

	_, err := otps.CreateOTP(context.Background(), &models.OTP{
		Email: "old@example.com", Code: "111111", CreatedAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	_, err = otps.CreateOTP(context.Background(), &models.OTP{
		Email: "fresh@example.com", Code: "222222",
	})
	require.NoError(t, err)

	require.NoError(t, svc.PurgeExpiredOTPs(context.Background()))

	_, err = otps.GetOTPByEmail(context.Background(), "old@example.com")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
	_, err = otps.GetOTPByEmail(context.Background(), "fresh@example.com")
	assert.NoError(t, err)
}
