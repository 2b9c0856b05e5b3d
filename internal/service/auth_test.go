package service

import (
	"context"
	"errors"
	"testing"

	"github.com/agstore/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeTokenService struct{}

func (f *fakeTokenService) CreateToken(user *models.User) (string, error) {
	return "token:" + user.Email, nil
}

func (f *fakeTokenService) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	return nil, nil
}

var errGoogleTokenRejected = errors.New("rejected")

type fakeGoogleClient struct {
	profiles map[string]*models.GoogleUserInfo
}

func (f *fakeGoogleClient) GetUserInfo(ctx context.Context, accessToken string) (*models.GoogleUserInfo, error) {
	info, ok := f.profiles[accessToken]
	if !ok {
		return nil, errGoogleTokenRejected
	}
	return info, nil
}

func newTestAuthService(users *fakeUserRepo, google *fakeGoogleClient) *AuthService {
	return NewAuthService(users, &fakeTokenService{}, google)
}

func storedUser(t *testing.T, users *fakeUserRepo, email, password string, blocked bool) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	_, err = users.CreateUser(context.Background(), &models.User{
		Email:     email,
		FirstName: "Jane",
		LastName:  "Doe",
		Password:  string(hash),
		Role:      models.RoleCustomer,
		IsBlocked: blocked,
	})
	require.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "valid_credentials", email: "jane@example.com", password: "secret"},
		{name: "wrong_password", email: "jane@example.com", password: "guess", wantErr: models.ErrInvalidCredentials},
		{name: "unknown_email", email: "nobody@example.com", password: "secret", wantErr: models.ErrInvalidCredentials},
		{name: "blocked_account", email: "blocked@example.com", password: "secret", wantErr: models.ErrUserBlocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newFakeUserRepo()
			storedUser(t, users, "jane@example.com", "secret", false)
			storedUser(t, users, "blocked@example.com", "secret", true)
			svc := newTestAuthService(users, &fakeGoogleClient{})

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.Equal(t, "token:"+tt.email, token)
			assert.Equal(t, tt.email, user.Email)
		})
	}
}

func TestAuthService_LoginWithGoogle_CreatesAccountOnce(t *testing.T) {
	users := newFakeUserRepo()
	google := &fakeGoogleClient{profiles: map[string]*models.GoogleUserInfo{
		"good-token": {
			Email:      "jane@example.com",
			GivenName:  "Jane",
			FamilyName: "Doe",
			Picture:    "avatar.png",
		},
	}}
	svc := newTestAuthService(users, google)

	token, user, err := svc.LoginWithGoogle(context.Background(), "good-token")
	require.NoError(t, err)

	assert.Equal(t, "token:jane@example.com", token)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.Equal(t, "Jane", user.FirstName)
	assert.Equal(t, "avatar.png", user.Img)
	assert.Len(t, users.users, 1)

	// second login reuses the existing account
	_, again, err := svc.LoginWithGoogle(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, users.users, 1)
}

func TestAuthService_LoginWithGoogle_Failures(t *testing.T) {
	users := newFakeUserRepo()
	storedUser(t, users, "blocked@example.com", "secret", true)
	google := &fakeGoogleClient{profiles: map[string]*models.GoogleUserInfo{
		"blocked-token": {Email: "blocked@example.com", GivenName: "Jane", FamilyName: "Doe"},
	}}
	svc := newTestAuthService(users, google)

	_, _, err := svc.LoginWithGoogle(context.Background(), "bad-token")
	assert.ErrorIs(t, err, errGoogleTokenRejected)
	assert.Len(t, users.users, 1)

	_, _, err = svc.LoginWithGoogle(context.Background(), "blocked-token")
	assert.ErrorIs(t, err, models.ErrUserBlocked)
}
