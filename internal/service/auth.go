package service

import (
	"context"
	"errors"

	"github.com/agstore/storefront/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// GoogleClient fetches the profile behind a Google OAuth access token
type GoogleClient interface {
	GetUserInfo(ctx context.Context, accessToken string) (*models.GoogleUserInfo, error)
}

// AuthService implements AuthService interface
type AuthService struct {
	repo   UserRepository
	token  TokenService
	google GoogleClient
}

// NewAuthService creates new AuthService instance
func NewAuthService(repo UserRepository, token TokenService, google GoogleClient) *AuthService {
	return &AuthService{
		repo:   repo,
		token:  token,
		google: google,
	}
}

// Login verifies credentials and returns a signed token and the user record
func (as *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := as.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if user.IsBlocked {
		return "", nil, models.ErrUserBlocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, models.ErrInvalidCredentials
	}

	token, err := as.token.CreateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// LoginWithGoogle resolves the access token against Google, creating the
// account on first login, and returns a signed token and the user record.
func (as *AuthService) LoginWithGoogle(ctx context.Context, accessToken string) (string, *models.User, error) {
	info, err := as.google.GetUserInfo(ctx, accessToken)
	if err != nil {
		return "", nil, err
	}

	user, err := as.repo.GetUserByEmail(ctx, info.Email)
	if err != nil {
		if !errors.Is(err, models.ErrDataNotFound) {
			return "", nil, err
		}

		user = &models.User{
			Email:     info.Email,
			FirstName: info.GivenName,
			LastName:  info.FamilyName,
			Password:  "googleUserPassword",
			Role:      models.RoleCustomer,
			Img:       info.Picture,
		}
		user, err = as.repo.CreateUser(ctx, user)
		if err != nil {
			return "", nil, err
		}
	}

	if user.IsBlocked {
		return "", nil, models.ErrUserBlocked
	}

	token, err := as.token.CreateToken(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
