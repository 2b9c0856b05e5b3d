package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agstore/storefront/internal/google"
	"github.com/agstore/storefront/internal/logger"
	"github.com/agstore/storefront/internal/models"
	"go.uber.org/zap"
)

type AuthService interface {
	// Login verifies credentials and returns a signed token and the user record
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	// LoginWithGoogle resolves a Google access token into an account
	LoginWithGoogle(ctx context.Context, accessToken string) (string, *models.User, error)
}

// AuthHandler represents HTTP handler for authentication requests
type AuthHandler struct {
	svc AuthService
}

// NewAuthHandler creates new AuthHandler instance
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

// LoginUser verifies credentials and issues a token
// 200 — успешный вход;
// 400 — неверный формат запроса;
// 403 — аккаунт заблокирован;
// 404 — неверные логин или пароль;
// 500 — внутренняя ошибка сервера.
func (ah *AuthHandler) LoginUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		token, user, err := ah.svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidCredentials):
				writeMessage(w, http.StatusNotFound, "invalid login or password")
			case errors.Is(err, models.ErrUserBlocked):
				writeMessage(w, http.StatusForbidden, "account is blocked")
			default:
				logger.Log.Error("login", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Message: "Login successful",
			Token:   token,
			Role:    user.Role,
		})
	}
}

type googleLoginRequest struct {
	AccessToken string `json:"accessToken"`
}

// LoginWithGoogle resolves a Google access token into a session token
// 200 — успешный вход;
// 400 — токен не указан;
// 401 — токен отклонён Google;
// 403 — аккаунт заблокирован;
// 500 — внутренняя ошибка сервера.
func (ah *AuthHandler) LoginWithGoogle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req googleLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccessToken == "" {
			writeMessage(w, http.StatusBadRequest, "token is required")
			return
		}
		defer r.Body.Close()

		token, user, err := ah.svc.LoginWithGoogle(r.Context(), req.AccessToken)
		if err != nil {
			switch {
			case errors.Is(err, google.ErrTokenRejected):
				writeMessage(w, http.StatusUnauthorized, "token rejected")
			case errors.Is(err, models.ErrUserBlocked):
				writeMessage(w, http.StatusForbidden, "account is blocked")
			default:
				logger.Log.Error("google login", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Message: "User login successfully",
			Token:   token,
			Role:    user.Role,
		})
	}
}
