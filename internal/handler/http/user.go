package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/agstore/storefront/internal/logger"
	"github.com/agstore/storefront/internal/models"
	"github.com/agstore/storefront/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type UserService interface {
	// Register hashes the password and creates the account
	Register(ctx context.Context, user *models.User) (*models.User, error)
	// List returns all user accounts
	List(ctx context.Context, payload *models.TokenPayload) ([]models.User, error)
	// UpdateRole sets the role of a user
	UpdateRole(ctx context.Context, payload *models.TokenPayload, id uint64, role string) (*models.User, error)
	// Delete removes an account together with its orders and reviews
	Delete(ctx context.Context, payload *models.TokenPayload, id uint64) (*service.DeletedUserData, error)
	// SendOTP issues a password-reset code
	SendOTP(ctx context.Context, email string) error
	// ResetPassword verifies the code and replaces the password
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// UserHandler represents HTTP handler for user-related requests
type UserHandler struct {
	svc UserService
}

// NewUserHandler creates new UserHandler instance
func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

type registerUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type userResponse struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
	IsBlocked bool   `json:"isBlocked"`
	Img       string `json:"img,omitempty"`
	CreatedAt string `json:"createdAt"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		IsBlocked: user.IsBlocked,
		Img:       user.Img,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// RegisterUser creates a new account
// 201 — пользователь создан;
// 400 — неверный формат запроса;
// 409 — email уже занят;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) RegisterUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
			writeMessage(w, http.StatusBadRequest, "email, password, firstName and lastName are required")
			return
		}

		user := &models.User{
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  req.Password,
			Role:      req.Role,
		}

		if _, err := uh.svc.Register(r.Context(), user); err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidRole):
				writeMessage(w, http.StatusBadRequest, "invalid role")
			case errors.Is(err, models.ErrConflictData):
				writeMessage(w, http.StatusConflict, "user already exists")
			default:
				logger.Log.Error("register user", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeMessage(w, http.StatusCreated, "User created successfully")
	}
}

// GetCurrentUser returns the identity of the caller
// 200 — успешная обработка запроса;
// 403 — пользователь не аутентифицирован.
func (uh *UserHandler) GetCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok || payload == nil {
			writeMessage(w, http.StatusForbidden, "forbidden - authentication required")
			return
		}

		writeJSON(w, http.StatusOK, userResponse{
			Email:     payload.Email,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Role:      payload.Role,
			Img:       payload.Img,
		})
	}
}

type listUsersResponse struct {
	Message string         `json:"message"`
	Count   int            `json:"count"`
	Users   []userResponse `json:"users"`
}

// ListUsers returns all accounts. Admin only.
// 200 — успешная обработка запроса;
// 403 — пользователь не администратор;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := getAuthPayload(r.Context(), authPayloadKey)

		users, err := uh.svc.List(r.Context(), payload)
		if err != nil {
			if errors.Is(err, models.ErrNotAllowed) {
				writeMessage(w, http.StatusForbidden, "forbidden - you are not an admin")
				return
			}
			logger.Log.Error("list users", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}

		resp := listUsersResponse{
			Message: "Users fetched successfully",
			Count:   len(users),
			Users:   make([]userResponse, 0, len(users)),
		}
		for i := range users {
			resp.Users = append(resp.Users, newUserResponse(&users[i]))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type updateUserRoleRequest struct {
	Role string `json:"role"`
}

type updateUserRoleResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

// UpdateUserRole sets the role of a user. Admin only.
// 200 — роль обновлена;
// 400 — неверное значение роли;
// 403 — пользователь не администратор;
// 404 — пользователь не найден;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) UpdateUserRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := getAuthPayload(r.Context(), authPayloadKey)

		userID, err := strconv.ParseUint(chi.URLParam(r, "userId"), 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user id")
			return
		}

		var req updateUserRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		user, err := uh.svc.UpdateRole(r.Context(), payload, userID, req.Role)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotAllowed):
				writeMessage(w, http.StatusForbidden, "forbidden - you are not an admin")
			case errors.Is(err, models.ErrInvalidRole):
				writeMessage(w, http.StatusBadRequest, "valid role is required (customer or admin)")
			case errors.Is(err, models.ErrDataNotFound):
				writeMessage(w, http.StatusNotFound, "user not found")
			default:
				logger.Log.Error("update user role", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, updateUserRoleResponse{
			Message: "User role updated successfully",
			User:    newUserResponse(user),
		})
	}
}

type deleteUserResponse struct {
	Message     string `json:"message"`
	DeletedData struct {
		User           string `json:"user"`
		OrdersDeleted  int64  `json:"ordersDeleted"`
		ReviewsDeleted int64  `json:"reviewsDeleted"`
	} `json:"deletedData"`
}

// DeleteUser removes an account and its orders and reviews. Admin only.
// 200 — пользователь удалён;
// 400 — неверный идентификатор;
// 403 — пользователь не администратор;
// 404 — пользователь не найден;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, _ := getAuthPayload(r.Context(), authPayloadKey)

		userID, err := strconv.ParseUint(chi.URLParam(r, "userId"), 10, 64)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid user id")
			return
		}

		deleted, err := uh.svc.Delete(r.Context(), payload, userID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotAllowed):
				writeMessage(w, http.StatusForbidden, "forbidden - you are not an admin")
			case errors.Is(err, models.ErrDataNotFound):
				writeMessage(w, http.StatusNotFound, "user not found")
			default:
				logger.Log.Error("delete user", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		resp := deleteUserResponse{Message: "User and all related data deleted successfully"}
		resp.DeletedData.User = deleted.Email
		resp.DeletedData.OrdersDeleted = deleted.OrdersDeleted
		resp.DeletedData.ReviewsDeleted = deleted.ReviewsDeleted

		writeJSON(w, http.StatusOK, resp)
	}
}

type sendOTPRequest struct {
	Email string `json:"email"`
}

// SendOTP issues a password-reset code
// 200 — код отправлен;
// 400 — email не указан;
// 404 — пользователь не найден;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) SendOTP() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sendOTPRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			writeMessage(w, http.StatusBadRequest, "email is required")
			return
		}
		defer r.Body.Close()

		if err := uh.svc.SendOTP(r.Context(), req.Email); err != nil {
			if errors.Is(err, models.ErrDataNotFound) {
				writeMessage(w, http.StatusNotFound, "user not found")
				return
			}
			logger.Log.Error("send otp", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "failed to send OTP")
			return
		}

		writeMessage(w, http.StatusOK, "OTP sent successfully")
	}
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword verifies the code and replaces the password
// 200 — пароль обновлён;
// 400 — неверный формат запроса;
// 403 — код не совпадает;
// 404 — нет запроса на сброс;
// 500 — внутренняя ошибка сервера.
func (uh *UserHandler) ResetPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeMessage(w, http.StatusBadRequest, "bad request")
			return
		}
		defer r.Body.Close()

		if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
			writeMessage(w, http.StatusBadRequest, "email, otp and newPassword are required")
			return
		}

		if err := uh.svc.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidOTP):
				writeMessage(w, http.StatusForbidden, "OTPs are not matching! Please try again.")
			case errors.Is(err, models.ErrOTPNotFound):
				writeMessage(w, http.StatusNotFound, "no otp request found please try again")
			default:
				logger.Log.Error("reset password", zap.Error(err))
				writeMessage(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}

		writeMessage(w, http.StatusOK, "Password reset successfully")
	}
}
