package models

import "errors"

var (
	ErrConflictData       = errors.New("data conflicts with existing data")
	ErrDataNotFound       = errors.New("data not found")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUserBlocked        = errors.New("user account is blocked")
	ErrNotAllowed         = errors.New("operation is not allowed")
	ErrProductUnavailable = errors.New("product is not available")
	ErrEmptyOrder         = errors.New("order contains no products")
	ErrInvalidQuantity    = errors.New("invalid product quantity")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrMalformedOrderID   = errors.New("malformed order id")
	ErrInvalidOTP         = errors.New("otp does not match")
	ErrOTPNotFound        = errors.New("no otp request found")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInternalError      = errors.New("internal error")
)
