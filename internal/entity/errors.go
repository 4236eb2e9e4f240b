package entity

import "errors"

var (
	// Event errors
	ErrEventNotFound    = errors.New("event not found")
	ErrEventNotBookable = errors.New("event is not open for booking")
	ErrEventFull        = errors.New("event is full")
	ErrEventDatePast    = errors.New("event date cannot be in the past")

	// Order errors
	ErrOrderNotFound     = errors.New("order not found")
	ErrNotEnoughSeats    = errors.New("not enough available seats")
	ErrOrderExpired      = errors.New("order has expired")
	ErrOrderTerminal     = errors.New("order is already settled")
	ErrInvalidOrderState = errors.New("invalid order status")

	// Voucher errors
	ErrVoucherNotFound = errors.New("voucher code not recognized")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidEmail      = errors.New("invalid email format")

	// Payment errors
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrPaymentMethodInactive = errors.New("payment method is inactive")

	// General errors
	ErrInvalidInput  = errors.New("invalid input")
	ErrDatabaseError = errors.New("database error")
)
