package services

import "errors"

var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrDuplicateTx       = errors.New("transaction already registered")
	ErrRateUnavailable   = errors.New("TON/USD rate unavailable")
	ErrBelowMinimum      = errors.New("amount below withdrawal minimum")
	ErrInvalidScope      = errors.New("invalid withdrawal scope")
	ErrInsufficientFunds = errors.New("insufficient balance")
)
