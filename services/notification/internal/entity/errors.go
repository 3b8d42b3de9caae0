package entity

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrNotFound          = errors.New("notification not found")
	ErrUserNotFound      = errors.New("user not found")
)
