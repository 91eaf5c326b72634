package service

import "errors"

var (
	ErrBookNotFound  = errors.New("book not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrInvalidID     = errors.New("invalid id")
	ErrUserExists    = errors.New("user with this email already exists")
	ErrForbidden     = errors.New("requester is not an admin")
)
