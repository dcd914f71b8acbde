package services

import "errors"

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrFeatureExists      = errors.New("feature already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)
