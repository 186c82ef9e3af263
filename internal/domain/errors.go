package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoteNotFound       = errors.New("note not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden: note does not belong to user")
	ErrUpstream           = errors.New("suggestion service unavailable")
	ErrRevisionConflict   = errors.New("document revision conflict")
)
