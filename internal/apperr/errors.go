package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrValidation     = errors.New("validation failed")
	ErrRemoteConflict = errors.New("remote content changed")
)
