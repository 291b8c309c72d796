package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrDuplicateVote      = errors.New("vote already exists for this report")
	ErrReportNotFound     = errors.New("report not found")
	ErrValidationFailed   = errors.New("validation failed")
	ErrCreateFailed       = errors.New("create failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user deactivated")
)
