package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// Unknown emails and wrong passwords both map to it.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateIdentity is returned when attempting to register an email that already exists.
	ErrDuplicateIdentity = errors.New("email already registered")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrStorageDisabled is returned by upload operations when no object storage is configured.
	ErrStorageDisabled = errors.New("storage service not configured")
)
