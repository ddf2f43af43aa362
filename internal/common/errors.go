// Package common defines shared constants and sentinel errors used across the
// application layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal    = errors.New("internal error")
	ErrorUnavailable = errors.New("collaborator unavailable")

	// Account errors. ErrInvalidCredentials deliberately covers both an
	// unknown username and a wrong password, so the API never reveals
	// whether a username exists.
	ErrDuplicateUsername  = errors.New("username is taken")
	ErrInvalidCredentials = errors.New("invalid username or password")

	// Photo-collection errors.
	ErrPhotoNotFound         = errors.New("photo not found")
	ErrAlreadyMain           = errors.New("photo is already the main photo")
	ErrCannotDeleteMainPhoto = errors.New("cannot delete the main photo")
	ErrRemoteDeletionFailed  = errors.New("remote photo deletion failed")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
