// Package common defines shared constants and sentinel errors used across
// FileCove components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Resource lookup errors.
	ErrUserNotFound   = errors.New("user not found")
	ErrFileNotFound   = errors.New("file not found")
	ErrFolderNotFound = errors.New("folder not found")
	ErrRecordNotFound = errors.New("record not found")

	// Share-link lifecycle errors. A token that never existed and a token
	// that was revoked are deliberately indistinguishable.
	ErrShareNotFound = errors.New("share link not found")
	ErrShareExpired  = errors.New("share link expired")

	// Authorization errors. The resource exists but the caller does not own it.
	ErrAccessDenied = errors.New("access denied")

	// Authentication errors.
	ErrAuthRequired       = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Business-rule violations (duplicate folder name, non-positive expiry...).
	ErrValidation = errors.New("validation error")

	// Credential issuer rejects MIME types outside the allow-list before
	// contacting the object store.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrObjectMissing means the caller confirmed an upload whose object was
	// never actually written to the store.
	ErrObjectMissing = errors.New("object missing in storage")

	// ErrUpstream marks transient object-store or metadata-store failures.
	// Operations failing with it are safe to retry.
	ErrUpstream = errors.New("upstream failure")

	ErrInternal = errors.New("internal error")
)
