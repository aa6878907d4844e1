package domain

import "errors"

// Authentication errors
var (
	ErrRateLimited        = errors.New("too many login attempts")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked")
	ErrSessionCreation    = errors.New("failed to create session")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrEmailExists        = errors.New("email already registered")
	ErrNoPassword         = errors.New("account has no password set")
)

// Journal errors
var (
	ErrEntryNotFound      = errors.New("entry not found")
	ErrAttachmentTooLarge = errors.New("attachment exceeds size limit")
)

// Companion errors
var ErrConsentRequired = errors.New("privacy consent is required to enable the AI companion")
