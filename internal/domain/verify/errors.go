package verify

import "errors"

var (
	ErrInvalidCode      = errors.New("invalid or expired verification code")
	ErrTooManyAttempts  = errors.New("too many verification attempts")
	ErrResendTooSoon    = errors.New("verification code requested too recently")
	ErrStoreUnavailable = errors.New("verification store unavailable")
)
