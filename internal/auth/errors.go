package auth

import "errors"

// Domain errors returned by the auth and setup services. Handlers map these
// to HTTP statuses; anything not listed here is logged server-side and
// replaced with a generic message before it reaches a client.
var (
	ErrPhoneRequired       = errors.New("phone number is required")
	ErrCodeRequired        = errors.New("verification code is required")
	ErrInvalidCredential   = errors.New("invalid verification code")
	ErrUnauthenticated     = errors.New("authentication required")
	ErrInvalidRolePassword = errors.New("invalid role password")
	ErrEmailInUse          = errors.New("email is already in use")
	ErrSetupComplete       = errors.New("setup has already been completed")
	ErrSetupFailed         = errors.New("could not complete setup")
)

// ValidationError marks malformed input rejected before any external call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
