package services

import "errors"

var (
	// ErrAuthMissing: no authenticated session. Recovered by redirecting to
	// the login surface, not a true error.
	ErrAuthMissing = errors.New("no authenticated session")

	ErrCartEmpty           = errors.New("cart is empty")
	ErrCheckoutNotFound    = errors.New("checkout session not found")
	ErrNotAwaitingGateway  = errors.New("checkout is not awaiting gateway confirmation")
	ErrCollectionAbandoned = errors.New("gateway collection abandoned")
	ErrEmptyConfirmation   = errors.New("gateway confirmation is empty")
)

// ServiceError carries an HTTP status for the controller layer.
type ServiceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
