package deliverycharge

import (
	"errors"
	"fmt"
)

// Validation and configuration failures. The HTTP layer maps these onto
// status codes: validation errors become 400s, configuration errors a
// "please contact support" 422, provider errors a retryable 502.
var (
	ErrBranchNotFound = errors.New("branch not found")

	// Configuration errors: the branch admin has to fix something before
	// any delivery charge can be calculated.
	ErrBranchLocationNotConfigured = errors.New("branch coordinates are not configured")
	ErrNoActiveBands               = errors.New("branch has no active delivery charge bands")
)

// ProviderError wraps a failure of the external geocoding/distance backend.
// Callers surface it as a generic "try again" response; there is no retry
// within the request.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("distance provider %s failed: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is one of the branch configuration
// failures.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrBranchLocationNotConfigured) || errors.Is(err, ErrNoActiveBands)
}

// IsProviderError reports whether err came from the external maps backend.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
