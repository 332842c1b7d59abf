package clinical

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNoFeatureStats = errors.New("no feature statistics loaded")
	ErrNoModels       = errors.New("no models available")
	ErrModelNotFound  = errors.New("model not found")

	ErrMalformedResponse = errors.New("malformed backend response")
	ErrBackendStatus     = errors.New("backend returned non-success status")

	ErrInvalidRocCurve = errors.New("invalid roc curve")
	ErrRowCountDrift   = errors.New("confusion counts do not sum to n_test")
)

// NewModelNotFoundError reports an unknown model id.
func NewModelNotFoundError(id ModelID) error {
	return fmt.Errorf("%w: %s", ErrModelNotFound, id)
}

// NewRocCurveError reports a malformed curve for a model.
func NewRocCurveError(id ModelID, reason string) error {
	return fmt.Errorf("%w for model %s: %s", ErrInvalidRocCurve, id, reason)
}

// IsFeedError reports whether err is a degradable feed failure rather than
// a hard load failure.
func IsFeedError(err error) bool {
	return errors.Is(err, ErrMalformedResponse) || errors.Is(err, ErrBackendStatus)
}
