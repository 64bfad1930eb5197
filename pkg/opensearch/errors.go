package opensearch

import "errors"

var (
	ErrConnectionFailed  = errors.New("opensearch: client setup failed")
	ErrHealthcheckFailed = errors.New("opensearch: cluster unavailable")

	// ErrIndexSetupFailed is returned by EnsureIndex.
	ErrIndexSetupFailed = errors.New("opensearch: index setup failed")
)
