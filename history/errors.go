package history

import "errors"

var (
	// ErrBackendRequired is returned when a storage backend is not provided.
	ErrBackendRequired = errors.New("backend required")

	// ErrSerializationFailed indicates a turn could not be encoded or decoded.
	ErrSerializationFailed = errors.New("serialization failed")
)
