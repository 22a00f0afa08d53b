package vectorstore

import "errors"

var (
	// ErrInvalidTableName indicates an unsafe index table/collection name.
	ErrInvalidTableName = errors.New("invalid table name")

	// ErrDimensionMismatch indicates a vector with a dimensionality different
	// from the index configuration.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrIndexClosed indicates the index has been closed.
	ErrIndexClosed = errors.New("index is closed")
)
