package storage

import "errors"

var (
	// ErrNotFound indicates no record exists at the address.
	ErrNotFound = errors.New("storage: record not found")

	// ErrInvalidCapability indicates the write proof does not match the address.
	ErrInvalidCapability = errors.New("storage: capability proof does not match address")

	// ErrSizeMismatch indicates an attempt to resize an allocated record.
	ErrSizeMismatch = errors.New("storage: record size differs from allocation")

	// ErrEmptyRecord indicates an attempt to store an empty record.
	ErrEmptyRecord = errors.New("storage: record is empty")

	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("storage: store is closed")

	// ErrAborted indicates the transaction did not start because the context ended.
	ErrAborted = errors.New("storage: transaction aborted")

	// ErrInvalidPath indicates the database path is empty.
	ErrInvalidPath = errors.New("storage: invalid database path")
)
