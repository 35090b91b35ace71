package index

import "errors"

var (
	ErrNullPointer           = errors.New("null pointer")
	ErrUnknownDatatype       = errors.New("unknown data type")
	ErrKeyNotFound           = errors.New("key not found")
	ErrNoMoreEntries         = errors.New("no more entries")
	ErrMemoryAllocationError = errors.New("memory allocation error")
	ErrInvalidParameter      = errors.New("invalid parameter")
)
