package diskmgr

import "errors"

// Error kinds raised by the storage manager, per spec.md §7.
var (
	ErrFileNotFound        = errors.New("file not found")
	ErrFileHandleNotInit   = errors.New("file handle not initialized")
	ErrWriteFailed         = errors.New("write failed")
	ErrReadNonExistingPage = errors.New("read of non-existing page")
	ErrFileCloseFailed     = errors.New("file close failed")
)
