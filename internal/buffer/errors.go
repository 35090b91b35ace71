package buffer

import "errors"

// Error kinds raised by the buffer manager, per spec.md §7.
var (
	ErrPinnedPagesInBuffer = errors.New("pinned pages in buffer")
	ErrGenericBufferError  = errors.New("buffer manager error")
)
