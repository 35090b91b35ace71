// Package diskmgr implements the storage manager: it turns a host file into
// an array of fixed-size pages and provides positional and random-access
// read/write operations over it.
//
// What: page-granular file I/O — create, open, close, destroy a page file;
// read/write a page by index; grow a file to a minimum page count.
// How: every page is PageSize bytes; a file's length is always a multiple
// of PageSize; reads and writes are plain os.File ReadAt/WriteAt at
// offset i*PageSize, following the teacher pager's page-at-a-time I/O.
package diskmgr

import (
	"fmt"
	"os"
	"strings"
)

// PageSize is the fixed size, in bytes, of every page in a storagecore file.
const PageSize = 4096

// FileHandle is a reference to an open page file.
//
// totalPages is cached from the file size at open time and kept in sync by
// every call that grows the file; curPage is a positional cursor hint used
// by the ReadFirst/ReadNext/... family and is not authoritative for random
// access.
type FileHandle struct {
	name       string
	file       *os.File
	totalPages int
	curPage    int
}

// Name returns the host path this handle was opened against.
func (h *FileHandle) Name() string { return h.name }

// TotalPages returns the number of PageSize-sized pages currently in the file.
func (h *FileHandle) TotalPages() int { return h.totalPages }

// CreateFile creates a fresh, one-page, zero-filled page file at name.
// It fails if the file already exists.
func CreateFile(name string) error {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create file %q: %w", name, ErrWriteFailed)
	}
	defer f.Close()

	buf := make([]byte, PageSize)
	if n, err := f.WriteAt(buf, 0); err != nil || n != PageSize {
		return fmt.Errorf("create file %q: initial page: %w", name, ErrWriteFailed)
	}
	return nil
}

// Open opens an existing page file. The returned handle's TotalPages is
// derived from the file size, rounded up for a short trailing partial page
// (well-formed callers never produce one).
func Open(name string) (*FileHandle, error) {
	f, err := os.OpenFile(name, os.O_RDWR, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("open file %q: %w", name, ErrFileNotFound)
		}
		return nil, fmt.Errorf("open file %q: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat file %q: %w", name, err)
	}
	total := int((info.Size() + PageSize - 1) / PageSize)
	return &FileHandle{name: name, file: f, totalPages: total}, nil
}

// Close closes the underlying file.
func (h *FileHandle) Close() error {
	if h == nil || h.file == nil {
		return fmt.Errorf("close file: %w", ErrFileHandleNotInit)
	}
	if err := h.file.Close(); err != nil {
		return fmt.Errorf("close file %q: %w", h.name, ErrFileCloseFailed)
	}
	return nil
}

// Destroy removes a page file from the host filesystem.
func Destroy(name string) error {
	if err := os.Remove(name); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("destroy file %q: %w", name, ErrFileNotFound)
		}
		return fmt.Errorf("destroy file %q: %w", name, err)
	}
	return nil
}

// ReadPage reads exactly PageSize bytes at page index i into buf.
// buf must be at least PageSize bytes long.
func (h *FileHandle) ReadPage(i int, buf []byte) error {
	if h == nil || h.file == nil {
		return fmt.Errorf("read page %d: %w", i, ErrFileHandleNotInit)
	}
	if i < 0 || i >= h.totalPages {
		return fmt.Errorf("read page %d: %w", i, ErrReadNonExistingPage)
	}
	if len(buf) < PageSize {
		return fmt.Errorf("read page %d: buffer too small", i)
	}
	n, err := h.file.ReadAt(buf[:PageSize], int64(i)*PageSize)
	if err != nil || n != PageSize {
		return fmt.Errorf("read page %d: %w", i, ErrReadNonExistingPage)
	}
	h.curPage = i
	return nil
}

// WritePage writes exactly PageSize bytes from buf to page index i.
func (h *FileHandle) WritePage(i int, buf []byte) error {
	if h == nil || h.file == nil {
		return fmt.Errorf("write page %d: %w", i, ErrFileHandleNotInit)
	}
	if i < 0 || i >= h.totalPages {
		return fmt.Errorf("write page %d: %w", i, ErrReadNonExistingPage)
	}
	if len(buf) < PageSize {
		return fmt.Errorf("write page %d: buffer too small", i)
	}
	n, err := h.file.WriteAt(buf[:PageSize], int64(i)*PageSize)
	if err != nil || n != PageSize {
		return fmt.Errorf("write page %d: %w", i, ErrWriteFailed)
	}
	h.curPage = i
	return nil
}

// AppendEmptyPage writes a zero-filled page at end-of-file and increments
// TotalPages.
func (h *FileHandle) AppendEmptyPage() error {
	if h == nil || h.file == nil {
		return fmt.Errorf("append page: %w", ErrFileHandleNotInit)
	}
	buf := make([]byte, PageSize)
	n, err := h.file.WriteAt(buf, int64(h.totalPages)*PageSize)
	if err != nil || n != PageSize {
		return fmt.Errorf("append page: %w", ErrWriteFailed)
	}
	h.totalPages++
	return nil
}

// EnsureCapacity grows the file so it has at least n pages. It is a no-op
// (including for n<=0) when the file already has at least n pages;
// otherwise it appends the missing pages in a single write.
func (h *FileHandle) EnsureCapacity(n int) error {
	if h == nil || h.file == nil {
		return fmt.Errorf("ensure capacity %d: %w", n, ErrFileHandleNotInit)
	}
	if n <= h.totalPages {
		return nil
	}
	missing := n - h.totalPages
	buf := make([]byte, PageSize*missing)
	if _, err := h.file.WriteAt(buf, int64(h.totalPages)*PageSize); err != nil {
		return fmt.Errorf("ensure capacity %d: %w", n, ErrWriteFailed)
	}
	h.totalPages = n
	return nil
}

// ReadFirst reads page 0.
func (h *FileHandle) ReadFirst(buf []byte) error { return h.ReadPage(0, buf) }

// ReadLast reads the last page in the file.
func (h *FileHandle) ReadLast(buf []byte) error { return h.ReadPage(h.totalPages-1, buf) }

// ReadCurrent re-reads the page at the current cursor position.
func (h *FileHandle) ReadCurrent(buf []byte) error { return h.ReadPage(h.curPage, buf) }

// ReadNext reads the page after the cursor position and advances it.
func (h *FileHandle) ReadNext(buf []byte) error { return h.ReadPage(h.curPage+1, buf) }

// ReadPrevious reads the page before the cursor position and moves it back.
func (h *FileHandle) ReadPrevious(buf []byte) error { return h.ReadPage(h.curPage-1, buf) }

// PrintPage renders a page's raw bytes as a hex dump, 16 bytes per line,
// for use while diagnosing a failing test.
func PrintPage(buf []byte) string {
	var b strings.Builder
	for off := 0; off < len(buf); off += 16 {
		end := off + 16
		if end > len(buf) {
			end = len(buf)
		}
		fmt.Fprintf(&b, "%04x  ", off)
		for _, c := range buf[off:end] {
			fmt.Fprintf(&b, "%02x ", c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
