package diskmgr

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestStorageRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "t.bin")
	if err := CreateFile(name); err != nil {
		t.Fatalf("create file: %v", err)
	}

	h, err := Open(name)
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	defer h.Close()

	for i := 0; i < 3; i++ {
		if err := h.AppendEmptyPage(); err != nil {
			t.Fatalf("append empty page %d: %v", i, err)
		}
	}

	want := bytes.Repeat([]byte{0x41}, PageSize)
	if err := h.WritePage(2, want); err != nil {
		t.Fatalf("write page 2: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	h2, err := Open(name)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer h2.Close()

	got := make([]byte, PageSize)
	if err := h2.ReadPage(2, got); err != nil {
		t.Fatalf("read page 2: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("round trip mismatch")
	}
	if h2.TotalPages() != 4 {
		t.Fatalf("total pages = %d, want 4", h2.TotalPages())
	}
}

func TestAppendEmptyPageOnFreshFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "fresh.bin")
	if err := CreateFile(name); err != nil {
		t.Fatalf("create file: %v", err)
	}
	h, err := Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()
	if err := h.AppendEmptyPage(); err != nil {
		t.Fatalf("append: %v", err)
	}
	if h.TotalPages() != 2 {
		t.Fatalf("total pages = %d, want 2", h.TotalPages())
	}
}

func TestEnsureCapacityIsIdempotent(t *testing.T) {
	name := filepath.Join(t.TempDir(), "cap.bin")
	if err := CreateFile(name); err != nil {
		t.Fatalf("create file: %v", err)
	}
	h, err := Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()

	if err := h.EnsureCapacity(0); err != nil {
		t.Fatalf("ensure capacity 0: %v", err)
	}
	if h.TotalPages() != 1 {
		t.Fatalf("total pages = %d, want 1", h.TotalPages())
	}

	if err := h.EnsureCapacity(5); err != nil {
		t.Fatalf("ensure capacity 5: %v", err)
	}
	if h.TotalPages() != 5 {
		t.Fatalf("total pages = %d, want 5", h.TotalPages())
	}
	if err := h.EnsureCapacity(3); err != nil {
		t.Fatalf("ensure capacity 3 (shrink no-op): %v", err)
	}
	if h.TotalPages() != 5 {
		t.Fatalf("total pages shrank to %d, want 5", h.TotalPages())
	}
}

func TestReadPageOutOfRange(t *testing.T) {
	name := filepath.Join(t.TempDir(), "oob.bin")
	if err := CreateFile(name); err != nil {
		t.Fatalf("create file: %v", err)
	}
	h, err := Open(name)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer h.Close()

	buf := make([]byte, PageSize)
	if err := h.ReadPage(5, buf); !errors.Is(err, ErrReadNonExistingPage) {
		t.Fatalf("expected ErrReadNonExistingPage, got %v", err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.bin"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestPrintPageFormatsHexDump(t *testing.T) {
	buf := make([]byte, PageSize)
	buf[0] = 0xAB
	buf[17] = 0xCD
	dump := PrintPage(buf)
	if !strings.Contains(dump, "ab") {
		t.Fatalf("dump missing byte 0: %q", dump[:40])
	}
	if !strings.Contains(dump, "0010") {
		t.Fatalf("dump missing offset line for byte 17: %q", dump)
	}
}
