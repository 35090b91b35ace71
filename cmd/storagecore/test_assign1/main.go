// Command test_assign1 exercises the storage manager: create, append,
// write, close, reopen, and verify a multi-page file round-trips.
package main

import (
	"log"
	"os"

	"storagecore/internal/diskmgr"
)

func main() {
	name := "assign1_test.db"
	defer os.Remove(name)

	if err := diskmgr.CreateFile(name); err != nil {
		log.Fatalf("create file: %v", err)
	}
	h, err := diskmgr.Open(name)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := h.AppendEmptyPage(); err != nil {
			log.Fatalf("append page %d: %v", i, err)
		}
	}

	page := make([]byte, diskmgr.PageSize)
	for i := range page {
		page[i] = 0x41
	}
	if err := h.WritePage(2, page); err != nil {
		log.Fatalf("write page 2: %v", err)
	}
	if err := h.Close(); err != nil {
		log.Fatalf("close: %v", err)
	}

	h, err = diskmgr.Open(name)
	if err != nil {
		log.Fatalf("reopen: %v", err)
	}
	defer h.Close()

	got := make([]byte, diskmgr.PageSize)
	if err := h.ReadPage(2, got); err != nil {
		log.Fatalf("read page 2: %v", err)
	}
	for i, b := range got {
		if b != 0x41 {
			log.Fatalf("page 2 byte %d = %#x, want 0x41", i, b)
		}
	}
	if h.TotalPages() != 4 {
		log.Fatalf("total pages = %d, want 4", h.TotalPages())
	}

	log.Printf("assign1 OK: %d pages, page 2 verified", h.TotalPages())
}
