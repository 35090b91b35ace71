package buffer

import (
	"path/filepath"
	"testing"

	"storagecore/internal/diskmgr"
)

func openTestFile(t *testing.T, pages int) *diskmgr.FileHandle {
	t.Helper()
	name := filepath.Join(t.TempDir(), "pool.bin")
	if err := diskmgr.CreateFile(name); err != nil {
		t.Fatalf("create file: %v", err)
	}
	h, err := diskmgr.Open(name)
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	if err := h.EnsureCapacity(pages); err != nil {
		t.Fatalf("ensure capacity: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestLRUEvictionOrder(t *testing.T) {
	disk := openTestFile(t, 8)
	pool := NewPool(disk, 3, LRU)

	for _, pg := range []int{1, 2, 3} {
		if _, err := pool.PinPage(pg); err != nil {
			t.Fatalf("pin %d: %v", pg, err)
		}
	}
	for _, pg := range []int{1, 2, 3} {
		if err := pool.UnpinPage(pg); err != nil {
			t.Fatalf("unpin %d: %v", pg, err)
		}
	}

	if _, err := pool.PinPage(4); err != nil {
		t.Fatalf("pin 4: %v", err)
	}
	if _, err := pool.PinPage(2); err != nil {
		t.Fatalf("pin 2 (hit): %v", err)
	}
	if err := pool.UnpinPage(2); err != nil {
		t.Fatalf("unpin 2: %v", err)
	}
	if _, err := pool.PinPage(5); err != nil {
		t.Fatalf("pin 5: %v", err)
	}

	contents := pool.GetFrameContents()
	want := map[int]bool{4: true, 2: true, 5: true}
	if len(contents) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(contents))
	}
	for _, pg := range contents {
		if !want[pg] {
			t.Fatalf("unexpected frame contents %v, want pages {4,2,5}", contents)
		}
		delete(want, pg)
	}
	if len(want) != 0 {
		t.Fatalf("frame contents %v missing pages, want {4,2,5}", contents)
	}

	if got := pool.GetNumReadIO(); got != 5 {
		t.Fatalf("numReadIO = %d, want 5", got)
	}
	if got := pool.GetNumWriteIO(); got != 0 {
		t.Fatalf("numWriteIO = %d, want 0", got)
	}
}

func TestPinUnpinRoundTripLeavesCountersUnchangedExceptMiss(t *testing.T) {
	disk := openTestFile(t, 4)
	pool := NewPool(disk, 2, FIFO)

	if _, err := pool.PinPage(1); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if err := pool.UnpinPage(1); err != nil {
		t.Fatalf("unpin: %v", err)
	}
	readAfterFirst := pool.GetNumReadIO()
	writeAfterFirst := pool.GetNumWriteIO()

	if _, err := pool.PinPage(1); err != nil {
		t.Fatalf("re-pin: %v", err)
	}
	if err := pool.UnpinPage(1); err != nil {
		t.Fatalf("re-unpin: %v", err)
	}

	if pool.GetNumReadIO() != readAfterFirst {
		t.Fatalf("expected no extra read IO on a hit round trip")
	}
	if pool.GetNumWriteIO() != writeAfterFirst {
		t.Fatalf("expected no extra write IO on a hit round trip")
	}
}

func TestEvictionFailsWhenAllFramesPinned(t *testing.T) {
	disk := openTestFile(t, 4)
	pool := NewPool(disk, 2, LRU)

	if _, err := pool.PinPage(0); err != nil {
		t.Fatalf("pin 0: %v", err)
	}
	if _, err := pool.PinPage(1); err != nil {
		t.Fatalf("pin 1: %v", err)
	}
	if _, err := pool.PinPage(2); err == nil {
		t.Fatalf("expected eviction failure with all frames pinned")
	}
}

func TestMarkDirtyAndForceFlushPool(t *testing.T) {
	disk := openTestFile(t, 4)
	pool := NewPool(disk, 2, LRU)

	pg, err := pool.PinPage(0)
	if err != nil {
		t.Fatalf("pin: %v", err)
	}
	pg.Data[10] = 0xAB
	if err := pool.MarkDirty(0); err != nil {
		t.Fatalf("mark dirty: %v", err)
	}
	if err := pool.UnpinPage(0); err != nil {
		t.Fatalf("unpin: %v", err)
	}
	if err := pool.ForceFlushPool(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	flags := pool.GetDirtyFlags()
	for _, d := range flags {
		if d {
			t.Fatalf("expected all frames clean after flush")
		}
	}

	buf := make([]byte, diskmgr.PageSize)
	if err := disk.ReadPage(0, buf); err != nil {
		t.Fatalf("read back: %v", err)
	}
	if buf[10] != 0xAB {
		t.Fatalf("flushed page did not persist write")
	}
}

func TestShutdownFailsWithPinnedFrames(t *testing.T) {
	disk := openTestFile(t, 2)
	pool := NewPool(disk, 2, LRU)

	if _, err := pool.PinPage(0); err != nil {
		t.Fatalf("pin: %v", err)
	}
	if err := pool.Shutdown(); err == nil {
		t.Fatalf("expected shutdown to fail while a frame is pinned")
	}
	if err := pool.UnpinPage(0); err != nil {
		t.Fatalf("unpin: %v", err)
	}
	if err := pool.Shutdown(); err != nil {
		t.Fatalf("shutdown after unpin: %v", err)
	}
}

func TestClockSecondChance(t *testing.T) {
	disk := openTestFile(t, 8)
	pool := NewPool(disk, 2, CLOCK)

	for _, pg := range []int{0, 1} {
		if _, err := pool.PinPage(pg); err != nil {
			t.Fatalf("pin %d: %v", pg, err)
		}
		if err := pool.UnpinPage(pg); err != nil {
			t.Fatalf("unpin %d: %v", pg, err)
		}
	}
	// Re-touch page 0 so its reference bit is set when eviction runs.
	if _, err := pool.PinPage(0); err != nil {
		t.Fatalf("re-pin 0: %v", err)
	}
	if err := pool.UnpinPage(0); err != nil {
		t.Fatalf("unpin 0: %v", err)
	}

	if _, err := pool.PinPage(2); err != nil {
		t.Fatalf("pin 2 (triggers eviction): %v", err)
	}
	contents := pool.GetFrameContents()
	found0, found2 := false, false
	for _, pg := range contents {
		if pg == 0 {
			found0 = true
		}
		if pg == 2 {
			found2 = true
		}
	}
	if !found2 {
		t.Fatalf("expected page 2 resident after pin, frames=%v", contents)
	}
	if !found0 {
		t.Fatalf("expected page 0 to survive its second chance, frames=%v", contents)
	}
}

func TestLFUEvictsLeastFrequentlyUsed(t *testing.T) {
	disk := openTestFile(t, 8)
	pool := NewPool(disk, 2, LFU)

	if _, err := pool.PinPage(0); err != nil {
		t.Fatalf("pin 0: %v", err)
	}
	if err := pool.UnpinPage(0); err != nil {
		t.Fatalf("unpin 0: %v", err)
	}
	if _, err := pool.PinPage(0); err != nil {
		t.Fatalf("re-pin 0: %v", err)
	}
	if err := pool.UnpinPage(0); err != nil {
		t.Fatalf("unpin 0: %v", err)
	}
	// Page 0 now has accessCount 2.
	if _, err := pool.PinPage(1); err != nil {
		t.Fatalf("pin 1: %v", err)
	}
	if err := pool.UnpinPage(1); err != nil {
		t.Fatalf("unpin 1: %v", err)
	}
	// Page 1 has accessCount 1, should be evicted first.
	if _, err := pool.PinPage(2); err != nil {
		t.Fatalf("pin 2: %v", err)
	}
	contents := pool.GetFrameContents()
	for _, pg := range contents {
		if pg == 1 {
			t.Fatalf("expected page 1 (lowest access count) to be evicted, frames=%v", contents)
		}
	}
}
