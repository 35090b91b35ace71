// Command test_assign2 exercises the buffer manager's LRU eviction and
// pin/unpin protocol against a small pool.
package main

import (
	"log"
	"os"

	"storagecore/internal/buffer"
	"storagecore/internal/diskmgr"
)

func main() {
	name := "assign2_test.db"
	defer os.Remove(name)

	if err := diskmgr.CreateFile(name); err != nil {
		log.Fatalf("create file: %v", err)
	}
	h, err := diskmgr.Open(name)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer h.Close()

	pool := buffer.NewPool(h, 3, buffer.LRU)

	for _, p := range []int{1, 2, 3} {
		if _, err := pool.PinPage(p); err != nil {
			log.Fatalf("pin %d: %v", p, err)
		}
	}
	for _, p := range []int{1, 2, 3} {
		if err := pool.UnpinPage(p); err != nil {
			log.Fatalf("unpin %d: %v", p, err)
		}
	}
	if _, err := pool.PinPage(4); err != nil {
		log.Fatalf("pin 4 (should evict LRU page 1): %v", err)
	}
	if _, err := pool.PinPage(2); err != nil {
		log.Fatalf("pin 2 (should be a hit): %v", err)
	}
	if err := pool.UnpinPage(2); err != nil {
		log.Fatalf("unpin 2: %v", err)
	}
	if _, err := pool.PinPage(5); err != nil {
		log.Fatalf("pin 5 (should evict LRU page 3): %v", err)
	}

	stats := pool.Stats()
	log.Printf("assign2 OK: reads=%d writes=%d resident=%d", stats.NumReadIO, stats.NumWriteIO, stats.Resident)
}
