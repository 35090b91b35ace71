// Command test_assign4 exercises the B-tree index manager: insert,
// find, delete, and an ordered scan over surviving keys.
package main

import (
	"log"
	"os"

	"storagecore/internal/config"
	"storagecore/internal/index"
	"storagecore/internal/record"
)

func main() {
	name := "assign4_test.idx"
	defer os.Remove(name)

	cfg, err := config.Load("storagecore.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := index.CreateIndex(name, record.IntType, cfg.IndexOrder); err != nil {
		log.Fatalf("create index: %v", err)
	}
	tree, err := index.OpenIndex(name, cfg.ToIndexOptions())
	if err != nil {
		log.Fatalf("open index: %v", err)
	}
	defer tree.CloseIndex()

	entries := []struct {
		key int32
		rid record.RID
	}{
		{10, record.RID{Page: 1, Slot: 0}},
		{20, record.RID{Page: 1, Slot: 1}},
		{30, record.RID{Page: 2, Slot: 0}},
	}
	for _, e := range entries {
		if err := tree.InsertKey(e.key, e.rid); err != nil {
			log.Fatalf("insert key %d: %v", e.key, err)
		}
	}

	rid, err := tree.FindKey(20)
	if err != nil {
		log.Fatalf("find key 20: %v", err)
	}
	log.Printf("find 20 -> %+v", rid)

	if err := tree.DeleteKey(10); err != nil {
		log.Fatalf("delete key 10: %v", err)
	}
	if _, err := tree.FindKey(10); err == nil {
		log.Fatalf("expected key 10 to be gone")
	}
	if tree.GlobalEntryCount() != 2 {
		log.Fatalf("entry count = %d, want 2", tree.GlobalEntryCount())
	}

	scan, err := tree.OpenScan()
	if err != nil {
		log.Fatalf("open scan: %v", err)
	}
	defer scan.CloseScan()
	for {
		key, rid, err := scan.NextEntry()
		if err != nil {
			break
		}
		log.Printf("scan entry: key=%d rid=%+v", key, rid)
	}

	log.Printf("assign4 OK: entry count = %d", tree.GlobalEntryCount())
}
