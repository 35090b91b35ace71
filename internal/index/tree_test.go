package index

import (
	"errors"
	"path/filepath"
	"testing"

	"storagecore/internal/record"
)

func mustOpenIndex(t *testing.T, name string, n int) *Tree {
	t.Helper()
	if err := CreateIndex(name, record.IntType, n); err != nil {
		t.Fatalf("create index: %v", err)
	}
	tr, err := OpenIndex(name, DefaultOptions())
	if err != nil {
		t.Fatalf("open index: %v", err)
	}
	t.Cleanup(func() { tr.CloseIndex() })
	return tr
}

func TestInsertFindDeleteKey(t *testing.T) {
	name := filepath.Join(t.TempDir(), "i.idx")
	tr := mustOpenIndex(t, name, 2)

	if err := tr.InsertKey(10, record.RID{Page: 1, Slot: 0}); err != nil {
		t.Fatalf("insert 10: %v", err)
	}
	if err := tr.InsertKey(20, record.RID{Page: 1, Slot: 1}); err != nil {
		t.Fatalf("insert 20: %v", err)
	}
	if err := tr.InsertKey(30, record.RID{Page: 2, Slot: 0}); err != nil {
		t.Fatalf("insert 30: %v", err)
	}

	rid, err := tr.FindKey(20)
	if err != nil {
		t.Fatalf("find 20: %v", err)
	}
	if rid != (record.RID{Page: 1, Slot: 1}) {
		t.Fatalf("find 20 = %+v, want {1 1}", rid)
	}

	if err := tr.DeleteKey(10); err != nil {
		t.Fatalf("delete 10: %v", err)
	}
	if _, err := tr.FindKey(10); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if tr.GlobalEntryCount() != 2 {
		t.Fatalf("entry count = %d, want 2", tr.GlobalEntryCount())
	}
}

func TestCreateIndexRejectsNonIntKey(t *testing.T) {
	name := filepath.Join(t.TempDir(), "i.idx")
	err := CreateIndex(name, record.StringType, 2)
	if !errors.Is(err, ErrUnknownDatatype) {
		t.Fatalf("expected ErrUnknownDatatype, got %v", err)
	}
}

func TestOrderedScan(t *testing.T) {
	name := filepath.Join(t.TempDir(), "i.idx")
	tr := mustOpenIndex(t, name, 2)

	inserts := []struct {
		key int32
		rid record.RID
	}{
		{30, record.RID{Page: 3, Slot: 0}},
		{10, record.RID{Page: 1, Slot: 0}},
		{50, record.RID{Page: 5, Slot: 0}},
		{20, record.RID{Page: 2, Slot: 0}},
		{40, record.RID{Page: 4, Slot: 0}},
	}
	for _, in := range inserts {
		if err := tr.InsertKey(in.key, in.rid); err != nil {
			t.Fatalf("insert %d: %v", in.key, err)
		}
	}

	scan, err := tr.OpenScan()
	if err != nil {
		t.Fatalf("open scan: %v", err)
	}
	defer scan.CloseScan()

	if keys := scan.Keys(); len(keys) != 5 {
		t.Fatalf("Keys() returned %d entries, want 5", len(keys))
	}

	var got []int32
	for {
		key, _, err := scan.NextEntry()
		if errors.Is(err, ErrNoMoreEntries) {
			break
		}
		if err != nil {
			t.Fatalf("next entry: %v", err)
		}
		got = append(got, key)
	}

	want := []int32{10, 20, 30, 40, 50}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestDeleteKeyRelocatesTailEntry(t *testing.T) {
	name := filepath.Join(t.TempDir(), "i.idx")
	tr := mustOpenIndex(t, name, 2)

	for _, k := range []int32{1, 2, 3, 4, 5} {
		if err := tr.InsertKey(k, record.RID{Page: int(k), Slot: 0}); err != nil {
			t.Fatalf("insert %d: %v", k, err)
		}
	}
	// Keys land as (1,2) (3,4) (5,-). Deleting 1 must relocate the tail
	// entry (5) from the last page into the vacated slot, not just shift
	// within page 1, since the spec describes relocation from lastPage.
	if err := tr.DeleteKey(1); err != nil {
		t.Fatalf("delete 1: %v", err)
	}
	if tr.GlobalEntryCount() != 4 {
		t.Fatalf("entry count = %d, want 4", tr.GlobalEntryCount())
	}
	for _, k := range []int32{2, 3, 4, 5} {
		if _, err := tr.FindKey(k); err != nil {
			t.Fatalf("find %d after delete: %v", k, err)
		}
	}
	if _, err := tr.FindKey(1); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("expected 1 to be gone, got %v", err)
	}
}

func TestCloseAndReopenIndexPreservesEntries(t *testing.T) {
	name := filepath.Join(t.TempDir(), "i.idx")
	if err := CreateIndex(name, record.IntType, 2); err != nil {
		t.Fatalf("create: %v", err)
	}
	tr, err := OpenIndex(name, DefaultOptions())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := tr.InsertKey(7, record.RID{Page: 1, Slot: 2}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tr.CloseIndex(); err != nil {
		t.Fatalf("close: %v", err)
	}

	tr2, err := OpenIndex(name, DefaultOptions())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tr2.CloseIndex()
	if tr2.GlobalEntryCount() != 1 {
		t.Fatalf("entry count after reopen = %d, want 1", tr2.GlobalEntryCount())
	}
	rid, err := tr2.FindKey(7)
	if err != nil {
		t.Fatalf("find after reopen: %v", err)
	}
	if rid != (record.RID{Page: 1, Slot: 2}) {
		t.Fatalf("rid after reopen = %+v, want {1 2}", rid)
	}
}
