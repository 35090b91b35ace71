package index

import (
	"fmt"

	"storagecore/internal/record"
)

// Scan is an in-memory, presorted traversal of every live key in a tree,
// per spec.md §4.4: it walks all node pages once up front, collects the
// non-sentinel keys, and hands them out in ascending order.
type Scan struct {
	tree *Tree
	keys []int32
	pos  int
}

// OpenScan collects every live key across the tree's node pages and sorts
// them ascending. Selection sort is acceptable given the tree's small
// max-per-node fan-out, per spec.md §4.4.
func (t *Tree) OpenScan() (*Scan, error) {
	var keys []int32
	for p := 1; p <= t.lastPage; p++ {
		pg, err := t.pool.PinPage(p)
		if err != nil {
			return nil, fmt.Errorf("open scan: %w", err)
		}
		nd, _ := decodeNode(pg.Data)
		if nd.Value1 != keyEmpty {
			keys = append(keys, nd.Value1)
		}
		if nd.Value2 != keyEmpty {
			keys = append(keys, nd.Value2)
		}
		if err := t.pool.UnpinPage(p); err != nil {
			return nil, fmt.Errorf("open scan: %w", err)
		}
	}
	selectionSort(keys)
	return &Scan{tree: t, keys: keys, pos: 0}, nil
}

func selectionSort(keys []int32) {
	for i := 0; i < len(keys); i++ {
		min := i
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[min] {
				min = j
			}
		}
		keys[i], keys[min] = keys[min], keys[i]
	}
}

// NextEntry returns the key and RID of the next entry in ascending order,
// looking the RID up with FindKey as spec.md §4.4 describes.
func (s *Scan) NextEntry() (int32, record.RID, error) {
	if s.pos >= len(s.keys) {
		return 0, record.RID{}, fmt.Errorf("next entry: %w", ErrNoMoreEntries)
	}
	key := s.keys[s.pos]
	s.pos++
	rid, err := s.tree.FindKey(key)
	if err != nil {
		return 0, record.RID{}, fmt.Errorf("next entry: %w", err)
	}
	return key, rid, nil
}

// Keys returns the scan's sorted key array without consuming it, for
// debugging a failing test.
func (s *Scan) Keys() []int32 {
	out := make([]int32, len(s.keys))
	copy(out, s.keys)
	return out
}

// CloseScan releases the scan's key array.
func (s *Scan) CloseScan() error {
	s.tree = nil
	s.keys = nil
	return nil
}
