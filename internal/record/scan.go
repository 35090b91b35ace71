package record

import "fmt"

// Scan is a cursor-based predicate scan over a table's data pages.
//
// Unlike the source this is grounded on, Scan operates on the table it was
// started against and never mutates the table's tuple count — spec.md §9
// flags the original's behaviour of reopening a fixed "ScanTable" and
// overwriting tupleCount as bugs, and the spec does not adopt either one.
type Scan struct {
	table     *Table
	predicate Expr
	page      int
	slot      int // -1 means "not yet advanced past the initial cursor"
}

// StartScan begins a predicate scan over t. The cursor starts at (page=1,
// slot=0) conceptually; Next advances it one slot per call.
func (t *Table) StartScan(predicate Expr) (*Scan, error) {
	if predicate == nil {
		return nil, fmt.Errorf("start scan: %w", ErrScanConditionNotFound)
	}
	return &Scan{table: t, predicate: predicate, page: 1, slot: -1}, nil
}

// Next advances the cursor and returns the next tuple satisfying the
// predicate. It reads the raw slot bytes (tombstone included) for every
// position it visits, so a deleted slot's stale bytes can satisfy a
// predicate that does not itself check the tombstone — spec.md §4.3
// documents this as accepted behaviour, not a bug.
func (s *Scan) Next() (*Record, error) {
	t := s.table
	for {
		s.slot++
		if s.slot >= t.slotsPerPage {
			s.slot = 0
			s.page++
		}
		if s.page >= t.disk.TotalPages() {
			s.page, s.slot = 1, -1
			return nil, fmt.Errorf("scan: %w", ErrNoMoreTuples)
		}

		pg, err := t.pool.PinPage(s.page)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		off := t.slotOffset(s.slot)
		raw := make([]byte, t.recordSize)
		copy(raw, pg.Data[off:off+t.recordSize])
		if err := t.pool.UnpinPage(s.page); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		match, err := EvalBool(s.predicate, t.schema, raw)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if match {
			return &Record{ID: RID{Page: s.page, Slot: s.slot}, Data: raw}, nil
		}
	}
}

// CloseScan releases the scan handle.
func (s *Scan) CloseScan() error {
	s.table = nil
	s.predicate = nil
	return nil
}
