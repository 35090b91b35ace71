package record

import (
	"fmt"

	"storagecore/internal/buffer"
	"storagecore/internal/diskmgr"
)

// DefaultBufferPoolSize is the buffer pool capacity openTable uses absent
// an explicit override, per spec.md §4.3.
const DefaultBufferPoolSize = 100

// Options configures openTable's buffer pool.
type Options struct {
	BufferPoolSize int
	Policy         buffer.Policy
}

// DefaultOptions returns the spec.md §4.3 defaults: LRU, ~100 frames.
func DefaultOptions() Options {
	return Options{BufferPoolSize: DefaultBufferPoolSize, Policy: buffer.LRU}
}

// Table is a runtime handle to an open table file.
type Table struct {
	disk   *diskmgr.FileHandle
	pool   *buffer.Pool
	name   string
	schema *Schema

	tupleCount   int32
	freePageHint int32
	recordSize   int
	slotsPerPage int
}

// CreateTable creates a fresh table file and writes its header page.
func CreateTable(name string, schema *Schema) error {
	if schema == nil || len(schema.Attrs) == 0 {
		return fmt.Errorf("create table %q: %w", name, ErrInvalidParameter)
	}
	if _, err := schema.RecordSize(); err != nil {
		return err
	}
	if err := diskmgr.CreateFile(name); err != nil {
		return fmt.Errorf("create table %q: %w", name, err)
	}
	h, err := diskmgr.Open(name)
	if err != nil {
		return fmt.Errorf("create table %q: %w", name, err)
	}
	defer h.Close()

	buf := make([]byte, diskmgr.PageSize)
	if err := EncodeHeader(buf, 0, 1, schema); err != nil {
		return fmt.Errorf("create table %q: %w", name, err)
	}
	if err := h.WritePage(0, buf); err != nil {
		return fmt.Errorf("create table %q: %w", name, err)
	}
	return nil
}

// OpenTable attaches a buffer pool to name and decodes its header.
func OpenTable(name string, opts Options) (*Table, error) {
	if opts.BufferPoolSize <= 0 {
		opts = DefaultOptions()
	}
	h, err := diskmgr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open table %q: %w", name, err)
	}
	pool := buffer.NewPool(h, opts.BufferPoolSize, opts.Policy)

	pg, err := pool.PinPage(0)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("open table %q: %w", name, err)
	}
	tupleCount, freePageHint, schema, err := DecodeHeader(pg.Data)
	if err != nil {
		pool.UnpinPage(0)
		h.Close()
		return nil, fmt.Errorf("open table %q: %w", name, err)
	}
	if err := pool.UnpinPage(0); err != nil {
		h.Close()
		return nil, fmt.Errorf("open table %q: %w", name, err)
	}

	recSize, err := schema.RecordSize()
	if err != nil {
		h.Close()
		return nil, err
	}
	slotsPerPage := diskmgr.PageSize / recSize
	if slotsPerPage <= 0 {
		h.Close()
		return nil, fmt.Errorf("open table %q: %w: record larger than a page", name, ErrSchemaError)
	}

	return &Table{
		disk:         h,
		pool:         pool,
		name:         name,
		schema:       schema,
		tupleCount:   tupleCount,
		freePageHint: freePageHint,
		recordSize:   recSize,
		slotsPerPage: slotsPerPage,
	}, nil
}

// CloseTable flushes and shuts down the table's buffer pool, then closes
// the underlying file.
func (t *Table) CloseTable() error {
	if err := t.pool.Shutdown(); err != nil {
		return fmt.Errorf("close table %q: %w", t.name, err)
	}
	if err := t.disk.Close(); err != nil {
		return fmt.Errorf("close table %q: %w", t.name, err)
	}
	return nil
}

// DeleteTable removes a table's file from disk.
func DeleteTable(name string) error {
	if err := diskmgr.Destroy(name); err != nil {
		return fmt.Errorf("delete table %q: %w", name, err)
	}
	return nil
}

// Schema returns the table's schema.
func (t *Table) Schema() *Schema { return t.schema }

// GetNumTuples returns the table's live tuple count.
func (t *Table) GetNumTuples() int { return int(t.tupleCount) }

func (t *Table) syncHeader() error {
	pg, err := t.pool.PinPage(0)
	if err != nil {
		return fmt.Errorf("sync header: %w", err)
	}
	if err := EncodeHeader(pg.Data, t.tupleCount, t.freePageHint, t.schema); err != nil {
		t.pool.UnpinPage(0)
		return fmt.Errorf("sync header: %w", err)
	}
	if err := t.pool.MarkDirty(0); err != nil {
		t.pool.UnpinPage(0)
		return fmt.Errorf("sync header: %w", err)
	}
	return t.pool.UnpinPage(0)
}

func (t *Table) slotOffset(slot int) int { return slot * t.recordSize }

// InsertRecord encodes value's attributes into a fresh tuple and stores it
// in the first available slot, starting the search at the free-page hint.
func (t *Table) InsertRecord(values []any) (RID, error) {
	if len(values) != len(t.schema.Attrs) {
		return RID{}, fmt.Errorf("insert record: %w: value count mismatch", ErrInvalidParameter)
	}
	body := make([]byte, t.recordSize)
	body[0] = TombstoneOccupied
	for i, v := range values {
		if err := SetAttr(t.schema, i, body, v); err != nil {
			return RID{}, fmt.Errorf("insert record: %w", err)
		}
	}

	page := int(t.freePageHint)
	if page < 1 {
		page = 1
	}
	for {
		pg, err := t.pool.PinPage(page)
		if err != nil {
			return RID{}, fmt.Errorf("insert record: %w", err)
		}
		slot := -1
		for s := 0; s < t.slotsPerPage; s++ {
			off := t.slotOffset(s)
			if pg.Data[off] != TombstoneOccupied {
				slot = s
				break
			}
		}
		if slot == -1 {
			if err := t.pool.UnpinPage(page); err != nil {
				return RID{}, fmt.Errorf("insert record: %w", err)
			}
			page++
			continue
		}

		off := t.slotOffset(slot)
		copy(pg.Data[off:off+t.recordSize], body)
		if err := t.pool.MarkDirty(page); err != nil {
			t.pool.UnpinPage(page)
			return RID{}, fmt.Errorf("insert record: %w", err)
		}
		if err := t.pool.UnpinPage(page); err != nil {
			return RID{}, fmt.Errorf("insert record: %w", err)
		}

		t.tupleCount++
		if err := t.syncHeader(); err != nil {
			return RID{}, err
		}
		return RID{Page: page, Slot: slot}, nil
	}
}

// GetRecord reads the tuple at rid, failing with ErrNoTupleWithGivenRID if
// the slot is empty.
func (t *Table) GetRecord(rid RID) (*Record, error) {
	if rid.Page < 1 || rid.Slot < 0 || rid.Slot >= t.slotsPerPage {
		return nil, fmt.Errorf("get record %+v: %w", rid, ErrInvalidParameter)
	}
	pg, err := t.pool.PinPage(rid.Page)
	if err != nil {
		return nil, fmt.Errorf("get record %+v: %w", rid, err)
	}
	defer t.pool.UnpinPage(rid.Page)

	off := t.slotOffset(rid.Slot)
	if pg.Data[off] != TombstoneOccupied {
		return nil, fmt.Errorf("get record %+v: %w", rid, ErrNoTupleWithGivenRID)
	}
	data := make([]byte, t.recordSize)
	copy(data, pg.Data[off:off+t.recordSize])
	return &Record{ID: rid, Data: data}, nil
}

// DeleteRecord tombstones the slot at rid and biases future inserts toward
// its page.
func (t *Table) DeleteRecord(rid RID) error {
	if rid.Page < 1 || rid.Slot < 0 || rid.Slot >= t.slotsPerPage {
		return fmt.Errorf("delete record %+v: %w", rid, ErrInvalidParameter)
	}
	pg, err := t.pool.PinPage(rid.Page)
	if err != nil {
		return fmt.Errorf("delete record %+v: %w", rid, err)
	}
	off := t.slotOffset(rid.Slot)
	if pg.Data[off] != TombstoneOccupied {
		t.pool.UnpinPage(rid.Page)
		return fmt.Errorf("delete record %+v: %w", rid, ErrNoTupleWithGivenRID)
	}
	pg.Data[off] = TombstoneEmpty
	if err := t.pool.MarkDirty(rid.Page); err != nil {
		t.pool.UnpinPage(rid.Page)
		return fmt.Errorf("delete record %+v: %w", rid, err)
	}
	if err := t.pool.UnpinPage(rid.Page); err != nil {
		return fmt.Errorf("delete record %+v: %w", rid, err)
	}

	t.tupleCount--
	t.freePageHint = int32(rid.Page)
	return t.syncHeader()
}

// UpdateRecord overwrites the tuple at rid in place. The tuple count is
// unaffected.
func (t *Table) UpdateRecord(rid RID, values []any) error {
	if rid.Page < 1 || rid.Slot < 0 || rid.Slot >= t.slotsPerPage {
		return fmt.Errorf("update record %+v: %w", rid, ErrInvalidParameter)
	}
	if len(values) != len(t.schema.Attrs) {
		return fmt.Errorf("update record %+v: %w: value count mismatch", rid, ErrInvalidParameter)
	}
	body := make([]byte, t.recordSize)
	body[0] = TombstoneOccupied
	for i, v := range values {
		if err := SetAttr(t.schema, i, body, v); err != nil {
			return fmt.Errorf("update record %+v: %w", rid, err)
		}
	}

	pg, err := t.pool.PinPage(rid.Page)
	if err != nil {
		return fmt.Errorf("update record %+v: %w", rid, err)
	}
	off := t.slotOffset(rid.Slot)
	copy(pg.Data[off:off+t.recordSize], body)
	if err := t.pool.MarkDirty(rid.Page); err != nil {
		t.pool.UnpinPage(rid.Page)
		return fmt.Errorf("update record %+v: %w", rid, err)
	}
	return t.pool.UnpinPage(rid.Page)
}
