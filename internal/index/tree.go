// Package index implements the deliberately limited no-split B-tree
// described in spec.md §4.4: an ordered map from integer keys to record
// RIDs, persisted one node per page, with at most two keys per node.
//
// It is grounded on the same pin/unpin buffer discipline as
// storagecore/internal/record, generalized to a tree-shaped page layout
// instead of a slotted one — the package this is closest to in spirit is
// SimonWaldherr/tinySQL's internal/storage/pager/btree.go, though that
// source builds a real splitting B-tree; this one intentionally does not.
package index

import (
	"fmt"

	"storagecore/internal/buffer"
	"storagecore/internal/diskmgr"
	"storagecore/internal/record"
)

// DefaultBufferPoolSize is the buffer pool capacity openIndex uses absent
// an explicit override: spec.md §4.4 names "~10 frames".
const DefaultBufferPoolSize = 10

// Options configures OpenIndex's buffer pool.
type Options struct {
	BufferPoolSize int
	Policy         buffer.Policy
}

// DefaultOptions returns the spec.md §4.4 defaults: FIFO, ~10 frames.
func DefaultOptions() Options {
	return Options{BufferPoolSize: DefaultBufferPoolSize, Policy: buffer.FIFO}
}

// Tree is a handle to an open index file.
type Tree struct {
	disk *diskmgr.FileHandle
	pool *buffer.Pool
	name string

	maxPerNode       int
	root             int
	lastPage         int
	globalEntryCount int
}

// CreateIndex rejects any key type other than INT, creates name's file,
// and writes n into page 0.
func CreateIndex(name string, keyType record.AttrType, n int) error {
	if keyType != record.IntType {
		return fmt.Errorf("create index %q: %w", name, ErrUnknownDatatype)
	}
	if n <= 0 {
		return fmt.Errorf("create index %q: %w", name, ErrInvalidParameter)
	}
	if err := diskmgr.CreateFile(name); err != nil {
		return fmt.Errorf("create index %q: %w", name, err)
	}
	h, err := diskmgr.Open(name)
	if err != nil {
		return fmt.Errorf("create index %q: %w", name, err)
	}
	defer h.Close()

	buf := make([]byte, diskmgr.PageSize)
	putInt32(buf, 0, int32(n))
	if err := h.WritePage(0, buf); err != nil {
		return fmt.Errorf("create index %q: %w", name, err)
	}
	return nil
}

// OpenIndex attaches a dedicated buffer pool to name (per opts, or
// DefaultOptions's ~10-frame FIFO pool if opts is the zero value), reads n
// from page 0, and reconstructs the tree's root/lastPage/entry-count by
// scanning any existing node pages — the on-disk format has no separate
// metadata page for these, so they are recomputed rather than persisted.
func OpenIndex(name string, opts Options) (*Tree, error) {
	if opts.BufferPoolSize <= 0 {
		opts = DefaultOptions()
	}
	h, err := diskmgr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open index %q: %w", name, err)
	}
	pool := buffer.NewPool(h, opts.BufferPoolSize, opts.Policy)

	pg, err := pool.PinPage(0)
	if err != nil {
		h.Close()
		return nil, fmt.Errorf("open index %q: %w", name, err)
	}
	n := int(getInt32(pg.Data, 0))
	if err := pool.UnpinPage(0); err != nil {
		h.Close()
		return nil, fmt.Errorf("open index %q: %w", name, err)
	}

	lastPage := h.TotalPages() - 1
	if lastPage < 0 {
		lastPage = 0
	}
	root := 0
	entryCount := 0
	for p := 1; p <= lastPage; p++ {
		pg, err := pool.PinPage(p)
		if err != nil {
			h.Close()
			return nil, fmt.Errorf("open index %q: %w", name, err)
		}
		nd, _ := decodeNode(pg.Data)
		if nd.Value1 != keyEmpty {
			entryCount++
		}
		if nd.Value2 != keyEmpty {
			entryCount++
		}
		if err := pool.UnpinPage(p); err != nil {
			h.Close()
			return nil, fmt.Errorf("open index %q: %w", name, err)
		}
	}
	if lastPage >= 1 {
		root = 1
	}

	return &Tree{
		disk:             h,
		pool:             pool,
		name:             name,
		maxPerNode:       n,
		root:             root,
		lastPage:         lastPage,
		globalEntryCount: entryCount,
	}, nil
}

// CloseIndex flushes and shuts down the tree's buffer pool, then closes
// the underlying file.
func (t *Tree) CloseIndex() error {
	if err := t.pool.Shutdown(); err != nil {
		return fmt.Errorf("close index %q: %w", t.name, err)
	}
	if err := t.disk.Close(); err != nil {
		return fmt.Errorf("close index %q: %w", t.name, err)
	}
	return nil
}

// DeleteIndex removes an index's file from disk.
func DeleteIndex(name string) error {
	if err := diskmgr.Destroy(name); err != nil {
		return fmt.Errorf("delete index %q: %w", name, err)
	}
	return nil
}

// GlobalEntryCount returns the number of live key/RID entries in the
// tree.
func (t *Tree) GlobalEntryCount() int { return t.globalEntryCount }

// InsertKey adds key/rid to the tree. Following spec.md §4.4, there is no
// split: once lastPage's node is full, a fresh page is started instead of
// rebalancing.
func (t *Tree) InsertKey(key int32, rid record.RID) error {
	if t.lastPage == 0 {
		pg, err := t.pool.PinPage(1)
		if err != nil {
			return fmt.Errorf("insert key %d: %w", key, err)
		}
		encodeNode(pg.Data, newLeaf(-1, key, rid), false)
		if err := t.pool.MarkDirty(1); err != nil {
			t.pool.UnpinPage(1)
			return fmt.Errorf("insert key %d: %w", key, err)
		}
		if err := t.pool.UnpinPage(1); err != nil {
			return fmt.Errorf("insert key %d: %w", key, err)
		}
		t.lastPage = 1
		t.root = 1
		t.globalEntryCount++
		return nil
	}

	pg, err := t.pool.PinPage(t.lastPage)
	if err != nil {
		return fmt.Errorf("insert key %d: %w", key, err)
	}
	nd, full := decodeNode(pg.Data)
	if full {
		if err := t.pool.UnpinPage(t.lastPage); err != nil {
			return fmt.Errorf("insert key %d: %w", key, err)
		}
		t.lastPage++
		pg, err = t.pool.PinPage(t.lastPage)
		if err != nil {
			return fmt.Errorf("insert key %d: %w", key, err)
		}
		encodeNode(pg.Data, newLeaf(-1, key, rid), false)
	} else {
		nd.Mid = rid
		nd.Value2 = key
		encodeNode(pg.Data, nd, true)
	}
	if err := t.pool.MarkDirty(t.lastPage); err != nil {
		t.pool.UnpinPage(t.lastPage)
		return fmt.Errorf("insert key %d: %w", key, err)
	}
	if err := t.pool.UnpinPage(t.lastPage); err != nil {
		return fmt.Errorf("insert key %d: %w", key, err)
	}
	t.globalEntryCount++
	return nil
}

// FindKey returns the RID of the first entry holding key, scanning pages
// 1..lastPage in order and slot 1 before slot 2 on each page. If key was
// inserted more than once, that first entry is not necessarily the most
// recent insertion.
func (t *Tree) FindKey(key int32) (record.RID, error) {
	page, pos, err := t.locate(key)
	if err != nil {
		return record.RID{}, err
	}
	pg, err := t.pool.PinPage(page)
	if err != nil {
		return record.RID{}, fmt.Errorf("find key %d: %w", key, err)
	}
	defer t.pool.UnpinPage(page)
	nd, _ := decodeNode(pg.Data)
	if pos == 1 {
		return nd.Left, nil
	}
	return nd.Mid, nil
}

// locate performs the linear scan across pages 1..lastPage that both
// FindKey and DeleteKey need, returning the page and slot position
// (1 or 2) holding key.
func (t *Tree) locate(key int32) (page, pos int, err error) {
	for p := 1; p <= t.lastPage; p++ {
		pg, err := t.pool.PinPage(p)
		if err != nil {
			return 0, 0, fmt.Errorf("locate key %d: %w", key, err)
		}
		nd, _ := decodeNode(pg.Data)
		if err := t.pool.UnpinPage(p); err != nil {
			return 0, 0, fmt.Errorf("locate key %d: %w", key, err)
		}
		if nd.Value1 == key {
			return p, 1, nil
		}
		if nd.Value2 == key {
			return p, 2, nil
		}
	}
	return 0, 0, fmt.Errorf("locate key %d: %w", key, ErrKeyNotFound)
}

// DeleteKey removes key's entry. If key sits on lastPage, the entry is
// cleared there (slot 2 shifts into slot 1 when slot 1 is freed) and
// lastPage shrinks if that leaves the page empty; otherwise the tail entry
// of lastPage is relocated into the vacated slot so no page develops a hole
// other than the very last one, per spec.md §4.4.
func (t *Tree) DeleteKey(key int32) error {
	foundPage, pos, err := t.locate(key)
	if err != nil {
		return err
	}

	if foundPage == t.lastPage {
		pg, err := t.pool.PinPage(foundPage)
		if err != nil {
			return fmt.Errorf("delete key %d: %w", key, err)
		}
		nd, full := decodeNode(pg.Data)
		switch pos {
		case 1:
			if full {
				nd.Value1, nd.Left = nd.Value2, nd.Mid
				nd.Value2, nd.Mid = keyEmpty, emptyRID
				full = false
			} else {
				nd.Value1, nd.Left = keyEmpty, emptyRID
			}
		case 2:
			nd.Value2, nd.Mid = keyEmpty, emptyRID
			full = false
		}
		empty := nd.Value1 == keyEmpty && nd.Value2 == keyEmpty
		encodeNode(pg.Data, nd, full)
		if err := t.pool.MarkDirty(foundPage); err != nil {
			t.pool.UnpinPage(foundPage)
			return fmt.Errorf("delete key %d: %w", key, err)
		}
		if err := t.pool.UnpinPage(foundPage); err != nil {
			return fmt.Errorf("delete key %d: %w", key, err)
		}
		if empty {
			t.lastPage--
		}
		t.globalEntryCount--
		return nil
	}

	lastPg, err := t.pool.PinPage(t.lastPage)
	if err != nil {
		return fmt.Errorf("delete key %d: %w", key, err)
	}
	lastNd, lastFull := decodeNode(lastPg.Data)
	var tailKey int32
	var tailRID record.RID
	if lastFull {
		tailKey, tailRID = lastNd.Value2, lastNd.Mid
		lastNd.Value2, lastNd.Mid = keyEmpty, emptyRID
		lastFull = false
	} else {
		tailKey, tailRID = lastNd.Value1, lastNd.Left
		lastNd.Value1, lastNd.Left = keyEmpty, emptyRID
	}
	lastEmpty := lastNd.Value1 == keyEmpty && lastNd.Value2 == keyEmpty
	encodeNode(lastPg.Data, lastNd, lastFull)
	if err := t.pool.MarkDirty(t.lastPage); err != nil {
		t.pool.UnpinPage(t.lastPage)
		return fmt.Errorf("delete key %d: %w", key, err)
	}
	if err := t.pool.UnpinPage(t.lastPage); err != nil {
		return fmt.Errorf("delete key %d: %w", key, err)
	}

	foundPg, err := t.pool.PinPage(foundPage)
	if err != nil {
		return fmt.Errorf("delete key %d: %w", key, err)
	}
	foundNd, foundFull := decodeNode(foundPg.Data)
	if pos == 1 {
		foundNd.Value1, foundNd.Left = tailKey, tailRID
	} else {
		foundNd.Value2, foundNd.Mid = tailKey, tailRID
	}
	encodeNode(foundPg.Data, foundNd, foundFull)
	if err := t.pool.MarkDirty(foundPage); err != nil {
		t.pool.UnpinPage(foundPage)
		return fmt.Errorf("delete key %d: %w", key, err)
	}
	if err := t.pool.UnpinPage(foundPage); err != nil {
		return fmt.Errorf("delete key %d: %w", key, err)
	}

	if lastEmpty {
		t.lastPage--
	}
	t.globalEntryCount--
	return nil
}
