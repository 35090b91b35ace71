// Package buffer implements the buffer manager: a bounded cache of pages
// over a storage-manager file, with pin/unpin bookkeeping, dirty tracking,
// and a pluggable replacement policy.
//
// What: pinPage/unpinPage/markDirty/forcePage/forceFlushPool/shutdown plus
// introspection, exactly as specified in spec.md §4.2.
// How: grounded on the teacher's internal/storage/pager PageFrame/
// PageBufferPool — a fixed arena of frames, pin counts, a dirty flag per
// frame, and an LRU-like eviction scan — generalized here to the four
// policies spec.md names instead of hard-coding LRU.
package buffer

import (
	"fmt"

	"storagecore/internal/diskmgr"
)

// Pool owns a fixed number of frames over a single open file.
type Pool struct {
	disk     *diskmgr.FileHandle
	frames   []*Frame
	resident map[int]int // pageNum -> frame index
	policy   Policy

	loadOrder []int // FIFO insertion order, oldest first

	tick      int
	clockHand int
	numRead   int
	numWrite  int
}

// NewPool creates a buffer pool of the given capacity over disk, using
// policy to choose eviction victims.
func NewPool(disk *diskmgr.FileHandle, capacity int, policy Policy) *Pool {
	if capacity <= 0 {
		capacity = 1
	}
	p := &Pool{
		disk:     disk,
		frames:   make([]*Frame, capacity),
		resident: make(map[int]int, capacity),
		policy:   policy,
	}
	for i := range p.frames {
		p.frames[i] = newFrame()
	}
	return p
}

// Page is the handle returned by PinPage: a page number and a pointer to
// the frame's buffer. The buffer is only valid while the page remains
// pinned.
type Page struct {
	PageNum int
	Data    []byte
}

// PinPage pins page pageNum, reading it from disk on a miss and evicting a
// victim frame per the pool's policy if no frame is free.
func (p *Pool) PinPage(pageNum int) (*Page, error) {
	if idx, ok := p.resident[pageNum]; ok {
		f := p.frames[idx]
		f.PinCount++
		f.accessCount++
		p.touch(f)
		return &Page{PageNum: pageNum, Data: f.Buf}, nil
	}

	idx, err := p.allocateFrame(pageNum)
	if err != nil {
		return nil, err
	}
	f := p.frames[idx]

	if err := p.disk.EnsureCapacity(pageNum + 1); err != nil {
		return nil, fmt.Errorf("pin page %d: %w", pageNum, err)
	}
	if err := p.disk.ReadPage(pageNum, f.Buf); err != nil {
		return nil, fmt.Errorf("pin page %d: %w", pageNum, err)
	}
	p.numRead++

	f.PageNum = pageNum
	f.Dirty = false
	f.PinCount = 1
	f.accessCount = 1
	p.touch(f)
	p.resident[pageNum] = idx
	p.loadOrder = append(p.loadOrder, idx)

	return &Page{PageNum: pageNum, Data: f.Buf}, nil
}

// touch advances the global tick and refreshes a frame's lastAccessed tick
// and CLOCK reference bit on every pin, hit or miss. accessCount is
// maintained by the caller: a hit increments it, a miss resets it to 1.
func (p *Pool) touch(f *Frame) {
	p.tick++
	f.lastAccessed = p.tick
	f.refBit = true
}

// allocateFrame returns the index of a frame ready to receive pageNum,
// reusing an empty frame if one exists or evicting a victim otherwise.
func (p *Pool) allocateFrame(pageNum int) (int, error) {
	for i, f := range p.frames {
		if f.PageNum == NoPage {
			return i, nil
		}
	}

	idx, ok := p.victim()
	if !ok {
		return 0, fmt.Errorf("pin page %d: %w: all frames pinned", pageNum, ErrGenericBufferError)
	}
	victim := p.frames[idx]
	if victim.Dirty {
		if err := p.disk.WritePage(victim.PageNum, victim.Buf); err != nil {
			return 0, fmt.Errorf("evict page %d: %w", victim.PageNum, err)
		}
		p.numWrite++
	}
	delete(p.resident, victim.PageNum)
	victim.reset()
	p.pruneLoadOrder(idx)
	return idx, nil
}

// pruneLoadOrder removes frameIdx from the FIFO load-order queue, if
// present. Every policy's eviction goes through allocateFrame, so this
// keeps loadOrder bounded by the number of resident frames regardless of
// which policy picked the victim.
func (p *Pool) pruneLoadOrder(frameIdx int) {
	for i, idx := range p.loadOrder {
		if idx == frameIdx {
			p.loadOrder = append(p.loadOrder[:i:i], p.loadOrder[i+1:]...)
			return
		}
	}
}

func (p *Pool) find(pageNum int) (*Frame, error) {
	idx, ok := p.resident[pageNum]
	if !ok {
		return nil, fmt.Errorf("page %d: %w: not resident", pageNum, ErrGenericBufferError)
	}
	return p.frames[idx], nil
}

// UnpinPage decrements the pin count of pageNum.
func (p *Pool) UnpinPage(pageNum int) error {
	f, err := p.find(pageNum)
	if err != nil {
		return err
	}
	if f.PinCount == 0 {
		return fmt.Errorf("unpin page %d: %w: pin count underflow", pageNum, ErrGenericBufferError)
	}
	f.PinCount--
	return nil
}

// MarkDirty sets the dirty flag of pageNum's frame.
func (p *Pool) MarkDirty(pageNum int) error {
	f, err := p.find(pageNum)
	if err != nil {
		return fmt.Errorf("mark dirty %d: %w", pageNum, err)
	}
	f.Dirty = true
	return nil
}

// ForcePage writes pageNum's frame to disk unconditionally and clears its
// dirty flag.
func (p *Pool) ForcePage(pageNum int) error {
	f, err := p.find(pageNum)
	if err != nil {
		return fmt.Errorf("force page %d: %w", pageNum, err)
	}
	if err := p.disk.WritePage(pageNum, f.Buf); err != nil {
		return fmt.Errorf("force page %d: %w", pageNum, err)
	}
	f.Dirty = false
	p.numWrite++
	return nil
}

// ForceFlushPool writes every unpinned, dirty frame to disk. Pinned dirty
// frames are skipped, not an error.
func (p *Pool) ForceFlushPool() error {
	for _, f := range p.frames {
		if f.PageNum == NoPage || f.PinCount != 0 || !f.Dirty {
			continue
		}
		if err := p.disk.WritePage(f.PageNum, f.Buf); err != nil {
			return fmt.Errorf("flush page %d: %w", f.PageNum, err)
		}
		f.Dirty = false
		p.numWrite++
	}
	return nil
}

// Shutdown flushes the pool and releases all frames. It fails if any frame
// is still pinned.
func (p *Pool) Shutdown() error {
	if err := p.ForceFlushPool(); err != nil {
		return err
	}
	for _, f := range p.frames {
		if f.PinCount > 0 {
			return fmt.Errorf("shutdown buffer pool: %w", ErrPinnedPagesInBuffer)
		}
	}
	for _, f := range p.frames {
		f.reset()
	}
	p.resident = make(map[int]int)
	p.loadOrder = nil
	return nil
}

// GetFrameContents returns the page index resident in each frame, in frame
// order, with NoPage for empty frames.
func (p *Pool) GetFrameContents() []int {
	out := make([]int, len(p.frames))
	for i, f := range p.frames {
		out[i] = f.PageNum
	}
	return out
}

// GetDirtyFlags returns the dirty flag of each frame, in frame order.
func (p *Pool) GetDirtyFlags() []bool {
	out := make([]bool, len(p.frames))
	for i, f := range p.frames {
		out[i] = f.Dirty
	}
	return out
}

// GetFixCounts returns the pin count of each frame, in frame order.
func (p *Pool) GetFixCounts() []int {
	out := make([]int, len(p.frames))
	for i, f := range p.frames {
		out[i] = f.PinCount
	}
	return out
}

// GetNumReadIO returns the number of page reads this pool has issued.
func (p *Pool) GetNumReadIO() int { return p.numRead }

// GetNumWriteIO returns the number of page writes this pool has issued.
func (p *Pool) GetNumWriteIO() int { return p.numWrite }

// Stats bundles the four IO/occupancy counters for callers that want them
// together rather than one getter at a time.
type Stats struct {
	NumReadIO  int
	NumWriteIO int
	Capacity   int
	Resident   int
}

// Stats returns a snapshot of the pool's IO counters and occupancy.
func (p *Pool) Stats() Stats {
	return Stats{
		NumReadIO:  p.numRead,
		NumWriteIO: p.numWrite,
		Capacity:   len(p.frames),
		Resident:   len(p.resident),
	}
}
