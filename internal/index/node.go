package index

import (
	"encoding/binary"

	"storagecore/internal/record"
)

// keyEmpty is the sentinel for an unused key slot; emptyRID is the sentinel
// for an unused RID slot.
const keyEmpty int32 = -1

var emptyRID = record.RID{Page: -1, Slot: -1}

// nodeStructSize is sizeof(Node) from the source this package is grounded
// on: parent(int32) + isLeaf(int32, padded) + left(RID, 2×int32) +
// value1(int32) + mid(RID, 2×int32) + value2(int32) + right(RID, 2×int32).
const nodeStructSize = 40

// nodeOffset is where the node struct is written inside a page. The source
// writes it at 1 + sizeof(Node) rather than straight after the is_full
// byte at offset 1, leaving a sizeof(Node)-byte gap between the flag and
// the struct. spec.md §9 calls this out explicitly as an oddity to
// reproduce rather than silently normalize, so the gap is preserved here
// byte-for-byte instead of compacting the layout.
const nodeOffset = 1 + nodeStructSize

// node is one B-tree node: up to two keys, Value1 paired with the RID in
// Left and Value2 with the RID in Mid. Parent and Right are structural
// fields the no-split tree leaves at sentinels (-1 and emptyRID).
type node struct {
	Parent int32
	IsLeaf bool
	Left   record.RID
	Value1 int32
	Mid    record.RID
	Value2 int32
	Right  record.RID
}

func newLeaf(parent int32, key int32, rid record.RID) node {
	return node{
		Parent: parent,
		IsLeaf: true,
		Left:   rid,
		Value1: key,
		Mid:    emptyRID,
		Value2: keyEmpty,
		Right:  emptyRID,
	}
}

func putInt32(buf []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(buf[off:off+4], uint32(v))
}

func getInt32(buf []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[off : off+4]))
}

func putRID(buf []byte, off int, r record.RID) {
	putInt32(buf, off, int32(r.Page))
	putInt32(buf, off+4, int32(r.Slot))
}

func getRID(buf []byte, off int) record.RID {
	return record.RID{Page: int(getInt32(buf, off)), Slot: int(getInt32(buf, off+4))}
}

// encodeNode writes n and its fullness flag into page, following the
// byte-for-byte layout described above.
func encodeNode(page []byte, n node, full bool) {
	page[0] = 0
	if full {
		page[0] = 1
	}
	off := nodeOffset
	putInt32(page, off, n.Parent)
	off += 4
	leaf := int32(0)
	if n.IsLeaf {
		leaf = 1
	}
	putInt32(page, off, leaf)
	off += 4
	putRID(page, off, n.Left)
	off += 8
	putInt32(page, off, n.Value1)
	off += 4
	putRID(page, off, n.Mid)
	off += 8
	putInt32(page, off, n.Value2)
	off += 4
	putRID(page, off, n.Right)
}

// decodeNode reads the node and fullness flag out of page.
func decodeNode(page []byte) (n node, full bool) {
	full = page[0] != 0
	off := nodeOffset
	n.Parent = getInt32(page, off)
	off += 4
	n.IsLeaf = getInt32(page, off) != 0
	off += 4
	n.Left = getRID(page, off)
	off += 8
	n.Value1 = getInt32(page, off)
	off += 4
	n.Mid = getRID(page, off)
	off += 8
	n.Value2 = getInt32(page, off)
	off += 4
	n.Right = getRID(page, off)
	return n, full
}
