// Package record implements the record manager: tables, schemas, tuples,
// fixed-size slotted data pages, and predicate-driven scans over a buffer
// pool, per spec.md §4.3.
//
// What: schema-described fixed-size tuples laid out in equal slots across
// data pages, with insert/delete/update/get and a cursor-based scan.
// How: grounded on the teacher's internal/storage/pager/slotted_page.go and
// row_codec.go — a page-local directory of fixed regions carrying a typed
// payload — simplified to spec.md's fixed-width, no-directory slot layout
// (every slot is the same size, so no per-page slot directory is needed).
package record

import (
	"bytes"
	"fmt"
)

// AttrType is an attribute's data type. The numeric values match the
// on-disk encoding in the table header page (spec.md §6).
type AttrType int32

const (
	IntType    AttrType = 0
	StringType AttrType = 1
	FloatType  AttrType = 2
	BoolType   AttrType = 3
)

func (t AttrType) String() string {
	switch t {
	case IntType:
		return "INT"
	case StringType:
		return "STRING"
	case FloatType:
		return "FLOAT"
	case BoolType:
		return "BOOL"
	default:
		return "UNKNOWN"
	}
}

// maxAttrNameLen is the fixed, null-padded width of an attribute name on
// disk.
const maxAttrNameLen = 15

// Attribute describes one column of a schema.
type Attribute struct {
	Name   string
	Type   AttrType
	Length int // meaningful only for StringType
}

// Size returns the on-disk encoded size of one value of this attribute.
func (a Attribute) Size() (int, error) {
	switch a.Type {
	case IntType:
		return 4, nil
	case FloatType:
		return 4, nil
	case BoolType:
		return 1, nil
	case StringType:
		if a.Length <= 0 {
			return 0, fmt.Errorf("attribute %q: %w: non-positive string length", a.Name, ErrSchemaError)
		}
		return a.Length, nil
	default:
		return 0, fmt.Errorf("attribute %q: %w: unknown type", a.Name, ErrSchemaError)
	}
}

// Schema is the fixed, ordered list of attributes describing a tuple, plus
// the indices of its key attributes.
//
// The header page layout in spec.md §6 stores a key_size count but not the
// key-attribute indices themselves: EncodeHeader writes len(KeyAttrs), and
// DecodeHeader rebuilds KeyAttrs as the first key_size attribute indices
// (0..key_size-1). KeyAttrs therefore round-trips only when the keys are
// those leading attributes; any other choice of key columns is lost on a
// close/reopen cycle.
type Schema struct {
	Attrs    []Attribute
	KeyAttrs []int
}

// RecordSize returns 1 (tombstone) plus the sum of every attribute's
// encoded size.
func (s *Schema) RecordSize() (int, error) {
	size := 1
	for _, a := range s.Attrs {
		n, err := a.Size()
		if err != nil {
			return 0, err
		}
		size += n
	}
	return size, nil
}

// AttrOffset returns the byte offset of attribute i within an encoded
// record (counting the leading tombstone byte).
func (s *Schema) AttrOffset(i int) (int, error) {
	if i < 0 || i >= len(s.Attrs) {
		return 0, fmt.Errorf("attribute index %d: %w", i, ErrInvalidParameter)
	}
	off := 1
	for j := 0; j < i; j++ {
		n, err := s.Attrs[j].Size()
		if err != nil {
			return 0, err
		}
		off += n
	}
	return off, nil
}

// IndexOf returns the index of the attribute named name, or -1.
func (s *Schema) IndexOf(name string) int {
	for i, a := range s.Attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// --- Table header page encoding (spec.md §6) ---
//
// offset 0  : int32  tuple_count
// offset 4  : int32  free_page_hint
// offset 8  : int32  num_attributes (A)
// offset 12 : int32  key_size
// offset 16 ..: repeated A times: char[15] name, int32 data_type, int32 type_length

const (
	hdrTupleCountOff = 0
	hdrFreePageOff   = 4
	hdrNumAttrsOff   = 8
	hdrKeySizeOff    = 12
	hdrAttrsOff      = 16
	attrEntrySize    = maxAttrNameLen + 4 + 4
)

// EncodeHeader marshals the schema and the two scalar counters into a
// full-page buffer (page 0 of a table file).
func EncodeHeader(buf []byte, tupleCount, freePageHint int32, schema *Schema) error {
	if len(schema.Attrs) == 0 {
		return fmt.Errorf("encode header: %w: empty schema", ErrInvalidParameter)
	}
	need := hdrAttrsOff + len(schema.Attrs)*attrEntrySize
	if len(buf) < need {
		return fmt.Errorf("encode header: %w: page too small for %d attributes", ErrSchemaError, len(schema.Attrs))
	}
	putInt32(buf[hdrTupleCountOff:], tupleCount)
	putInt32(buf[hdrFreePageOff:], freePageHint)
	putInt32(buf[hdrNumAttrsOff:], int32(len(schema.Attrs)))
	putInt32(buf[hdrKeySizeOff:], int32(len(schema.KeyAttrs)))

	off := hdrAttrsOff
	for _, a := range schema.Attrs {
		var nameBuf [maxAttrNameLen]byte
		copy(nameBuf[:], a.Name)
		copy(buf[off:off+maxAttrNameLen], nameBuf[:])
		putInt32(buf[off+maxAttrNameLen:], int32(a.Type))
		putInt32(buf[off+maxAttrNameLen+4:], int32(a.Length))
		off += attrEntrySize
	}
	return nil
}

// DecodeHeader parses a table header page into its tuple count, free-page
// hint, and schema.
func DecodeHeader(buf []byte) (tupleCount, freePageHint int32, schema *Schema, err error) {
	if len(buf) < hdrAttrsOff {
		return 0, 0, nil, fmt.Errorf("decode header: %w: page too small", ErrSchemaError)
	}
	tupleCount = getInt32(buf[hdrTupleCountOff:])
	freePageHint = getInt32(buf[hdrFreePageOff:])
	numAttrs := int(getInt32(buf[hdrNumAttrsOff:]))
	keySize := int(getInt32(buf[hdrKeySizeOff:]))
	if numAttrs < 0 || hdrAttrsOff+numAttrs*attrEntrySize > len(buf) {
		return 0, 0, nil, fmt.Errorf("decode header: %w: corrupt attribute count %d", ErrSchemaError, numAttrs)
	}

	schema = &Schema{Attrs: make([]Attribute, numAttrs)}
	off := hdrAttrsOff
	for i := 0; i < numAttrs; i++ {
		name := string(bytes.TrimRight(buf[off:off+maxAttrNameLen], "\x00"))
		typ := AttrType(getInt32(buf[off+maxAttrNameLen:]))
		length := int(getInt32(buf[off+maxAttrNameLen+4:]))
		schema.Attrs[i] = Attribute{Name: name, Type: typ, Length: length}
		off += attrEntrySize
	}
	if keySize > 0 && keySize <= numAttrs {
		schema.KeyAttrs = make([]int, keySize)
		for i := range schema.KeyAttrs {
			schema.KeyAttrs[i] = i
		}
	}
	return tupleCount, freePageHint, schema, nil
}
