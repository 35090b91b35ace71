package record

import (
	"encoding/binary"
	"fmt"
	"math"
)

// putInt32/getInt32 and friends encode fixed-width fields little-endian.
//
// spec.md §9 notes the original C engine encodes INT/FLOAT/BOOL via raw
// in-memory copies, i.e. host-endian, and flags that as a known limitation
// rather than something to normalise away. This module keeps that spirit by
// picking one fixed byte order (little-endian, grounded on the teacher's
// pager/page.go header encoding) instead of portable self-describing
// encoding — on-disk files are not expected to move between architectures.
func putInt32(buf []byte, v int32) { binary.LittleEndian.PutUint32(buf, uint32(v)) }
func getInt32(buf []byte) int32    { return int32(binary.LittleEndian.Uint32(buf)) }

// Tombstone bytes, per spec.md §3.
const (
	TombstoneOccupied byte = '+'
	TombstoneEmpty    byte = '-'
)

// GetAttr decodes attribute i out of a full encoded record (tombstone
// included) according to schema.
func GetAttr(schema *Schema, i int, rec []byte) (any, error) {
	if i < 0 || i >= len(schema.Attrs) {
		return nil, fmt.Errorf("get attribute %d: %w", i, ErrInvalidParameter)
	}
	off, err := schema.AttrOffset(i)
	if err != nil {
		return nil, err
	}
	a := schema.Attrs[i]
	switch a.Type {
	case IntType:
		return getInt32(rec[off:]), nil
	case FloatType:
		bits := binary.LittleEndian.Uint32(rec[off:])
		return math.Float32frombits(bits), nil
	case BoolType:
		return rec[off] != 0, nil
	case StringType:
		return string(rec[off : off+a.Length]), nil
	default:
		return nil, fmt.Errorf("get attribute %d: %w", i, ErrCompareValueOfDifferentDatatype)
	}
}

// SetAttr encodes value into attribute i's slot inside rec.
//
// Unlike the source this is grounded on, SetAttr does not force
// schema.Attrs[1] to IntType before dispatching — spec.md §9 identifies that
// as a bug in the original and explicitly does not adopt it.
func SetAttr(schema *Schema, i int, rec []byte, value any) error {
	if i < 0 || i >= len(schema.Attrs) {
		return fmt.Errorf("set attribute %d: %w", i, ErrInvalidParameter)
	}
	off, err := schema.AttrOffset(i)
	if err != nil {
		return err
	}
	a := schema.Attrs[i]
	switch a.Type {
	case IntType:
		v, ok := toInt32(value)
		if !ok {
			return fmt.Errorf("set attribute %d: %w", i, ErrCompareValueOfDifferentDatatype)
		}
		putInt32(rec[off:], v)
	case FloatType:
		v, ok := value.(float32)
		if !ok {
			f64, ok2 := value.(float64)
			if !ok2 {
				return fmt.Errorf("set attribute %d: %w", i, ErrCompareValueOfDifferentDatatype)
			}
			v = float32(f64)
		}
		binary.LittleEndian.PutUint32(rec[off:], math.Float32bits(v))
	case BoolType:
		v, ok := value.(bool)
		if !ok {
			return fmt.Errorf("set attribute %d: %w", i, ErrCompareValueOfDifferentDatatype)
		}
		if v {
			rec[off] = 1
		} else {
			rec[off] = 0
		}
	case StringType:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("set attribute %d: %w", i, ErrCompareValueOfDifferentDatatype)
		}
		n := copy(rec[off:off+a.Length], v)
		for ; n < a.Length; n++ {
			rec[off+n] = 0
		}
	default:
		return fmt.Errorf("set attribute %d: %w", i, ErrCompareValueOfDifferentDatatype)
	}
	return nil
}

func toInt32(value any) (int32, bool) {
	switch v := value.(type) {
	case int32:
		return v, true
	case int:
		return int32(v), true
	default:
		return 0, false
	}
}
