package record

import "errors"

// Error kinds raised by the record manager, per spec.md §7.
var (
	ErrInvalidParameter                = errors.New("invalid parameter")
	ErrSchemaError                     = errors.New("schema error")
	ErrMemoryAllocationError           = errors.New("memory allocation error")
	ErrNoTupleWithGivenRID             = errors.New("no tuple with given RID")
	ErrNoMoreTuples                    = errors.New("no more tuples")
	ErrScanConditionNotFound           = errors.New("scan condition not found")
	ErrCompareValueOfDifferentDatatype = errors.New("compare value of different datatype")
)
