package record

import "fmt"

// Expr is a node in a predicate expression tree: attribute references,
// constants, comparisons, and boolean connectives over a tuple, per
// spec.md §4.3.
type Expr interface {
	Eval(schema *Schema, rec []byte) (any, error)
}

// AttrRef evaluates to the current value of attribute Index.
type AttrRef struct{ Index int }

func (r AttrRef) Eval(schema *Schema, rec []byte) (any, error) {
	return GetAttr(schema, r.Index, rec)
}

// Const evaluates to a fixed value.
type Const struct{ Value any }

func (c Const) Eval(*Schema, []byte) (any, error) { return c.Value, nil }

// CompareOp names a comparison operator.
type CompareOp int

const (
	OpEq CompareOp = iota
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

// Compare evaluates Left Op Right to a bool.
type Compare struct {
	Left, Right Expr
	Op          CompareOp
}

func (c Compare) Eval(schema *Schema, rec []byte) (any, error) {
	l, err := c.Left.Eval(schema, rec)
	if err != nil {
		return nil, err
	}
	r, err := c.Right.Eval(schema, rec)
	if err != nil {
		return nil, err
	}
	return compareValues(l, r, c.Op)
}

func compareValues(l, r any, op CompareOp) (bool, error) {
	switch lv := l.(type) {
	case int32:
		rv, ok := toComparableInt(r)
		if !ok {
			return false, fmt.Errorf("compare: %w", ErrCompareValueOfDifferentDatatype)
		}
		return applyOp(int64(lv), int64(rv), op), nil
	case float32:
		rv, ok := r.(float32)
		if !ok {
			return false, fmt.Errorf("compare: %w", ErrCompareValueOfDifferentDatatype)
		}
		return applyOpFloat(float64(lv), float64(rv), op), nil
	case bool:
		rv, ok := r.(bool)
		if !ok {
			return false, fmt.Errorf("compare: %w", ErrCompareValueOfDifferentDatatype)
		}
		return applyOpBool(lv, rv, op), nil
	case string:
		rv, ok := r.(string)
		if !ok {
			return false, fmt.Errorf("compare: %w", ErrCompareValueOfDifferentDatatype)
		}
		return applyOpString(lv, rv, op), nil
	default:
		return false, fmt.Errorf("compare: %w", ErrCompareValueOfDifferentDatatype)
	}
}

func toComparableInt(v any) (int32, bool) {
	switch x := v.(type) {
	case int32:
		return x, true
	case int:
		return int32(x), true
	default:
		return 0, false
	}
}

func applyOp(l, r int64, op CompareOp) bool {
	switch op {
	case OpEq:
		return l == r
	case OpNeq:
		return l != r
	case OpLt:
		return l < r
	case OpLte:
		return l <= r
	case OpGt:
		return l > r
	case OpGte:
		return l >= r
	default:
		return false
	}
}

func applyOpFloat(l, r float64, op CompareOp) bool {
	switch op {
	case OpEq:
		return l == r
	case OpNeq:
		return l != r
	case OpLt:
		return l < r
	case OpLte:
		return l <= r
	case OpGt:
		return l > r
	case OpGte:
		return l >= r
	default:
		return false
	}
}

func applyOpBool(l, r bool, op CompareOp) bool {
	switch op {
	case OpEq:
		return l == r
	case OpNeq:
		return l != r
	default:
		return false
	}
}

func applyOpString(l, r string, op CompareOp) bool {
	switch op {
	case OpEq:
		return l == r
	case OpNeq:
		return l != r
	case OpLt:
		return l < r
	case OpLte:
		return l <= r
	case OpGt:
		return l > r
	case OpGte:
		return l >= r
	default:
		return false
	}
}

// BoolOp is a binary boolean connective, AND or OR.
type BoolOp struct {
	Left, Right Expr
	And         bool
}

func (b BoolOp) Eval(schema *Schema, rec []byte) (any, error) {
	l, err := b.Left.Eval(schema, rec)
	if err != nil {
		return nil, err
	}
	lb, ok := l.(bool)
	if !ok {
		return nil, fmt.Errorf("bool connective: %w", ErrCompareValueOfDifferentDatatype)
	}
	// Short-circuit like a normal boolean connective.
	if b.And && !lb {
		return false, nil
	}
	if !b.And && lb {
		return true, nil
	}
	r, err := b.Right.Eval(schema, rec)
	if err != nil {
		return nil, err
	}
	rb, ok := r.(bool)
	if !ok {
		return nil, fmt.Errorf("bool connective: %w", ErrCompareValueOfDifferentDatatype)
	}
	return rb, nil
}

// Not negates a boolean expression.
type Not struct{ Expr Expr }

func (n Not) Eval(schema *Schema, rec []byte) (any, error) {
	v, err := n.Expr.Eval(schema, rec)
	if err != nil {
		return nil, err
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("not: %w", ErrCompareValueOfDifferentDatatype)
	}
	return !b, nil
}

// EvalBool evaluates a predicate to a bool, failing if it does not produce
// one.
func EvalBool(e Expr, schema *Schema, rec []byte) (bool, error) {
	v, err := e.Eval(schema, rec)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("predicate: %w: did not evaluate to bool", ErrCompareValueOfDifferentDatatype)
	}
	return b, nil
}
