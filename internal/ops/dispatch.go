// Package ops evaluates binary comparison operators over type-erased
// secret values on behalf of the host's expression evaluator. Cross-kind
// equality is well-defined (never equal); cross-kind ordering is an error.
package ops

import (
	"errors"
	"fmt"

	"github.com/arjun-29/veil/internal/secret"
	"github.com/arjun-29/veil/internal/types"
)

// ErrUnsupportedOperator marks an operator outside the six comparison
// operators.
var ErrUnsupportedOperator = errors.New("unsupported operator")

// OpError carries the operator and the left operand's kind alongside the
// underlying cause. Its message is content-free.
type OpError struct {
	Op   types.Operator
	Kind types.Kind
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("operator %q on secret kind %q: %v", e.Op.Symbol(), e.Kind, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Evaluate dispatches op to Equality or Ordering.
func Evaluate(lhs secret.Value, op types.Operator, rhs any) (bool, error) {
	switch {
	case op.IsEquality():
		return Equality(lhs, op, rhs)
	case op.IsOrdering():
		return Ordering(lhs, op, rhs)
	}
	return false, &OpError{Op: op, Kind: lhs.Kind(), Err: ErrUnsupportedOperator}
}

// Equality evaluates == or !=. A right operand of a different kind, or one
// that is not a secret value at all, compares unequal; that is a defined
// result, not an error.
func Equality(lhs secret.Value, op types.Operator, rhs any) (bool, error) {
	if !op.IsEquality() {
		return false, &OpError{Op: op, Kind: lhs.Kind(), Err: ErrUnsupportedOperator}
	}
	eq := false
	if rv, ok := rhs.(secret.Value); ok {
		eq = lhs.Equal(rv)
	}
	if op == types.OpNotEqual {
		return !eq, nil
	}
	return eq, nil
}

// Ordering evaluates < > <= >=. Unlike equality, a kind mismatch is an
// error here, as is an unorderable pairing such as a NaN float.
func Ordering(lhs secret.Value, op types.Operator, rhs any) (bool, error) {
	if !op.IsOrdering() {
		return false, &OpError{Op: op, Kind: lhs.Kind(), Err: ErrUnsupportedOperator}
	}
	rv, ok := rhs.(secret.Value)
	if !ok {
		return false, &OpError{Op: op, Kind: lhs.Kind(), Err: secret.ErrKindMismatch}
	}
	if lhs.Kind() != rv.Kind() {
		return false, &OpError{Op: op, Kind: lhs.Kind(), Err: secret.ErrKindMismatch}
	}
	if !secret.Orderable(lhs) {
		return false, &OpError{Op: op, Kind: lhs.Kind(), Err: secret.ErrNotOrderable}
	}
	c, err := lhs.Compare(rv)
	if err != nil {
		return false, &OpError{Op: op, Kind: lhs.Kind(), Err: err}
	}
	switch op {
	case types.OpLess:
		return c < 0, nil
	case types.OpGreater:
		return c > 0, nil
	case types.OpLessEqual:
		return c <= 0, nil
	default: // types.OpGreaterEqual
		return c >= 0, nil
	}
}
