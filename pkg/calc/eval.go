package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/codmetric/codmetricbot/pkg/domain"
)

// Eval walks an expression tree. Only the whitelisted node kinds and operators
// are computed; anything else aborts with domain.ErrNotMath. Runtime faults are
// reported as domain.ErrArithmetic.
func Eval(n Node) (Number, error) {
	switch n := n.(type) {
	case *Expression:
		if n == nil || n.Body == nil {
			return Number{}, fmt.Errorf("%w: empty expression", domain.ErrNotMath)
		}
		return Eval(n.Body)
	case *NumberLiteral:
		return literal(n.Raw)
	case *BinaryOp:
		return evalBinary(n)
	case *UnaryOp:
		return evalUnary(n)
	default:
		return Number{}, fmt.Errorf("%w: unsupported node %T", domain.ErrNotMath, n)
	}
}

func evalBinary(n *BinaryOp) (Number, error) {
	var apply func(a, b Number) (Number, error)
	switch n.Op {
	case OpAdd:
		apply = add
	case OpSub:
		apply = sub
	case OpMul:
		apply = mul
	case OpDiv:
		apply = trueDiv
	case OpFloorDiv:
		apply = floorDiv
	case OpMod:
		apply = mod
	case OpPow:
		apply = pow
	default:
		return Number{}, fmt.Errorf("%w: unsupported binary operator %d", domain.ErrNotMath, n.Op)
	}

	left, err := Eval(n.Left)
	if err != nil {
		return Number{}, err
	}
	right, err := Eval(n.Right)
	if err != nil {
		return Number{}, err
	}
	result, err := apply(left, right)
	if err != nil {
		return Number{}, fmt.Errorf("%s %s %s: %w", left, n.Op, right, err)
	}
	return result, nil
}

func evalUnary(n *UnaryOp) (Number, error) {
	switch n.Op {
	case OpPos, OpNeg:
	default:
		return Number{}, fmt.Errorf("%w: unsupported unary operator %d", domain.ErrNotMath, n.Op)
	}

	operand, err := Eval(n.Operand)
	if err != nil {
		return Number{}, err
	}
	if n.Op == OpPos {
		return operand, nil
	}
	result, err := neg(operand)
	if err != nil {
		return Number{}, fmt.Errorf("-%s: %w", operand, err)
	}
	return result, nil
}

func literal(raw string) (Number, error) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '.' {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return Number{}, fmt.Errorf("%w: malformed number %q", domain.ErrNotMath, raw)
			}
			// Out-of-range float literals saturate to infinity.
			if errors.Is(err, strconv.ErrRange) && !math.IsInf(f, 0) {
				f = 0
			}
			return Float(f), nil
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return Number{}, fmt.Errorf("integer literal %s: %w", raw, domain.ErrOverflow)
		}
		return Number{}, fmt.Errorf("%w: malformed number %q", domain.ErrNotMath, raw)
	}
	return Int(v), nil
}
