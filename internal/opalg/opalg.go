// Package opalg is the operator algebra of spec.md §4.1: overloaded arithmetic,
// comparison, bitwise, and named operations over Signal values, producing
// BinaryOpUGen/UnaryOpUGen nodes with constant folding, identity simplification, rate
// promotion, and vector broadcast.
//
// This lives in its own package, separate from internal/graph, because unlike graph's
// pure data types, every non-folded operation here must register its resulting UGen
// with the currently active internal/builder scope — graph stays free of the scope
// concern so it can be imported by packages (like internal/compiler) that must not
// trigger scope registration as a side effect of touching graph types.
package opalg

import (
	"errors"
	"fmt"

	"github.com/cbegin/scgo/internal/builder"
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/opcode"
	"github.com/cbegin/scgo/internal/rate"
)

// ErrBooleanContext is returned by AsBool: an Operable evaluated in a boolean context
// must fail with an explicit error (spec.md §4.1 "Boolean trap"). Comparison operators
// return Operables, never host-side booleans.
var ErrBooleanContext = errors.New("opalg: a Signal cannot be evaluated as a host boolean; comparison operators return Signal values, not bool")

// AsBool always returns ErrBooleanContext. It exists so that code attempting to use a
// Signal in a boolean context (e.g. `if someComparisonResult`) has an explicit, named
// failure to call instead of silently compiling something nonsensical — Go itself
// would refuse to compile `if sig` since Signal is an interface, not bool, but a caller
// who writes a Go-ism like `if Truthy(sig)` without realizing comparisons are not host
// booleans gets this error instead of a type mismatch at the call they meant to avoid.
func AsBool(s graph.Signal) (bool, error) {
	return false, ErrBooleanContext
}

// ErrLengthMismatch is returned when two UGenVector operands have unequal length and
// neither is length-1 (spec.md §4.1 "Vector broadcast").
var ErrLengthMismatch = errors.New("opalg: vector operands must have equal length or one must be length-1")

// Binary applies op to a and b per spec.md §4.1: constant folding, identity
// simplification, rate promotion, and vector broadcast, in that priority order (a
// vector operand always broadcasts first, since folding/identity only ever apply to
// scalar ConstantProxy operands).
func Binary(op opcode.Binary, a, b graph.Signal) (graph.Signal, error) {
	if av, ok := a.(*graph.UGenVector); ok {
		return broadcastBinaryLeft(op, av, b)
	}
	if bv, ok := b.(*graph.UGenVector); ok {
		return broadcastBinaryRight(op, a, bv)
	}

	ac, aConst := a.(graph.ConstantProxy)
	bc, bConst := b.(graph.ConstantProxy)

	if aConst && bConst {
		if v, ok := opcode.BinaryFoldMath(op, ac.Value, bc.Value); ok {
			return graph.Const(v), nil
		}
	}

	if id, ok := opcode.BinaryIdentity(op, ac.Value, aConst, bc.Value, bConst); ok {
		if id.IsConstant {
			return graph.Const(id.Constant), nil
		}
		if id.Passthrough {
			if bConst {
				return a, nil
			}
			return b, nil
		}
	}

	r := rate.Max(rateOf(a), rateOf(b))
	u := graph.NewUGen("BinaryOpUGen", r, []graph.Signal{a, b}, []rate.Calculation{r})
	u.SpecialIndex = int16(op)
	appended, err := builder.Append(u)
	if err != nil {
		return nil, err
	}
	return appended.FirstOutput(), nil
}

// Unary applies op to a per spec.md §4.1.
func Unary(op opcode.Unary, a graph.Signal) (graph.Signal, error) {
	if av, ok := a.(*graph.UGenVector); ok {
		out := make([]graph.Signal, av.Len())
		for i, e := range av.Elements {
			r, err := Unary(op, e)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return graph.NewVector(out...), nil
	}

	if ac, ok := a.(graph.ConstantProxy); ok {
		if v, ok := opcode.UnaryFoldMath(op, ac.Value); ok {
			return graph.Const(v), nil
		}
	}

	r := rateOf(a)
	u := graph.NewUGen("UnaryOpUGen", r, []graph.Signal{a}, []rate.Calculation{r})
	u.SpecialIndex = int16(op)
	appended, err := builder.Append(u)
	if err != nil {
		return nil, err
	}
	return appended.FirstOutput(), nil
}

func rateOf(s graph.Signal) rate.Calculation {
	switch v := s.(type) {
	case graph.ConstantProxy:
		return rate.Scalar
	case *graph.OutputProxy:
		return v.Rate()
	case *graph.Parameter:
		return v.Rate.Calculation()
	default:
		return rate.Scalar
	}
}

func broadcastBinaryLeft(op opcode.Binary, av *graph.UGenVector, b graph.Signal) (graph.Signal, error) {
	if bv, ok := b.(*graph.UGenVector); ok {
		return broadcastVectors(op, av, bv)
	}
	out := make([]graph.Signal, av.Len())
	for i, e := range av.Elements {
		r, err := Binary(op, e, b)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return graph.NewVector(out...), nil
}

func broadcastBinaryRight(op opcode.Binary, a graph.Signal, bv *graph.UGenVector) (graph.Signal, error) {
	out := make([]graph.Signal, bv.Len())
	for i, e := range bv.Elements {
		r, err := Binary(op, a, e)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return graph.NewVector(out...), nil
}

func broadcastVectors(op opcode.Binary, av, bv *graph.UGenVector) (graph.Signal, error) {
	n := av.Len()
	if bv.Len() > n {
		n = bv.Len()
	}
	if av.Len() != 1 && bv.Len() != 1 && av.Len() != bv.Len() {
		return nil, fmt.Errorf("%w: left length %d, right length %d", ErrLengthMismatch, av.Len(), bv.Len())
	}
	out := make([]graph.Signal, n)
	for i := 0; i < n; i++ {
		left := av.Elements[i%av.Len()]
		right := bv.Elements[i%bv.Len()]
		r, err := Binary(op, left, right)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return graph.NewVector(out...), nil
}
