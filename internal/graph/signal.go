// Package graph is the data model for UGens, parameters, constants, outputs, and the
// operator expressions that wire them together (spec.md §3 DATA MODEL, §4.1 Graph IR).
package graph

import "github.com/cbegin/scgo/internal/rate"

// Signal is the Operable union of spec.md §4.1: the set of values the operator algebra
// accepts and returns. A statically typed target models this as a tagged sum
// (spec.md §9 "Dynamic typing of Operable"); Go has no sum types, so Signal is an
// interface with an unexported marker method implemented only by the four permitted
// cases below.
type Signal interface {
	signal()
}

// ConstantProxy wraps a concrete numeric value. Equality is value equality.
type ConstantProxy struct {
	Value float32
}

func (ConstantProxy) signal() {}

// Const is a convenience constructor.
func Const(v float32) ConstantProxy { return ConstantProxy{Value: v} }

// OutputProxy is a typed reference to one output of a UGen. Two proxies compare equal
// iff they reference the same UGen identity and the same output index.
type OutputProxy struct {
	UGen        *UGen
	OutputIndex int
}

func (*OutputProxy) signal() {}

// Equal reports whether two OutputProxy values reference the same UGen output.
func (p *OutputProxy) Equal(o *OutputProxy) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.UGen == o.UGen && p.OutputIndex == o.OutputIndex
}

// Rate returns the calculation rate of the referenced output.
func (p *OutputProxy) Rate() rate.Calculation {
	if p.OutputIndex < len(p.UGen.OutputRates) {
		return p.UGen.OutputRates[p.OutputIndex]
	}
	return p.UGen.Rate
}

// UGenVector is an ordered list of signals, created by multichannel expansion or
// explicit list arguments. Operators on vectors broadcast element-wise (spec.md §4.4).
type UGenVector struct {
	Elements []Signal
}

func (*UGenVector) signal() {}

// NewVector builds a UGenVector from a slice of signals.
func NewVector(elems ...Signal) *UGenVector {
	return &UGenVector{Elements: elems}
}

func (v *UGenVector) Len() int { return len(v.Elements) }

// Parameter is a named, rate-tagged initial-value cell belonging to a SynthDef
// (spec.md §3 Parameter). Before build(), referencing a Parameter as a Signal stands
// for "whatever output the eventual Control UGen materializes for this parameter";
// internal/compiler rewrites these references during parameter materialization
// (spec.md §4.5 step 2).
type Parameter struct {
	Name  string
	Value []float32 // one entry for scalar parameters, N for multivalued ones
	Rate  rate.Parameter
	Lag   float32

	// Index is this parameter's position in the owning builder's parameter list,
	// assigned at registration time.
	Index int
}

func (*Parameter) signal() {}

// IsMultivalued reports whether this parameter expands to more than one control output.
func (p *Parameter) IsMultivalued() bool { return len(p.Value) > 1 }
