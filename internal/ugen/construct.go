// Package ugen is the per-UGen-class declaration library of spec.md §4.3: for each
// concrete UGen class, its supported calculation rates, parameter names/defaults,
// width-first flag, and unexpanded input positions, plus the rate constructors
// (Ar/Kr/Ir/Dr) and multichannel expansion (spec.md §4.4) that every declared UGen
// shares.
//
// This package only ever emits UGen *metadata* (class name, rate, inputs, special
// index). It never computes a DSP sample — that is the external Engine's job
// (spec.md §1 PURPOSE & SCOPE).
package ugen

import (
	"errors"
	"fmt"

	"github.com/cbegin/scgo/internal/builder"
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/rate"
)

// ErrUnsupportedRate is returned when a UGen is constructed at a calculation rate
// outside its declared supported-rates whitelist (spec.md §7 "invalid rate for class").
var ErrUnsupportedRate = errors.New("ugen: unsupported calculation rate for this class")

// Option configures a Construct call; the declarative per-class metadata spec.md §4.3
// asks for.
type Option func(*options)

type options struct {
	widthFirst  bool
	unexpanded  map[int]bool
	sideEffects bool
	supported   []rate.Calculation
}

// WidthFirst marks a UGen that must sort ahead of its normal topological position
// (spec.md §4.3: "set on UGens that must sort ahead of their normal position, e.g. FFT
// providers").
func WidthFirst() Option { return func(o *options) { o.widthFirst = true } }

// Unexpanded marks input positions exempt from multichannel broadcasting (spec.md
// §4.3: "the level array of envelope generators").
func Unexpanded(positions ...int) Option {
	return func(o *options) {
		if o.unexpanded == nil {
			o.unexpanded = map[int]bool{}
		}
		for _, p := range positions {
			o.unexpanded[p] = true
		}
	}
}

// SideEffects marks a UGen the optimizer's dead-code pass must never eliminate even
// with no consumers (spec.md §4.5 step 5).
func SideEffects() Option { return func(o *options) { o.sideEffects = true } }

// SupportedRates restricts the calculation rates this class may be constructed at. An
// empty/absent restriction means "any rate is accepted" (used for pseudo-UGens whose
// rate is inherited from their arguments).
func SupportedRates(rates ...rate.Calculation) Option {
	return func(o *options) { o.supported = rates }
}

// Construct builds one or more UGen instances of class name at calcRate from inputs,
// applying multichannel expansion (spec.md §4.4) across any input position (not marked
// Unexpanded) whose value is a *graph.UGenVector. It registers the resulting UGen(s)
// with the active builder scope via internal/builder.Append.
//
// The return value is a *graph.OutputProxy for the common unexpanded case, or a
// *graph.UGenVector of *graph.OutputProxy when expansion occurred.
func Construct(name string, calcRate rate.Calculation, inputs []graph.Signal, numOutputs int, opts ...Option) (graph.Signal, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.supported) > 0 && !rateSupported(calcRate, o.supported) {
		return nil, fmt.Errorf("%w: %s does not support rate %s", ErrUnsupportedRate, name, calcRate)
	}

	width := expansionWidth(inputs, o.unexpanded)
	if width <= 1 {
		u, err := constructRaw(name, calcRate, inputs, numOutputs, o)
		if err != nil {
			return nil, err
		}
		return u.FirstOutput(), nil
	}

	out := make([]graph.Signal, width)
	for i := 0; i < width; i++ {
		rowInputs := make([]graph.Signal, len(inputs))
		for j, in := range inputs {
			rowInputs[j] = selectElement(in, i, o.unexpanded, j)
		}
		u, err := constructRaw(name, calcRate, rowInputs, numOutputs, o)
		if err != nil {
			return nil, err
		}
		out[i] = u.FirstOutput()
	}
	return graph.NewVector(out...), nil
}

// ConstructRaw builds and registers a single UGen instance without multichannel
// expansion, returning the raw *graph.UGen so callers needing more than its first
// output (Pan2's two channels, In's N channels, the Control family) can address every
// output themselves.
func ConstructRaw(name string, calcRate rate.Calculation, inputs []graph.Signal, numOutputs int, opts ...Option) (*graph.UGen, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return constructRaw(name, calcRate, inputs, numOutputs, o)
}

func constructRaw(name string, calcRate rate.Calculation, inputs []graph.Signal, numOutputs int, o *options) (*graph.UGen, error) {
	outs := make([]rate.Calculation, numOutputs)
	for i := range outs {
		outs[i] = calcRate
	}
	u := graph.NewUGen(name, calcRate, inputs, outs)
	u.IsWidthFirst = o.widthFirst
	u.HasSideEffects = o.sideEffects
	u.UnexpandedInputs = o.unexpanded
	return builder.Append(u)
}

// expansionWidth returns the length of the longest *graph.UGenVector among inputs at
// positions not marked unexpanded, or 1 if none qualify.
func expansionWidth(inputs []graph.Signal, unexpanded map[int]bool) int {
	width := 1
	for i, in := range inputs {
		if unexpanded != nil && unexpanded[i] {
			continue
		}
		if v, ok := in.(*graph.UGenVector); ok && v.Len() > width {
			width = v.Len()
		}
	}
	return width
}

// selectElement picks the i-th element of in if it is an expandable vector (wrapping
// for length-1 broadcast per spec.md §4.4: "elements of length-1 inputs are reused"),
// or returns in unchanged otherwise (non-list inputs, and unexpanded positions, pass
// through).
func selectElement(in graph.Signal, i int, unexpanded map[int]bool, pos int) graph.Signal {
	if unexpanded != nil && unexpanded[pos] {
		return in
	}
	v, ok := in.(*graph.UGenVector)
	if !ok {
		return in
	}
	return v.Elements[i%v.Len()]
}

func rateSupported(r rate.Calculation, supported []rate.Calculation) bool {
	for _, s := range supported {
		if s == r {
			return true
		}
	}
	return false
}
