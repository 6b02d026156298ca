package graph

import "github.com/cbegin/scgo/internal/rate"

// UGen is one occurrence in the graph (spec.md §3 UGen). Once a UGen has been appended
// to a builder's scope, its Inputs are immutable except for the controlled rewrites
// optimization and parameter materialization perform (spec.md §3 invariant).
type UGen struct {
	// Name is the class tag identifying the DSP node, as written into SCgf (e.g.
	// "SinOsc", "BinaryOpUGen").
	Name string
	Rate rate.Calculation
	// Inputs are scalar signals: each is either an *OutputProxy (a back-edge to another
	// UGen's output) or a ConstantProxy. By the time a UGen is appended to a scope,
	// multichannel expansion has already reduced every input to a scalar Signal.
	Inputs []Signal
	// OutputRates has one entry per output; most UGens have exactly one output at
	// their own Rate, but e.g. Control-family UGens have one output per parameter.
	OutputRates []rate.Calculation
	// SpecialIndex is the SCgf special-index side channel; BinaryOpUGen/UnaryOpUGen
	// carry their operator code here.
	SpecialIndex int16

	// IsWidthFirst controls topological sort priority: UGens that must sort ahead of
	// their normal position (e.g. FFT providers) set this (spec.md §4.3, §4.5 step 4).
	IsWidthFirst bool
	// UnexpandedInputs holds the positions exempt from multichannel broadcasting (e.g.
	// the level array of envelope generators, spec.md §4.3/§4.4).
	UnexpandedInputs map[int]bool
	// HasSideEffects marks UGens the dead-code pass must never eliminate even with no
	// consumers (spec.md §4.5 step 5: Out-family, Done/Free/Pause, SendTrig/SendReply/
	// Poll, RecordBuf, DiskOut, ScopeOut, LocalOut, and anything else so flagged).
	HasSideEffects bool

	// InsertIndex is this UGen's position in original construction order, used as the
	// topological sort's tie-break and as the descendant-sort key (spec.md §9 Open
	// Question: "the correct ordering is by each descendant's insertion index into the
	// original UGen list").
	InsertIndex int

	// NumOutputs caches len(OutputRates) for convenience; kept in sync by NewUGen.
	NumOutputs int
}

// NumInputs returns the input count.
func (u *UGen) NumInputs() int { return len(u.Inputs) }

// IsUnexpandedInput reports whether position i is exempt from multichannel
// broadcasting.
func (u *UGen) IsUnexpandedInput(i int) bool {
	return u.UnexpandedInputs != nil && u.UnexpandedInputs[i]
}

// Output returns an OutputProxy for output index i, the normal way user code obtains a
// Signal from a freshly constructed UGen.
func (u *UGen) Output(i int) *OutputProxy {
	return &OutputProxy{UGen: u, OutputIndex: i}
}

// FirstOutput is shorthand for Output(0), the common case for single-output UGens.
func (u *UGen) FirstOutput() *OutputProxy { return u.Output(0) }

// NewUGen constructs a UGen with derived fields filled in; callers still append it to
// the active builder scope themselves (internal/builder owns scope registration, to
// keep this package free of the scope-stack concern spec.md §4.2 describes).
func NewUGen(name string, calcRate rate.Calculation, inputs []Signal, outputRates []rate.Calculation) *UGen {
	return &UGen{
		Name:        name,
		Rate:        calcRate,
		Inputs:      inputs,
		OutputRates: outputRates,
		NumOutputs:  len(outputRates),
	}
}
