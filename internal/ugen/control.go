package ugen

import (
	"errors"

	"github.com/cbegin/scgo/internal/builder"
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/rate"
)

// ErrNoOpenScope is returned by Control when called with no active builder scope — a
// named parameter only makes sense inside a build(name) graph (spec.md §4.2).
var ErrNoOpenScope = errors.New("ugen: Control requires an open builder scope")

// Control registers a named SynthDef parameter at the given rate and initial value(s),
// returning the *graph.Parameter itself as the Signal to wire elsewhere in the graph.
// internal/compiler materializes the actual Control/LagControl/TrigControl/AudioControl
// UGen and rewrites every Parameter reference into its corresponding output during
// build (spec.md §4.2, §4.5 step 2): callers never construct a Control-family UGen
// directly.
func Control(name string, value float32, r rate.Parameter, lag float32) (*graph.Parameter, error) {
	b := builder.Current()
	if b == nil {
		return nil, ErrNoOpenScope
	}
	return b.Control(name, value, r, lag)
}

// MultiControl registers a single multivalued named parameter (spec.md §3 Parameter:
// "a multivalued parameter contributes one output per element").
func MultiControl(name string, values []float32, r rate.Parameter, lag float32) (*graph.Parameter, error) {
	b := builder.Current()
	if b == nil {
		return nil, ErrNoOpenScope
	}
	p := &graph.Parameter{Name: name, Value: append([]float32(nil), values...), Rate: r, Lag: lag}
	if err := b.AddParameter(p); err != nil {
		return nil, err
	}
	return p, nil
}
