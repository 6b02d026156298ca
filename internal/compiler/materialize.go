package compiler

import (
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/rate"
)

// materializeParameters groups params by rate, emits one Control-family UGen per
// non-empty group, and rewrites every *graph.Parameter reference among ugens' inputs
// into an *graph.OutputProxy into that group's Control UGen (spec.md §4.5 step 2).
//
// The synthesized Control UGens are prepended to ugens (they carry no inputs of their
// own, so they are always legal at index 0 of the topological order) and are returned
// alongside the rewritten UGen list.
func materializeParameters(ugens []*graph.UGen, params []*graph.Parameter) []*graph.UGen {
	type group struct {
		class    string
		calcRate rate.Calculation
		members  []*graph.Parameter
	}

	groups := map[string]*group{}
	var order []string
	for _, p := range params {
		class := graph.ControlClassFor(p.Rate, p.Lag)
		calcRate := p.Rate.Calculation()
		// Key on class and rate: SCALAR and CONTROL parameters share the Control class
		// but must not share one UGen.
		key := class + "/" + calcRate.String()
		g, ok := groups[key]
		if !ok {
			g = &group{class: class, calcRate: calcRate}
			groups[key] = g
			order = append(order, key)
		}
		g.members = append(g.members, p)
	}

	replacement := map[*graph.Parameter]*graph.OutputProxy{}
	var controlUGens []*graph.UGen
	for _, key := range order {
		g := groups[key]
		offsets := make([]int, len(g.members))
		numOutputs := 0
		lags := make([]float32, len(g.members))
		for i, p := range g.members {
			offsets[i] = numOutputs
			numOutputs += len(p.Value)
			lags[i] = p.Lag
		}
		ctrl := graph.NewControl(g.class, g.calcRate, numOutputs, lags...)
		for i, p := range g.members {
			replacement[p] = ctrl.Output(offsets[i])
		}
		controlUGens = append(controlUGens, ctrl)
	}

	rewritten := make([]*graph.UGen, len(ugens))
	for i, u := range ugens {
		rewritten[i] = rewriteParameterInputs(u, replacement)
	}
	return append(controlUGens, rewritten...)
}

// rewriteParameterInputs returns u with every *graph.Parameter input replaced by its
// materialized OutputProxy. A multivalued parameter is rewired to the first of its
// outputs when referenced directly as a scalar Signal; per-element access is expected
// to come from callers indexing the Parameter's Value slice themselves at graph-build
// time, not from the compiler.
func rewriteParameterInputs(u *graph.UGen, replacement map[*graph.Parameter]*graph.OutputProxy) *graph.UGen {
	for i, in := range u.Inputs {
		if p, ok := in.(*graph.Parameter); ok {
			if op, found := replacement[p]; found {
				u.Inputs[i] = op
			}
		}
	}
	return u
}
