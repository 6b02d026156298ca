package ugen

import (
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/rate"
)

// EnvGen plays env, advancing segments as gate triggers and releases, applying
// doneAction when the last segment (or the release node, if gate falls before then)
// completes (spec.md §4.7 Envelope / EnvGen).
//
// The envelope's flattened tuple (spec.md §4.6 "Envelope flattening") is spliced in as
// trailing constant inputs, following SuperCollider's own EnvGen calling convention: a
// fixed 5-input header (gate, levelScale, levelBias, timeScale, doneAction) followed by
// the envelope data, which is exempt from multichannel broadcasting since it is already
// a flat scalar tuple rather than a list of per-channel values.
func EnvGen(r rate.Calculation, env *graph.Envelope, gate, levelScale, levelBias, timeScale graph.Signal, doneAction rate.DoneAction) (graph.Signal, error) {
	flat := env.Flatten()
	inputs := make([]graph.Signal, 0, 5+len(flat))
	inputs = append(inputs, gate, levelScale, levelBias, timeScale, graph.Const(float32(doneAction)))
	unexpanded := make([]int, 0, len(flat))
	for i, v := range flat {
		inputs = append(inputs, graph.Const(float32(v)))
		unexpanded = append(unexpanded, 5+i)
	}
	return Construct("EnvGen", r, inputs, 1,
		SupportedRates(rate.Audio, rate.Control),
		Unexpanded(unexpanded...),
		SideEffects())
}
