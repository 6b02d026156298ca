package ugen

import (
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/rate"
)

// channelsOf flattens a Signal that may be a *graph.UGenVector (a multichannel source,
// e.g. the result of Pan2 or SinOsc([...])) into its scalar elements, or returns a
// single-element slice otherwise.
func channelsOf(s graph.Signal) []graph.Signal {
	if v, ok := s.(*graph.UGenVector); ok {
		return append([]graph.Signal(nil), v.Elements...)
	}
	return []graph.Signal{s}
}

// Out writes channels to consecutive buses starting at bus (spec.md §4.3: Out is
// always HasSideEffects, never eliminated even unconsumed — it has no output a
// consumer could reference in the first place).
func Out(r rate.Calculation, bus graph.Signal, channels graph.Signal) (graph.Signal, error) {
	inputs := append([]graph.Signal{bus}, channelsOf(channels)...)
	u, err := ConstructRaw("Out", r, inputs, 0, SupportedRates(rate.Audio, rate.Control), SideEffects())
	if err != nil {
		return nil, err
	}
	return u.FirstOutput(), nil
}

// In reads numChannels consecutive buses starting at bus, returning a single Signal
// for numChannels == 1 or a UGenVector otherwise.
func In(r rate.Calculation, bus graph.Signal, numChannels int) (graph.Signal, error) {
	u, err := ConstructRaw("In", r, []graph.Signal{bus}, numChannels, SupportedRates(rate.Audio, rate.Control))
	if err != nil {
		return nil, err
	}
	if numChannels == 1 {
		return u.FirstOutput(), nil
	}
	outs := make([]graph.Signal, numChannels)
	for i := range outs {
		outs[i] = u.Output(i)
	}
	return graph.NewVector(outs...), nil
}

// Pan2 equal-power pans a mono signal in to stereo, at position pos (-1 left to +1
// right) and level, returning a length-2 UGenVector (left, right).
func Pan2(r rate.Calculation, in, pos, level graph.Signal) (graph.Signal, error) {
	u, err := ConstructRaw("Pan2", r, []graph.Signal{in, pos, level}, 2,
		SupportedRates(rate.Audio, rate.Control))
	if err != nil {
		return nil, err
	}
	return graph.NewVector(u.Output(0), u.Output(1)), nil
}
