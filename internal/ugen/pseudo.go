// Pseudo-UGens (spec.md §4.3): library-level helpers expressed entirely in terms of
// real UGens and operator algebra, never materializing a UGen class of their own.
package ugen

import (
	"math"

	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/opalg"
	"github.com/cbegin/scgo/internal/opcode"
	"github.com/cbegin/scgo/internal/rate"
)

// Mix sums every element of a multichannel Signal down to one channel. A non-vector
// Signal passes through unchanged.
func Mix(s graph.Signal) (graph.Signal, error) {
	v, ok := s.(*graph.UGenVector)
	if !ok {
		return s, nil
	}
	if v.Len() == 0 {
		return graph.Const(0), nil
	}
	sum := v.Elements[0]
	for _, e := range v.Elements[1:] {
		var err error
		sum, err = opalg.Binary(opcode.Add, sum, e)
		if err != nil {
			return nil, err
		}
	}
	return sum, nil
}

// Splay pans n channels evenly across the stereo field from -spread to +spread around
// center, summing the result to a length-2 (left, right) UGenVector, scaled by
// level/sqrt(n) to keep perceived loudness roughly constant as n grows.
func Splay(r rate.Calculation, channels *graph.UGenVector, spread, level float32, center graph.Signal) (graph.Signal, error) {
	n := channels.Len()
	if n == 0 {
		return graph.NewVector(graph.Const(0), graph.Const(0)), nil
	}
	if n == 1 {
		return Pan2(r, channels.Elements[0], center, graph.Const(level))
	}

	scale := level / float32(math.Sqrt(float64(n)))
	lefts := make([]graph.Signal, n)
	rights := make([]graph.Signal, n)
	for i, ch := range channels.Elements {
		frac := float32(i)/float32(n-1)*2 - 1 // -1..+1
		pos, err := opalg.Binary(opcode.Add, graph.Const(frac*spread), center)
		if err != nil {
			return nil, err
		}
		panned, err := Pan2(r, ch, pos, graph.Const(scale))
		if err != nil {
			return nil, err
		}
		pv := panned.(*graph.UGenVector)
		lefts[i], rights[i] = pv.Elements[0], pv.Elements[1]
	}
	left, err := Mix(graph.NewVector(lefts...))
	if err != nil {
		return nil, err
	}
	right, err := Mix(graph.NewVector(rights...))
	if err != nil {
		return nil, err
	}
	return graph.NewVector(left, right), nil
}

// LinLin linearly remaps in from the range [inMin, inMax] to [outMin, outMax],
// expressed entirely via operator algebra (spec.md §4.3 pseudo-UGens).
func LinLin(in, inMin, inMax, outMin, outMax graph.Signal) (graph.Signal, error) {
	num, err := opalg.Binary(opcode.Sub, in, inMin)
	if err != nil {
		return nil, err
	}
	denom, err := opalg.Binary(opcode.Sub, inMax, inMin)
	if err != nil {
		return nil, err
	}
	norm, err := opalg.Binary(opcode.Div, num, denom)
	if err != nil {
		return nil, err
	}
	span, err := opalg.Binary(opcode.Sub, outMax, outMin)
	if err != nil {
		return nil, err
	}
	scaled, err := opalg.Binary(opcode.Mul, norm, span)
	if err != nil {
		return nil, err
	}
	return opalg.Binary(opcode.Add, scaled, outMin)
}

// Changed outputs 1 whenever in has moved by more than threshold since the previous
// sample (audio rate) or block (control rate), and 0 otherwise: |in - Delay1(in)| >
// threshold.
func Changed(r rate.Calculation, in, threshold graph.Signal) (graph.Signal, error) {
	prev, err := Construct("Delay1", r, []graph.Signal{in}, 1, SupportedRates(rate.Audio, rate.Control))
	if err != nil {
		return nil, err
	}
	diff, err := opalg.Binary(opcode.Sub, in, prev)
	if err != nil {
		return nil, err
	}
	mag, err := opalg.Unary(opcode.Abs, diff)
	if err != nil {
		return nil, err
	}
	return opalg.Binary(opcode.GT, mag, threshold)
}

// CompanderD is a look-ahead Compander: the signal path is delayed by clampTime via
// DelayN so the Compander's gain control, driven by the undelayed input, has time to
// react before the delayed signal arrives (spec.md §4.3 pseudo-UGens).
func CompanderD(r rate.Calculation, in, thresh, slopeBelow, slopeAbove, clampTime, relaxTime graph.Signal) (graph.Signal, error) {
	delayed, err := Construct("DelayN", r, []graph.Signal{in, clampTime, clampTime}, 1, SupportedRates(rate.Audio, rate.Control))
	if err != nil {
		return nil, err
	}
	return Construct("Compander", r, []graph.Signal{delayed, in, thresh, slopeBelow, slopeAbove, clampTime, relaxTime}, 1, SupportedRates(rate.Audio, rate.Control))
}

// Silence returns numChannels channels of constant zero — no UGen is ever needed since
// silence is representable as the ConstantProxy zero value.
func Silence(numChannels int) graph.Signal {
	if numChannels <= 1 {
		return graph.Const(0)
	}
	out := make([]graph.Signal, numChannels)
	for i := range out {
		out[i] = graph.Const(0)
	}
	return graph.NewVector(out...)
}
