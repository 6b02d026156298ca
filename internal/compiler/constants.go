package compiler

import (
	"math"

	"github.com/cbegin/scgo/internal/graph"
)

// internConstants walks every UGen input, replacing each graph.ConstantProxy with a
// *graph.OutputProxy whose UGen is nil and OutputIndex is the constant's position in a
// deduplicated pool (spec.md §4.5 step 6, §8 invariant: "no two entries have equal bit
// pattern"). The sentinel encoding (UGen == nil) is internal to this package; the SCgf
// emitter recognizes it and writes source = -1 per spec.md §4.6.
func internConstants(ugens []*graph.UGen) (rewritten []*graph.UGen, pool []float32) {
	index := map[uint32]int{}
	for _, u := range ugens {
		for i, in := range u.Inputs {
			c, ok := in.(graph.ConstantProxy)
			if !ok {
				continue
			}
			bits := math.Float32bits(c.Value)
			idx, seen := index[bits]
			if !seen {
				idx = len(pool)
				pool = append(pool, c.Value)
				index[bits] = idx
			}
			u.Inputs[i] = constantRef(idx)
		}
	}
	return ugens, pool
}

// constantRef builds the sentinel OutputProxy the emitter recognizes as "index idx of
// the constant pool" (UGen == nil distinguishes it from a real UGen back-edge).
func constantRef(idx int) *graph.OutputProxy {
	return &graph.OutputProxy{UGen: nil, OutputIndex: idx}
}
