package graph

// SynthDef is the immutable, post-sort, post-optimize snapshot of a compiled graph
// (spec.md §3 SynthDef). Invariants (enforced by internal/compiler before freezing):
//
//  1. every UGen input references a UGen at a strictly smaller index in UGens, or a
//     constant in the pool;
//  2. every non-Control UGen has at least one output consumed, or is IsWidthFirst, or
//     HasSideEffects;
//  3. every constant appearing as an input is interned in Constants.
type SynthDef struct {
	Name       string
	Parameters []*Parameter
	UGens      []*UGen
	Constants  []float32
}

// ParameterValues flattens every parameter's value(s) in registration order, the shape
// the SCgf "parameter-value" array expects.
func (s *SynthDef) ParameterValues() []float32 {
	var out []float32
	for _, p := range s.Parameters {
		out = append(out, p.Value...)
	}
	return out
}

// ParameterNameIndex returns the (name, index-into-ParameterValues) pairs SCgf's
// parameter-name table expects.
func (s *SynthDef) ParameterNameIndex() []struct {
	Name  string
	Index int
} {
	var out []struct {
		Name  string
		Index int
	}
	offset := 0
	for _, p := range s.Parameters {
		out = append(out, struct {
			Name  string
			Index int
		}{p.Name, offset})
		offset += len(p.Value)
	}
	return out
}
