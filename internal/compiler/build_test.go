package compiler

import (
	"bytes"
	"testing"

	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/opalg"
	"github.com/cbegin/scgo/internal/opcode"
	"github.com/cbegin/scgo/internal/rate"
	"github.com/cbegin/scgo/internal/ugen"
)

func buildSine(t *testing.T) *graph.SynthDef {
	t.Helper()
	def, err := Build("sine", func() error {
		osc, err := ugen.SinOsc(rate.Audio, graph.Const(440), graph.Const(0))
		if err != nil {
			return err
		}
		scaled, err := opalg.Binary(opcode.Mul, osc, graph.Const(0.3))
		if err != nil {
			return err
		}
		panned, err := ugen.Pan2(rate.Audio, scaled, graph.Const(0), graph.Const(1))
		if err != nil {
			return err
		}
		_, err = ugen.Out(rate.Audio, graph.Const(0), panned)
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return def
}

func TestSineSynthDefByteStreamBeginsWithCanonicalHeader(t *testing.T) {
	def := buildSine(t)
	encoded := Encode(def)

	want := []byte{0x53, 0x43, 0x67, 0x66, 0x00, 0x00, 0x00, 0x02, 0x00, 0x01}
	if !bytes.Equal(encoded[:len(want)], want) {
		t.Fatalf("header mismatch: got % x, want % x", encoded[:len(want)], want)
	}
	nameLen := encoded[len(want)]
	name := string(encoded[len(want)+1 : len(want)+1+int(nameLen)])
	if name != "sine" {
		t.Fatalf("expected SynthDef name %q, got %q", "sine", name)
	}
}

func TestEveryInputReferencesAStrictlyEarlierIndex(t *testing.T) {
	def := buildSine(t)
	for i, u := range def.UGens {
		for _, in := range u.Inputs {
			op := in.(*graph.OutputProxy)
			if op.UGen == nil {
				continue // constant pool reference
			}
			j := indexOf(def.UGens, op.UGen)
			if j < 0 || j >= i {
				t.Fatalf("UGen %d (%s) has a non-strictly-earlier input at %d", i, u.Name, j)
			}
		}
	}
}

func TestConstantPoolIsDeduplicated(t *testing.T) {
	def := buildSine(t)
	seen := map[float32]bool{}
	for _, c := range def.Constants {
		if seen[c] {
			t.Fatalf("duplicate constant %v in pool", c)
		}
		seen[c] = true
	}
}

func TestMultiplyByOneProducesNoBinaryOpUGenInSortedGraph(t *testing.T) {
	def, err := Build("identity", func() error {
		osc, err := ugen.SinOsc(rate.Audio, graph.Const(440), graph.Const(0))
		if err != nil {
			return err
		}
		one, err := opalg.Binary(opcode.Mul, osc, graph.Const(1))
		if err != nil {
			return err
		}
		_, err = ugen.Out(rate.Audio, graph.Const(0), one)
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, u := range def.UGens {
		if u.Name == "BinaryOpUGen" {
			t.Fatalf("expected no BinaryOpUGen for x*1, found one")
		}
	}
}

func TestDeadCodeWithoutSideEffectsIsEliminated(t *testing.T) {
	def, err := Build("dead", func() error {
		if _, err := ugen.SinOsc(rate.Audio, graph.Const(440), graph.Const(0)); err != nil {
			return err
		}
		// Unused, no consumer, no side effects: must be eliminated.
		_, err := ugen.SinOsc(rate.Audio, graph.Const(880), graph.Const(0))
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(def.UGens) != 0 {
		t.Fatalf("expected both unconsumed, side-effect-free SinOscs to be eliminated, got %d UGens", len(def.UGens))
	}
}

func TestMultichannelExpansionCompilesToTwoSinOscUGens(t *testing.T) {
	def, err := Build("stereo", func() error {
		freqs := graph.NewVector(graph.Const(440), graph.Const(880))
		oscs, err := ugen.SinOsc(rate.Audio, freqs, graph.Const(0))
		if err != nil {
			return err
		}
		_, err = ugen.Out(rate.Audio, graph.Const(0), oscs)
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	count := 0
	for _, u := range def.UGens {
		if u.Name == "SinOsc" {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected exactly 2 SinOsc UGens, got %d", count)
	}
}

func TestLaggedControlParameterMaterializesAsLagControl(t *testing.T) {
	def, err := Build("lagged", func() error {
		freq, err := ugen.Control("freq", 440, rate.ParamControl, 0.1)
		if err != nil {
			return err
		}
		osc, err := ugen.SinOsc(rate.Audio, freq, graph.Const(0))
		if err != nil {
			return err
		}
		_, err = ugen.Out(rate.Audio, graph.Const(0), osc)
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var found *graph.UGen
	for _, u := range def.UGens {
		if u.Name == "LagControl" {
			found = u
		}
		if u.Name == "Control" {
			t.Fatalf("expected lagged CONTROL-rate parameter to materialize as LagControl, not Control")
		}
	}
	if found == nil {
		t.Fatalf("expected a LagControl UGen, found none")
	}
	if len(found.Inputs) != 1 {
		t.Fatalf("expected LagControl to carry one lag-time input, got %d", len(found.Inputs))
	}
	// Build interns constants, so the lag time is a constant-pool reference.
	if op, ok := found.Inputs[0].(*graph.OutputProxy); !ok || op.UGen != nil || def.Constants[op.OutputIndex] != 0.1 {
		t.Fatalf("expected lag-time input 0.1, got %#v", found.Inputs[0])
	}
}

func TestUnlaggedControlParameterMaterializesAsControl(t *testing.T) {
	def, err := Build("unlagged", func() error {
		freq, err := ugen.Control("freq", 440, rate.ParamControl, 0)
		if err != nil {
			return err
		}
		osc, err := ugen.SinOsc(rate.Audio, freq, graph.Const(0))
		if err != nil {
			return err
		}
		_, err = ugen.Out(rate.Audio, graph.Const(0), osc)
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, u := range def.UGens {
		if u.Name == "LagControl" {
			t.Fatalf("expected unlagged CONTROL-rate parameter to materialize as Control, not LagControl")
		}
	}
}

func TestBuildWithNoUGensIsAnError(t *testing.T) {
	if _, err := Build("empty", func() error { return nil }); err == nil {
		t.Fatalf("expected ErrEmptyGraph")
	}
}

func indexOf(ugens []*graph.UGen, target *graph.UGen) int {
	for i, u := range ugens {
		if u == target {
			return i
		}
	}
	return -1
}
