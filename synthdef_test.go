package scgo

import (
	"testing"

	"github.com/cbegin/scgo/internal/graph"
)

func TestBuildSineSynthDefCompiles(t *testing.T) {
	def, err := Build("sine", func() error {
		freq, err := Control("freq", 440, ParamControl, 0)
		if err != nil {
			return err
		}
		osc, err := SinOsc(Audio, freq, Const(0))
		if err != nil {
			return err
		}
		amp, err := Mul(osc, Const(0.3))
		if err != nil {
			return err
		}
		panned, err := Pan2(Audio, amp, Const(0), Const(1))
		if err != nil {
			return err
		}
		_, err = Out(Audio, Const(0), panned)
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if def.Name != "sine" {
		t.Fatalf("expected name sine, got %s", def.Name)
	}
	if len(def.UGens) == 0 {
		t.Fatalf("expected a non-empty compiled graph")
	}

	blob := Encode(def)
	if len(blob) < 10 || string(blob[:4]) != "SCgf" {
		t.Fatalf("expected SCgf-prefixed blob, got %d bytes", len(blob))
	}
}

func TestBuildWithEnvGenAndEnvelope(t *testing.T) {
	env := Percussive(0.01, 0.3)
	def, err := Build("blip", func() error {
		gate, err := Control("gate", 1, ParamControl, 0)
		if err != nil {
			return err
		}
		freq, err := Control("freq", 220, ParamControl, 0)
		if err != nil {
			return err
		}
		sig, err := SinOsc(Audio, freq, Const(0))
		if err != nil {
			return err
		}
		envSig, err := EnvGen(Audio, env, gate, Const(1), Const(0), Const(1), DoneFreeSynth)
		if err != nil {
			return err
		}
		sig, err = Mul(sig, envSig)
		if err != nil {
			return err
		}
		_, err = Out(Audio, Const(0), sig)
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if def.Name != "blip" {
		t.Fatalf("expected name blip, got %s", def.Name)
	}
}

func TestBuildWithNoUGensFails(t *testing.T) {
	if _, err := Build("empty", func() error { return nil }); err == nil {
		t.Fatalf("expected an error building a graph with no UGens")
	}
}

func TestCompanderDThroughFacadeCompiles(t *testing.T) {
	def, err := Build("compressed", func() error {
		in, err := WhiteNoise(Audio)
		if err != nil {
			return err
		}
		compressed, err := CompanderD(Audio, in, Const(0.5), Const(1), Const(0.3), Const(0.01), Const(0.1))
		if err != nil {
			return err
		}
		_, err = Out(Audio, Const(0), compressed)
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var sawCompander, sawDelayN bool
	for _, u := range def.UGens {
		switch u.Name {
		case "Compander":
			sawCompander = true
		case "DelayN":
			sawDelayN = true
		}
	}
	if !sawCompander || !sawDelayN {
		t.Fatalf("expected both Compander and DelayN UGens in the compiled graph, got %#v", def.UGens)
	}
}

func TestMultichannelExpansionThroughFacade(t *testing.T) {
	def, err := Build("stereo", func() error {
		freqs := graph.NewVector(Const(440), Const(880))
		sig, err := SinOsc(Audio, freqs, Const(0))
		if err != nil {
			return err
		}
		_, err = Out(Audio, Const(0), sig)
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
		t.Fatalf("expected exactly two SinOsc UGens, got %d", count)
	}
}
