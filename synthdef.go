// Package scgo is a Go embedding of the Engine's SynthDef graph compiler and
// control-plane Session. Build a graph with the Signal-returning functions below
// inside a Build callback, then boot a Session and send the resulting SynthDef.
package scgo

import (
	"github.com/cbegin/scgo/internal/compiler"
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/opalg"
	"github.com/cbegin/scgo/internal/opcode"
	"github.com/cbegin/scgo/internal/rate"
	"github.com/cbegin/scgo/internal/ugen"
)

// Signal is any value that can feed a UGen input: a UGen output, a constant, a
// Parameter, or a multichannel UGenVector.
type Signal = graph.Signal

// SynthDef is an immutable, fully compiled synth definition, ready for Encode or for a
// Session's SendSynthDef.
type SynthDef = graph.SynthDef

// Envelope is a breakpoint envelope consumable by EnvGen (spec.md §4.7).
type Envelope = graph.Envelope

// Shape is an envelope segment's curve shape.
type Shape = graph.Shape

// Calculation rates (spec.md §3).
const (
	Scalar  = rate.Scalar
	Control = rate.Control
	Audio   = rate.Audio
	Demand  = rate.Demand
)

// Parameter rates (spec.md §3).
const (
	ParamScalar  = rate.ParamScalar
	ParamControl = rate.ParamControl
	ParamTrigger = rate.ParamTrigger
	ParamAudio   = rate.ParamAudio
)

// Node placement and done actions (spec.md §4.8, §4.5).
const (
	AddToHead  = rate.AddToHead
	AddToTail  = rate.AddToTail
	AddBefore  = rate.AddBefore
	AddAfter   = rate.AddAfter
	AddReplace = rate.AddReplace
)

const (
	DoneNothing  = rate.DoneNothing
	DoneFreeSynth = rate.DoneFreeSynth
)

// BuildOptions configures a Build call; see compiler.Options.
type BuildOptions = compiler.Options

// Build opens a graph scope, runs fn to construct a UGen graph, and compiles the
// result through the full pipeline (parameter materialization, topological sort,
// optimization, constant interning) into an immutable SynthDef (spec.md §4.5).
func Build(name string, fn func() error, opts ...BuildOptions) (*SynthDef, error) {
	return compiler.Build(name, fn, opts...)
}

// Encode serializes one or more SynthDefs into the SCgf binary format (spec.md §4.6).
func Encode(defs ...*SynthDef) []byte {
	return compiler.Encode(defs...)
}

// NewEnvelope constructs a breakpoint envelope from explicit segments (spec.md §4.7).
func NewEnvelope(amplitudes, durations []float64, shapes []Shape, curvatures []float64, releaseNode, loopNode int) (*Envelope, error) {
	return graph.NewEnvelope(amplitudes, durations, shapes, curvatures, releaseNode, loopNode)
}

// Percussive builds a simple attack/release envelope (spec.md §4.7).
func Percussive(attack, release float64) *Envelope { return graph.Percussive(attack, release) }

// ADSR builds an attack/decay/sustain/release envelope with a sustain-hold release
// node (spec.md §4.7).
func ADSR(attack, decay, sustainLevel, release, peak float64) *Envelope {
	return graph.ADSR(attack, decay, sustainLevel, release, peak)
}

// Control declares a single-value synth parameter, materialized at compile time
// (spec.md §4.3 Control-family UGens).
func Control(name string, value float32, r rate.Parameter, lag float32) (*graph.Parameter, error) {
	return ugen.Control(name, value, r, lag)
}

// MultiControl declares a multivalued synth parameter.
func MultiControl(name string, values []float32, r rate.Parameter, lag float32) (*graph.Parameter, error) {
	return ugen.MultiControl(name, values, r, lag)
}

// Oscillators and generators (spec.md §4.3).
func SinOsc(r rate.Calculation, freq, phase Signal) (Signal, error) { return ugen.SinOsc(r, freq, phase) }
func Saw(r rate.Calculation, freq Signal) (Signal, error)           { return ugen.Saw(r, freq) }
func Pulse(r rate.Calculation, freq, width Signal) (Signal, error)  { return ugen.Pulse(r, freq, width) }
func VarSaw(r rate.Calculation, freq, iphase, width Signal) (Signal, error) {
	return ugen.VarSaw(r, freq, iphase, width)
}
func LFSaw(r rate.Calculation, freq, iphase Signal) (Signal, error) { return ugen.LFSaw(r, freq, iphase) }
func LFPulse(r rate.Calculation, freq, iphase, width Signal) (Signal, error) {
	return ugen.LFPulse(r, freq, iphase, width)
}
func WhiteNoise(r rate.Calculation) (Signal, error) { return ugen.WhiteNoise(r) }
func PinkNoise(r rate.Calculation) (Signal, error)  { return ugen.PinkNoise(r) }
func Line(r rate.Calculation, start, end, dur Signal, doneAction rate.DoneAction) (Signal, error) {
	return ugen.Line(r, start, end, dur, doneAction)
}
func XLine(r rate.Calculation, start, end, dur Signal, doneAction rate.DoneAction) (Signal, error) {
	return ugen.XLine(r, start, end, dur, doneAction)
}

// EnvGen plays env, gated by gate, scaling/shifting its levels and timescale (spec.md
// §4.3, §4.7).
func EnvGen(r rate.Calculation, env *Envelope, gate, levelScale, levelBias, timeScale Signal, doneAction rate.DoneAction) (Signal, error) {
	return ugen.EnvGen(r, env, gate, levelScale, levelBias, timeScale, doneAction)
}

// Bus I/O (spec.md §4.3).
func Out(r rate.Calculation, bus, channels Signal) (Signal, error) { return ugen.Out(r, bus, channels) }
func In(r rate.Calculation, bus Signal, numChannels int) (Signal, error) {
	return ugen.In(r, bus, numChannels)
}
func Pan2(r rate.Calculation, in, pos, level Signal) (Signal, error) { return ugen.Pan2(r, in, pos, level) }

// Pseudo-UGens (spec.md §4.3: expand into sub-graphs at construction, no UGen class of
// their own).
func Mix(s Signal) (Signal, error) { return ugen.Mix(s) }
func Splay(r rate.Calculation, channels *graph.UGenVector, spread, level float32, center Signal) (Signal, error) {
	return ugen.Splay(r, channels, spread, level, center)
}
func LinLin(in, inMin, inMax, outMin, outMax Signal) (Signal, error) {
	return ugen.LinLin(in, inMin, inMax, outMin, outMax)
}
func Changed(r rate.Calculation, in, threshold Signal) (Signal, error) { return ugen.Changed(r, in, threshold) }
func Silence(numChannels int) Signal                                   { return ugen.Silence(numChannels) }
func CompanderD(r rate.Calculation, in, thresh, slopeBelow, slopeAbove, clampTime, relaxTime Signal) (Signal, error) {
	return ugen.CompanderD(r, in, thresh, slopeBelow, slopeAbove, clampTime, relaxTime)
}

// Operator algebra (spec.md §4.1): arithmetic, comparison, and named binary/unary
// operations over Signal values, with constant folding, identity simplification, rate
// promotion, and vector broadcast.
func Add(a, b Signal) (Signal, error) { return opalg.Binary(opcode.Add, a, b) }
func Sub(a, b Signal) (Signal, error) { return opalg.Binary(opcode.Sub, a, b) }
func Mul(a, b Signal) (Signal, error) { return opalg.Binary(opcode.Mul, a, b) }
func Div(a, b Signal) (Signal, error) { return opalg.Binary(opcode.Div, a, b) }
func Pow(a, b Signal) (Signal, error) { return opalg.Binary(opcode.Pow, a, b) }

// Unary applies a unary operator to a Signal (spec.md §4.1).
func Unary(op opcode.Unary, a Signal) (Signal, error) { return opalg.Unary(op, a) }

// Const wraps a host float32 as a scalar-rate constant Signal.
func Const(v float32) Signal { return graph.Const(v) }
