package ugen

import (
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/rate"
)

// SinOsc is a sine-wave oscillator (freq in Hz, phase in radians).
func SinOsc(r rate.Calculation, freq, phase graph.Signal) (graph.Signal, error) {
	return Construct("SinOsc", r, []graph.Signal{freq, phase}, 1,
		SupportedRates(rate.Audio, rate.Control))
}

// Saw is a band-limited sawtooth oscillator.
func Saw(r rate.Calculation, freq graph.Signal) (graph.Signal, error) {
	return Construct("Saw", r, []graph.Signal{freq}, 1, SupportedRates(rate.Audio, rate.Control))
}

// Pulse is a band-limited pulse-wave oscillator (width is the duty cycle, 0 to 1).
func Pulse(r rate.Calculation, freq, width graph.Signal) (graph.Signal, error) {
	return Construct("Pulse", r, []graph.Signal{freq, width}, 1,
		SupportedRates(rate.Audio, rate.Control))
}

// VarSaw is a sawtooth-to-triangle variable-duty oscillator.
func VarSaw(r rate.Calculation, freq, iphase, width graph.Signal) (graph.Signal, error) {
	return Construct("VarSaw", r, []graph.Signal{freq, iphase, width}, 1,
		SupportedRates(rate.Audio, rate.Control))
}

// LFSaw is a non-band-limited sawtooth, cheaper than Saw for LFO use.
func LFSaw(r rate.Calculation, freq, iphase graph.Signal) (graph.Signal, error) {
	return Construct("LFSaw", r, []graph.Signal{freq, iphase}, 1,
		SupportedRates(rate.Audio, rate.Control))
}

// LFPulse is a non-band-limited pulse wave, cheaper than Pulse for LFO use.
func LFPulse(r rate.Calculation, freq, iphase, width graph.Signal) (graph.Signal, error) {
	return Construct("LFPulse", r, []graph.Signal{freq, iphase, width}, 1,
		SupportedRates(rate.Audio, rate.Control))
}

// WhiteNoise generates flat-spectrum noise.
func WhiteNoise(r rate.Calculation) (graph.Signal, error) {
	return Construct("WhiteNoise", r, nil, 1, SupportedRates(rate.Audio, rate.Control))
}

// PinkNoise generates noise with a -3dB/octave spectrum.
func PinkNoise(r rate.Calculation) (graph.Signal, error) {
	return Construct("PinkNoise", r, nil, 1, SupportedRates(rate.Audio, rate.Control))
}

// Line generates a single linear ramp from start to end over dur seconds, applying
// doneAction when it completes.
func Line(r rate.Calculation, start, end, dur graph.Signal, doneAction rate.DoneAction) (graph.Signal, error) {
	return Construct("Line", r, []graph.Signal{start, end, dur, graph.Const(float32(doneAction))}, 1,
		SupportedRates(rate.Audio, rate.Control))
}

// XLine generates a single exponential ramp from start to end over dur seconds; start
// and end must be nonzero and share a sign.
func XLine(r rate.Calculation, start, end, dur graph.Signal, doneAction rate.DoneAction) (graph.Signal, error) {
	return Construct("XLine", r, []graph.Signal{start, end, dur, graph.Const(float32(doneAction))}, 1,
		SupportedRates(rate.Audio, rate.Control))
}
