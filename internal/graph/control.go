package graph

import "github.com/cbegin/scgo/internal/rate"

// Control-family class names, as written into SCgf (spec.md §3 Control/LagControl/
// TrigControl/AudioControl: "Exactly one instance of each non-empty rate class appears
// in a compiled SynthDef").
const (
	ClassControl      = "Control"
	ClassLagControl   = "LagControl"
	ClassTrigControl  = "TrigControl"
	ClassAudioControl = "AudioControl"
)

// ControlClassFor returns the synthetic UGen class name that materializes parameters of
// the given rate. A non-zero lag routes a CONTROL-rate parameter to LagControl instead
// of Control (spec.md §3: "lag" is a first-class Parameter field, and LagControl is a
// reachable rate class alongside Control/TrigControl/AudioControl).
func ControlClassFor(r rate.Parameter, lag float32) string {
	switch r {
	case rate.ParamAudio:
		return ClassAudioControl
	case rate.ParamTrigger:
		return ClassTrigControl
	case rate.ParamScalar:
		return ClassControl // SCALAR parameters still materialize through Control
	case rate.ParamControl:
		if lag != 0 {
			return ClassLagControl
		}
		return ClassControl
	default:
		return ClassControl
	}
}

// NewControl builds the synthetic UGen that exposes params (all of the same
// rate.Parameter class) as sequential outputs, one per scalar value across all of the
// class's parameters (a multivalued parameter contributes one output per element). For
// class == ClassLagControl, lags carries one lag time per parameter (not per output
// element) and is written in as the UGen's inputs, matching real SuperCollider's
// LagControl, whose inputs are the smoothing lag times.
func NewControl(class string, calcRate rate.Calculation, numOutputs int, lags ...float32) *UGen {
	outs := make([]rate.Calculation, numOutputs)
	for i := range outs {
		outs[i] = calcRate
	}
	var inputs []Signal
	if class == ClassLagControl {
		inputs = make([]Signal, len(lags))
		for i, l := range lags {
			inputs[i] = Const(l)
		}
	}
	u := NewUGen(class, calcRate, inputs, outs)
	u.HasSideEffects = true // never dead-code eliminated: it is the parameter surface
	return u
}
