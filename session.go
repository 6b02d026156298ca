package scgo

import (
	"github.com/rs/zerolog"

	"github.com/cbegin/scgo/internal/engine"
	"github.com/cbegin/scgo/internal/session"
	"github.com/cbegin/scgo/internal/wire"
)

// Session wraps one embedded Engine instance: boot/quit, node/buffer ID allocation,
// reply routing, and managed resource helpers (spec.md §4.9).
type Session = session.Session

// SessionState is one of OFFLINE/BOOTING/ONLINE/QUITTING.
type SessionState = session.State

// SessionState values (spec.md §4.9).
const (
	SessionStateOffline  = session.Offline
	SessionStateBooting  = session.Booting
	SessionStateOnline   = session.Online
	SessionStateQuitting = session.Quitting
)

// SessionOption configures a new Session.
type SessionOption = session.Option

// EngineOptions is the Engine's boot-time configuration (spec.md §6).
type EngineOptions = engine.Options

// ControlPair is one (name, value) pair in an /s_new or /n_set control list.
type ControlPair = wire.ControlPair

// Synth, Group, and Buffer are lightweight proxies over Engine-side nodes/buffers.
type Synth = session.Synth
type Group = session.Group
type Buffer = session.Buffer

// Errors surfaced synchronously at the Session call site (spec.md §7).
var (
	ErrSessionOffline = session.ErrOffline
	ErrBootBusy       = session.ErrBootBusy
	ErrReplyTimeout   = session.ErrReplyTimeout
)

// DefaultEngineOptions returns the Engine boot-time defaults (spec.md §6).
func DefaultEngineOptions() EngineOptions { return engine.DefaultOptions() }

// WithEngineOptions overrides the Session's Engine boot-time options.
func WithEngineOptions(o EngineOptions) SessionOption { return session.WithEngineOptions(o) }

// WithLogger installs a zerolog.Logger for Session diagnostics.
func WithLogger(l zerolog.Logger) SessionOption { return session.WithLogger(l) }

// NewSession constructs an OFFLINE Session. Call Boot, then open a transport on
// Session.World() (OpenUDP/OpenTCP) before sending any control traffic.
func NewSession(opts ...SessionOption) *Session {
	return session.New(opts...)
}

// ControlValue builds a ControlPair for /s_new and /n_set calls.
func ControlValue(name string, value float32) ControlPair {
	return ControlPair{Name: name, Value: value}
}

// Session's remaining operations — Boot, Quit, SendSynthDef, SendMsgSync,
// WaitForReply, On/Off, NextNodeID/NextBufferID, Synth/Group/Buffer/ReadBuffer, and the
// Managed* scoped helpers — are the *Session methods documented in internal/session.
