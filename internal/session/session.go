// Package session implements the Session/Server state machine (spec.md §4.9): boot and
// quit, node/buffer ID allocation, the reply pump, and scoped managed-resource helpers.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cbegin/scgo/internal/compiler"
	"github.com/cbegin/scgo/internal/engine"
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/rate"
	"github.com/cbegin/scgo/internal/wire"
)

// State is one of the four Session lifecycle states (spec.md §4.9).
type State int

const (
	Offline State = iota
	Booting
	Online
	Quitting
)

func (s State) String() string {
	switch s {
	case Offline:
		return "OFFLINE"
	case Booting:
		return "BOOTING"
	case Online:
		return "ONLINE"
	case Quitting:
		return "QUITTING"
	default:
		return "UNKNOWN"
	}
}

// Errors surfaced synchronously at the call site (spec.md §7 "Session errors").
var (
	ErrOffline        = errors.New("session: not online")
	ErrBootBusy       = errors.New("session: boot failed, session is booting or quitting")
	ErrReplyTimeout   = errors.New("session: wait_for_reply timed out")
	ErrEngineCreation = errors.New("session: engine world creation failed")
)

const firstNodeID int32 = 1000

// Session wraps one Engine instance end to end: boot/quit, ID allocation, and reply
// routing (spec.md §4.9).
type Session struct {
	log zerolog.Logger
	opt engine.Options

	mu    sync.Mutex
	state State
	world *engine.World

	nextNodeID int32

	bufMu      sync.Mutex
	nextBufID  int32
	allocBufs  map[int32]bool

	pump *replyPump
}

// Option configures a new Session (functional-options, matching the teacher's facade
// idiom).
type Option func(*Session)

// WithEngineOptions overrides the Engine boot-time options (spec.md §6 Options).
func WithEngineOptions(o engine.Options) Option {
	return func(s *Session) { s.opt = o }
}

// WithLogger installs a zerolog.Logger for this Session's diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New constructs an OFFLINE Session. Boot must be called before any control traffic.
func New(opts ...Option) *Session {
	s := &Session{
		log:        zerolog.Nop(),
		opt:        engine.DefaultOptions(),
		state:      Offline,
		nextNodeID: firstNodeID,
		allocBufs:  make(map[int32]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the Session's current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Boot creates the Engine world, installs the reply callback, and transitions
// OFFLINE → BOOTING → ONLINE. Double-boot from ONLINE is a no-op; booting from
// BOOTING/QUITTING fails (spec.md §4.9).
func (s *Session) Boot() error {
	s.mu.Lock()
	switch s.state {
	case Online:
		s.mu.Unlock()
		return nil
	case Booting, Quitting:
		s.mu.Unlock()
		return ErrBootBusy
	}
	s.state = Booting
	s.mu.Unlock()

	world, err := engine.New(s.opt, s.log)
	if err != nil {
		s.mu.Lock()
		s.state = Offline
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrEngineCreation, err)
	}

	pump := newReplyPump(s.log)
	world.SetReplyCallback(pump.dispatch)

	s.mu.Lock()
	s.world = world
	s.pump = pump
	s.state = Online
	s.mu.Unlock()
	return nil
}

// Quit sends /quit, waits briefly for the Engine to acknowledge, and releases the
// Engine world. Idempotent from OFFLINE (spec.md §4.9).
func (s *Session) Quit(ctx context.Context) error {
	s.mu.Lock()
	if s.state == Offline {
		s.mu.Unlock()
		return nil
	}
	s.state = Quitting
	world := s.world
	s.mu.Unlock()

	if world != nil {
		_, _ = s.sendMsgSyncLocked(ctx, world, wire.Quit(), "/done")
		_ = world.Cleanup(false)
	}

	s.mu.Lock()
	s.state = Offline
	s.world = nil
	s.mu.Unlock()
	return nil
}

// send dispatches msg to the Engine, enforcing spec.md §4.9's failure behavior: sends
// while OFFLINE raise; sends during QUITTING are dropped silently after logging.
func (s *Session) send(msg *wire.Message) error {
	s.mu.Lock()
	state := s.state
	world := s.world
	s.mu.Unlock()

	switch state {
	case Offline:
		return ErrOffline
	case Quitting:
		s.log.Debug().Str("address", msg.Address).Msg("session: dropping send during quit")
		return nil
	}

	encoded, err := wire.EncodeMessage(msg)
	if err != nil {
		return err
	}
	return world.SendPacket(encoded)
}

// sendMsgSyncLocked is send_msg_sync's core: register a one-shot waiter, send, wait.
// It bypasses the OFFLINE/QUITTING state guard in send because Quit itself needs to use
// it while the Session is already in QUITTING.
func (s *Session) sendMsgSyncLocked(ctx context.Context, world *engine.World, msg *wire.Message, replyAddress string) (*wire.Message, error) {
	wait := s.pump.waitFor(replyAddress)
	encoded, err := wire.EncodeMessage(msg)
	if err != nil {
		wait.cancel()
		return nil, err
	}
	if err := world.SendPacket(encoded); err != nil {
		wait.cancel()
		return nil, err
	}
	return wait.block(ctx)
}

// SendMsgSync is the atomic combination of register-waiter → send → wait (spec.md
// §4.9).
func (s *Session) SendMsgSync(ctx context.Context, msg *wire.Message, replyAddress string) (*wire.Message, error) {
	s.mu.Lock()
	state := s.state
	world := s.world
	s.mu.Unlock()
	if state != Online {
		return nil, ErrOffline
	}
	return s.sendMsgSyncLocked(ctx, world, msg, replyAddress)
}

// WaitForReply blocks until a reply matching address arrives or ctx is done, whichever
// is first (spec.md §4.9/§5).
func (s *Session) WaitForReply(ctx context.Context, address string) (*wire.Message, error) {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	if state != Online {
		return nil, ErrOffline
	}
	return s.pump.waitFor(address).block(ctx)
}

// On registers a persistent subscriber for every reply matching address (spec.md
// §4.9).
func (s *Session) On(address string, fn func(*wire.Message)) {
	s.pump.on(address, fn)
}

// Off removes a subscriber previously registered with On.
func (s *Session) Off(address string, fn func(*wire.Message)) {
	s.pump.off(address, fn)
}

// NextNodeID allocates the next monotonic node id, starting at 1000 (spec.md §4.9).
func (s *Session) NextNodeID() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextNodeID
	s.nextNodeID++
	return id
}

// NextBufferID allocates the next monotonic buffer id starting at 0 and marks it
// allocated (spec.md §4.9).
func (s *Session) NextBufferID() int32 {
	s.bufMu.Lock()
	defer s.bufMu.Unlock()
	id := s.nextBufID
	s.nextBufID++
	s.allocBufs[id] = true
	return id
}

// ReserveBufferID marks an explicit buffer id as allocated (spec.md §4.9: "explicit IDs
// permitted").
func (s *Session) ReserveBufferID(id int32) {
	s.bufMu.Lock()
	defer s.bufMu.Unlock()
	s.allocBufs[id] = true
}

// FreeBufferID removes id from the allocated set.
func (s *Session) FreeBufferID(id int32) {
	s.bufMu.Lock()
	defer s.bufMu.Unlock()
	delete(s.allocBufs, id)
}

// IsBufferAllocated reports whether id is currently tracked as allocated.
func (s *Session) IsBufferAllocated(id int32) bool {
	s.bufMu.Lock()
	defer s.bufMu.Unlock()
	return s.allocBufs[id]
}

// SendSynthDef installs def via /d_recv, blocking until the Engine's /done
// acknowledgement or ctx's deadline, whichever comes first.
func (s *Session) SendSynthDef(ctx context.Context, def *graph.SynthDef) error {
	s.mu.Lock()
	state := s.state
	world := s.world
	s.mu.Unlock()
	if state != Online {
		return ErrOffline
	}
	scgf := compiler.Encode(def)
	_, err := s.sendMsgSyncLocked(ctx, world, wire.DRecv(scgf, nil), "/done")
	return err
}

// Synth creates a synth node and returns a proxy over it (spec.md §4.9 "synth").
func (s *Session) Synth(defName string, addAction rate.AddAction, targetID int32, controls ...wire.ControlPair) (*Synth, error) {
	id := s.NextNodeID()
	if err := s.send(wire.SNew(defName, id, addAction, targetID, controls...)); err != nil {
		return nil, err
	}
	return &Synth{id: id, session: s}, nil
}

// Group creates a group node and returns a proxy over it (spec.md §4.9 "group").
func (s *Session) Group(addAction rate.AddAction, targetID int32) (*Group, error) {
	id := s.NextNodeID()
	if err := s.send(wire.GNew(id, addAction, targetID)); err != nil {
		return nil, err
	}
	return &Group{id: id, session: s}, nil
}

// Buffer allocates a buffer and returns a proxy over it (spec.md §4.9 "managed_buffer").
func (s *Session) Buffer(frames, channels int32) (*Buffer, error) {
	id := s.NextBufferID()
	if err := s.send(wire.BAlloc(id, frames, channels, nil)); err != nil {
		return nil, err
	}
	return &Buffer{id: id, session: s}, nil
}

// ReadBuffer allocates a buffer and reads path into it, returning a proxy (spec.md
// §4.9 "managed_read_buffer").
func (s *Session) ReadBuffer(path string, start, frames int32) (*Buffer, error) {
	id := s.NextBufferID()
	if err := s.send(wire.BAllocRead(id, path, start, frames, nil)); err != nil {
		return nil, err
	}
	return &Buffer{id: id, session: s}, nil
}

// World exposes the underlying Engine handle once booted, for transport setup (e.g.
// OpenUDP/OpenTCP or engine.NewLoopback in tests). Returns nil while OFFLINE.
func (s *Session) World() *engine.World {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.world
}
