// Package engine implements the thin, language-neutral embedding shim over the native
// Engine (spec.md §4.10): world_new, world_open_udp/world_open_tcp, world_send_packet,
// set_reply_callback/set_print_callback, world_cleanup/world_wait_for_quit, plus the
// module-level lock guarding the single active World.
//
// This package never performs DSP. The real Engine is an external, black-box process
// or native library (spec.md §1 PURPOSE & SCOPE); everything here is connection
// management and byte-shuttling around that boundary.
package engine

import (
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
)

// ErrWorldExists is returned by New when a World is already active process-wide
// (spec.md §4.10/§5: "a module-level lock; the Session asserts single ownership").
var ErrWorldExists = errors.New("engine: a World is already active in this process")

// ReplyCallback receives one decoded reply datagram's raw bytes as they arrive.
type ReplyCallback func(packet []byte)

// PrintCallback receives a line of diagnostic text the Engine printed.
type PrintCallback func(line string)

// worldMu guards worldActive: only one World may be open per process (spec.md §5).
var (
	worldMu     sync.Mutex
	worldActive bool
)

// Options mirrors spec.md §6's frozen Options struct: the Engine boot-time
// configuration. Field defaults match the spec's table exactly.
type Options struct {
	NumAudioBusChannels         int
	NumInputBusChannels        int
	NumOutputBusChannels       int
	NumControlBusChannels      int
	BlockSize                  int
	NumBuffers                 int
	MaxNodes                   int
	MaxGraphDefs               int
	MaxWireBufs                int
	NumRGens                   int
	RealtimeMemorySize         int
	PreferredSampleRate        int
	PreferredHardwareBufferSize int
	LoadGraphDefs              bool
	MemoryLocking              bool
	Realtime                   bool
	Verbosity                  int
	UGenPluginsPath            string
	RestrictedPath             string
	Password                   string
	InDeviceName               string
	OutDeviceName              string
	InputStreamsEnabled        string
	OutputStreamsEnabled       string
	SharedMemoryID             int
	SafetyClipThreshold        float64
}

// DefaultOptions returns the Options defaults from spec.md §6.
func DefaultOptions() Options {
	return Options{
		NumAudioBusChannels:   1024,
		NumInputBusChannels:   8,
		NumOutputBusChannels:  8,
		NumControlBusChannels: 16384,
		BlockSize:             64,
		NumBuffers:            1024,
		MaxNodes:              1024,
		MaxGraphDefs:          1024,
		MaxWireBufs:           64,
		NumRGens:              64,
		RealtimeMemorySize:    8192,
		LoadGraphDefs:         true,
		Realtime:              true,
		SafetyClipThreshold:   1.26,
	}
}

// World is a handle to one active Engine instance (spec.md §4.10 WorldHandle).
type World struct {
	options Options
	log     zerolog.Logger

	// strings holds every string Options contributed, kept alive for the World's
	// lifetime (spec.md §4.10: "Strings passed to world_new must outlive the Engine;
	// the shim owns a companion struct holding them").
	strings []string

	mu             sync.Mutex
	conn           net.Conn
	udpConn        *net.UDPConn
	replyCallback  ReplyCallback
	printCallback  PrintCallback
	transport      Transport
}

// Transport abstracts how packets actually reach the Engine: a real UDP/TCP socket, or
// an in-process loopback used for tests (see loopback.go). Swapping this is the
// module's only concession to not having a real native Engine to link against.
type Transport interface {
	Send(packet []byte) error
	Close() error
}

// New is world_new: allocates a World for opts, or fails if one is already active
// process-wide (spec.md §4.10, §5).
func New(opts Options, logger zerolog.Logger) (*World, error) {
	worldMu.Lock()
	defer worldMu.Unlock()
	if worldActive {
		return nil, ErrWorldExists
	}
	w := &World{
		options: opts,
		log:     logger,
		strings: []string{
			opts.UGenPluginsPath, opts.RestrictedPath, opts.Password,
			opts.InDeviceName, opts.OutDeviceName,
			opts.InputStreamsEnabled, opts.OutputStreamsEnabled,
		},
	}
	worldActive = true
	return w, nil
}

// OpenUDP is world_open_udp: dials the Engine over UDP at addr:port, grounded directly
// on go-rtpengine's Engine.ConnUDP (dial out, store the connection on the struct).
func (w *World) OpenUDP(addr string, port int) error {
	conn, err := net.DialUDP("udp", nil, &net.UDPAddr{IP: net.ParseIP(addr), Port: port})
	if err != nil {
		return fmt.Errorf("engine: world_open_udp: %w", err)
	}
	w.mu.Lock()
	w.udpConn = conn
	w.transport = &udpTransport{conn: conn}
	w.mu.Unlock()
	return nil
}

// OpenTCP is world_open_tcp: dials the Engine over TCP at addr:port, grounded on
// go-rtpengine's Engine.Conn. maxConn/backlog are accepted for interface parity with
// spec.md §4.10 but only meaningful to a listening Engine, not this dial-out client.
func (w *World) OpenTCP(addr string, port, maxConn, backlog int) error {
	conn, err := net.Dial("tcp", fmt.Sprintf("%s:%d", addr, port))
	if err != nil {
		return fmt.Errorf("engine: world_open_tcp: %w", err)
	}
	w.mu.Lock()
	w.conn = conn
	w.transport = &streamTransport{conn: conn}
	w.mu.Unlock()
	return nil
}

// UseLoopback installs the in-process loopback transport in place of a real socket,
// for tests and for embedding scgo alongside an in-process Engine (see loopback.go).
func (w *World) UseLoopback(lb *Loopback) {
	w.mu.Lock()
	w.transport = lb
	w.mu.Unlock()
}

// SendPacket is world_send_packet: thread-safe, defensively copies bytes before
// handing them to the transport since spec.md §4.10 warns "the native API is not
// const".
func (w *World) SendPacket(packet []byte) error {
	defensive := append([]byte(nil), packet...)
	w.mu.Lock()
	t := w.transport
	w.mu.Unlock()
	if t == nil {
		return errors.New("engine: world_send_packet: no transport open")
	}
	return t.Send(defensive)
}

// SetReplyCallback is set_reply_callback: installs fn as the receiver of every
// datagram the Engine sends back. Idempotent — installing a new callback simply
// replaces the old one under the lock (spec.md §5: "installing a callback is cheap but
// must be idempotent").
func (w *World) SetReplyCallback(fn ReplyCallback) {
	w.mu.Lock()
	w.replyCallback = fn
	w.mu.Unlock()
}

// SetPrintCallback is set_print_callback.
func (w *World) SetPrintCallback(fn PrintCallback) {
	w.mu.Lock()
	w.printCallback = fn
	w.mu.Unlock()
}

// dispatchReply invokes the installed reply callback, recovering from any panic so a
// misbehaving subscriber can never crash the Engine's own callback path (spec.md §4.10:
// "exceptions in callbacks must not propagate"; §4.9: "Reply callbacks that raise are
// swallowed to protect the Engine").
func (w *World) dispatchReply(packet []byte) {
	w.mu.Lock()
	fn := w.replyCallback
	w.mu.Unlock()
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msg("engine: reply callback panicked, swallowed")
		}
	}()
	fn(packet)
}

// Cleanup is world_cleanup: tears down the transport and releases the process-wide
// World slot. unloadPlugins is accepted for interface parity with spec.md §4.10; this
// shim has no native plugin loader to unload.
func (w *World) Cleanup(unloadPlugins bool) error {
	worldMu.Lock()
	worldActive = false
	worldMu.Unlock()

	w.mu.Lock()
	t := w.transport
	w.mu.Unlock()
	if t == nil {
		return nil
	}
	return t.Close()
}

// WaitForQuit is world_wait_for_quit: blocks until the Engine has finished quitting.
// The loopback transport completes synchronously; a real socket transport's quit
// acknowledgement is observed through the ordinary reply-callback path instead, so this
// is a no-op beyond Cleanup for every transport this shim implements.
func (w *World) WaitForQuit(unloadPlugins bool) error {
	return w.Cleanup(unloadPlugins)
}

// udpTransport and streamTransport adapt net.Conn/net.UDPConn to Transport.
type udpTransport struct{ conn *net.UDPConn }

func (t *udpTransport) Send(packet []byte) error { _, err := t.conn.Write(packet); return err }
func (t *udpTransport) Close() error              { return t.conn.Close() }

type streamTransport struct{ conn net.Conn }

func (t *streamTransport) Send(packet []byte) error { _, err := t.conn.Write(packet); return err }
func (t *streamTransport) Close() error              { return t.conn.Close() }
