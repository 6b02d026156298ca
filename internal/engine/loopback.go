package engine

import (
	"sync"

	"github.com/cbegin/scgo/internal/wire"
)

// Loopback is an in-process Transport standing in for a real Engine. It performs no
// DSP whatsoever: it decodes just enough of the wire protocol to track which node and
// buffer IDs are "live" and to emit the reply datagrams a real Engine would send for
// each recognized command (spec.md §4.8/§4.9). It exists purely so Session and engine
// behavior can be exercised without a native Engine process.
type Loopback struct {
	world *World

	mu      sync.Mutex
	nodes   map[int32]bool
	buffers map[int32]bufferState
	synced  bool
}

type bufferState struct {
	frames, channels int32
}

// NewLoopback creates a Loopback bound to w; replies it synthesizes are delivered
// through w's installed reply callback, exactly as a real Engine's replies would be.
func NewLoopback(w *World) *Loopback {
	lb := &Loopback{
		world:   w,
		nodes:   make(map[int32]bool),
		buffers: make(map[int32]bufferState),
	}
	w.UseLoopback(lb)
	return lb
}

// Send decodes packet as an OSC message or bundle and reacts to the subset of commands
// spec.md §4.8 defines, then synthesizes the corresponding reply.
func (lb *Loopback) Send(packet []byte) error {
	el, err := wire.Decode(packet)
	if err != nil {
		return err
	}
	lb.dispatch(el)
	return nil
}

// Close releases any loopback-held state. There is no real socket to close.
func (lb *Loopback) Close() error { return nil }

func (lb *Loopback) dispatch(el wire.Element) {
	switch v := el.(type) {
	case *wire.Message:
		lb.handleMessage(v)
	case *wire.Bundle:
		for _, inner := range v.Elements {
			lb.dispatch(inner)
		}
	}
}

func (lb *Loopback) handleMessage(msg *wire.Message) {
	switch msg.Address {
	case "/d_recv":
		lb.reply(&wire.Message{Address: "/done", Args: []interface{}{"/d_recv"}})
		if len(msg.Args) > 1 {
			lb.replyCompletion(msg.Args[1])
		}
	case "/s_new":
		nodeID, _ := msg.Args[1].(int32)
		lb.mu.Lock()
		lb.nodes[nodeID] = true
		lb.mu.Unlock()
		lb.reply(&wire.Message{Address: "/n_go", Args: []interface{}{nodeID, int32(-1), int32(-1), int32(-1), int32(0)}})
	case "/g_new":
		nodeID, _ := msg.Args[0].(int32)
		lb.mu.Lock()
		lb.nodes[nodeID] = true
		lb.mu.Unlock()
		lb.reply(&wire.Message{Address: "/n_go", Args: []interface{}{nodeID, int32(-1), int32(-1), int32(-1), int32(1)}})
	case "/n_free":
		nodeID, _ := msg.Args[0].(int32)
		lb.mu.Lock()
		delete(lb.nodes, nodeID)
		lb.mu.Unlock()
		lb.reply(&wire.Message{Address: "/n_end", Args: []interface{}{nodeID, int32(-1), int32(-1), int32(-1), int32(0)}})
	case "/n_set":
		lb.reply(&wire.Message{Address: "/done", Args: []interface{}{"/n_set"}})
	case "/b_alloc":
		bufID, _ := msg.Args[0].(int32)
		frames, _ := msg.Args[1].(int32)
		channels, _ := msg.Args[2].(int32)
		lb.mu.Lock()
		lb.buffers[bufID] = bufferState{frames: frames, channels: channels}
		lb.mu.Unlock()
		lb.reply(&wire.Message{Address: "/done", Args: []interface{}{"/b_alloc", bufID}})
		if len(msg.Args) > 3 {
			lb.replyCompletion(msg.Args[3])
		}
	case "/b_allocRead":
		bufID, _ := msg.Args[0].(int32)
		frames, _ := msg.Args[2].(int32)
		lb.mu.Lock()
		lb.buffers[bufID] = bufferState{frames: frames, channels: 1}
		lb.mu.Unlock()
		lb.reply(&wire.Message{Address: "/done", Args: []interface{}{"/b_allocRead", bufID}})
		if len(msg.Args) > 4 {
			lb.replyCompletion(msg.Args[4])
		}
	case "/b_read", "/b_write":
		lb.reply(&wire.Message{Address: "/done", Args: []interface{}{msg.Address}})
	case "/b_zero":
		bufID, _ := msg.Args[0].(int32)
		lb.reply(&wire.Message{Address: "/done", Args: []interface{}{"/b_zero", bufID}})
	case "/b_close":
		bufID, _ := msg.Args[0].(int32)
		lb.reply(&wire.Message{Address: "/done", Args: []interface{}{"/b_close", bufID}})
	case "/b_free":
		bufID, _ := msg.Args[0].(int32)
		lb.mu.Lock()
		delete(lb.buffers, bufID)
		lb.mu.Unlock()
		lb.reply(&wire.Message{Address: "/done", Args: []interface{}{"/b_free", bufID}})
	case "/notify":
		lb.reply(&wire.Message{Address: "/done", Args: []interface{}{"/notify", int32(0)}})
	case "/status":
		lb.mu.Lock()
		numNodes := int32(len(lb.nodes))
		lb.mu.Unlock()
		lb.reply(&wire.Message{Address: "/status.reply", Args: []interface{}{
			int32(1), numNodes, int32(0), int32(0),
			float32(0), float32(0), float32(0), float32(0),
		}})
	case "/quit":
		lb.reply(&wire.Message{Address: "/done", Args: []interface{}{"/quit"}})
	case "/sync":
		id, _ := msg.Args[0].(int32)
		lb.reply(&wire.Message{Address: "/synced", Args: []interface{}{id}})
	}
}

// replyCompletion decodes a nested completion message blob (spec.md §4.8: completion
// messages travel as an encoded blob argument) and dispatches it as though the Engine
// had sent it on completion of the enclosing command.
func (lb *Loopback) replyCompletion(arg interface{}) {
	blob, ok := arg.([]byte)
	if !ok {
		return
	}
	el, err := wire.Decode(blob)
	if err != nil {
		return
	}
	lb.dispatch(el)
}

func (lb *Loopback) reply(msg *wire.Message) {
	encoded, err := wire.EncodeMessage(msg)
	if err != nil {
		return
	}
	lb.world.dispatchReply(encoded)
}
