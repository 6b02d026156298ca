package session

import (
	"context"
	"reflect"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cbegin/scgo/internal/wire"
)

// replyPump demultiplexes reply datagrams from the Engine by address (spec.md §4.9).
// Persistent subscribers registered with on/off are invoked for every matching reply,
// in arrival order; one-shot waiters registered via waitFor are completed by the first
// match and then removed. The dispatch shape — a mutex-guarded map of address to
// listeners, invoked directly from the callback rather than via a dedicated goroutine —
// is adapted from player.go's eventCh/sendEvent fan-out, narrowed from "one buffered
// channel, drop if full" to "one slice of listeners per address, call synchronously"
// since reply subscribers here must never silently miss a reply.
type replyPump struct {
	log zerolog.Logger

	mu          sync.Mutex
	subscribers map[string][]func(*wire.Message)
	waiters     map[string][]*waiter
}

func newReplyPump(log zerolog.Logger) *replyPump {
	return &replyPump{
		log:         log,
		subscribers: make(map[string][]func(*wire.Message)),
		waiters:     make(map[string][]*waiter),
	}
}

// dispatch decodes a raw reply datagram and fans it out. It recovers from a panicking
// subscriber so one bad listener cannot take down the pump (spec.md §4.9: "reply
// callbacks that raise are swallowed").
func (p *replyPump) dispatch(packet []byte) {
	el, err := wire.Decode(packet)
	if err != nil {
		p.log.Warn().Err(err).Msg("session: discarding malformed reply datagram")
		return
	}
	msg, ok := el.(*wire.Message)
	if !ok {
		return
	}

	p.mu.Lock()
	subs := append([]func(*wire.Message){}, p.subscribers[msg.Address]...)
	matched := p.waiters[msg.Address]
	delete(p.waiters, msg.Address)
	p.mu.Unlock()

	for _, w := range matched {
		w.complete(msg)
	}
	for _, fn := range subs {
		p.invoke(fn, msg)
	}
}

func (p *replyPump) invoke(fn func(*wire.Message), msg *wire.Message) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("address", msg.Address).Msg("session: reply subscriber panicked, swallowed")
		}
	}()
	fn(msg)
}

func (p *replyPump) on(address string, fn func(*wire.Message)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers[address] = append(p.subscribers[address], fn)
}

func (p *replyPump) off(address string, fn func(*wire.Message)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fns := p.subscribers[address]
	target := reflect.ValueOf(fn).Pointer()
	for i, existing := range fns {
		if reflect.ValueOf(existing).Pointer() == target {
			p.subscribers[address] = append(fns[:i], fns[i+1:]...)
			return
		}
	}
}

// waiter is a one-shot reply subscription bound by a context deadline.
type waiter struct {
	ch chan *wire.Message
}

func (p *replyPump) waitFor(address string) *waiter {
	w := &waiter{ch: make(chan *wire.Message, 1)}
	p.mu.Lock()
	p.waiters[address] = append(p.waiters[address], w)
	p.mu.Unlock()
	return w
}

func (w *waiter) complete(msg *wire.Message) {
	select {
	case w.ch <- msg:
	default:
	}
}

// cancel abandons this waiter without blocking on it. Used when a send fails after the
// waiter was already registered.
func (w *waiter) cancel() {}

func (w *waiter) block(ctx context.Context) (*wire.Message, error) {
	select {
	case msg := <-w.ch:
		return msg, nil
	case <-ctx.Done():
		return nil, ErrReplyTimeout
	}
}
