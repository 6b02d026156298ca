package session

import (
	"github.com/cbegin/scgo/internal/rate"
	"github.com/cbegin/scgo/internal/wire"
)

// Synth is a lightweight proxy over a synth node (spec.md §4.9 "synth").
type Synth struct {
	id      int32
	session *Session
}

// ID returns the node's identifier. A Synth compares equal to its integer id via ID,
// matching spec.md §4.9's "proxy compares equal to its integer id".
func (s *Synth) ID() int32 { return s.id }

// Set sends /n_set with the given control pairs.
func (s *Synth) Set(controls ...wire.ControlPair) error {
	return s.session.send(wire.NSet(s.id, controls...))
}

// Free sends /n_free for this synth.
func (s *Synth) Free() error {
	return s.session.send(wire.NFree(s.id))
}

// Group is a lightweight proxy over a group node (spec.md §4.9 "group").
type Group struct {
	id      int32
	session *Session
}

// ID returns the node's identifier.
func (g *Group) ID() int32 { return g.id }

// Free sends /n_free for this group.
func (g *Group) Free() error {
	return g.session.send(wire.NFree(g.id))
}

// Buffer is a lightweight proxy over an allocated buffer (spec.md §4.9
// "managed_buffer"/"managed_read_buffer").
type Buffer struct {
	id      int32
	session *Session
}

// ID returns the buffer's identifier.
func (b *Buffer) ID() int32 { return b.id }

// Free sends /b_free and releases the id from the Session's allocated-set.
func (b *Buffer) Free() error {
	defer b.session.FreeBufferID(b.id)
	return b.session.send(wire.BFree(b.id))
}

// Zero sends /b_zero for this buffer.
func (b *Buffer) Zero() error {
	return b.session.send(wire.BZero(b.id))
}

// Close sends /b_close for this buffer's file handle.
func (b *Buffer) Close() error {
	return b.session.send(wire.BClose(b.id))
}

// ManagedSynth acquires a synth and guarantees Free is called exactly once when fn
// returns, including when fn panics, before the panic is re-raised (spec.md §4.9
// "managed_synth", §7 "managed_* resources are released exactly once on scope exit,
// including when the scope exits by exception"). It is a no-op (fn still runs, with a
// nil proxy) if the Session is not ONLINE.
func (s *Session) ManagedSynth(defName string, addAction rate.AddAction, targetID int32, fn func(*Synth) error, controls ...wire.ControlPair) error {
	if s.State() != Online {
		return fn(nil)
	}
	synth, err := s.Synth(defName, addAction, targetID, controls...)
	if err != nil {
		return err
	}
	defer func() {
		_ = synth.Free()
	}()
	return fn(synth)
}

// ManagedGroup is Group's scoped-acquisition counterpart to ManagedSynth.
func (s *Session) ManagedGroup(addAction rate.AddAction, targetID int32, fn func(*Group) error) error {
	if s.State() != Online {
		return fn(nil)
	}
	group, err := s.Group(addAction, targetID)
	if err != nil {
		return err
	}
	defer func() {
		_ = group.Free()
	}()
	return fn(group)
}

// ManagedBuffer is Buffer's scoped-acquisition counterpart to ManagedSynth.
func (s *Session) ManagedBuffer(frames, channels int32, fn func(*Buffer) error) error {
	if s.State() != Online {
		return fn(nil)
	}
	buf, err := s.Buffer(frames, channels)
	if err != nil {
		return err
	}
	defer func() {
		_ = buf.Free()
	}()
	return fn(buf)
}

// ManagedReadBuffer is ReadBuffer's scoped-acquisition counterpart to ManagedSynth.
func (s *Session) ManagedReadBuffer(path string, start, frames int32, fn func(*Buffer) error) error {
	if s.State() != Online {
		return fn(nil)
	}
	buf, err := s.ReadBuffer(path, start, frames)
	if err != nil {
		return err
	}
	defer func() {
		_ = buf.Free()
	}()
	return fn(buf)
}
