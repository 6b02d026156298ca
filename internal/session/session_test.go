package session

import (
	"context"
	"testing"
	"time"

	"github.com/cbegin/scgo/internal/engine"
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/rate"
	"github.com/cbegin/scgo/internal/wire"
)

func newBootedSession(t *testing.T) *Session {
	t.Helper()
	s := New()
	if err := s.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	engine.NewLoopback(s.World())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Quit(ctx)
	})
	return s
}

func TestBootTransitionsOfflineToOnline(t *testing.T) {
	s := New()
	if s.State() != Offline {
		t.Fatalf("expected OFFLINE before boot, got %v", s.State())
	}
	if err := s.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	engine.NewLoopback(s.World())
	if s.State() != Online {
		t.Fatalf("expected ONLINE after boot, got %v", s.State())
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Quit(ctx); err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if s.State() != Offline {
		t.Fatalf("expected OFFLINE after quit, got %v", s.State())
	}
}

func TestDoubleBootFromOnlineIsANoOp(t *testing.T) {
	s := newBootedSession(t)
	if err := s.Boot(); err != nil {
		t.Fatalf("second Boot should be a no-op, got error: %v", err)
	}
}

func TestNodeIDsAreMonotonicStartingAt1000(t *testing.T) {
	s := New()
	first := s.NextNodeID()
	second := s.NextNodeID()
	if first != 1000 || second != 1001 {
		t.Fatalf("expected 1000, 1001; got %d, %d", first, second)
	}
}

func TestBufferIDsAreMonotonicFromZeroAndTracked(t *testing.T) {
	s := New()
	id := s.NextBufferID()
	if id != 0 {
		t.Fatalf("expected first buffer id 0, got %d", id)
	}
	if !s.IsBufferAllocated(id) {
		t.Fatalf("expected buffer %d to be tracked as allocated", id)
	}
	s.FreeBufferID(id)
	if s.IsBufferAllocated(id) {
		t.Fatalf("expected buffer %d to be untracked after free", id)
	}
}

func TestSendWhileOfflineFails(t *testing.T) {
	s := New()
	if _, err := s.Synth("sine", rate.AddToHead, 0); err != ErrOffline {
		t.Fatalf("expected ErrOffline, got %v", err)
	}
}

func TestSessionLifecycleBootSendStatusQuit(t *testing.T) {
	s := newBootedSession(t)

	def := &graph.SynthDef{Name: "sine"}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.SendSynthDef(ctx, def); err != nil {
		t.Fatalf("SendSynthDef: %v", err)
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), time.Second)
	defer cancel2()
	reply, err := s.SendMsgSync(ctx2, wire.Status(), "/status.reply")
	if err != nil {
		t.Fatalf("SendMsgSync(/status): %v", err)
	}
	if reply.Address != "/status.reply" {
		t.Fatalf("expected /status.reply, got %s", reply.Address)
	}

	ctx3, cancel3 := context.WithTimeout(context.Background(), time.Second)
	defer cancel3()
	if err := s.Quit(ctx3); err != nil {
		t.Fatalf("Quit: %v", err)
	}

	if _, err := s.Synth("sine", rate.AddToHead, 0); err != ErrOffline {
		t.Fatalf("expected post-quit synth() to fail with ErrOffline, got %v", err)
	}
}

func TestManagedSynthFreesExactlyOnceOnPanic(t *testing.T) {
	s := newBootedSession(t)

	var freed int
	s.On("/n_end", func(_ *wire.Message) { freed++ })

	func() {
		defer func() { _ = recover() }()
		_ = s.ManagedSynth("sine", rate.AddToHead, 0, func(synth *Synth) error {
			panic("boom")
		})
	}()

	if freed != 1 {
		t.Fatalf("expected exactly one /n_end after managed_synth panics, got %d", freed)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := s.SendMsgSync(ctx, wire.Status(), "/status.reply"); err != nil {
		t.Fatalf("session should remain ONLINE after managed cleanup: %v", err)
	}
}

func TestWaitForReplyTimesOut(t *testing.T) {
	s := newBootedSession(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := s.WaitForReply(ctx, "/this-address-never-replies"); err != ErrReplyTimeout {
		t.Fatalf("expected ErrReplyTimeout, got %v", err)
	}
}
