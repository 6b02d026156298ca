package scgo

import (
	"context"
	"testing"
	"time"

	"github.com/cbegin/scgo/internal/engine"
	"github.com/cbegin/scgo/internal/wire"
)

func bootTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
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

// TestSessionLifecycle covers spec.md §8 scenario 5: boot, install a SynthDef,
// send_msg_sync(/status, /status.reply, timeout=1s), quit, and confirm a post-quit
// synth() call fails with the session-offline error.
func TestSessionLifecycle(t *testing.T) {
	s := bootTestSession(t)

	def, err := Build("sine", func() error {
		sig, err := SinOsc(Audio, Const(440), Const(0))
		if err != nil {
			return err
		}
		_, err = Out(Audio, Const(0), sig)
		return err
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

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

	if _, err := s.Synth(def.Name, AddToHead, 0); err != ErrSessionOffline {
		t.Fatalf("expected post-quit synth() to fail with ErrSessionOffline, got %v", err)
	}
}

// TestManagedSynthCleansUpOnPanic covers spec.md §8 scenario 6: a managed_synth whose
// body panics must still dispatch exactly one /n_free, and the session must remain
// ONLINE afterward.
func TestManagedSynthCleansUpOnPanic(t *testing.T) {
	s := bootTestSession(t)

	var freedCount int
	s.On("/n_end", func(_ *wire.Message) { freedCount++ })

	func() {
		defer func() { _ = recover() }()
		_ = s.ManagedSynth("sine", AddToHead, 0, func(_ *Synth) error {
			panic("boom")
		})
	}()

	if freedCount != 1 {
		t.Fatalf("expected exactly one /n_free-triggered /n_end, got %d", freedCount)
	}
	if s.State() != SessionStateOnline {
		t.Fatalf("expected session to remain ONLINE after managed cleanup, got %v", s.State())
	}
}
