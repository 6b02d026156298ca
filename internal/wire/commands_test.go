package wire

import (
	"testing"

	"github.com/cbegin/scgo/internal/rate"
)

func TestSNewBuildsExpectedAddressAndArgs(t *testing.T) {
	msg := SNew("sine", 1000, rate.AddToHead, 0, ControlPair{Name: "freq", Value: 440})
	if msg.Address != "/s_new" {
		t.Fatalf("expected /s_new, got %s", msg.Address)
	}
	want := []interface{}{"sine", int32(1000), int32(0), int32(0), "freq", float32(440)}
	for i, a := range want {
		if msg.Args[i] != a {
			t.Fatalf("arg %d: got %#v want %#v", i, msg.Args[i], a)
		}
	}
}

func TestStatusAndQuitHaveNoArgs(t *testing.T) {
	if len(Status().Args) != 0 || Status().Address != "/status" {
		t.Fatalf("unexpected Status message: %#v", Status())
	}
	if len(Quit().Args) != 0 || Quit().Address != "/quit" {
		t.Fatalf("unexpected Quit message: %#v", Quit())
	}
}

func TestReplyPrefixesCoverSpecSet(t *testing.T) {
	want := map[string]bool{
		"/done": true, "/fail": true, "/status.reply": true, "/n_go": true,
		"/n_end": true, "/n_off": true, "/n_on": true, "/n_info": true,
		"/b_info": true, "/tr": true, "/synced": true,
	}
	for _, p := range ReplyPrefixes {
		if !want[p] {
			t.Fatalf("unexpected reply prefix %q", p)
		}
		delete(want, p)
	}
	if len(want) != 0 {
		t.Fatalf("missing reply prefixes: %v", want)
	}
}
