// Package wire implements the Wire Protocol (spec.md §4.8, §6): an OSC-shaped
// message/bundle value model, a hand-rolled binary codec, and the command builders the
// Session needs to talk to the Engine.
package wire

// Element is either a *Message or a *Bundle, the two things a Bundle's payload may
// contain (spec.md §6: "Bundles... contain length-prefixed elements").
type Element interface {
	isElement()
}

// Message is one OSC-shaped command: an address pattern plus typed arguments (spec.md
// §6: "typed messages with address pattern and type tag string `,iifsb…`").
type Message struct {
	Address string
	// Args holds int32, float32, string, or []byte values, one per argument, in the
	// order they appear in the type tag string.
	Args []interface{}
}

func (*Message) isElement() {}

// Bundle prepends a 64-bit NTP-like timetag to an ordered list of elements (spec.md
// §6).
type Bundle struct {
	TimeTag  uint64
	Elements []Element
}

func (*Bundle) isElement() {}

// bundleTag is OSC's fixed 8-byte bundle marker, written verbatim (null-padded to 8
// bytes) at the start of every encoded Bundle.
const bundleTag = "#bundle\x00"
