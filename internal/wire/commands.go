package wire

import "github.com/cbegin/scgo/internal/rate"

// DRecv builds /d_recv: install SynthDef(s), with an optional completion message sent
// when the Engine finishes installing them (spec.md §4.8).
func DRecv(scgf []byte, completion *Message) *Message {
	args := []interface{}{scgf}
	if completion != nil {
		encoded, _ := EncodeMessage(completion)
		args = append(args, encoded)
	}
	return &Message{Address: "/d_recv", Args: args}
}

// SNew builds /s_new: instantiate defName as nodeID, placed by addAction relative to
// targetID, with initial control pairs (spec.md §4.8).
func SNew(defName string, nodeID int32, addAction rate.AddAction, targetID int32, controls ...ControlPair) *Message {
	args := []interface{}{defName, nodeID, int32(addAction), targetID}
	args = append(args, controlArgs(controls)...)
	return &Message{Address: "/s_new", Args: args}
}

// GNew builds /g_new: create a group node (spec.md §4.8).
func GNew(nodeID int32, addAction rate.AddAction, targetID int32) *Message {
	return &Message{Address: "/g_new", Args: []interface{}{nodeID, int32(addAction), targetID}}
}

// NFree builds /n_free: free a node (spec.md §4.8).
func NFree(nodeID int32) *Message {
	return &Message{Address: "/n_free", Args: []interface{}{nodeID}}
}

// NSet builds /n_set: set controls on an existing node (spec.md §4.8).
func NSet(nodeID int32, controls ...ControlPair) *Message {
	args := []interface{}{nodeID}
	args = append(args, controlArgs(controls)...)
	return &Message{Address: "/n_set", Args: args}
}

// BAlloc builds /b_alloc: allocate a buffer (spec.md §4.8).
func BAlloc(bufID, frames, channels int32, completion *Message) *Message {
	args := []interface{}{bufID, frames, channels}
	args = appendCompletion(args, completion)
	return &Message{Address: "/b_alloc", Args: args}
}

// BAllocRead builds /b_allocRead: allocate and read from a file (spec.md §4.8).
func BAllocRead(bufID int32, path string, start, frames int32, completion *Message) *Message {
	args := []interface{}{bufID, path, start, frames}
	args = appendCompletion(args, completion)
	return &Message{Address: "/b_allocRead", Args: args}
}

// BRead builds /b_read: read into an existing buffer (spec.md §4.8).
func BRead(bufID int32, path string, fileStart, frames, bufStart int32, leaveOpen bool) *Message {
	return &Message{Address: "/b_read", Args: []interface{}{bufID, path, fileStart, frames, bufStart, boolArg(leaveOpen)}}
}

// BWrite builds /b_write: write a buffer to a file (spec.md §4.8).
func BWrite(bufID int32, path, headerFmt, sampleFmt string, frames, start int32, leaveOpen bool) *Message {
	return &Message{Address: "/b_write", Args: []interface{}{bufID, path, headerFmt, sampleFmt, frames, start, boolArg(leaveOpen)}}
}

// BZero builds /b_zero: zero a buffer's contents (spec.md §4.8).
func BZero(bufID int32) *Message {
	return &Message{Address: "/b_zero", Args: []interface{}{bufID}}
}

// BClose builds /b_close: close a buffer's file handle (spec.md §4.8).
func BClose(bufID int32) *Message {
	return &Message{Address: "/b_close", Args: []interface{}{bufID}}
}

// BFree builds /b_free: free a buffer (spec.md §4.8).
func BFree(bufID int32) *Message {
	return &Message{Address: "/b_free", Args: []interface{}{bufID}}
}

// Notify builds /notify: subscribe to or unsubscribe from notifications.
func Notify(on bool) *Message {
	return &Message{Address: "/notify", Args: []interface{}{boolArg(on)}}
}

// Status builds /status: request the Engine's status reply.
func Status() *Message {
	return &Message{Address: "/status"}
}

// Quit builds /quit: request a clean shutdown.
func Quit() *Message {
	return &Message{Address: "/quit"}
}

// ControlPair is one (name, value) pair in a /s_new or /n_set control list.
type ControlPair struct {
	Name  string
	Value float32
}

func controlArgs(controls []ControlPair) []interface{} {
	args := make([]interface{}, 0, len(controls)*2)
	for _, c := range controls {
		args = append(args, c.Name, c.Value)
	}
	return args
}

func appendCompletion(args []interface{}, completion *Message) []interface{} {
	if completion == nil {
		return args
	}
	encoded, _ := EncodeMessage(completion)
	return append(args, encoded)
}

func boolArg(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// ReplyPrefixes lists the Engine reply address prefixes the Session recognizes
// (spec.md §4.8: "recognized prefixes include /done, /fail, /status.reply, /n_go,
// /n_end, /n_off, /n_on, /n_info, /b_info, /tr, /synced").
var ReplyPrefixes = []string{
	"/done", "/fail", "/status.reply", "/n_go", "/n_end", "/n_off", "/n_on",
	"/n_info", "/b_info", "/tr", "/synced",
}
