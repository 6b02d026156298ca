// Package builder implements the scope-bounded collector that captures UGen
// construction into a DAG (spec.md §3 SynthDefBuilder, §4.2 Builder and scope).
package builder

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/rate"
)

var (
	// ErrCrossScopeWiring is returned when a UGen is constructed referencing an
	// OutputProxy whose parent UGen belongs to a different active builder (spec.md
	// §4.2).
	ErrCrossScopeWiring = errors.New("builder: cross-scope wiring")
	// ErrDuplicateParameterName is returned by AddParameter for a name already
	// registered on this builder (spec.md §4.2: "Parameter names are unique per
	// builder; duplicates are a fatal error").
	ErrDuplicateParameterName = errors.New("builder: duplicate parameter name")
)

// Builder is the mutable, scope-bounded collector described in spec.md §3
// SynthDefBuilder. Zero value is not usable; construct with Open.
type Builder struct {
	ugens       []*graph.UGen
	parameters  []*graph.Parameter
	paramByName map[string]*graph.Parameter
	nextInsert  int
}

// owner tracks which Builder a UGen was appended to, across every Builder instance
// that currently exists, so cross-scope wiring can be detected without adding a
// builder-specific field to graph.UGen itself (spec.md §4.2 "nested-scope detection").
var (
	ownerMu sync.Mutex
	owner   = map[*graph.UGen]*Builder{}
)

// stackMu guards the per-goroutine scope stacks.
var (
	stackMu sync.Mutex
	stacks  = map[int64][]*Builder{}
)

// Open pushes a new Builder onto the current goroutine's scope stack and returns it.
// UGen construction that happens on this goroutine while it remains the innermost
// scope registers into it (spec.md §4.2).
func Open() *Builder {
	b := &Builder{paramByName: map[string]*graph.Parameter{}}
	gid := goroutineID()
	stackMu.Lock()
	stacks[gid] = append(stacks[gid], b)
	stackMu.Unlock()
	return b
}

// Current returns the innermost open Builder on the calling goroutine, or nil if no
// scope is open (pure expression construction, allowed for tests but not compilable
// per spec.md §4.2).
func Current() *Builder {
	gid := goroutineID()
	stackMu.Lock()
	defer stackMu.Unlock()
	s := stacks[gid]
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// Close pops b off the current goroutine's scope stack without freezing it
// (spec.md §3: "closing without build simply discards"). It is a no-op if b is not
// the innermost open scope on this goroutine.
func Close(b *Builder) {
	gid := goroutineID()
	stackMu.Lock()
	defer stackMu.Unlock()
	s := stacks[gid]
	if len(s) == 0 || s[len(s)-1] != b {
		return
	}
	stacks[gid] = s[:len(s)-1]
}

// Append registers u with the currently active scope (if any) and assigns its
// InsertIndex. If no scope is open, u is returned unregistered — legal for pure
// expression construction but such a UGen is not compilable (spec.md §4.2).
//
// Append validates every OutputProxy input against cross-scope wiring before
// registering u: each referenced UGen must belong to the same builder u is about to
// join (spec.md §4.2 "cross-scope wiring").
func Append(u *graph.UGen) (*graph.UGen, error) {
	cur := Current()
	if cur == nil {
		return u, nil
	}
	if err := checkScope(cur, u.Inputs); err != nil {
		return nil, err
	}
	u.InsertIndex = cur.nextInsert
	cur.nextInsert++
	cur.ugens = append(cur.ugens, u)
	ownerMu.Lock()
	owner[u] = cur
	ownerMu.Unlock()
	return u, nil
}

func checkScope(cur *Builder, inputs []graph.Signal) error {
	ownerMu.Lock()
	defer ownerMu.Unlock()
	for _, in := range inputs {
		op, ok := in.(*graph.OutputProxy)
		if !ok {
			continue
		}
		if owner[op.UGen] != cur {
			return fmt.Errorf("%w: UGen %q belongs to a different builder", ErrCrossScopeWiring, op.UGen.Name)
		}
	}
	return nil
}

// AddParameter registers p with b, assigning p.Index. Returns ErrDuplicateParameterName
// if b already has a parameter with this name (spec.md §4.2).
func (b *Builder) AddParameter(p *graph.Parameter) error {
	if _, exists := b.paramByName[p.Name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateParameterName, p.Name)
	}
	p.Index = len(b.parameters)
	b.parameters = append(b.parameters, p)
	b.paramByName[p.Name] = p
	return nil
}

// Control is a convenience constructor matching spec.md §4.2's "control(value, rate,
// lag) helper": it builds and registers a Parameter in one call.
func (b *Builder) Control(name string, value float32, r rate.Parameter, lag float32) (*graph.Parameter, error) {
	p := &graph.Parameter{Name: name, Value: []float32{value}, Rate: r, Lag: lag}
	if err := b.AddParameter(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UGens returns the builder's captured UGen list in insertion order. Used by
// internal/compiler when freezing a SynthDef.
func (b *Builder) UGens() []*graph.UGen { return append([]*graph.UGen(nil), b.ugens...) }

// Parameters returns the builder's registered parameters in registration order.
func (b *Builder) Parameters() []*graph.Parameter { return append([]*graph.Parameter(nil), b.parameters...) }

// Freeze pops b off its goroutine's scope stack and returns its captured UGens and
// parameters for internal/compiler's build pipeline (spec.md §4.5 steps 1-7, entered
// from the public build(name) entry point in internal/compiler). Splitting the pop
// from the pipeline keeps this package free of the topological-sort/optimizer/emitter
// concerns, which belong to internal/compiler.
func (b *Builder) Freeze() (ugens []*graph.UGen, params []*graph.Parameter) {
	Close(b)
	return b.UGens(), b.Parameters()
}
