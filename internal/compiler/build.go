// Package compiler implements build(name) (spec.md §4.5): snapshot, parameter
// materialization, LocalBuf cleanup, topological sort, optimization, constant interning,
// and freeze into an immutable graph.SynthDef — plus the SCgf binary emitter (§4.6,
// scgf.go).
package compiler

import (
	"errors"
	"fmt"

	"github.com/cbegin/scgo/internal/builder"
	"github.com/cbegin/scgo/internal/graph"
)

// ErrEmptyGraph is returned when build(name) is called against a scope that produced
// no UGens at all.
var ErrEmptyGraph = errors.New("compiler: graph has no UGens")

// Options configures an individual build(name) call.
type Options struct {
	// DisableOptimization skips step 5 (spec.md §4.5: "Optimization (optional,
	// default on)").
	DisableOptimization bool
}

// Build runs fn inside a freshly opened builder scope, then performs the full §4.5
// pipeline over everything fn constructed, producing an immutable *graph.SynthDef. If
// fn returns an error, the scope is discarded (spec.md §3: "closing without build
// simply discards") and the error is returned unwrapped.
func Build(name string, fn func() error, opts ...Options) (*graph.SynthDef, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	b := builder.Open()
	if err := fn(); err != nil {
		builder.Close(b)
		return nil, err
	}
	ugens, params := b.Freeze()
	return build(name, ugens, params, o)
}

// build is the pipeline proper, factored out so tests can drive it directly from a
// hand-built UGen/Parameter snapshot without going through the builder scope machinery.
func build(name string, ugens []*graph.UGen, params []*graph.Parameter, o Options) (*graph.SynthDef, error) {
	// Step 1: Snapshot — ugens/params are already an owned copy (Builder.UGens/
	// Parameters both return defensive copies), so no further copying is needed here.
	if len(ugens) == 0 {
		return nil, ErrEmptyGraph
	}

	// Step 2: Parameter materialization.
	ugens = materializeParameters(ugens, params)

	// Step 3: LocalBuf cleanup.
	ugens = insertMaxLocalBufs(ugens)

	// Step 4: Topological sort.
	sorted, err := topoSort(ugens)
	if err != nil {
		return nil, fmt.Errorf("compiler: building %q: %w", name, err)
	}

	// Step 5: Optimization.
	if !o.DisableOptimization {
		sorted = defaultRules.run(sorted)
	}

	// Step 6: Constant interning.
	sorted, constants := internConstants(sorted)

	// Step 7: Freeze.
	return &graph.SynthDef{
		Name:       name,
		Parameters: params,
		UGens:      sorted,
		Constants:  constants,
	}, nil
}
