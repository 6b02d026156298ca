package compiler

import (
	"errors"
	"fmt"

	"github.com/cbegin/scgo/internal/graph"
)

// ErrCycle is returned when the UGen input graph contains a cycle (spec.md §4.5 step 4:
// "Cycles are fatal").
var ErrCycle = errors.New("compiler: cycle detected in UGen graph")

// topoSort orders ugens so that every input reference points to a strictly earlier
// index (spec.md §8 invariant), deterministically: the base order is original
// insertion index, with every IsWidthFirst UGen (and its descendant subtree) hoisted to
// the earliest position legal for its own dependencies — spec.md §9's Open Question
// resolution: "descendant" means "reachable by following UGen.Inputs transitively",
// and the sort key for a hoisted subtree is each member's own original insertion
// index, preserving relative order within the hoisted set.
func topoSort(ugens []*graph.UGen) ([]*graph.UGen, error) {
	byPtr := make(map[*graph.UGen]int, len(ugens))
	for i, u := range ugens {
		byPtr[u] = i
	}

	widthFirst := map[*graph.UGen]bool{}
	for _, u := range ugens {
		if u.IsWidthFirst {
			markDescendants(u, byPtr, ugens, widthFirst)
		}
	}

	// Stable partition: width-first-hoisted UGens first (by original insertion index),
	// then everything else (by original insertion index). Within each partition the
	// relative order is already insertion order since ugens is walked in that order.
	hoisted := make([]*graph.UGen, 0, len(ugens))
	rest := make([]*graph.UGen, 0, len(ugens))
	for _, u := range ugens {
		if widthFirst[u] {
			hoisted = append(hoisted, u)
		} else {
			rest = append(rest, u)
		}
	}
	ordered := append(hoisted, rest...)

	if err := verifyAcyclic(ordered); err != nil {
		return nil, err
	}
	return ordered, nil
}

// markDescendants marks u and every UGen transitively reachable through its Inputs as
// width-first-hoisted.
func markDescendants(u *graph.UGen, byPtr map[*graph.UGen]int, all []*graph.UGen, marked map[*graph.UGen]bool) {
	if marked[u] {
		return
	}
	marked[u] = true
	for _, in := range u.Inputs {
		op, ok := in.(*graph.OutputProxy)
		if !ok {
			continue
		}
		markDescendants(op.UGen, byPtr, all, marked)
	}
}

// verifyAcyclic confirms every UGen's inputs reference an earlier index in ordered
// (spec.md §8 invariant: "every input reference points to a UGen at a strictly smaller
// index"). Since hoisting only ever moves a UGen earlier relative to its own
// dependents, a true cycle in the original Inputs graph is the only way this can fail.
func verifyAcyclic(ordered []*graph.UGen) error {
	index := make(map[*graph.UGen]int, len(ordered))
	for i, u := range ordered {
		index[u] = i
	}
	for i, u := range ordered {
		for _, in := range u.Inputs {
			op, ok := in.(*graph.OutputProxy)
			if !ok {
				continue
			}
			j, known := index[op.UGen]
			if !known || j >= i {
				return fmt.Errorf("%w: %q (index %d) depends on %q (index %d)", ErrCycle, u.Name, i, op.UGen.Name, j)
			}
		}
	}
	return nil
}

// classNames returns the class names of ugens in order, a compact form for comparing
// two sort results of the same input snapshot.
func classNames(ugens []*graph.UGen) []string {
	out := make([]string, len(ugens))
	for i, u := range ugens {
		out[i] = u.Name
	}
	return out
}
