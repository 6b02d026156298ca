package compiler

import (
	"github.com/cbegin/scgo/internal/graph"
	"github.com/cbegin/scgo/internal/rate"
)

// insertMaxLocalBufs prepends a synthetic MaxLocalBufs UGen declaring the total count
// of LocalBuf instances in ugens, if any LocalBuf is present and no MaxLocalBufs
// already provides the count (spec.md §4.5 step 3).
func insertMaxLocalBufs(ugens []*graph.UGen) []*graph.UGen {
	count := 0
	hasMaxLocalBufs := false
	for _, u := range ugens {
		switch u.Name {
		case "LocalBuf":
			count++
		case "MaxLocalBufs":
			hasMaxLocalBufs = true
		}
	}
	if count == 0 || hasMaxLocalBufs {
		return ugens
	}
	maxBufs := graph.NewUGen("MaxLocalBufs", rate.Scalar, []graph.Signal{graph.Const(float32(count))}, nil)
	maxBufs.HasSideEffects = true
	return append([]*graph.UGen{maxBufs}, ugens...)
}
