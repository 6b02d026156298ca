package compiler

import "github.com/cbegin/scgo/internal/graph"

// optimization is a single rewrite rule over the sorted UGen list, applied to a
// fixpoint (spec.md §4.5 step 5). Adapted from the teacher's internal/effects.Effector
// interface — one small behavior method, composed into an ordered chain — generalized
// from per-sample audio processing to per-UGen graph rewriting.
type optimization interface {
	apply(ugens []*graph.UGen) (rewritten []*graph.UGen, changed bool)
}

// ruleChain runs every rule in order, repeating the whole chain until no rule reports
// a change (a fixpoint), matching effects.Chain's "run every Effector in sequence"
// composition.
type ruleChain []optimization

func (c ruleChain) run(ugens []*graph.UGen) []*graph.UGen {
	for {
		changed := false
		for _, rule := range c {
			var ruleChanged bool
			ugens, ruleChanged = rule.apply(ugens)
			changed = changed || ruleChanged
		}
		if !changed {
			return ugens
		}
	}
}

// defaultRules is the optimizer's fixed rule set: dead-code elimination for anything
// with no remaining consumers and no side effects. The §4.1 identity folds are not a
// rule here; internal/opalg applies them eagerly at construction time.
var defaultRules = ruleChain{
	deadCodeElimination{},
}

// deadCodeElimination drops any UGen with zero consumers among the outputs of every
// other (surviving) UGen, unless it is flagged HasSideEffects (spec.md §4.5 step 5:
// "Out-family, Done/Free/Pause, SendTrig/SendReply/Poll, RecordBuf, DiskOut, ScopeOut,
// LocalOut, and every UGen flagged has_side_effects").
type deadCodeElimination struct{}

func (deadCodeElimination) apply(ugens []*graph.UGen) ([]*graph.UGen, bool) {
	consumed := map[*graph.UGen]bool{}
	for _, u := range ugens {
		for _, in := range u.Inputs {
			if op, ok := in.(*graph.OutputProxy); ok {
				consumed[op.UGen] = true
			}
		}
	}

	out := make([]*graph.UGen, 0, len(ugens))
	changed := false
	for _, u := range ugens {
		if !u.HasSideEffects && !consumed[u] {
			changed = true
			continue
		}
		out = append(out, u)
	}
	return out, changed
}
