// Package strategy provides the pluggable, per-operation, thread-local
// policy objects that decide how aggressively the composite Stack tries
// each layer: how many CAS attempts the Treiber stack gets, whether and how
// widely the elimination array is used, and how long a pusher waits in an
// exchanger's Phase B before reclaiming its value.
//
// Three strategies are provided: None (disables the array, reducing the
// composite to a pure Treiber stack), BackAndForth (small fixed budgets
// everywhere, no adaptation), and ExpBackoff (a congestion exponent that
// grows both the retry budgets and the array scope under contention and
// shrinks them back down once contention subsides).
package strategy

import (
	"github.com/gsingh-ds/elimbackoff/internal/elimination"
	"github.com/gsingh-ds/elimbackoff/internal/treiber"
)

// Push is the full push-side contract consulted by the composite Stack:
// stack-level layer selection, Treiber-level retry budget, and
// array/exchanger-level retry, scope, and phase hooks.
type Push interface {
	treiber.PushStrategy
	elimination.PushStrategy
	// UseEliminationArray reports whether a Treiber miss should be
	// followed by an elimination-array attempt before looping back to
	// the Treiber stack.
	UseEliminationArray() bool
}

// Pop is the pop-side analogue of Push.
type Pop interface {
	treiber.PopStrategy
	elimination.PopStrategy
	UseEliminationArray() bool
}

// Factory constructs a fresh, thread-local strategy instance for a single
// push or pop call. Strategy state lives only for the duration of that one
// call's retry loops and is discarded when it returns.
type Factory interface {
	NewPush() Push
	NewPop() Pop
}
