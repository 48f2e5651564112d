// Package reclaim stands in for the epoch-based safe-reclamation facility
// this design was built against (crossbeam::epoch's pin/guard/defer_destroy
// triad). internal/treiber and internal/exchanger load and swap their CAS'd
// pointers with sync/atomic, but pin a Guard for each operation and retire
// every swapped-out pointer through it, so a future hazard-pointer or epoch
// backend can hook in at those call sites.
//
// Go's tracing garbage collector already makes the seam trivial: a pointer
// swapped out of an atomic field by a winning CAS stays valid for as long as
// any goroutine still holds a copy of it (loaded before the swap), and is
// only actually freed once nothing reachable points to it any more — exactly
// the guarantee pin()/defer_destroy exists to provide by hand. There is no
// ABA-prone manual free to guard against here.
package reclaim

// Guard marks a region during which pointers loaded from reclaimed fields
// remain valid. It carries no state because the runtime, not this package,
// is what actually keeps those pointers alive.
type Guard struct{}

// Pin declares the current goroutine active for the duration the returned
// Guard is in scope. Unlike an epoch pin, there is nothing to release:
// callers are not required to ever "unpin".
func Pin() Guard {
	return Guard{}
}

// DeferDestroy marks p as retired: the slot or node that used to own it has
// already been swapped out by a winning CAS, and nothing else will ever
// observe it through that field again. destroy, if non-nil, runs
// immediately rather than being queued for some later epoch boundary,
// because under garbage collection there is no "later" to wait for — p
// becomes unreachable (and eligible for collection) exactly when the last
// goroutine holding a copy of it drops that copy.
func (Guard) DeferDestroy(destroy func()) {
	if destroy != nil {
		destroy()
	}
}
