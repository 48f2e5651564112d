// Package elimination implements the elimination array: a fixed-width
// vector of exchangers that opposing push/pop operations are dispatched to
// at random, so they can cancel out on disjoint memory instead of
// contending on a shared stack head.
//
// Adapted from mxinden/elimination-backoff-stack's src/elimination_array.rs.
package elimination

import (
	"math/rand/v2"

	"github.com/gsingh-ds/elimbackoff/event"
	"github.com/gsingh-ds/elimbackoff/internal/exchanger"
)

// PushStrategy supplies the retry policy and scope width for a push
// delegated through the array.
type PushStrategy interface {
	exchanger.PushStrategy
	// TryArrayPush reports whether the array-level loop should pick
	// another exchanger and retry. Named distinctly from the Treiber
	// layer's TryPush so one strategy instance can track separate retry
	// budgets for each layer.
	TryArrayPush() bool
	// NumExchangers reports how many of the array's total exchangers are
	// currently in scope for random dispatch, in [1, total]. This is the
	// space-backoff knob: a narrow scope raises rendezvous probability
	// under low contention, a wide one spreads load under high
	// contention.
	NumExchangers(total int) int
}

// PopStrategy supplies the retry policy and scope width for a pop
// delegated through the array.
type PopStrategy interface {
	exchanger.PopStrategy
	TryArrayPop() bool
	NumExchangers(total int) int
}

// Array is a fixed-length, read-only-after-construction vector of
// exchangers.
type Array[T any] struct {
	exchangers []*exchanger.Exchanger[T]
}

// New returns an Array with n exchangers. A value of n below 1 is raised
// to 1.
func New[T any](n int) *Array[T] {
	if n < 1 {
		n = 1
	}
	a := &Array[T]{exchangers: make([]*exchanger.Exchanger[T], n)}
	for i := range a.exchangers {
		a.exchangers[i] = exchanger.New[T]()
	}
	return a
}

// Len reports the array's fixed width.
func (a *Array[T]) Len() int {
	return len(a.exchangers)
}

// Push delegates to a randomly chosen in-scope exchanger, retrying against
// fresh random picks while the strategy allows. It returns true once some
// popper has claimed value. rec is recorded before each individual
// exchanger attempt; pass event.NoopRecorder{} when instrumentation isn't
// wanted.
func (a *Array[T]) Push(value T, strategy PushStrategy, rec event.Recorder) bool {
	for strategy.TryArrayPush() {
		rec.Record(event.Event{Kind: event.TryEliminationArray})
		rec.Record(event.Event{Kind: event.StartExchangerPush})
		if a.randomExchanger(strategy.NumExchangers(len(a.exchangers))).Push(value, strategy) {
			return true
		}
	}
	return false
}

// Pop delegates to a randomly chosen in-scope exchanger, retrying against
// fresh random picks while the strategy allows.
func (a *Array[T]) Pop(strategy PopStrategy, rec event.Recorder) (T, bool) {
	for strategy.TryArrayPop() {
		rec.Record(event.Event{Kind: event.TryEliminationArray})
		rec.Record(event.Event{Kind: event.StartExchangerPop})
		if v, ok := a.randomExchanger(strategy.NumExchangers(len(a.exchangers))).Pop(strategy); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (a *Array[T]) randomExchanger(scope int) *exchanger.Exchanger[T] {
	if scope < 1 {
		scope = 1
	}
	if scope > len(a.exchangers) {
		scope = len(a.exchangers)
	}
	return a.exchangers[rand.N(scope)]
}
