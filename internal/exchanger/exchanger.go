// Package exchanger implements a single-slot rendezvous point between one
// pusher and one popper, the building block the elimination array dispatches
// to so that opposing push/pop pairs can cancel out without ever touching a
// shared stack head.
//
// The slot is a tagged three-state sum (Empty | Waiting(v) | Busy), encoded
// as a discriminated heap node behind an atomic pointer rather than a
// separate tag word, following the state machine in
// mxinden/elimination-backoff-stack's src/exchanger.rs.
package exchanger

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/gsingh-ds/elimbackoff/internal/reclaim"
)

type state uint8

const (
	stateEmpty state = iota
	stateWaiting
	stateBusy
)

// slot is the discriminated heap node behind Exchanger.item. Only the
// popper whose Waiting->Busy CAS succeeded reads value out of a node in
// stateWaiting; everyone else may only observe the tag.
type slot[T any] struct {
	state state
	value T
}

// PushStrategy supplies the retry policy for a single push-side exchange.
type PushStrategy interface {
	// TryStartExchange reports whether Phase A (deposit) should attempt
	// another CAS. Returning false abandons the exchange.
	TryStartExchange() bool
	// RetryCheckExchanged reports whether Phase B (await) should keep
	// waiting for a popper to claim the deposited value. Returning false
	// reclaims the value instead.
	RetryCheckExchanged() bool
}

// PopStrategy supplies the retry policy for a single pop-side exchange.
type PopStrategy interface {
	// TryExchange reports whether the pop loop should inspect the slot
	// again. Returning false abandons the exchange.
	TryExchange() bool
	// OnContention fires when the slot was seen occupied by a
	// same-direction actor (Busy) or a losing CAS race.
	OnContention()
	// OnNoContention fires when the slot was seen Empty.
	OnNoContention()
}

// Exchanger is a single atomic slot shared by exactly one pusher and one
// popper at a time. The zero value is not usable; construct with New.
type Exchanger[T any] struct {
	item atomic.Pointer[slot[T]]
}

// New returns an Exchanger with an empty slot.
func New[T any]() *Exchanger[T] {
	e := &Exchanger[T]{}
	e.item.Store(&slot[T]{state: stateEmpty})
	return e
}

// Push deposits value for a popper to claim. It returns true once some
// popper has taken ownership of value (Invariant 4); it returns false when
// the strategy gives up first, in which case the caller still exclusively
// owns value and may retry or fall back to another layer.
func (e *Exchanger[T]) Push(value T, strategy PushStrategy) bool {
	guard := reclaim.Pin()
	waiting := &slot[T]{state: stateWaiting, value: value}

	// Phase A: deposit into the slot.
	deposited := false
	for !deposited {
		if !strategy.TryStartExchange() {
			return false
		}

		cur := e.item.Load()
		switch cur.state {
		case stateEmpty:
			if e.item.CompareAndSwap(cur, waiting) {
				guard.DeferDestroy(func() {})
				deposited = true
			}
			// Lost the race to another pusher; reload and retry.
		case stateWaiting, stateBusy:
			// Another pusher is mid-exchange; we may not overwrite it.
		}
	}

	// Phase B: await a popper, or reclaim on strategy exhaustion.
	for {
		cur := e.item.Load()
		switch cur.state {
		case stateEmpty:
			logrus.WithFields(logrus.Fields{
				"component": "exchanger",
				"phase":     "await",
			}).Fatal("observed Empty while awaiting our own Waiting slot: invariant breach")
		case stateWaiting:
			if strategy.RetryCheckExchanged() {
				continue
			}
			empty := &slot[T]{state: stateEmpty}
			if e.item.CompareAndSwap(cur, empty) {
				guard.DeferDestroy(func() {})
				return false
			}
			// A popper just claimed it; loop to observe Busy.
		case stateBusy:
			empty := &slot[T]{state: stateEmpty}
			if !e.item.CompareAndSwap(cur, empty) {
				logrus.WithFields(logrus.Fields{
					"component": "exchanger",
					"phase":     "await",
				}).Fatal("Busy->Empty CAS failed: only the depositing pusher may issue it")
			}
			guard.DeferDestroy(func() {})
			return true
		}
	}
}

// Pop claims a waiting value. It returns (v, true) once it has taken
// exclusive ownership of some pusher's value (Invariant 5); it returns
// (zero, false) once the strategy gives up.
func (e *Exchanger[T]) Pop(strategy PopStrategy) (T, bool) {
	guard := reclaim.Pin()

	for strategy.TryExchange() {
		cur := e.item.Load()
		switch cur.state {
		case stateEmpty:
			strategy.OnNoContention()
		case stateWaiting:
			busy := &slot[T]{state: stateBusy}
			if e.item.CompareAndSwap(cur, busy) {
				v := cur.value
				guard.DeferDestroy(func() {})
				return v, true
			}
			strategy.OnContention()
		case stateBusy:
			strategy.OnContention()
		}
	}

	var zero T
	return zero, false
}
