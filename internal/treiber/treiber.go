// Package treiber implements Treiber's lock-free stack: a singly-linked
// chain of nodes reachable from an atomic head pointer, with a successful
// head CAS as the sole linearization point for both push and pop.
//
// Adapted from mxinden/elimination-backoff-stack's src/treiber_stack.rs,
// itself adapted from crossbeam-epoch's treiber_stack.rs example, and from
// the CAS-retry-loop idiom in the gsingh-ds/go-lock-free-ring-buffer ring
// buffer this repository started from.
package treiber

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/gsingh-ds/elimbackoff/internal/reclaim"
)

type node[T any] struct {
	data T
	next *node[T]
}

// PushStrategy supplies the retry policy for a single push attempt.
type PushStrategy interface {
	// TryPush reports whether the head-CAS loop should attempt again.
	TryPush() bool
}

// PopStrategy supplies the retry policy for a single pop attempt.
type PopStrategy interface {
	// TryPop reports whether the head-CAS loop should attempt again. Not
	// consulted on the empty-stack fast path: an observably empty stack
	// is not a contention signal and never spends retry budget.
	TryPop() bool
}

// Stack is a lock-free LIFO chain of nodes reachable from an atomic head.
// The zero value is an empty, ready-to-use stack.
type Stack[T any] struct {
	head atomic.Pointer[node[T]]
}

// Push adds value to the top of the stack. It returns true once the head
// CAS has installed value; it returns false when the strategy gives up
// first, in which case the caller still exclusively owns value.
func (s *Stack[T]) Push(value T, strategy PushStrategy) bool {
	guard := reclaim.Pin()
	n := &node[T]{data: value}

	for strategy.TryPush() {
		head := s.head.Load()
		n.next = head

		if s.head.CompareAndSwap(head, n) {
			guard.DeferDestroy(func() {})
			return true
		}
	}

	return false
}

// Pop removes and returns the top of the stack. It returns (v, true, false)
// on success, (zero, false, true) when the stack was observed empty (no
// retry budget spent — this is not contention), and (zero, false, false)
// when the strategy exhausted its retry budget under contention.
func (s *Stack[T]) Pop(strategy PopStrategy) (value T, some bool, exhausted bool) {
	guard := reclaim.Pin()

	head := s.head.Load()
	if head == nil {
		var zero T
		return zero, false, false
	}

	for strategy.TryPop() {
		head = s.head.Load()
		if head == nil {
			var zero T
			return zero, false, false
		}

		next := head.next
		if s.head.CompareAndSwap(head, next) {
			v := head.data
			guard.DeferDestroy(func() {})
			return v, true, false
		}
	}

	var zero T
	return zero, false, true
}

// drainStrategy is an unbounded PopStrategy used only to unwind the
// remaining chain; it never signals contention-exhaustion.
type drainStrategy struct{}

func (drainStrategy) TryPop() bool { return true }

// Drain empties the stack, discarding every remaining value. Intended for
// callers that own the Stack exclusively (e.g. during teardown) and do not
// need the popped values.
func (s *Stack[T]) Drain() {
	var strategy drainStrategy
	for {
		_, some, exhausted := s.Pop(strategy)
		if exhausted {
			logrus.WithField("component", "treiber").
				Fatal("unbounded drain strategy reported exhaustion: impossible")
		}
		if !some {
			return
		}
	}
}
