package elimbackoff

import (
	"runtime"

	"github.com/gsingh-ds/elimbackoff/event"
	"github.com/gsingh-ds/elimbackoff/internal/elimination"
	"github.com/gsingh-ds/elimbackoff/internal/treiber"
	"github.com/gsingh-ds/elimbackoff/strategy"
)

// Stack is a concurrent, unbounded LIFO container safe for simultaneous use
// by any number of goroutines. The zero value is not usable; construct one
// with New. A Stack must not be copied after first use.
type Stack[T any] struct {
	treiber  treiber.Stack[T]
	array    *elimination.Array[T]
	factory  strategy.Factory
	recorder event.Recorder
}

// Option configures a Stack at construction time.
type Option[T any] func(*config[T])

type config[T any] struct {
	factory        strategy.Factory
	exchangerCount int
	recorder       event.Recorder
}

// WithStrategy selects the pluggable policy governing retry budgets,
// elimination-array scope, and Phase-B wait length. The default is
// strategy.ExpBackoff{}.
func WithStrategy[T any](f strategy.Factory) Option[T] {
	return func(c *config[T]) { c.factory = f }
}

// WithExchangerCount sets the elimination array's fixed width. The default
// is runtime.NumCPU(), following the original implementation's choice of
// one exchanger per hardware thread.
func WithExchangerCount[T any](n int) Option[T] {
	return func(c *config[T]) { c.exchangerCount = n }
}

// WithEventRecorder attaches an instrumentation hook invoked inline, on the
// calling goroutine, at each notable point of every push and pop. The
// default is event.NoopRecorder{}.
func WithEventRecorder[T any](r event.Recorder) Option[T] {
	return func(c *config[T]) { c.recorder = r }
}

// New constructs an empty Stack.
func New[T any](opts ...Option[T]) *Stack[T] {
	c := config[T]{
		factory:        strategy.ExpBackoff{},
		exchangerCount: runtime.NumCPU(),
		recorder:       event.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(&c)
	}

	return &Stack[T]{
		array:    elimination.New[T](c.exchangerCount),
		factory:  c.factory,
		recorder: c.recorder,
	}
}

// Push adds value to the stack. It alternates between the Treiber stack and
// the elimination array until one of them succeeds: a Treiber miss is a
// strong congestion signal, so the strategy may offload the retry onto the
// array before looping back.
func (s *Stack[T]) Push(value T) {
	strat := s.factory.NewPush()
	s.recorder.Record(event.Event{Kind: event.StartPush})

	for {
		s.recorder.Record(event.Event{Kind: event.TryStack})
		if s.treiber.Push(value, strat) {
			s.recorder.Record(event.Event{Kind: event.FinishPush})
			return
		}

		if strat.UseEliminationArray() {
			s.recorder.Record(event.Event{Kind: event.StartEliminationArrayPush})
			if s.array.Push(value, strat, s.recorder) {
				s.recorder.Record(event.Event{Kind: event.FinishPush})
				return
			}
		}
	}
}

// Pop removes and returns the top of the stack. It reports (zero, false)
// only when the Treiber layer observed a provably empty chain, a genuine
// absence of data rather than contention, so the elimination array is never
// consulted in that case. Any other miss (Treiber contention, or an array
// exchange that didn't pair up) loops back to the Treiber stack.
func (s *Stack[T]) Pop() (T, bool) {
	strat := s.factory.NewPop()
	s.recorder.Record(event.Event{Kind: event.StartPop})

	for {
		s.recorder.Record(event.Event{Kind: event.TryStack})
		v, some, exhausted := s.treiber.Pop(strat)
		if some {
			s.recorder.Record(event.Event{Kind: event.FinishPop})
			return v, true
		}
		if !exhausted {
			var zero T
			return zero, false
		}

		if strat.UseEliminationArray() {
			s.recorder.Record(event.Event{Kind: event.StartEliminationArrayPop})
			if v, ok := s.array.Pop(strat, s.recorder); ok {
				s.recorder.Record(event.Event{Kind: event.FinishPop})
				return v, true
			}
		}
	}
}

// Drain empties the stack, discarding every remaining value. Intended for
// callers that own the Stack exclusively, such as during teardown; it does
// not consult the elimination array, since nothing else may be concurrently
// pushing once a caller owns the stack exclusively.
func (s *Stack[T]) Drain() {
	s.treiber.Drain()
}
