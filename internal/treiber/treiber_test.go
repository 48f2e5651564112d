package treiber_test

import (
	"sync"
	"testing"

	check "gopkg.in/check.v1"

	"github.com/gsingh-ds/elimbackoff/internal/treiber"
)

func Test(t *testing.T) { check.TestingT(t) }

type TreiberSuite struct{}

var _ = check.Suite(&TreiberSuite{})

type unboundedStrategy struct{}

func (unboundedStrategy) TryPush() bool { return true }
func (unboundedStrategy) TryPop() bool  { return true }

// neverStrategy reports no retries at all. Used to prove the empty-stack
// fast path in Pop bypasses the retry budget entirely (spec §4.3's
// "implementation note").
type neverStrategy struct{}

func (neverStrategy) TryPush() bool { return false }
func (neverStrategy) TryPop() bool  { return false }

// TestSingleThreadedLIFO reproduces scenario S1: push(1), push(2), push(3),
// pop, pop, push(4), pop, pop yields 3, 2, 4, 1, then an observed-empty pop.
func (s *TreiberSuite) TestSingleThreadedLIFO(c *check.C) {
	var st treiber.Stack[int]
	var strat unboundedStrategy

	for _, v := range []int{1, 2, 3} {
		c.Assert(st.Push(v, strat), check.Equals, true)
	}

	expectPop := func(want int) {
		v, some, exhausted := st.Pop(strat)
		c.Assert(exhausted, check.Equals, false)
		c.Assert(some, check.Equals, true)
		c.Assert(v, check.Equals, want)
	}

	expectPop(3)
	expectPop(2)

	c.Assert(st.Push(4, strat), check.Equals, true)

	expectPop(4)
	expectPop(1)

	_, some, exhausted := st.Pop(strat)
	c.Assert(some, check.Equals, false)
	c.Assert(exhausted, check.Equals, false)
}

// TestEmptyStackFastPathSkipsBudget proves an observably empty stack
// returns Ok(None) even under a strategy that grants zero retries, because
// emptiness is witnessed before the retry loop is entered.
func (s *TreiberSuite) TestEmptyStackFastPathSkipsBudget(c *check.C) {
	var st treiber.Stack[int]

	_, some, exhausted := st.Pop(neverStrategy{})
	c.Assert(some, check.Equals, false)
	c.Assert(exhausted, check.Equals, false)
}

// TestPushNeverExhaustedStrategyAlwaysSucceeds checks an unbounded strategy
// never reports Err(v): Push always returns true given infinite retries.
func (s *TreiberSuite) TestPushNeverExhaustedStrategyAlwaysSucceeds(c *check.C) {
	var st treiber.Stack[int]
	c.Assert(st.Push(7, unboundedStrategy{}), check.Equals, true)
}

// TestConcurrentPushPopNoDuplication has many goroutines push unique values
// concurrently; once all pushes are done, many goroutines pop concurrently
// until each observes the stack empty. It asserts the union of all popped
// values has no duplicates and loses nothing (properties 2 and 3).
func (s *TreiberSuite) TestConcurrentPushPopNoDuplication(c *check.C) {
	const perGoroutine = 2000
	const pushers = 8

	var st treiber.Stack[int]
	var wg sync.WaitGroup

	for g := 0; g < pushers; g++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				for !st.Push(base*perGoroutine+i, unboundedStrategy{}) {
				}
			}
		}(g)
	}
	wg.Wait()

	seen := make(map[int]int)
	var mu sync.Mutex
	var popWG sync.WaitGroup
	for g := 0; g < pushers; g++ {
		popWG.Add(1)
		go func() {
			defer popWG.Done()
			for {
				v, some, exhausted := st.Pop(unboundedStrategy{})
				if exhausted {
					continue
				}
				if !some {
					return
				}
				mu.Lock()
				seen[v]++
				mu.Unlock()
			}
		}()
	}
	popWG.Wait()

	c.Assert(seen, check.HasLen, pushers*perGoroutine)
	for v, cnt := range seen {
		c.Assert(cnt, check.Equals, 1, check.Commentf("value %d popped %d times", v, cnt))
	}
}

// TestDrainEmptiesStack exercises the destruction helper used by the
// composite Stack's teardown path.
func (s *TreiberSuite) TestDrainEmptiesStack(c *check.C) {
	var st treiber.Stack[int]
	for i := 0; i < 50; i++ {
		c.Assert(st.Push(i, unboundedStrategy{}), check.Equals, true)
	}

	st.Drain()

	_, some, exhausted := st.Pop(unboundedStrategy{})
	c.Assert(some, check.Equals, false)
	c.Assert(exhausted, check.Equals, false)
}
