package main

import (
	"sync"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/gsingh-ds/elimbackoff"
)

// container is the narrow interface every benchmarked structure is driven
// through, so the workload driver below never needs to know which concrete
// type it is holding.
type container interface {
	push(v int)
	pop() (int, bool)
}

// mutexSlice is the canonical baseline every lock-free stack in this space
// gets measured against, mirroring original_source/benches/lib.rs's
// Arc<Mutex<Vec<T>>> comparison point.
type mutexSlice struct {
	mu   sync.Mutex
	data []int
}

func newMutexSlice(capacity int) *mutexSlice {
	return &mutexSlice{data: make([]int, 0, capacity)}
}

func (m *mutexSlice) push(v int) {
	m.mu.Lock()
	m.data = append(m.data, v)
	m.mu.Unlock()
}

func (m *mutexSlice) pop() (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.data) == 0 {
		return 0, false
	}
	v := m.data[len(m.data)-1]
	m.data = m.data[:len(m.data)-1]
	return v, true
}

// ringBaseline adapts ringBufferBaseline to the container interface,
// busy-retrying Offer since the ring is bounded and the workload driver
// expects push to always eventually succeed.
type ringBaseline struct {
	rb *ringBufferBaseline[int]
}

func newRingBaseline(capacity int) *ringBaseline {
	return &ringBaseline{rb: newRingBufferBaseline[int](uint64(capacity))}
}

func (r *ringBaseline) push(v int) {
	for !r.rb.Offer(v) {
	}
}

func (r *ringBaseline) pop() (int, bool) { return r.rb.Poll() }

// stackContainer adapts the package's own Stack to the container interface.
type stackContainer struct {
	s *elimbackoff.Stack[int]
}

func newStackContainer(opts ...elimbackoff.Option[int]) *stackContainer {
	return &stackContainer{s: elimbackoff.New[int](opts...)}
}

func (c *stackContainer) push(v int)       { c.s.Push(v) }
func (c *stackContainer) pop() (int, bool) { return c.s.Pop() }

// runResult is one (label, thread count) data point in the sweep.
type runResult struct {
	Label     string
	Threads   int
	TotalOps  int64
	PushPhase time.Duration
	PopPhase  time.Duration
}

// ThroughputOpsPerSec reports combined push+pop throughput.
func (r runResult) ThroughputOpsPerSec() float64 {
	total := r.PushPhase + r.PopPhase
	if total <= 0 {
		return 0
	}
	return float64(r.TotalOps) / total.Seconds()
}

// runWorkload drives threads goroutines through a two-phase workload
// against c: every goroutine pushes opsPerThread values, the phases are
// joined with an errgroup barrier, then every goroutine pops opsPerThread
// values. Two phases keep the benchmark from ever spinning on an empty
// container waiting for a push that will never come, while still
// producing the same total push/pop mix original_source/benches/lib.rs
// measures.
func runWorkload(label string, c container, threads, opsPerThread int) runResult {
	var pushed atomic.Int64
	var g errgroup.Group

	pushStart := time.Now()
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			for j := 0; j < opsPerThread; j++ {
				c.push(j)
				pushed.Inc()
			}
			return nil
		})
	}
	_ = g.Wait()
	pushElapsed := time.Since(pushStart)

	var popped atomic.Int64
	var g2 errgroup.Group
	popStart := time.Now()
	for i := 0; i < threads; i++ {
		g2.Go(func() error {
			for j := 0; j < opsPerThread; j++ {
				for {
					if _, ok := c.pop(); ok {
						break
					}
				}
				popped.Inc()
			}
			return nil
		})
	}
	_ = g2.Wait()
	popElapsed := time.Since(popStart)

	return runResult{
		Label:     label,
		Threads:   threads,
		TotalOps:  pushed.Load() + popped.Load(),
		PushPhase: pushElapsed,
		PopPhase:  popElapsed,
	}
}
