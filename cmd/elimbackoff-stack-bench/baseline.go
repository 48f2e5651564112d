package main

import "sync/atomic"

// ringBufferBaseline is a bounded MPMC ring buffer used as one of the
// comparison containers in the benchmark sweep, alongside a plain
// sync.Mutex-guarded slice and the elimination-backoff Stack itself — the
// same three-way comparison mxinden/elimination-backoff-stack's
// benches/lib.rs runs against an Arc<Mutex<Vec<T>>> baseline.
//
// Adapted from the gsingh-ds/go-lock-free-ring-buffer ring buffer this
// repository started from (its nodeBased[T]): same per-slot "step" stamp scheme from
// http://www.1024cores.net/home/lock-free-algorithms/queues/bounded-mpmc-queue
// avoiding the ABA hazard on slot reuse, renamed and trimmed to the single
// Offer/Poll pair this benchmark drives (the batched/vectorised poll
// variants also carried have no analogue here: a fixed-capacity bounded
// queue isn't itself under test, it's a baseline for comparison, so only
// the operations the workload driver calls are kept).
type ringBufferBaseline[T any] struct {
	head      uint64
	_padding0 [56]byte
	tail      uint64
	_padding1 [56]byte
	mask      uint64
	_padding2 [56]byte
	slots     []*ringSlot[T]
}

type ringSlot[T any] struct {
	step     uint64
	value    T
	_padding [40]byte
}

// newRingBufferBaseline returns a baseline sized to the next power of two
// at or above capacity, since the slot-stamp scheme requires a power-of-two
// mask.
func newRingBufferBaseline[T any](capacity uint64) *ringBufferBaseline[T] {
	sz := nextPowerOfTwo(capacity)
	slots := make([]*ringSlot[T], sz)
	for i := uint64(0); i < sz; i++ {
		slots[i] = &ringSlot[T]{step: i}
	}
	return &ringBufferBaseline[T]{mask: sz - 1, slots: slots}
}

func nextPowerOfTwo(n uint64) uint64 {
	if n < 1 {
		return 1
	}
	p := uint64(1)
	for p < n {
		p <<= 1
	}
	return p
}

// Offer enqueues value, reporting false if the buffer is at capacity.
func (r *ringBufferBaseline[T]) Offer(value T) bool {
	oldTail := atomic.LoadUint64(&r.tail)
	tailSlot := r.slots[oldTail&r.mask]
	if atomic.LoadUint64(&tailSlot.step) != oldTail {
		return false
	}
	if !atomic.CompareAndSwapUint64(&r.tail, oldTail, oldTail+1) {
		return false
	}
	tailSlot.value = value
	atomic.StoreUint64(&tailSlot.step, oldTail+1)
	return true
}

// Poll dequeues the oldest value, reporting false if the buffer is empty.
func (r *ringBufferBaseline[T]) Poll() (value T, ok bool) {
	oldHead := atomic.LoadUint64(&r.head)
	headSlot := r.slots[oldHead&r.mask]
	step := atomic.LoadUint64(&headSlot.step)
	if step != oldHead+1 {
		return value, false
	}
	if !atomic.CompareAndSwapUint64(&r.head, oldHead, oldHead+1) {
		return value, false
	}
	value = headSlot.value
	atomic.StoreUint64(&headSlot.step, step+r.mask)
	return value, true
}
