package strategy

import (
	"runtime"

	"go.uber.org/atomic"
)

// expMaxExponent is the declared upper bound for the congestion exponent.
// DESIGN.md records the Open Question this resolves: the source's exponent
// update reads as `.max(MAX)`, which never clamps since incrementing only
// grows the value; a correct reimplementation saturates with `.min(MAX)`.
const expMaxExponent = 5

// expHistogram counts, across every ExpBackoff-driven operation in this
// process, how many times each exponent value was observed when one of an
// operation's layer budgets first ran out (at most once per operation; an
// operation that never exhausts a budget is not counted). It is shared diagnostic state — unlike the thread-local
// exponent itself, many goroutines genuinely write to it concurrently, so
// it is a real atomic counter vector rather than a plain field.
var expHistogram [expMaxExponent + 1]atomic.Int64

// ExpHistogramSnapshot returns the current per-exponent observation counts,
// for tests and diagnostics.
func ExpHistogramSnapshot() [expMaxExponent + 1]int64 {
	var snap [expMaxExponent + 1]int64
	for i := range expHistogram {
		snap[i] = expHistogram[i].Load()
	}
	return snap
}

// ExpBackoff is the recommended default strategy: it maintains a
// per-operation congestion exponent in [0, expMaxExponent] that grows on
// observed Treiber/exchanger-deposit contention and shrinks when a popper
// finds no contention, realising simultaneous space backoff (elimination
// array scope) and time backoff (retry budgets, Phase-B wait length).
type ExpBackoff struct{}

func (ExpBackoff) NewPush() Push { return newExpBackoffOp() }
func (ExpBackoff) NewPop() Pop   { return newExpBackoffOp() }

type expBackoffOp struct {
	exponent int

	treiberCounter, treiberCalls     int
	arrayCounter, arrayCalls         int
	exchStartCounter, exchStartCalls int
	exchTryCounter, exchTryCalls     int
	phaseBLeft                       int
	phaseBArmed                      bool
	recorded                         bool
}

// newExpBackoffOp pre-arms every layer counter to the exponent-0 budget, so
// the first call to each hook grants an attempt instead of reporting
// spurious exhaustion before any CAS or exchanger pick has even been tried.
func newExpBackoffOp() *expBackoffOp {
	o := &expBackoffOp{}
	budget := o.layerBudget()
	o.treiberCounter = budget
	o.arrayCounter = budget
	o.exchStartCounter = budget
	o.exchTryCounter = budget
	return o
}

func (o *expBackoffOp) UseEliminationArray() bool { return true }

func clampExponent(e int) int {
	if e < 0 {
		return 0
	}
	if e > expMaxExponent {
		return expMaxExponent
	}
	return e
}

func pow2(e int) int {
	return 1 << uint(e)
}

func (o *expBackoffOp) grow() {
	o.exponent = clampExponent(o.exponent + 1)
}

func (o *expBackoffOp) shrink() {
	o.exponent = clampExponent(o.exponent - 2)
}

func (o *expBackoffOp) recordFinalExponent() {
	if o.recorded {
		return
	}
	o.recorded = true
	expHistogram[clampExponent(o.exponent)].Inc()
}

// layerBudget is the shared "2*2^e" budget every layer-level hook uses.
func (o *expBackoffOp) layerBudget() int { return 2 * pow2(o.exponent) }

func (o *expBackoffOp) tryLayer(counter, calls *int, congests bool) bool {
	budget := o.layerBudget()
	if *counter <= 0 {
		*counter = budget
		*calls = 0
		o.recordFinalExponent()
		return false
	}
	if *calls > 0 && congests {
		o.grow()
	}
	*calls++
	*counter--
	return true
}

func (o *expBackoffOp) TryPush() bool { return o.tryLayer(&o.treiberCounter, &o.treiberCalls, true) }
func (o *expBackoffOp) TryPop() bool  { return o.tryLayer(&o.treiberCounter, &o.treiberCalls, true) }

func (o *expBackoffOp) TryArrayPush() bool {
	return o.tryLayer(&o.arrayCounter, &o.arrayCalls, false)
}
func (o *expBackoffOp) TryArrayPop() bool {
	return o.tryLayer(&o.arrayCounter, &o.arrayCalls, false)
}

// NumExchangers widens the dispatch scope with the congestion exponent,
// capped at the array's full width.
func (o *expBackoffOp) NumExchangers(total int) int {
	n := pow2(o.exponent)
	if n > total {
		n = total
	}
	if n < 1 {
		n = 1
	}
	return n
}

func (o *expBackoffOp) TryStartExchange() bool {
	return o.tryLayer(&o.exchStartCounter, &o.exchStartCalls, true)
}

// RetryCheckExchanged drives Phase B: ~10*e iterations, each yielding the
// processor (runtime.Gosched) e times. At e==0 this gives up
// immediately on the first check, matching "no backoff yet observed".
func (o *expBackoffOp) RetryCheckExchanged() bool {
	if !o.phaseBArmed {
		o.phaseBArmed = true
		o.phaseBLeft = 10 * o.exponent
	}
	if o.phaseBLeft <= 0 {
		o.phaseBArmed = false
		return false
	}
	o.phaseBLeft--
	for i := 0; i < o.exponent; i++ {
		runtime.Gosched()
	}
	return true
}

func (o *expBackoffOp) TryExchange() bool {
	return o.tryLayer(&o.exchTryCounter, &o.exchTryCalls, false)
}

func (o *expBackoffOp) OnContention() {}

// OnNoContention fires when a popper observes an Empty exchanger slot: the
// absence of a waiting value, unlike a CAS race, is a sign this exponent
// may be wider than the current workload needs, so it shrinks.
func (o *expBackoffOp) OnNoContention() {
	o.shrink()
}
