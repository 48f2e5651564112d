// Package elimbackoff implements an elimination-backoff stack: a
// concurrent, unbounded LIFO container usable by any number of producer
// and consumer goroutines at once. It combines a lock-free head-CAS
// (Treiber) stack with a side-channel elimination array that pairs
// opposing push/pop calls so they can cancel out without ever touching the
// shared head.
//
// Under low contention the stack behaves like a plain Treiber stack; under
// high contention, a growing fraction of push/pop pairs eliminate in O(1)
// on disjoint memory, restoring scalability that a bare head-CAS stack
// loses once many goroutines contend for the same cache line.
//
// Adapted from mxinden/elimination-backoff-stack (Rust). See DESIGN.md at
// the repository root for the full grounding ledger.
package elimbackoff
