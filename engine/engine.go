// Package engine implements the CPU side of the preimage search: candidate
// enumeration, worker partitioning and the hash-probe hot loop.
//
// The search space is the integer range [0, 10^L) for a variable length L.
// Workers own disjoint static sub-ranges, share a read-only digest index and
// coordinate through a single atomic counter of not-yet-cracked targets.
// There is no work stealing and no locking on the hot path; the only
// cross-worker traffic is the counter poll every OptimalHashesPerThread
// iterations, which also bounds how long workers keep hashing after the last
// target has been found.
package engine

import (
	"runtime"
	"sync/atomic"

	"github.com/coregx/hashcrack/digest"
)

// OptimalHashesPerThread is the per-worker batch size: the early-exit poll
// cadence, and the unit of the space/OptimalHashesPerThread + 1 cap on the
// pool size. Must stay a power of two (the cadence check is a mask).
const OptimalHashesPerThread = 1024 * 16

// Result is one cracked target: the digest and the full preimage
// (prefix plus zero-padded candidate digits).
type Result struct {
	Digest digest.Digest
	Plain  string
}

// Params describes one search run. Length is the variable digit count after
// the prefix; Space is 10^Length.
type Params struct {
	Algorithm digest.Algorithm
	Salt      string
	Prefix    string
	Length    int
	Space     uint64
	Threads   uint8

	// Cancel, when non-nil, is polled at the same cadence as the remaining
	// counter and aborts the run early when set.
	Cancel *atomic.Bool
}

// SaltedPrefix returns the constant byte prefix of every hashed input.
func (p *Params) SaltedPrefix() string {
	return p.Salt + p.Prefix
}

// Threads picks the worker count for a space of n candidates: the requested
// count (or the logical core count when requested is 0), capped at
// space/OptimalHashesPerThread + 1 workers. Because of the +1, workers may
// still get less than one full batch each (3 workers over 2 batches).
// The result fits in 8 bits and is at least 1.
func Threads(requested uint8, space uint64) uint8 {
	limit := uint64(requested)
	if requested == 0 {
		cores := runtime.NumCPU()
		if cores > 255 {
			cores = 255
		}
		limit = uint64(cores)
	}

	count := space/OptimalHashesPerThread + 1
	if count > limit {
		count = limit
	}
	if count < 1 {
		count = 1
	}
	return uint8(count)
}
