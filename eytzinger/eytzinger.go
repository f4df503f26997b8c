// Package eytzinger provides a branch-predictable membership index over a
// fixed set of target digests.
//
// The index stores the sorted targets permuted into Eytzinger (BFS) order: an
// in-order walk of an implicit 1-indexed binary heap receives the sorted
// values, so position 1 holds the root (the median only when the tree is
// perfect), and the children of node k are 2k and 2k+1. A membership probe descends the
// implicit tree with one comparison per level, touching a contiguous,
// prefetch-friendly prefix of the array instead of jumping around a sorted
// slice the way classic binary search does.
//
// The index is immutable after New and safe for concurrent readers without
// locking; every search worker probes the same layout.
package eytzinger

import (
	"math/bits"
	"sort"

	"github.com/coregx/hashcrack/digest"
)

// Index is an immutable Eytzinger-ordered digest set.
type Index struct {
	nodes []digest.Digest
}

// New builds an index from the given targets. The input is copied, sorted
// unstably under digest.Compare (targets are unique by construction) and
// permuted in BFS order. O(N log N).
func New(targets []digest.Digest) *Index {
	sorted := make([]digest.Digest, len(targets))
	copy(sorted, targets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	nodes := make([]digest.Digest, len(sorted))
	next := 0
	var fill func(k int)
	fill = func(k int) {
		if k > len(nodes) {
			return
		}
		fill(2 * k)
		nodes[k-1] = sorted[next]
		next++
		fill(2*k + 1)
	}
	fill(1)

	return &Index{nodes: nodes}
}

// Len returns the number of digests in the index.
func (ix *Index) Len() int {
	return len(ix.nodes)
}

// Layout returns the digests in Eytzinger (BFS) order. The device kernels
// binary-search exactly this layout, so the returned slice is what gets copied
// into the GPU input buffer. Callers must not modify it.
func (ix *Index) Layout() []digest.Digest {
	return ix.nodes
}

// Contains reports whether d is in the set.
//
// The descent always runs ⌈log₂(N+1)⌉ iterations with a single
// data-dependent comparison each; a step past the end of the array counts as
// a right-turn. The final position is recovered by cancelling the trailing
// right-turns of the path. An empty index answers false immediately.
func (ix *Index) Contains(d digest.Digest) bool {
	n := uint64(len(ix.nodes))
	k := uint64(1)
	for steps := bits.Len64(n); steps > 0; steps-- {
		if k > n || ix.nodes[k-1].Less(d) {
			k = 2*k + 1
		} else {
			k = 2 * k
		}
	}
	k >>= uint(bits.TrailingZeros64(^k) + 1)
	return k != 0 && ix.nodes[k-1] == d
}
