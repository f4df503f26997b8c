package engine

import (
	"sync"
	"sync/atomic"

	"github.com/coregx/hashcrack/eytzinger"
)

// workerOutput is what each worker hands back after its range is exhausted
// or the early-exit fired: how many candidates it hashed and its local hits.
type workerOutput struct {
	hashed  uint64
	results []Result
}

// RunCPU searches [0, p.Space) with p.Threads workers and returns the total
// number of hashes computed plus the merged results. Result order across
// workers is unspecified.
//
// remaining holds the count of not-yet-cracked targets. Workers acquire-load
// it every OptimalHashesPerThread iterations and stop once it reaches zero;
// each hit release-decrements it. The index must not be mutated for the
// duration of the call.
func RunCPU(p Params, ix *eytzinger.Index, remaining *atomic.Int64) (uint64, []Result) {
	threads := uint64(p.Threads)
	if threads == 0 {
		threads = 1
	}
	threadSpace := p.Space / threads

	outputs := make(chan workerOutput, threads)
	var wg sync.WaitGroup

	for t := uint64(0); t < threads; t++ {
		first := t * threadSpace
		last := first + threadSpace
		if t == threads-1 {
			last = p.Space // remainder of the integer division
		}

		wg.Add(1)
		go func(first, last uint64) {
			defer wg.Done()
			outputs <- search(p, ix, remaining, first, last)
		}(first, last)
	}

	wg.Wait()
	close(outputs)

	var hashCount uint64
	var results []Result
	for out := range outputs {
		hashCount += out.hashed
		results = append(results, out.results...)
	}
	return hashCount, results
}

// search is the per-worker hot loop over [first, last).
func search(p Params, ix *eytzinger.Index, remaining *atomic.Int64, first, last uint64) workerOutput {
	saltedPrefix := p.SaltedPrefix()

	// One reusable input buffer: salt||prefix||digits. Only the digit region
	// changes between iterations, mirroring the CONST_BEGIN/CONST_END layout
	// the device kernels hard-code.
	buf := make([]byte, len(saltedPrefix)+p.Length)
	copy(buf, saltedPrefix)
	digits := buf[len(saltedPrefix):]

	var out workerOutput
	for n := first; n < last; n++ {
		if n&(OptimalHashesPerThread-1) == OptimalHashesPerThread-1 {
			if remaining.Load() == 0 {
				out.hashed = n - first
				return out
			}
			if p.Cancel != nil && p.Cancel.Load() {
				out.hashed = n - first
				return out
			}
		}

		PutCandidate(digits, n)
		h := p.Algorithm.SumBytes(buf)
		if ix.Contains(h) {
			remaining.Add(-1)
			out.results = append(out.results, Result{
				Digest: h,
				Plain:  p.Prefix + string(digits),
			})
		}
	}
	out.hashed = last - first
	return out
}
