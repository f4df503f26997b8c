// Package gpu drives the OpenCL preimage search.
//
// The variable length L splits into a kernel-resident suffix of up to
// MaxLength digits and a host-iterated prefix of the remainder: the host
// enqueues 10^(L-MaxLength) kernel dispatches, each covering a global work
// size of min(10^MaxLength, 10^L) candidates. The device program is built
// per run with the salted prefix templated into the source and the layout
// constants passed as compile-time definitions, so the kernel hot loop has
// no runtime configuration reads at all.
package gpu

import (
	"github.com/coregx/hashcrack/engine"
	"github.com/coregx/hashcrack/eytzinger"
)

// MaxLength is the largest digit count enumerated inside a single kernel
// dispatch. 10^MaxLength work items is the global-size sweet spot; anything
// longer is iterated on the host.
const MaxLength = 7

// kernelParams is the host/device split for one run.
type kernelParams struct {
	lengthOnCPU   int    // digits enumerated by host iterations
	lengthOnGPU   int    // digits enumerated inside the kernel
	cpuIterations uint64 // 10^lengthOnCPU dispatches
	rangeSize     uint64 // global work size per dispatch
}

// deriveKernelParams splits the search space for a variable length and its
// number space 10^length.
func deriveKernelParams(length int, space uint64) kernelParams {
	onCPU := 0
	if length > MaxLength {
		onCPU = length - MaxLength
	}

	rangeSize := engine.Pow10(MaxLength)
	if space < rangeSize {
		rangeSize = space
	}

	return kernelParams{
		lengthOnCPU:   onCPU,
		lengthOnGPU:   length - onCPU,
		cpuIterations: engine.Pow10(onCPU),
		rangeSize:     rangeSize,
	}
}

// cpuLengthDefine names the define carrying lengthOnCPU. When the whole
// space fits in one dispatch the symbol is left undefined so the kernel
// compiles its pure-on-GPU branch; the placeholder name keeps the build
// command shape identical in both cases.
func (k kernelParams) cpuLengthDefine() string {
	if k.cpuIterations > 1 {
		return "CONST_LENGTH_ON_CPU"
	}
	return "INVALID_VALUE"
}

// postProcess converts the read-back output slots into results. Slot i
// belongs to the i-th digest of the Eytzinger layout the kernel searched; a
// value v > 0 means the candidate number v hashed to that target.
//
// A zero slot is ambiguous: it is both "not found" and the encoding of the
// all-zero candidate. Whenever any target is still unaccounted for, the
// all-zero candidate is hashed once on the host and probed against the
// index, and recorded as a hit if it matches.
func postProcess(p engine.Params, ix *eytzinger.Index, slots []uint64) []engine.Result {
	layout := ix.Layout()
	results := make([]engine.Result, 0, len(slots))
	for i, v := range slots {
		if v > 0 {
			results = append(results, engine.Result{
				Digest: layout[i],
				Plain:  p.Prefix + engine.Candidate(v, p.Length),
			})
		}
	}

	if len(results) < len(layout) {
		zeros := engine.Candidate(0, p.Length)
		h := p.Algorithm.Sum(p.SaltedPrefix(), zeros)
		if ix.Contains(h) {
			results = append(results, engine.Result{Digest: h, Plain: p.Prefix + zeros})
		}
	}
	return results
}
