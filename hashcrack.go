// Package hashcrack recovers short numeric preimages of salted MD5 and
// SHA-256 digests by exhaustive enumeration.
//
// Given target digests, a known plaintext prefix, a salt and a total
// preimage length, the search space is every decimal string filling the
// remaining positions; each candidate is hashed as salt||prefix||digits and
// probed against an Eytzinger-ordered index of the targets. The work runs
// either on a pool of CPU workers with cooperative early termination, or on
// an OpenCL device with the space split between host iterations and kernel
// dispatches.
//
// This package is the orchestrator: it validates the run, picks the device,
// dispatches to the engines and assembles the summary. Input collection and
// result substitution live in the ingest and rewrite packages; the cmd
// directory carries the command-line front end.
package hashcrack

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/coregx/hashcrack/digest"
	"github.com/coregx/hashcrack/engine"
	"github.com/coregx/hashcrack/eytzinger"
	"github.com/coregx/hashcrack/gpu"
)

// maxVariableLength keeps the number space inside uint64: 10^19 is the
// largest power of ten below 2^64.
const maxVariableLength = 19

// Device selects where the search runs.
type Device int

const (
	// DeviceAuto applies the size heuristic: spaces larger than one CPU
	// batch per worker go to the GPU.
	DeviceAuto Device = iota
	// DeviceCPU forces the worker pool.
	DeviceCPU
	// DeviceGPU forces the OpenCL path.
	DeviceGPU
)

// Devices lists the accepted names for flag help.
var Devices = []string{"cpu", "gpu"}

// ParseDevice maps a user-supplied name to a Device.
func ParseDevice(name string) (Device, error) {
	switch name {
	case "":
		return DeviceAuto, nil
	case "cpu", "CPU":
		return DeviceCPU, nil
	case "gpu", "GPU":
		return DeviceGPU, nil
	}
	return 0, fmt.Errorf("unsupported device %q (expected cpu or gpu)", name)
}

// String returns the lower-case device name.
func (d Device) String() string {
	switch d {
	case DeviceCPU:
		return "cpu"
	case DeviceGPU:
		return "gpu"
	}
	return "auto"
}

// Config describes one crack run.
type Config struct {
	Algorithm digest.Algorithm
	Salt      string
	Prefix    string

	// Length is the total preimage length, prefix included.
	Length uint8

	// Threads is the requested CPU worker count; 0 selects the core count.
	Threads uint8

	// Device picks the engine; DeviceAuto applies the heuristic.
	Device Device

	// GPUProgress, when non-nil, receives (done, total) dispatch counts
	// while the GPU host loop enqueues kernels.
	GPUProgress func(done, total uint64)
}

// Summary is the aggregated outcome of a run.
type Summary struct {
	Device      Device
	Algorithm   digest.Algorithm
	Threads     uint8  // CPU workers (CPU runs)
	Lanes       uint64 // global work size per dispatch (GPU runs)
	TargetCount int
	HashCount   uint64
	Duration    time.Duration
	Results     []engine.Result
}

// CrackedCount returns how many targets were solved.
func (s *Summary) CrackedCount() int {
	return len(s.Results)
}

// AllCracked reports whether every target was solved; the process exit
// status hinges on it.
func (s *Summary) AllCracked() bool {
	return s.CrackedCount() == s.TargetCount
}

// HashesPerMilli returns the measured hash throughput per millisecond,
// NaN when the run finished too fast to time.
func (s *Summary) HashesPerMilli() float64 {
	micros := s.Duration.Microseconds()
	if micros == 0 {
		return math.NaN()
	}
	return float64(s.HashCount) * 1000 / float64(micros)
}

// Crack searches for preimages of the given targets and returns the
// summary. The target slice is not retained.
func (c Config) Crack(targets []digest.Digest) (*Summary, error) {
	variable, space, err := c.validate()
	if err != nil {
		return nil, err
	}

	threads := engine.Threads(c.Threads, space)
	device := c.Device
	if device == DeviceAuto {
		device = chooseDevice(space, threads)
	}
	if device == DeviceGPU && len(targets) > math.MaxInt32 {
		return nil, fmt.Errorf("target count %d exceeds the GPU kernel's signed 32-bit capacity", len(targets))
	}

	params := engine.Params{
		Algorithm: c.Algorithm,
		Salt:      c.Salt,
		Prefix:    c.Prefix,
		Length:    variable,
		Space:     space,
		Threads:   threads,
	}

	// Built once, published before any worker starts, immutable afterwards.
	index := eytzinger.New(targets)

	summary := &Summary{
		Device:      device,
		Algorithm:   c.Algorithm,
		TargetCount: index.Len(),
	}

	start := time.Now()
	switch device {
	case DeviceGPU:
		outcome, err := gpu.Run(params, index, gpu.Options{Progress: c.GPUProgress})
		if err != nil {
			return nil, err
		}
		summary.HashCount = outcome.HashCount
		summary.Lanes = outcome.Lanes
		summary.Results = outcome.Results
	default:
		var remaining atomic.Int64
		remaining.Store(int64(index.Len()))
		summary.Threads = threads
		summary.HashCount, summary.Results = engine.RunCPU(params, index, &remaining)
	}
	summary.Duration = time.Since(start)

	return summary, nil
}

// validate checks the length constraints and derives the variable digit
// count and its number space.
func (c Config) validate() (int, uint64, error) {
	if len(c.Prefix) > int(c.Length) {
		return 0, 0, fmt.Errorf("prefix %q is longer than the total length %d", c.Prefix, c.Length)
	}
	variable := int(c.Length) - len(c.Prefix)
	if variable > maxVariableLength {
		return 0, 0, fmt.Errorf("%d variable digits exceed the %d-digit search limit", variable, maxVariableLength)
	}
	return variable, engine.Pow10(variable), nil
}

// chooseDevice is the auto heuristic: go to the GPU when the space exceeds
// one batch per CPU worker.
func chooseDevice(space uint64, threads uint8) Device {
	if space > uint64(threads)*engine.OptimalHashesPerThread {
		return DeviceGPU
	}
	return DeviceCPU
}

// HashValues is the plain hashing mode: each value is digested as
// salt||value and returned in input order.
func HashValues(alg digest.Algorithm, salt string, values []string) []digest.Digest {
	out := make([]digest.Digest, len(values))
	for i, v := range values {
		out[i] = alg.Sum(salt, v)
	}
	return out
}
