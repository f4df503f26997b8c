package gpu

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/Gustav-Simonsson/go-opencl/cl"

	"github.com/coregx/hashcrack/engine"
	"github.com/coregx/hashcrack/eytzinger"
)

// Options tunes a device run. Progress, when non-nil, is called after each
// host iteration is enqueued with (done, total) dispatch counts.
type Options struct {
	Progress func(done, total uint64)
}

// Outcome summarizes a device run. HashCount is the full number space (the
// device enumerates it exhaustively; there is no early exit across
// dispatches), Lanes the global work size of each dispatch.
type Outcome struct {
	HashCount uint64
	Lanes     uint64
	Results   []engine.Result
}

// Run searches the whole space on the best available OpenCL device.
//
// The target array travels to the device once, in Eytzinger order, so the
// kernel's binary search and the CPU index probe the identical layout. Each
// target owns one 64-bit output slot that the kernel writes the cracked
// candidate number into; slots are explicitly zeroed beforehand and
// disambiguated by postProcess afterwards.
func Run(p engine.Params, ix *eytzinger.Index, opts Options) (*Outcome, error) {
	if ix.Len() == 0 {
		return &Outcome{}, nil
	}
	if ix.Len() > math.MaxInt32 {
		return nil, fmt.Errorf("target count %d exceeds the kernel's signed 32-bit capacity", ix.Len())
	}

	k := deriveKernelParams(p.Length, p.Space)

	device, err := selectDevice()
	if err != nil {
		return nil, err
	}

	context, err := cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("OpenCL: failed to create context: %w", err)
	}
	defer context.Release()

	queue, err := context.CreateCommandQueue(device, 0)
	if err != nil {
		return nil, fmt.Errorf("OpenCL: failed to create command queue: %w", err)
	}
	defer queue.Release()

	source := injectPrefix(sourceFor(p.Algorithm), p.SaltedPrefix())
	program, err := context.CreateProgramWithSource([]string{source})
	if err != nil {
		return nil, fmt.Errorf("OpenCL: failed to create program: %w", err)
	}
	defer program.Release()

	options := buildOptions(len(p.SaltedPrefix()), p.Length, ix.Len(), k)
	if err := program.BuildProgram([]*cl.Device{device}, options); err != nil {
		return nil, fmt.Errorf("OpenCL: failed to build program: %w", err)
	}

	kernel, err := program.CreateKernel("crack")
	if err != nil {
		return nil, fmt.Errorf("OpenCL: failed to build kernel: %w", err)
	}
	defer kernel.Release()

	// Input: the Eytzinger-ordered digests, flattened.
	width := p.Algorithm.Size()
	targetBytes := make([]byte, 0, ix.Len()*width)
	for _, d := range ix.Layout() {
		targetBytes = append(targetBytes, d.Bytes()...)
	}
	input, err := context.CreateEmptyBuffer(cl.MemReadOnly, len(targetBytes))
	if err != nil {
		return nil, fmt.Errorf("OpenCL: failed to create input buffer: %w", err)
	}
	defer input.Release()
	if _, err := queue.EnqueueWriteBuffer(input, true, 0, len(targetBytes), unsafe.Pointer(&targetBytes[0]), nil); err != nil {
		return nil, fmt.Errorf("OpenCL: failed to fill input buffer: %w", err)
	}

	// Output: one zeroed u64 slot per target.
	slots := make([]uint64, ix.Len())
	output, err := context.CreateEmptyBuffer(cl.MemWriteOnly, 8*len(slots))
	if err != nil {
		return nil, fmt.Errorf("OpenCL: failed to create output buffer: %w", err)
	}
	defer output.Release()
	if _, err := queue.EnqueueWriteBuffer(output, true, 0, 8*len(slots), unsafe.Pointer(&slots[0]), nil); err != nil {
		return nil, fmt.Errorf("OpenCL: failed to clear output buffer: %w", err)
	}

	for i := uint64(0); i < k.cpuIterations; i++ {
		if err := kernel.SetArgs(input, output, uint32(i)); err != nil {
			return nil, fmt.Errorf("OpenCL: failed to set kernel arguments: %w", err)
		}
		if _, err := queue.EnqueueNDRangeKernel(kernel, nil, []int{int(k.rangeSize)}, nil, nil); err != nil {
			return nil, fmt.Errorf("OpenCL: failed to enqueue kernel: %w", err)
		}
		if opts.Progress != nil {
			opts.Progress(i+1, k.cpuIterations)
		}
	}

	// The one blocking barrier of the host path.
	if err := queue.Finish(); err != nil {
		return nil, fmt.Errorf("OpenCL: failed to flush queue: %w", err)
	}

	if _, err := queue.EnqueueReadBuffer(output, true, 0, 8*len(slots), unsafe.Pointer(&slots[0]), nil); err != nil {
		return nil, fmt.Errorf("OpenCL: failed to read output buffer: %w", err)
	}

	return &Outcome{
		HashCount: p.Space,
		Lanes:     k.rangeSize,
		Results:   postProcess(p, ix, slots),
	}, nil
}
