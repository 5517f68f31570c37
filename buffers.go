package latticesim

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// energyBuffers holds the two ping-pong storage buffers (component B)
// plus the uniform parameter buffer (component A). Both storage
// buffers are allocated once, at New, and never resized: the spec
// forbids aliasing them within a step and their lifetime equals the
// Simulator's.
type energyBuffers struct {
	a, b   *wgpu.Buffer
	params *wgpu.Buffer
}

func siteCount(w, h, d int) int { return w * h * d }

func bufferByteSize(w, h, d int) uint64 {
	return uint64(siteCount(w, h, d)) * 4
}

// maxStorageBindingSize returns the device's single-buffer storage
// binding limit, used to reject oversize lattices at construction
// (spec §7 "Dimension oversize").
func maxStorageBindingSize(device *wgpu.Device) uint64 {
	limits := device.GetLimits()
	return uint64(limits.Limits.MaxStorageBufferBindingSize)
}

func newEnergyBuffers(device *wgpu.Device, w, h, d int) (*energyBuffers, error) {
	size := bufferByteSize(w, h, d)
	if limit := maxStorageBindingSize(device); limit > 0 && size > limit {
		return nil, oversizeError(size, limit)
	}

	storageUsage := wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc

	a, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Energy Buffer A",
		Size:  size,
		Usage: storageUsage,
	})
	if err != nil {
		return nil, deviceLostError("failed to allocate energy buffer A")
	}

	b, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Energy Buffer B",
		Size:  size,
		Usage: storageUsage,
	})
	if err != nil {
		return nil, deviceLostError("failed to allocate energy buffer B")
	}

	params, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Lattice Params",
		Size:  paramsByteSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, deviceLostError("failed to allocate parameter buffer")
	}

	return &energyBuffers{a: a, b: b, params: params}, nil
}

// selectParity returns (input, output) per §4.B/§4.F: step_count mod 2
// chooses which buffer is input for the step about to run.
func (eb *energyBuffers) selectParity(stepCount uint32) (input, output *wgpu.Buffer) {
	if stepCount%2 == 0 {
		return eb.a, eb.b
	}
	return eb.b, eb.a
}

// active returns the buffer holding the current post-step state, i.e.
// the buffer that would be used as input to the next step (spec
// GLOSSARY "Active buffer"). After N completed steps: N even -> A,
// N odd -> B.
func (eb *energyBuffers) active(completedSteps uint32) *wgpu.Buffer {
	if completedSteps%2 == 0 {
		return eb.a
	}
	return eb.b
}

func (eb *energyBuffers) release() {
	if eb == nil {
		return
	}
	if eb.a != nil {
		eb.a.Release()
	}
	if eb.b != nil {
		eb.b.Release()
	}
	if eb.params != nil {
		eb.params.Release()
	}
}
