package latticesim

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// readbackChannel is the host-visible staging buffer (component C).
// Only one transfer may be in flight; callers serialize through the
// Simulator's single-threaded orchestration (spec §5).
type readbackChannel struct {
	staging *wgpu.Buffer
	size    uint64
}

func newReadbackChannel(device *wgpu.Device, size uint64) (*readbackChannel, error) {
	staging, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Energy Staging Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, deviceLostError("failed to allocate staging buffer")
	}
	return &readbackChannel{staging: staging, size: size}, nil
}

// drain copies src (length rc.size bytes) into the staging buffer,
// maps it for host read, blocks until the device signals the mapping
// is ready, and returns a copy of the bytes. The staging buffer is
// unmapped before returning so the next transfer can reuse it (spec
// §4.C: "only one transfer may be in flight").
func (rc *readbackChannel) drain(device *wgpu.Device, queue *wgpu.Queue, src *wgpu.Buffer) ([]byte, error) {
	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, deviceLostError("failed to create command encoder for readback")
	}
	encoder.CopyBufferToBuffer(src, 0, rc.staging, 0, rc.size)
	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return nil, deviceLostError("failed to finish readback command buffer")
	}
	queue.Submit(cmdBuf)

	var mapErr error
	mapped := false
	rc.staging.MapAsync(wgpu.MapModeRead, 0, rc.size, func(status wgpu.BufferMapAsyncStatus) {
		if status == wgpu.BufferMapAsyncStatusSuccess {
			mapped = true
		} else {
			mapErr = readbackError(status)
		}
	})

	// Pump the device event loop until the callback above fires. The
	// staging buffer is never touched by anything but this struct, so
	// there is no risk of another transfer racing this one (spec §5:
	// "only one transfer may be in flight").
	for !mapped && mapErr == nil {
		device.Poll(true, nil)
	}
	if mapErr != nil {
		return nil, mapErr
	}

	view := rc.staging.GetMappedRange(0, uint(rc.size))
	out := make([]byte, len(view))
	copy(out, view)
	rc.staging.Unmap()
	return out, nil
}

func (rc *readbackChannel) release() {
	if rc == nil || rc.staging == nil {
		return
	}
	rc.staging.Release()
}
