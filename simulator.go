// Package latticesim simulates a 3D discrete quantum lattice on a
// WebGPU compute device: a W×H×D grid of sites, each holding an
// integer energy count in {0,1,2,3}, that exchanges quanta with its
// 6-connected neighbors once per propagation step under a rule that
// conserves total energy exactly, however many sites update
// concurrently (spec.md §1-§4).
//
// Device and adapter selection is the caller's responsibility (spec
// §1: out of scope); New takes an already-created *wgpu.Device and
// *wgpu.Queue.
package latticesim

import (
	"encoding/binary"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"
)

// Simulator is the host-side orchestrator (component F): it owns the
// two energy buffers, the staging buffer, and the two compute
// pipelines, and exposes the five boundary operations consumed by
// external collaborators (spec §1).
//
// Simulator is not safe for concurrent use: spec §5 requires all host
// operations to be serialized by the caller.
type Simulator struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	width, height, depth int

	buffers  *energyBuffers
	readback *readbackChannel
	kernels  *kernels

	stepCount uint32
	hashSeed  uint32

	logger Logger
	runID  string
}

// New allocates the two energy buffers and the staging buffer,
// compiles the copy and propagate kernels against a shared bind
// layout, and returns a Simulator ready for InitializeVacuum. It fails
// with ErrDimensionOversize if W*H*D*4 exceeds the device's maximum
// single storage-buffer binding.
func New(device *wgpu.Device, queue *wgpu.Queue, width, height, depth int, opts ...Option) (*Simulator, error) {
	buffers, err := newEnergyBuffers(device, width, height, depth)
	if err != nil {
		return nil, err
	}

	rc, err := newReadbackChannel(device, bufferByteSize(width, height, depth))
	if err != nil {
		buffers.release()
		return nil, err
	}

	k, err := newKernels(device)
	if err != nil {
		buffers.release()
		rc.release()
		return nil, err
	}

	s := &Simulator{
		device:   device,
		queue:    queue,
		width:    width,
		height:   height,
		depth:    depth,
		buffers:  buffers,
		readback: rc,
		kernels:  k,
		logger:   NewNopLogger(),
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = withRunID(s.logger, s.runID)

	s.logger.Infof("allocated %dx%dx%d (%d sites, %d bytes/buffer)",
		width, height, depth, siteCount(width, height, depth), bufferByteSize(width, height, depth))

	return s, nil
}

// RunID is the UUID tag assigned to this Simulator at construction,
// included in every log line so independent runs (e.g. concurrent
// cmd/benchmark sweeps) can be told apart in aggregated logs.
func (s *Simulator) RunID() string { return s.runID }

// Dimensions returns the lattice's W, H, D.
func (s *Simulator) Dimensions() (w, h, d int) { return s.width, s.height, s.depth }

// InitializeVacuum zero-writes both energy buffers. The step counter
// is left intact (spec §4.F), so a vacuum reset changes neither which
// buffer is active nor the R3 rotation sequence.
func (s *Simulator) InitializeVacuum() {
	zero := make([]byte, bufferByteSize(s.width, s.height, s.depth))
	s.queue.WriteBuffer(s.buffers.a, 0, zero)
	s.queue.WriteBuffer(s.buffers.b, 0, zero)
	s.logger.Infof("vacuum reset")
}

// AddEnergyQuantum injects q quanta at (x,y,z), saturating the site at
// 3 -- any excess is discarded at injection time, the sole point where
// the spec permits conservation to be intentionally broken (spec
// §4.F, §9). Returns ErrOutOfBounds if the coordinate is not a real
// site of the lattice.
func (s *Simulator) AddEnergyQuantum(x, y, z int, q uint32) error {
	if !inBounds(x, y, z, s.width, s.height, s.depth) {
		return outOfBoundsError(x, y, z, s.width, s.height, s.depth)
	}

	active := s.buffers.active(s.stepCount)
	data, err := s.readback.drain(s.device, s.queue, active)
	if err != nil {
		return err
	}

	i := idx(x, y, z, s.width, s.height, s.depth)
	offset := i * 4
	cur := binary.LittleEndian.Uint32(data[offset : offset+4])
	next := cur + q
	if next > 3 || next < cur {
		next = 3
	}

	var word [4]byte
	binary.LittleEndian.PutUint32(word[:], next)
	s.queue.WriteBuffer(active, uint64(offset), word[:])

	s.logger.Debugf("site (%d,%d,%d) %d -> %d (+%d requested)", x, y, z, cur, next, q)
	return nil
}

// PropagateEnergy runs one simulation step: Pass 1 (copy) then Pass 2
// (propagate) against the parity chosen by the current step count,
// then advances the step counter. Per spec §5, PropagateEnergy is
// fire-and-forget from the host's perspective -- work may still be
// queued when it returns; only AddEnergyQuantum and GetTotalEnergy
// block on the device.
func (s *Simulator) PropagateEnergy() error {
	// step_count doubles as the R3 hash seed (spec §4.A); XOR-ing in
	// WithHashSeed lets two Simulators with distinct seeds diverge in
	// gradient-flow direction while s.stepCount itself -- which alone
	// governs buffer parity -- still advances by exactly one per call.
	params := paramBlock{
		width:     uint32(s.width),
		height:    uint32(s.height),
		depth:     uint32(s.depth),
		stepCount: s.stepCount ^ s.hashSeed,
	}
	encoded := params.encode()
	s.queue.WriteBuffer(s.buffers.params, 0, encoded[:])

	input, output := s.buffers.selectParity(s.stepCount)
	bindGroup, err := s.kernels.bindGroupFor(s.device, s.buffers, input, output)
	if err != nil {
		return err
	}
	defer bindGroup.Release()

	wx, wy, wz := workgroupCounts(s.width, s.height, s.depth)

	// Pass 1 and Pass 2 are separate submissions so Pass 2 observes
	// Pass 1's writes via submission ordering, per spec §5.
	if err := s.dispatch(s.kernels.copyPipeline, bindGroup, wx, wy, wz); err != nil {
		return err
	}
	if err := s.dispatch(s.kernels.propagatePipeline, bindGroup, wx, wy, wz); err != nil {
		return err
	}

	s.stepCount++
	s.logger.Debugf("step %d dispatched (%dx%dx%d workgroups)", s.stepCount, wx, wy, wz)
	return nil
}

func (s *Simulator) dispatch(pipeline *wgpu.ComputePipeline, bindGroup *wgpu.BindGroup, wx, wy, wz uint32) error {
	encoder, err := s.device.CreateCommandEncoder(nil)
	if err != nil {
		return deviceLostError("failed to create command encoder")
	}
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(wx, wy, wz)
	pass.End()

	cmdBuf, err := encoder.Finish(nil)
	if err != nil {
		return deviceLostError("failed to finish command buffer")
	}
	s.queue.Submit(cmdBuf)
	return nil
}

// GetTotalEnergy copies the active buffer to staging, maps it,
// host-sums it, and unmaps it. Returns ErrReadbackFailed if the
// staging channel's map request does not succeed.
func (s *Simulator) GetTotalEnergy() (uint64, error) {
	active := s.buffers.active(s.stepCount)
	data, err := s.readback.drain(s.device, s.queue, active)
	if err != nil {
		return 0, err
	}
	return sumEnergy(data), nil
}

func sumEnergy(data []byte) uint64 {
	var total uint64
	for i := 0; i+4 <= len(data); i += 4 {
		total += uint64(binary.LittleEndian.Uint32(data[i : i+4]))
	}
	return total
}

// EnergyBufferHandle is a non-owning, read-only reference to the
// currently active energy buffer. Its validity spans only until the
// next PropagateEnergy call, after which buffer parity may flip (spec
// §3 "Ownership & lifecycle").
type EnergyBufferHandle struct {
	Buffer *wgpu.Buffer
	Width  int
	Height int
	Depth  int
}

// GetEnergyBuffer returns a handle to the active energy buffer, for
// external rendering (spec §1, §6: "binding index 2 in the viewer's
// pipeline"). The handle does not transfer ownership; the Simulator
// still releases the underlying buffer when it is done with it.
func (s *Simulator) GetEnergyBuffer() EnergyBufferHandle {
	return EnergyBufferHandle{
		Buffer: s.buffers.active(s.stepCount),
		Width:  s.width,
		Height: s.height,
		Depth:  s.depth,
	}
}

// Release frees the GPU resources owned by the Simulator. After
// Release, the Simulator must not be used.
func (s *Simulator) Release() {
	s.kernels.release()
	s.buffers.release()
	s.readback.release()
}
