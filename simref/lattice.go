// Package simref is a pure-Go, single-threaded mirror of the GPU
// propagation rule implemented by latticesim (spec.md §4.D/E). It
// exists so every invariant in spec.md §8 can be checked by an
// ordinary `go test` run with no GPU adapter available, the way the
// teacher engine keeps a CPU density-grid stepper (ca_ecs.go) alongside
// its GPU compute paths (voxelrt/rt/gpu) for a different part of the
// same system.
//
// Lattice is not a drop-in replacement for latticesim.Simulator: it is
// the project's golden reference, not an alternate backend.
package simref

// Lattice is a W×H×D grid of per-site energy counts in {0,1,2,3},
// stepped by the same two-pass, outgoing-only rule as the GPU kernels.
type Lattice struct {
	width, height, depth int
	a, b                 []uint32
	stepCount            uint32
	hashSeed             uint32
}

// New allocates a zeroed W×H×D lattice.
func New(width, height, depth int) *Lattice {
	n := width * height * depth
	return &Lattice{
		width:  width,
		height: height,
		depth:  depth,
		a:      make([]uint32, n),
		b:      make([]uint32, n),
	}
}

// WithHashSeed sets the seed mixed into the R3 rotation hash; mirrors
// latticesim.WithHashSeed.
func (l *Lattice) WithHashSeed(seed uint32) *Lattice {
	l.hashSeed = seed
	return l
}

func (l *Lattice) idx(x, y, z int) int {
	return z*l.width*l.height + y*l.width + x
}

func (l *Lattice) inBounds(x, y, z int) bool {
	return x >= 0 && x < l.width && y >= 0 && y < l.height && z >= 0 && z < l.depth
}

// Dimensions returns W, H, D.
func (l *Lattice) Dimensions() (w, h, d int) { return l.width, l.height, l.depth }

// InitializeVacuum zero-writes both buffers; the step counter is left
// intact, matching latticesim.Simulator.InitializeVacuum.
func (l *Lattice) InitializeVacuum() {
	for i := range l.a {
		l.a[i] = 0
	}
	for i := range l.b {
		l.b[i] = 0
	}
}

func (l *Lattice) active() []uint32 {
	if l.stepCount%2 == 0 {
		return l.a
	}
	return l.b
}

// AddEnergyQuantum injects q quanta at (x,y,z) into the active buffer,
// saturating at 3. Returns false if the coordinate is out of bounds
// (callers that want an error type should wrap this at the call site;
// simref keeps no error-handling dependency of its own).
func (l *Lattice) AddEnergyQuantum(x, y, z int, q uint32) bool {
	if !l.inBounds(x, y, z) {
		return false
	}
	buf := l.active()
	i := l.idx(x, y, z)
	v := buf[i] + q
	if v > 3 || v < buf[i] {
		v = 3
	}
	buf[i] = v
	return true
}

// TotalEnergy sums the active buffer.
func (l *Lattice) TotalEnergy() uint64 {
	var total uint64
	for _, v := range l.active() {
		total += uint64(v)
	}
	return total
}

// Snapshot returns a copy of the active buffer, x-fastest/z-slowest
// (spec §6 energy buffer layout).
func (l *Lattice) Snapshot() []uint32 {
	buf := l.active()
	out := make([]uint32, len(buf))
	copy(out, buf)
	return out
}

// directions is the fixed axis order R3 rotates; identical in spirit
// to shaders/propagate.wgsl's DIRECTIONS array, kept as an independent
// copy since simref has no dependency on the GPU-facing package.
var directions = [6][3]int{
	{+1, 0, 0},
	{-1, 0, 0},
	{0, +1, 0},
	{0, -1, 0},
	{0, 0, +1},
	{0, 0, -1},
}

func mix32(h, v uint32) uint32 {
	h ^= v
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}

func rotation(x, y, z int, step, seed uint32) int {
	h := step ^ seed ^ 0x9e3779b9
	h = mix32(h, uint32(x))
	h = mix32(h, uint32(y))
	h = mix32(h, uint32(z))
	return int(h % 6)
}

// Propagate runs one step: Pass 1 primes next with the current state,
// Pass 2 applies R1-R4 reading only from the pre-step snapshot so the
// result does not depend on site iteration order, mirroring the
// GPU kernels' read-input/write-output separation (spec §4.D/E).
func (l *Lattice) Propagate() {
	input := l.active()
	var output []uint32
	if l.stepCount%2 == 0 {
		output = l.b
	} else {
		output = l.a
	}
	copy(output, input) // Pass 1

	w, h, d := l.width, l.height, l.depth
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := l.idx(x, y, z)
				e := input[i]
				if e == 0 {
					continue
				}
				rot := rotation(x, y, z, l.stepCount, l.hashSeed)
				for k := 0; k < 6; k++ {
					dir := directions[(k+rot)%6]
					nx, ny, nz := x+dir[0], y+dir[1], z+dir[2]
					if !l.inBounds(nx, ny, nz) {
						continue // absorbing wall
					}
					ni := l.idx(nx, ny, nz)
					if input[ni] < e {
						output[i]--
						output[ni]++
						break // R1: at most one emission per site per step
					}
				}
			}
		}
	}

	l.stepCount++
}

// StepCount returns the number of completed Propagate calls.
func (l *Lattice) StepCount() uint32 { return l.stepCount }
