package simref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- spec §8 end-to-end scenarios ---

func TestSingleQuantumSmallLattice(t *testing.T) {
	l := New(20, 20, 20)
	l.InitializeVacuum()
	require.True(t, l.AddEnergyQuantum(10, 10, 10, 3))

	require.Equal(t, uint64(3), l.TotalEnergy())

	for i := 0; i < 50; i++ {
		l.Propagate()
	}

	assert.Equal(t, uint64(3), l.TotalEnergy(), "total energy must be conserved")
	for _, v := range l.Snapshot() {
		assert.LessOrEqual(t, v, uint32(3), "no site may exceed the cap")
	}
}

func TestMultiSource(t *testing.T) {
	l := New(30, 30, 30)
	l.InitializeVacuum()
	require.True(t, l.AddEnergyQuantum(10, 10, 10, 3))
	require.True(t, l.AddEnergyQuantum(20, 20, 20, 2))
	require.True(t, l.AddEnergyQuantum(15, 15, 15, 1))

	require.Equal(t, uint64(6), l.TotalEnergy())

	for i := 0; i < 100; i++ {
		l.Propagate()
	}

	assert.Equal(t, uint64(6), l.TotalEnergy())
}

func TestVacuumStaysVacuum(t *testing.T) {
	l := New(20, 20, 20)
	l.InitializeVacuum()
	require.Equal(t, uint64(0), l.TotalEnergy())

	for i := 0; i < 50; i++ {
		l.Propagate()
	}

	assert.Equal(t, uint64(0), l.TotalEnergy())
	for _, v := range l.Snapshot() {
		assert.Equal(t, uint32(0), v)
	}
}

func TestCapSaturation(t *testing.T) {
	l := New(10, 10, 10)
	l.InitializeVacuum()
	require.True(t, l.AddEnergyQuantum(5, 5, 5, 10))

	assert.Equal(t, uint64(3), l.TotalEnergy(), "7 of the 10 injected quanta must be discarded at injection")
}

func TestSphericalInjectionLargeLattice(t *testing.T) {
	l := New(100, 100, 100)
	l.InitializeVacuum()

	c := 50
	for dz := -3; dz <= 3; dz++ {
		for dy := -3; dy <= 3; dy++ {
			for dx := -3; dx <= 3; dx++ {
				if dx*dx+dy*dy+dz*dz <= 9 {
					require.True(t, l.AddEnergyQuantum(c+dx, c+dy, c+dz, 3))
				}
			}
		}
	}

	initial := l.TotalEnergy()
	require.Greater(t, initial, uint64(0))

	for i := 0; i < 100; i++ {
		l.Propagate()
	}

	assert.Equal(t, initial, l.TotalEnergy())
}

func TestUniformFieldIsFixedPoint(t *testing.T) {
	l := New(10, 10, 10)
	for i := range l.a {
		l.a[i] = 3
		l.b[i] = 3
	}

	before := l.Snapshot()
	for i := 0; i < 5; i++ {
		l.Propagate()
	}

	assert.Equal(t, before, l.Snapshot(), "a uniform field has no strict-less neighbor and must be a fixed point")
}

// --- quantified invariants (spec §8) ---

func TestOutOfBoundsInjectionRejected(t *testing.T) {
	l := New(5, 5, 5)
	l.InitializeVacuum()
	assert.False(t, l.AddEnergyQuantum(5, 0, 0, 1), "x==W is out of range")
	assert.False(t, l.AddEnergyQuantum(-1, 0, 0, 1), "negative coordinates are out of range")
	assert.Equal(t, uint64(0), l.TotalEnergy(), "a rejected injection must not silently wrap onto another site")
}

func TestDegenerateSingleSiteLattice(t *testing.T) {
	l := New(1, 1, 1)
	l.InitializeVacuum()
	require.True(t, l.AddEnergyQuantum(0, 0, 0, 3))

	for i := 0; i < 10; i++ {
		l.Propagate()
	}

	assert.Equal(t, uint64(3), l.TotalEnergy(), "a single site has no neighbors; propagation is a no-op")
}

func TestThreeAdjacentToZeroMigratesExactlyOneQuantum(t *testing.T) {
	l := New(3, 1, 1)
	l.InitializeVacuum()
	require.True(t, l.AddEnergyQuantum(0, 0, 0, 3))

	l.Propagate()

	snap := l.Snapshot()
	assert.Equal(t, uint32(2), snap[0], "the source site emits exactly one quantum")
	assert.Equal(t, uint32(1), snap[1], "the neighbor receives exactly one quantum")
	assert.Equal(t, uint64(3), l.TotalEnergy())
}

func TestLocalityAfterOneStep(t *testing.T) {
	l := New(11, 11, 11)
	l.InitializeVacuum()
	cx, cy, cz := 5, 5, 5
	require.True(t, l.AddEnergyQuantum(cx, cy, cz, 3))
	before := l.Snapshot()

	l.Propagate()
	after := l.Snapshot()

	w, h, d := l.Dimensions()
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				cheb := chebyshev(x, y, z, cx, cy, cz)
				i := l.idx(x, y, z)
				if cheb > 1 {
					assert.Equalf(t, before[i], after[i], "site (%d,%d,%d) at distance %d changed but must not", x, y, z, cheb)
				}
			}
		}
	}
}

func chebyshev(x, y, z, cx, cy, cz int) int {
	max := func(a, b int) int {
		if a < 0 {
			a = -a
		}
		if b < 0 {
			b = -b
		}
		if a > b {
			return a
		}
		return b
	}
	d1 := max(x-cx, y-cy)
	return max(d1, z-cz)
}

func TestDeterminismAcrossIndependentRuns(t *testing.T) {
	build := func() *Lattice {
		l := New(16, 12, 9)
		l.InitializeVacuum()
		l.AddEnergyQuantum(4, 3, 2, 3)
		l.AddEnergyQuantum(10, 8, 6, 2)
		for i := 0; i < 40; i++ {
			l.Propagate()
		}
		return l
	}

	a := build()
	b := build()
	assert.Equal(t, a.Snapshot(), b.Snapshot(), "identical construction and step sequence must yield bitwise identical fields")
}

func TestCapNeverExceededAcrossManySteps(t *testing.T) {
	l := New(12, 12, 12)
	l.InitializeVacuum()
	c := 6
	for dz := -2; dz <= 2; dz++ {
		for dy := -2; dy <= 2; dy++ {
			for dx := -2; dx <= 2; dx++ {
				if dx*dx+dy*dy+dz*dz <= 4 {
					l.AddEnergyQuantum(c+dx, c+dy, c+dz, 3)
				}
			}
		}
	}

	for step := 0; step < 200; step++ {
		l.Propagate()
		for _, v := range l.Snapshot() {
			require.LessOrEqualf(t, v, uint32(3), "cap violated at step %d", step)
		}
	}
}

func TestHashSeedChangesRotationButNotConservation(t *testing.T) {
	build := func(seed uint32) *Lattice {
		l := New(9, 9, 9).WithHashSeed(seed)
		l.InitializeVacuum()
		l.AddEnergyQuantum(4, 4, 4, 3)
		for i := 0; i < 30; i++ {
			l.Propagate()
		}
		return l
	}

	l1 := build(1)
	l2 := build(99)

	assert.Equal(t, l1.TotalEnergy(), l2.TotalEnergy(), "conservation must hold regardless of hash seed")
	assert.NotEqual(t, l1.Snapshot(), l2.Snapshot(), "different seeds should (almost always) diverge in gradient-flow direction")
}
