package latticesim

import (
	"github.com/go-gl/mathgl/mgl32"
)

// SphereInjector enumerates lattice sites within radius of a center
// point and injects q quanta at each, matching spec §8 scenario 5
// ("for each (dx,dy,dz) with dx²+dy²+dz² ≤ 9, inject 3 at
// (50+dx,50+dy,50+dz)"). Center is expressed as an mgl32.Vec3 so
// callers already working in the engine's world-space conventions
// (e.g. placing an emitter at an entity's Transform.Position) can
// inject directly without a separate integer-coordinate API.
type SphereInjector struct {
	Center mgl32.Vec3
	Radius float32
	Quanta uint32
}

// Sites returns the integer lattice coordinates within Radius of
// Center, using the same squared-distance test as spec §8 scenario 5.
// Coordinates are not bounds-checked against any particular lattice;
// callers pass them to Simulator.AddEnergyQuantum, which rejects any
// that fall outside the lattice.
func (si SphereInjector) Sites() [][3]int {
	r := si.Radius
	r2 := r * r
	cx, cy, cz := si.Center.X(), si.Center.Y(), si.Center.Z()

	lo := func(c float32) int { return int(c - r) }
	hi := func(c float32) int { return int(c + r) }

	var sites [][3]int
	for z := lo(cz); z <= hi(cz); z++ {
		dz := float32(z) - cz
		for y := lo(cy); y <= hi(cy); y++ {
			dy := float32(y) - cy
			for x := lo(cx); x <= hi(cx); x++ {
				dx := float32(x) - cx
				if dx*dx+dy*dy+dz*dz <= r2 {
					sites = append(sites, [3]int{x, y, z})
				}
			}
		}
	}
	return sites
}

// Inject calls AddEnergyQuantum at every site in Sites(), skipping
// (not failing on) sites outside the Simulator's lattice so a sphere
// straddling an edge still seeds the sites that do exist. It returns
// the number of sites actually injected.
func (si SphereInjector) Inject(s *Simulator) (injected int, err error) {
	w, h, d := s.Dimensions()
	for _, site := range si.Sites() {
		if !inBounds(site[0], site[1], site[2], w, h, d) {
			continue
		}
		if err := s.AddEnergyQuantum(site[0], site[1], site[2], si.Quanta); err != nil {
			return injected, err
		}
		injected++
	}
	return injected, nil
}
