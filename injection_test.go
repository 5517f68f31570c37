package latticesim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestSphereInjectorMatchesScenarioFive(t *testing.T) {
	si := SphereInjector{Center: mgl32.Vec3{50, 50, 50}, Radius: 3, Quanta: 3}
	sites := si.Sites()

	want := 0
	for dz := -3; dz <= 3; dz++ {
		for dy := -3; dy <= 3; dy++ {
			for dx := -3; dx <= 3; dx++ {
				if dx*dx+dy*dy+dz*dz <= 9 {
					want++
				}
			}
		}
	}

	assert.Len(t, sites, want, "must match spec §8 scenario 5's literal sphere predicate")
	for _, s := range sites {
		dx, dy, dz := float32(s[0]-50), float32(s[1]-50), float32(s[2]-50)
		assert.LessOrEqual(t, dx*dx+dy*dy+dz*dz, float32(9), "every returned site must satisfy the radius predicate")
	}
}

func TestSphereInjectorZeroRadiusIsJustCenter(t *testing.T) {
	si := SphereInjector{Center: mgl32.Vec3{1, 2, 3}, Radius: 0, Quanta: 1}
	sites := si.Sites()
	assert.Equal(t, [][3]int{{1, 2, 3}}, sites)
}
