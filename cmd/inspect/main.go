// Command inspect is the minimal stand-in for the "on-screen 3D
// viewer" collaborator named out of scope by spec.md §1: it builds a
// Simulator, runs a few steps, and dumps a PNG slice of the active
// energy buffer via WriteSliceImage's staging readback. It does
// not implement a camera, input, or a render pipeline.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/latticesim"
	"github.com/google/uuid"
)

func main() {
	size := flag.Int("size", 40, "cubic lattice size")
	steps := flag.Int("steps", 30, "propagation steps before the snapshot")
	outDir := flag.String("out", ".", "directory to write the snapshot PNG into")
	flag.Parse()

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		log.Fatalf("request adapter: %v", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Lattice Inspect Device"})
	if err != nil {
		log.Fatalf("request device: %v", err)
	}

	sim, err := latticesim.New(device, device.GetQueue(), *size, *size, *size,
		latticesim.WithLogger(latticesim.NewDefaultLogger("inspect", true)))
	if err != nil {
		log.Fatalf("new simulator: %v", err)
	}
	defer sim.Release()

	sim.InitializeVacuum()
	c := *size / 2
	if err := sim.AddEnergyQuantum(c, c, c, 3); err != nil {
		log.Fatalf("inject: %v", err)
	}

	for i := 0; i < *steps; i++ {
		if err := sim.PropagateEnergy(); err != nil {
			log.Fatalf("propagate step %d: %v", i, err)
		}
	}

	total, err := sim.GetTotalEnergy()
	if err != nil {
		log.Fatalf("get total energy: %v", err)
	}
	fmt.Printf("run %s: total energy after %d steps = %d\n", sim.RunID(), *steps, total)

	// Tag the output file with a fresh id rather than the run id, so
	// re-running against the same simulator instance never collides.
	name := fmt.Sprintf("slice-%s.png", uuid.NewString())
	path := filepath.Join(*outDir, name)
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("create snapshot file: %v", err)
	}
	defer f.Close()

	if err := sim.WriteSliceImage(f, c, 8); err != nil {
		log.Fatalf("write slice image: %v", err)
	}
	fmt.Printf("wrote %s\n", path)
}
