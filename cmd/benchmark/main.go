// Command benchmark is the "benchmark driver" collaborator named as
// out of scope by spec.md §1: it brings up a headless WebGPU device,
// sweeps a series of lattice sizes with a spherical injection (mirrors
// original_source/lattice-gpu/src/main.rs), and reports throughput.
// None of this is part of the latticesim package's public contract.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/latticesim"
	"github.com/go-gl/mathgl/mgl32"
)

type sweepConfig struct {
	size       int
	iterations int
}

func main() {
	size := flag.Int("size", 0, "run a single lattice size instead of the default sweep")
	iterations := flag.Int("iterations", 100, "propagation steps to run when -size is set")
	flag.Parse()

	device, queue, err := bringUpHeadlessDevice()
	if err != nil {
		log.Fatalf("device bring-up failed: %v", err)
	}

	sweep := []sweepConfig{
		{20, 50},
		{50, 100},
		{100, 100},
		{200, 50},
	}
	if *size > 0 {
		sweep = []sweepConfig{{*size, *iterations}}
	}

	logger := latticesim.NewDefaultLogger("benchmark", false)

	for _, cfg := range sweep {
		if err := runOne(device, queue, logger, cfg); err != nil {
			log.Fatalf("%dx%dx%d sweep failed: %v", cfg.size, cfg.size, cfg.size, err)
		}
	}
}

func runOne(device *wgpu.Device, queue *wgpu.Queue, logger latticesim.Logger, cfg sweepConfig) error {
	w, h, d := cfg.size, cfg.size, cfg.size
	sites := w * h * d
	mb := float64(sites*4) / (1024 * 1024)
	fmt.Printf("=== %d^3 lattice (%d sites, %.1f MB) ===\n", cfg.size, sites, mb)

	sim, err := latticesim.New(device, queue, w, h, d, latticesim.WithLogger(logger))
	if err != nil {
		return err
	}
	defer sim.Release()

	sim.InitializeVacuum()

	center := mgl32.Vec3{float32(w) / 2, float32(h) / 2, float32(d) / 2}
	injector := latticesim.SphereInjector{Center: center, Radius: 3, Quanta: 3}
	injected, err := injector.Inject(sim)
	if err != nil {
		return err
	}

	initial, err := sim.GetTotalEnergy()
	if err != nil {
		return err
	}
	fmt.Printf("injected %d sites, initial energy: %d quanta\n", injected, initial)

	// Warmup, then drain once so the timed loop doesn't pay for
	// submitted-but-unfinished warmup work.
	for i := 0; i < 10; i++ {
		if err := sim.PropagateEnergy(); err != nil {
			return err
		}
	}
	if _, err := sim.GetTotalEnergy(); err != nil {
		return err
	}

	start := time.Now()
	for i := 0; i < cfg.iterations; i++ {
		if err := sim.PropagateEnergy(); err != nil {
			return err
		}
	}
	final, err := sim.GetTotalEnergy()
	elapsed := time.Since(start)

	if err != nil {
		return err
	}

	perStep := elapsed / time.Duration(cfg.iterations)
	throughput := float64(sites) * float64(cfg.iterations) / elapsed.Seconds()
	fmt.Printf("total time: %s for %d iterations (%.3fms/step, %.2e sites/sec)\n",
		elapsed, cfg.iterations, float64(perStep.Microseconds())/1000.0, throughput)

	if final != initial {
		fmt.Printf("!! energy drift: %d -> %d\n", initial, final)
	} else {
		fmt.Printf("energy conserved: %d quanta\n\n", final)
	}
	return nil
}

func bringUpHeadlessDevice() (*wgpu.Device, *wgpu.Queue, error) {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, nil, err
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Lattice Benchmark Device",
		RequiredFeatures: nil,
		RequiredLimits:   nil,
	})
	if err != nil {
		return nil, nil, err
	}

	return device, device.GetQueue(), nil
}
