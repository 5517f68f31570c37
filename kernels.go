package latticesim

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/latticesim/shaders"
)

// kernels holds the two compute pipelines (Pass 1 copy, Pass 2
// propagate) sharing one bind-group layout (spec §4: "a shared
// bind-layout {uniform params, read-only input, read-write output}"),
// so a single bind group works against either pipeline.
type kernels struct {
	bindGroupLayout   *wgpu.BindGroupLayout
	pipelineLayout    *wgpu.PipelineLayout
	copyPipeline      *wgpu.ComputePipeline
	propagatePipeline *wgpu.ComputePipeline
}

func newKernels(device *wgpu.Device) (*kernels, error) {
	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Lattice Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeReadOnlyStorage,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeStorage,
				},
			},
		},
	})
	if err != nil {
		return nil, deviceLostError("failed to create lattice bind group layout")
	}

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Lattice Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, deviceLostError("failed to create lattice pipeline layout")
	}

	copyShader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "CopyEnergyShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.CopyWGSL},
	})
	if err != nil {
		return nil, deviceLostError("failed to compile copy kernel")
	}
	defer copyShader.Release()

	propagateShader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "PropagateEnergyShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.PropagateWGSL},
	})
	if err != nil {
		return nil, deviceLostError("failed to compile propagate kernel")
	}
	defer propagateShader.Release()

	copyPipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "CopyEnergyPipeline",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     copyShader,
			EntryPoint: "copy_energy",
		},
	})
	if err != nil {
		return nil, deviceLostError("failed to create copy pipeline")
	}

	propagatePipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  "PropagateEnergyPipeline",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     propagateShader,
			EntryPoint: "propagate_energy",
		},
	})
	if err != nil {
		return nil, deviceLostError("failed to create propagate pipeline")
	}

	return &kernels{
		bindGroupLayout:   bgl,
		pipelineLayout:    pipelineLayout,
		copyPipeline:      copyPipeline,
		propagatePipeline: propagatePipeline,
	}, nil
}

// bindGroupFor builds the {params, input, output} bind group for one
// step's parity choice. A fresh bind group is cheap relative to a
// dispatch and must be rebuilt whenever input/output swap.
func (k *kernels) bindGroupFor(device *wgpu.Device, eb *energyBuffers, input, output *wgpu.Buffer) (*wgpu.BindGroup, error) {
	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Lattice Bind Group",
		Layout: k.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: eb.params, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: input, Size: wgpu.WholeSize},
			{Binding: 2, Buffer: output, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, deviceLostError("failed to create bind group")
	}
	return bg, nil
}

// workgroupCounts returns the 4x4x4-workgroup dispatch shape (spec
// §4.D/E: ceil(W/4) x ceil(H/4) x ceil(D/4)); out-of-range threads
// return inside the kernel.
func workgroupCounts(w, h, d int) (x, y, z uint32) {
	const wg = 4
	return uint32((w + wg - 1) / wg), uint32((h + wg - 1) / wg), uint32((d + wg - 1) / wg)
}

func (k *kernels) release() {
	if k == nil {
		return
	}
	if k.copyPipeline != nil {
		k.copyPipeline.Release()
	}
	if k.propagatePipeline != nil {
		k.propagatePipeline.Release()
	}
	if k.pipelineLayout != nil {
		k.pipelineLayout.Release()
	}
	if k.bindGroupLayout != nil {
		k.bindGroupLayout.Release()
	}
}
