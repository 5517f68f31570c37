// Package shaders embeds the WGSL compute kernels for the two
// propagation passes, following the teacher engine's pattern of
// shipping shader source as go:embed'd strings rather than loading
// them from disk at runtime.
package shaders

import (
	_ "embed"
)

//go:embed copy.wgsl
var CopyWGSL string

//go:embed propagate.wgsl
var PropagateWGSL string
