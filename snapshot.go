package latticesim

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// energyShade maps a site's {0,1,2,3} energy count to a grayscale
// intensity, evenly spaced so all four states are visually distinct.
var energyShade = [4]uint8{0, 85, 170, 255}

// WriteSliceImage is a readback helper (component G) beyond the bare
// sum reducer the spec names explicitly ("currently only a sum
// reducer" -- §4.G anticipates more). It drains the active buffer
// through the staging channel, extracts the z-th XY slice, and writes
// it as a grayscale PNG upscaled by an integer factor so small
// lattices are visible at a useful pixel size.
func (s *Simulator) WriteSliceImage(w io.Writer, z int, upscale int) error {
	if z < 0 || z >= s.depth {
		return fmt.Errorf("lattice: slice z=%d outside [0,%d)", z, s.depth)
	}
	if upscale < 1 {
		upscale = 1
	}

	active := s.buffers.active(s.stepCount)
	data, err := s.readback.drain(s.device, s.queue, active)
	if err != nil {
		return err
	}

	sliceImg := image.NewGray(image.Rect(0, 0, s.width, s.height))
	base := z * s.width * s.height * 4
	for y := 0; y < s.height; y++ {
		row := base + y*s.width*4
		for x := 0; x < s.width; x++ {
			off := row + x*4
			e := data[off] // little-endian u32 in {0,1,2,3}; low byte suffices
			if e > 3 {
				e = 3
			}
			sliceImg.SetGray(x, y, color.Gray{Y: energyShade[e]})
		}
	}

	if upscale == 1 {
		return png.Encode(w, sliceImg)
	}

	scaled := image.NewGray(image.Rect(0, 0, s.width*upscale, s.height*upscale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), sliceImg, sliceImg.Bounds(), draw.Over, nil)
	return png.Encode(w, scaled)
}
