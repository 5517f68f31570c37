package latticesim

import "encoding/binary"

// paramsByteSize is the wire size of the parameter block (spec §6):
// four little-endian u32 fields, width/height/depth/step_count.
const paramsByteSize = 16

// paramBlock is the immutable-per-dispatch uniform uploaded before
// every propagation step (component A). step_count doubles as the R3
// hash seed consumed by the propagate kernel.
type paramBlock struct {
	width     uint32
	height    uint32
	depth     uint32
	stepCount uint32
}

func (p paramBlock) encode() [paramsByteSize]byte {
	var buf [paramsByteSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], p.width)
	binary.LittleEndian.PutUint32(buf[4:8], p.height)
	binary.LittleEndian.PutUint32(buf[8:12], p.depth)
	binary.LittleEndian.PutUint32(buf[12:16], p.stepCount)
	return buf
}
