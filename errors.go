package latticesim

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, per spec §7. Wrap with fmt.Errorf("...: %w",
// sentinel) so callers can errors.Is against these.
var (
	// ErrDimensionOversize is returned by New when W*H*D*4 bytes would
	// exceed the device's maximum single-buffer binding size.
	ErrDimensionOversize = errors.New("lattice: requested buffer size exceeds device limits")

	// ErrDeviceLost wraps a device-lost or out-of-memory signal
	// surfaced by the adapter/device layer. Terminal for the
	// Simulator instance; the caller must reconstruct it against a
	// fresh device.
	ErrDeviceLost = errors.New("lattice: device lost or out of memory")

	// ErrOutOfBounds is returned when a site coordinate falls outside
	// [0,W)x[0,H)x[0,D). Injection never wraps out-of-range
	// coordinates onto the lattice.
	ErrOutOfBounds = errors.New("lattice: site coordinate out of bounds")

	// ErrReadbackFailed is returned when the staging channel's
	// asynchronous host map did not report success.
	ErrReadbackFailed = errors.New("lattice: readback mapping failed")
)

func oversizeError(requested, limit uint64) error {
	return fmt.Errorf("lattice: buffer of %d bytes exceeds device limit %d: %w", requested, limit, ErrDimensionOversize)
}

func outOfBoundsError(x, y, z, w, h, d int) error {
	return fmt.Errorf("lattice: (%d,%d,%d) outside [0,%d)x[0,%d)x[0,%d): %w", x, y, z, w, h, d, ErrOutOfBounds)
}

func readbackError(status any) error {
	return fmt.Errorf("lattice: map_async status %v: %w", status, ErrReadbackFailed)
}

func deviceLostError(reason string) error {
	return fmt.Errorf("lattice: %s: %w", reason, ErrDeviceLost)
}
