package latticesim

// Option configures a Simulator at construction time.
type Option func(*Simulator)

// WithLogger attaches a Logger. The default is a no-op logger, so this
// is the only option most callers need.
func WithLogger(logger Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHashSeed overrides the seed mixed into the R3 direction-rotation
// hash (shaders/propagate.wgsl). Two Simulators built with the same
// seed, dimensions,
// and injection/step sequence produce bitwise-identical fields (spec
// §3 "Determinism"); distinct seeds are useful for running independent
// replicas side by side without their gradient-flow directions
// correlating.
func WithHashSeed(seed uint32) Option {
	return func(s *Simulator) {
		s.hashSeed = seed
	}
}
