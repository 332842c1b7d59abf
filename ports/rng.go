package ports

import "math/rand"

// RNG provides seeded random number generation for deterministic sampling
type RNG interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation. The same (name, seed) pair always yields the same
	// stream, so sampling is reproducible under test.
	SeededStream(name string, seed int64) *rand.Rand
}
