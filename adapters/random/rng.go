package random

import (
	"hash/fnv"
	"math/rand"

	"oncodash/ports"
)

// Source implements ports.RNG. Each named operation gets its own stream so
// independent samplers never share generator state.
type Source struct{}

// New creates the default RNG source.
func New() *Source {
	return &Source{}
}

// SeededStream derives a deterministic generator from the operation name and
// seed. The same (name, seed) pair always yields the same stream.
func (s *Source) SeededStream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}

var _ ports.RNG = (*Source)(nil)
