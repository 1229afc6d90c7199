package kernel

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/spaolacci/murmur3"
)

// NewStream returns the private random generator of partition index. Streams
// for different indices under the same seed are independent PCG sequences, so
// no generator is ever shared between execution contexts.
func NewStream(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, StreamID(seed, index)))
}

// StreamID mixes a partition index into a PCG stream selector.
func StreamID(seed uint64, index int) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(index))
	return murmur3.Sum64WithSeed(b[:], uint32(seed^(seed>>32)))
}
