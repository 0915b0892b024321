package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpiralChunk_Origin(t *testing.T) {
	assert.Equal(t, Chunk{X: 0, Y: 0}, SpiralChunk(0))
}

func TestSpiralChunk_FirstArm(t *testing.T) {
	assert.Equal(t, Chunk{X: 1, Y: 0}, SpiralChunk(1))
	assert.Equal(t, Chunk{X: 1, Y: 1}, SpiralChunk(2))
	assert.Equal(t, Chunk{X: 0, Y: 1}, SpiralChunk(3))
	assert.Equal(t, Chunk{X: -1, Y: 1}, SpiralChunk(4))
}

// TestSpiralChunk_Deterministic is the §8 testable property: SpiralChunk is
// a pure function, checked against the first 100 ids both for repeatability
// and for uniqueness (no two players share a home chunk).
func TestSpiralChunk_Deterministic(t *testing.T) {
	seen := make(map[Chunk]uint64)
	for id := uint64(0); id < 100; id++ {
		c := SpiralChunk(id)
		again := SpiralChunk(id)
		assert.Equal(t, c, again, "SpiralChunk(%d) must be pure", id)

		if prior, ok := seen[c]; ok {
			t.Fatalf("chunk %v assigned to both id %d and id %d", c, prior, id)
		}
		seen[c] = id
	}
}
