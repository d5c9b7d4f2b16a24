package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideSeasOrLakes(t *testing.T) {
	g := gridFromRows(t,
		"........",
		".##.....",
		".##.....",
		"........",
		"#.......",
		"#.......",
		"........",
		"........",
	)

	lakes := g.DecideSeasOrLakes()

	assert.Equal(t, 1, lakes)
	assert.True(t, g.MiniTile(Wp(1, 1)).Lake())
	assert.True(t, g.MiniTile(Wp(2, 2)).Lake())
	assert.True(t, g.MiniTile(Wp(0, 4)).Sea())
	assert.True(t, g.MiniTile(Wp(0, 5)).Sea())
	assert.Equal(t, NoWater, g.MiniTile(Wp(3, 3)).Water())

	assert.True(t, g.SeaSide(Wp(0, 4)))
	assert.False(t, g.SeaSide(Wp(1, 1)))
}

func TestLakeTouchingEdgeDiagonallyIsSea(t *testing.T) {
	// Water bodies are 4-connected: the diagonal link to the edge body does
	// not make the inner cell part of the sea.
	g := gridFromRows(t,
		"#...",
		".#..",
		"....",
		"....",
	)

	assert.Equal(t, 1, g.DecideSeasOrLakes())
	assert.True(t, g.MiniTile(Wp(0, 0)).Sea())
	assert.True(t, g.MiniTile(Wp(1, 1)).Lake())
}
