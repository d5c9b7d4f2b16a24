package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAltitudeOpenGrid(t *testing.T) {
	g := openGrid(t, 2, 2)
	g.ComputeAltitude(DefaultMaxAltitude)

	assert.Equal(t, Altitude(OrthogonalStep), g.MiniTile(Wp(0, 0)).Altitude())
	assert.Equal(t, Altitude(OrthogonalStep), g.MiniTile(Wp(7, 3)).Altitude())
	assert.Equal(t, Altitude(16), g.MiniTile(Wp(1, 1)).Altitude())
	assert.Equal(t, Altitude(32), g.MiniTile(Wp(3, 3)).Altitude())
	assert.Equal(t, Altitude(32), g.MaxAltitude())
	assert.Equal(t, Altitude(OrthogonalStep), g.Tile(Tp(0, 0)).MinAltitude())
}

func TestAltitudeNextToWall(t *testing.T) {
	g := gridFromRows(t,
		"........",
		"........",
		"...#....",
		"........",
		"........",
		"........",
		"........",
		"........",
	)
	g.ComputeAltitude(DefaultMaxAltitude)

	assert.Equal(t, Altitude(0), g.MiniTile(Wp(3, 2)).Altitude())
	assert.Equal(t, Altitude(OrthogonalStep), g.MiniTile(Wp(4, 2)).Altitude())
	assert.Equal(t, Altitude(DiagonalStep), g.MiniTile(Wp(4, 3)).Altitude())
	assert.Equal(t, Altitude(0), g.Tile(Tp(0, 0)).MinAltitude())
}

func TestAltitudeCap(t *testing.T) {
	g := openGrid(t, 4, 4)
	g.ComputeAltitude(20)

	assert.Equal(t, Altitude(20), g.MaxAltitude())
	assert.Equal(t, Altitude(20), g.MiniTile(Wp(8, 8)).Altitude())
	assert.Equal(t, Altitude(16), g.MiniTile(Wp(1, 1)).Altitude())
}

func TestAltitudeIsPositiveOnWalkable(t *testing.T) {
	g := gridFromRows(t,
		"#.#.",
		".#..",
		"....",
		"##..",
	)
	g.ComputeAltitude(DefaultMaxAltitude)

	g.EachMiniTile(func(w WalkPosition, m *MiniTile) {
		if m.Walkable() {
			assert.Positive(t, m.Altitude(), "walkable %v", w)
		} else {
			assert.Zero(t, m.Altitude(), "unwalkable %v", w)
		}
	})
}
