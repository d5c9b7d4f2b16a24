package geo

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isWalkable(_ WalkPosition, m *MiniTile) bool { return m.Walkable() }

func TestSearchReturnsStartWhenItMatches(t *testing.T) {
	g := openGrid(t, 1, 1)

	got, err := g.SearchWalk(Wp(2, 2), isWalkable, isWalkable, Connect8)
	require.NoError(t, err)
	assert.Equal(t, Wp(2, 2), got)
}

func TestSearchFindsNearestWalkable(t *testing.T) {
	g := gridFromRows(t,
		"########",
		"########",
		"######.#",
		"########",
	)
	anything := func(WalkPosition, *MiniTile) bool { return true }

	got, err := g.SearchWalk(Wp(1, 1), isWalkable, anything, Connect8)
	require.NoError(t, err)
	assert.Equal(t, Wp(6, 2), got)
}

func TestSearchExhausted(t *testing.T) {
	g := gridFromRows(t,
		"..##",
		"..##",
		"####",
		"###.",
	)
	never := func(w WalkPosition, _ *MiniTile) bool { return w == Wp(3, 3) }

	got, err := g.SearchWalk(Wp(0, 0), never, isWalkable, Connect8)
	assert.ErrorIs(t, err, ErrSearchExhausted)
	assert.Equal(t, Wp(0, 0), got)
}

func TestSearchTile(t *testing.T) {
	g := openGrid(t, 5, 5)
	g.Tile(Tp(4, 4)).SetObstacle(7)

	got, err := g.SearchTile(Tp(0, 0),
		func(_ TilePosition, tile *Tile) bool { return tile.Obstacle() != 0 },
		func(TilePosition, *Tile) bool { return true },
		Connect4)
	require.NoError(t, err)
	assert.Equal(t, Tp(4, 4), got)
}

func TestFloodDiagonalOnlyWithConnect8(t *testing.T) {
	g := gridFromRows(t,
		"####",
		"#.##",
		"##.#",
		"####",
	)
	visit := func(w WalkPosition) bool { return g.MiniTile(w).Walkable() }

	four := Flood(g.ValidWalk, Wp(1, 1), visit, Connect4)
	eight := Flood(g.ValidWalk, Wp(1, 1), visit, Connect8)

	assert.Equal(t, 1, four.Size())
	assert.Equal(t, 2, eight.Size())
	assert.True(t, eight.Has(Wp(2, 2)))
}

func TestFlood8IsSupersetOf4(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for round := range 20 {
		walk := make([]bool, 8*8*16)
		for i := range walk {
			walk[i] = r.IntN(100) < 60
		}
		walk[0] = true
		g, err := NewGrid(Layers{TileWidth: 8, TileHeight: 8, Walkable: walk})
		require.NoError(t, err)

		visit := func(w WalkPosition) bool { return g.MiniTile(w).Walkable() }
		four := Flood(g.ValidWalk, Wp(0, 0), visit, Connect4)
		eight := Flood(g.ValidWalk, Wp(0, 0), visit, Connect8)

		assert.GreaterOrEqual(t, eight.Size(), four.Size(), "round %d", round)
		four.Each(func(w WalkPosition) {
			assert.True(t, eight.Has(w), "round %d: %v reached with 4-connectivity only", round, w)
		})
	}
}
