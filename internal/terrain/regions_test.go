package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/geomap/internal/geo"
)

func TestAreaIDIsZeroExactlyOnUnwalkable(t *testing.T) {
	maps := map[string]Input{
		"big rooms":      tileInput(t, bigRooms...),
		"two corridors":  tileInput(t, twoCorridors...),
		"corridor rooms": tileInput(t, corridorRooms...),
	}
	blocked := tileInput(t, corridorRooms...)
	blocked.Obstacles = []ObstacleInput{static(1, 4, 1, 2, 1)}
	maps["blocked corridor"] = blocked

	for name, in := range maps {
		t.Run(name, func(t *testing.T) {
			m := newMap(t, in)
			ws := m.WalkSize()
			walkable := 0
			for y := range ws.Y {
				for x := range ws.X {
					mt := m.MiniTile(geo.Wp(x, y))
					if mt.Walkable() {
						walkable++
						assert.NotZero(t, mt.AreaID(), "minitile (%d,%d)", x, y)
					} else {
						assert.Zero(t, mt.AreaID(), "minitile (%d,%d)", x, y)
					}
				}
			}

			total := 0
			for _, a := range m.Areas() {
				total += a.MiniTiles()
				assert.Equal(t, a.ID(), m.MiniTile(a.Top()).AreaID())
				assert.Equal(t, a.HighestAltitude(), m.MiniTile(a.Top()).Altitude())
				assert.LessOrEqual(t, a.TopLeft().X, a.BottomRight().X)
				assert.LessOrEqual(t, a.TopLeft().Y, a.BottomRight().Y)
			}
			assert.Equal(t, walkable, total)
		})
	}
}

func TestSmallRoomsMerge(t *testing.T) {
	// Both rooms are lower than the merge altitude: the corridor joins them.
	m := newMap(t, tileInput(t, corridorRooms...))

	require.Len(t, m.Areas(), 1)
	assert.Empty(t, m.Connectors())
	assert.Empty(t, m.RawFrontier())
}

func TestBigRoomsLeaveFrontier(t *testing.T) {
	m := newMap(t, tileInput(t, bigRooms...))

	frontier := m.RawFrontier()
	require.NotEmpty(t, frontier)
	for _, f := range frontier {
		assert.Less(t, f.Areas[0], f.Areas[1])
		id := m.MiniTile(f.Pos).AreaID()
		assert.Contains(t, f.Areas, id)
	}
	assert.Greater(t, m.MaxAltitude(), geo.Altitude(80))
}

func TestIslandMergesIntoDiagonalNeighbour(t *testing.T) {
	rows := make([]string, 16)
	for i := range rows {
		rows[i] = "..........######"
	}
	rows[5] = ".........#.#####"
	rows[12] = "..........###.##"
	m := newMap(t, walkInput(t, rows...))

	room := m.AreaAt(geo.Wp(0, 0))
	require.NotNil(t, room)
	assert.Equal(t, room.ID(), m.AreaAt(geo.Wp(10, 5)).ID())

	// The island at (13,12) touches nothing and stands alone.
	lone := m.AreaAt(geo.Wp(13, 12))
	require.NotNil(t, lone)
	assert.NotEqual(t, room.ID(), lone.ID())
	assert.Equal(t, 1, lone.MiniTiles())
	assert.Len(t, m.Areas(), 2)
	assert.NotEqual(t, room.Group(), lone.Group())
}

func TestLakeInsideRoom(t *testing.T) {
	m := newMap(t, tileInput(t,
		"........",
		"........",
		"...~~...",
		"...~~...",
		"........",
		"........",
	))

	assert.Equal(t, 1, m.Lakes())
	pond := m.MiniTile(geo.Wp(13, 9))
	assert.True(t, pond.Lake())
	assert.Zero(t, pond.AreaID())
	assert.Zero(t, m.Tile(geo.Tp(3, 2)).AreaID())
	assert.Nil(t, m.Tile(geo.Tp(8, 0)))
}
