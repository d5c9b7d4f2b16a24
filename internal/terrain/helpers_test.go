package terrain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/geomap/internal/geo"
)

// tileInput builds an input from tile rows: '.' is open buildable ground,
// '#' and '~' are unwalkable.
func tileInput(t *testing.T, rows ...string) Input {
	t.Helper()
	require.NotEmpty(t, rows)
	w, h := len(rows[0]), len(rows)
	in := Input{
		TileWidth:  w,
		TileHeight: h,
		Walkable:   make([]bool, w*h*geo.MiniTilesPerTile*geo.MiniTilesPerTile),
		Buildable:  make([]bool, w*h),
	}
	walkW := w * geo.MiniTilesPerTile
	for ty, row := range rows {
		require.Len(t, row, w, "row %d", ty)
		for tx, ch := range row {
			open := ch == '.'
			in.Buildable[ty*w+tx] = open
			for dy := range geo.MiniTilesPerTile {
				for dx := range geo.MiniTilesPerTile {
					in.Walkable[(ty*geo.MiniTilesPerTile+dy)*walkW+tx*geo.MiniTilesPerTile+dx] = open
				}
			}
		}
	}
	return in
}

// walkInput builds an input from minitile rows; dimensions must be
// multiples of 4.
func walkInput(t *testing.T, rows ...string) Input {
	t.Helper()
	require.NotEmpty(t, rows)
	w, h := len(rows[0]), len(rows)
	require.Zero(t, w%geo.MiniTilesPerTile)
	require.Zero(t, h%geo.MiniTilesPerTile)
	in := Input{
		TileWidth:  w / geo.MiniTilesPerTile,
		TileHeight: h / geo.MiniTilesPerTile,
		Walkable:   make([]bool, w*h),
	}
	for y, row := range rows {
		require.Len(t, row, w, "row %d", y)
		for x, ch := range row {
			in.Walkable[y*w+x] = ch == '.'
		}
	}
	return in
}

func strictOptions() Options {
	opts := DefaultOptions()
	opts.StrictInvariants = true
	return opts
}

func newMap(t *testing.T, in Input) *Map {
	t.Helper()
	m, err := New(in, strictOptions())
	require.NoError(t, err)
	require.NoError(t, m.CheckInvariants())
	return m
}

func newLenientMap(t *testing.T, in Input) *Map {
	t.Helper()
	m, err := New(in, DefaultOptions())
	require.NoError(t, err)
	return m
}

func static(handle uint64, x, y, w, h int) ObstacleInput {
	return ObstacleInput{Handle: handle, Kind: StaticStructure, TopLeft: geo.Tp(x, y), Size: geo.Tp(w, h)}
}

func mineral(handle uint64, x, y, amount int) ObstacleInput {
	return ObstacleInput{Handle: handle, Kind: Mineral, TopLeft: geo.Tp(x, y), Size: geo.Tp(2, 1), Amount: amount}
}

func geyser(handle uint64, x, y, amount int) ObstacleInput {
	return ObstacleInput{Handle: handle, Kind: Geyser, TopLeft: geo.Tp(x, y), Size: geo.Tp(3, 3), Amount: amount}
}

// Two 4x4 rooms joined by a corridor one tile wide at row 1.
var corridorRooms = []string{
	"....##....",
	"..........",
	"....##....",
	"....##....",
}

// Two 7x7 rooms joined by an open corridor at row 3.
var bigRooms = []string{
	".......##.......",
	".......##.......",
	".......##.......",
	"................",
	".......##.......",
	".......##.......",
	".......##.......",
}

// Two 7x7 rooms joined by corridors at rows 1 and 5.
var twoCorridors = []string{
	".......##.......",
	"................",
	".......##.......",
	".......##.......",
	".......##.......",
	"................",
	".......##.......",
}

func openField(w, h int) []string {
	row := make([]byte, w)
	for i := range row {
		row[i] = '.'
	}
	rows := make([]string, h)
	for i := range rows {
		rows[i] = string(row)
	}
	return rows
}

func allPairsDistinct(t *testing.T, m *Map) {
	t.Helper()
	for _, c := range m.Connectors() {
		a, b := c.Areas()
		require.NotEqual(t, a, b)
		require.Contains(t, m.Area(a).Connectors(), c.ID())
		require.Contains(t, m.Area(b).Connectors(), c.ID())
	}
}
