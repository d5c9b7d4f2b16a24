package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// gridFromRows builds a grid from minitile rows: '.' walkable, anything else
// unwalkable. Row length and row count must be multiples of 4.
func gridFromRows(t *testing.T, rows ...string) *Grid {
	t.Helper()
	require.NotEmpty(t, rows)
	require.Zero(t, len(rows)%MiniTilesPerTile, "row count must be a multiple of 4")
	require.Zero(t, len(rows[0])%MiniTilesPerTile, "row length must be a multiple of 4")

	walkable := make([]bool, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		require.Len(t, row, len(rows[0]))
		for _, c := range row {
			walkable = append(walkable, c == '.')
		}
	}

	g, err := NewGrid(Layers{
		TileWidth:  len(rows[0]) / MiniTilesPerTile,
		TileHeight: len(rows) / MiniTilesPerTile,
		Walkable:   walkable,
	})
	require.NoError(t, err)
	return g
}

func openGrid(t *testing.T, tilesW, tilesH int) *Grid {
	t.Helper()
	walkable := make([]bool, tilesW*tilesH*MiniTilesPerTile*MiniTilesPerTile)
	for i := range walkable {
		walkable[i] = true
	}
	g, err := NewGrid(Layers{TileWidth: tilesW, TileHeight: tilesH, Walkable: walkable})
	require.NoError(t, err)
	return g
}
