package geo

// Raster resolutions. A tile (coarse cell) is split into 4x4 minitiles (fine cells).
const (
	TileSize         = 32 // pixels per tile side
	MiniTileSize     = 8  // pixels per minitile side
	MiniTilesPerTile = TileSize / MiniTileSize
)

// Chamfer weights used by the altitude distance transform, in pixels.
const (
	OrthogonalStep = MiniTileSize
	DiagonalStep   = 11 // ~ 8*sqrt(2)
)

// DefaultMaxAltitude caps the altitude field so open ground forms a plateau.
const DefaultMaxAltitude Altitude = 512

// Connectivity selects the neighbourhood used by traversals.
type Connectivity int

const (
	Connect4 Connectivity = 4
	Connect8 Connectivity = 8
)

// Neighbour offsets. Order is part of the traversal contract: searches are
// deterministic for a given grid.
var (
	dir4 = [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	dir8 = [8][2]int{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
)

// Offsets returns the neighbour offsets for the connectivity mode.
func (c Connectivity) Offsets() [][2]int {
	if c == Connect4 {
		return dir4[:]
	}
	return dir8[:]
}
