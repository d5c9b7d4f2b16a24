package terrain

import (
	"slices"

	"github.com/udisondev/geomap/internal/geo"
)

// Area is a region: a maximal connected set of walkable minitiles sharing an id.
type Area struct {
	id              geo.AreaID
	alive           bool
	top             geo.WalkPosition
	topLeft         geo.TilePosition
	bottomRight     geo.TilePosition
	miniTiles       int
	highestAltitude geo.Altitude
	group           int
	connectors      []ConnectorID
	neighbours      []geo.AreaID
	bases           []int
	minerals        []geo.ObstacleID
	geysers         []geo.ObstacleID
}

func (a *Area) ID() geo.AreaID { return a.id }

// Top returns the minitile of highest altitude.
func (a *Area) Top() geo.WalkPosition              { return a.top }
func (a *Area) TopLeft() geo.TilePosition          { return a.topLeft }
func (a *Area) BottomRight() geo.TilePosition      { return a.bottomRight }
func (a *Area) MiniTiles() int                     { return a.miniTiles }
func (a *Area) HighestAltitude() geo.Altitude      { return a.highestAltitude }
func (a *Area) Connectors() []ConnectorID          { return slices.Clone(a.connectors) }
func (a *Area) Minerals() []geo.ObstacleID         { return slices.Clone(a.minerals) }
func (a *Area) Geysers() []geo.ObstacleID          { return slices.Clone(a.geysers) }
func (a *Area) AccessibleNeighbours() []geo.AreaID { return slices.Clone(a.neighbours) }

// Group identifies the connected component of the area over passable
// connectors. Areas of different groups are mutually unreachable.
func (a *Area) Group() int { return a.group }

// Area returns the live area with the given id, or nil.
func (m *Map) Area(id geo.AreaID) *Area {
	if id <= 0 || int(id) > len(m.areas) {
		return nil
	}
	a := &m.areas[id-1]
	if !a.alive {
		return nil
	}
	return a
}

// Areas returns the live areas ordered by id.
func (m *Map) Areas() []*Area {
	out := make([]*Area, 0, len(m.areas))
	for i := range m.areas {
		if m.areas[i].alive {
			out = append(out, &m.areas[i])
		}
	}
	return out
}

// AreaAt returns the area owning w, or nil for unwalkable cells and
// positions outside the map.
func (m *Map) AreaAt(w geo.WalkPosition) *Area {
	if !m.grid.ValidWalk(w) {
		return nil
	}
	return m.Area(m.grid.MiniTile(w).AreaID())
}

// AreaAtTile returns the area owning the majority of the tile's minitiles.
func (m *Map) AreaAtTile(t geo.TilePosition) *Area {
	if !m.grid.ValidTile(t) {
		return nil
	}
	return m.Area(m.grid.Tile(t).AreaID())
}

// NearestArea returns the area owning w or, failing that, the area of the
// closest walkable minitile. It returns nil only when the map has no area.
func (m *Map) NearestArea(w geo.WalkPosition) (*Area, error) {
	if len(m.Areas()) == 0 {
		return nil, nil
	}
	w = m.grid.CropWalk(w)
	found, err := m.grid.SearchWalk(w,
		func(_ geo.WalkPosition, mt *geo.MiniTile) bool { return mt.AreaID() != 0 },
		func(geo.WalkPosition, *geo.MiniTile) bool { return true },
		geo.Connect8)
	if err != nil {
		return nil, m.internal("nearest area", err)
	}
	return m.Area(m.grid.MiniTile(found).AreaID()), nil
}

// NearestAreaTile is NearestArea over tiles.
func (m *Map) NearestAreaTile(t geo.TilePosition) (*Area, error) {
	if len(m.Areas()) == 0 {
		return nil, nil
	}
	t = m.grid.CropTile(t)
	found, err := m.grid.SearchTile(t,
		func(_ geo.TilePosition, tile *geo.Tile) bool { return tile.AreaID() != 0 },
		func(geo.TilePosition, *geo.Tile) bool { return true },
		geo.Connect8)
	if err != nil {
		return nil, m.internal("nearest area", err)
	}
	return m.Area(m.grid.Tile(found).AreaID()), nil
}

// computeAreaStats rebuilds top, bounding box, size and highest altitude of
// every live area from the grid.
func (m *Map) computeAreaStats() {
	seen := make([]bool, len(m.areas))
	m.grid.EachMiniTile(func(w geo.WalkPosition, mt *geo.MiniTile) {
		id := mt.AreaID()
		if id == 0 {
			return
		}
		a := &m.areas[id-1]
		t := w.Tile()
		if !seen[id-1] {
			seen[id-1] = true
			a.miniTiles = 0
			a.top, a.highestAltitude = w, mt.Altitude()
			a.topLeft, a.bottomRight = t, t
		}
		a.miniTiles++
		if mt.Altitude() > a.highestAltitude {
			a.top, a.highestAltitude = w, mt.Altitude()
		}
		a.topLeft = geo.Tp(min(a.topLeft.X, t.X), min(a.topLeft.Y, t.Y))
		a.bottomRight = geo.Tp(max(a.bottomRight.X, t.X), max(a.bottomRight.Y, t.Y))
	})
}
