package geo

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid is returned when raw raster layers do not match the grid dimensions.
var ErrInvalidGrid = errors.New("invalid grid")

// Grid is the two-resolution raster: tiles and the minitiles they contain.
// Both layers are stored row-major.
type Grid struct {
	size        TilePosition
	walkSize    WalkPosition
	tiles       []Tile
	miniTiles   []MiniTile
	maxAltitude Altitude
}

// Layers holds the raw terrain observation a Grid is built from.
type Layers struct {
	TileWidth, TileHeight int
	Walkable              []bool // per minitile, row-major, (4*TileWidth) x (4*TileHeight)
	Buildable             []bool // per tile, row-major; optional
	Heights               []int  // per tile, row-major; optional
}

// NewGrid builds the raster from raw layers. Altitude, water and area ids are
// left for the analysis passes.
func NewGrid(l Layers) (*Grid, error) {
	if l.TileWidth <= 0 || l.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidGrid, l.TileWidth, l.TileHeight)
	}
	nTiles := l.TileWidth * l.TileHeight
	nMini := nTiles * MiniTilesPerTile * MiniTilesPerTile
	if len(l.Walkable) != nMini {
		return nil, fmt.Errorf("%w: walkable layer has %d cells, want %d", ErrInvalidGrid, len(l.Walkable), nMini)
	}
	if l.Buildable != nil && len(l.Buildable) != nTiles {
		return nil, fmt.Errorf("%w: buildable layer has %d cells, want %d", ErrInvalidGrid, len(l.Buildable), nTiles)
	}
	if l.Heights != nil && len(l.Heights) != nTiles {
		return nil, fmt.Errorf("%w: height layer has %d cells, want %d", ErrInvalidGrid, len(l.Heights), nTiles)
	}

	g := &Grid{
		size:      TilePosition{l.TileWidth, l.TileHeight},
		walkSize:  WalkPosition{l.TileWidth * MiniTilesPerTile, l.TileHeight * MiniTilesPerTile},
		tiles:     make([]Tile, nTiles),
		miniTiles: make([]MiniTile, nMini),
	}
	for i, w := range l.Walkable {
		g.miniTiles[i].setWalkable(w)
	}
	for i := range g.tiles {
		if l.Buildable != nil {
			g.tiles[i].buildable = l.Buildable[i]
		}
		if l.Heights != nil {
			g.tiles[i].groundHeight = l.Heights[i]
		}
	}
	return g, nil
}

// Size returns the grid size in tiles.
func (g *Grid) Size() TilePosition { return g.size }

// WalkSize returns the grid size in minitiles.
func (g *Grid) WalkSize() WalkPosition { return g.walkSize }

// Center returns the center of the grid in pixels.
func (g *Grid) Center() Position {
	return Position{g.size.X * TileSize / 2, g.size.Y * TileSize / 2}
}

// MaxAltitude returns the highest altitude found by ComputeAltitude.
func (g *Grid) MaxAltitude() Altitude { return g.maxAltitude }

func (g *Grid) ValidTile(t TilePosition) bool {
	return t.X >= 0 && t.X < g.size.X && t.Y >= 0 && t.Y < g.size.Y
}

func (g *Grid) ValidWalk(w WalkPosition) bool {
	return w.X >= 0 && w.X < g.walkSize.X && w.Y >= 0 && w.Y < g.walkSize.Y
}

func (g *Grid) ValidPosition(p Position) bool {
	return g.ValidWalk(p.Walk())
}

// Tile returns the tile at t. t must be valid.
func (g *Grid) Tile(t TilePosition) *Tile {
	return &g.tiles[t.Y*g.size.X+t.X]
}

// MiniTile returns the minitile at w. w must be valid.
func (g *Grid) MiniTile(w WalkPosition) *MiniTile {
	return &g.miniTiles[w.Y*g.walkSize.X+w.X]
}

// CropTile returns the valid tile closest to t.
func (g *Grid) CropTile(t TilePosition) TilePosition {
	return TilePosition{clamp(t.X, 0, g.size.X-1), clamp(t.Y, 0, g.size.Y-1)}
}

// CropWalk returns the valid minitile closest to w.
func (g *Grid) CropWalk(w WalkPosition) WalkPosition {
	return WalkPosition{clamp(w.X, 0, g.walkSize.X-1), clamp(w.Y, 0, g.walkSize.Y-1)}
}

// CropPosition returns the valid pixel closest to p.
func (g *Grid) CropPosition(p Position) Position {
	return Position{clamp(p.X, 0, g.size.X*TileSize-1), clamp(p.Y, 0, g.size.Y*TileSize-1)}
}

// EachMiniTile calls fn for every minitile in row-major order.
func (g *Grid) EachMiniTile(fn func(w WalkPosition, m *MiniTile)) {
	for y := range g.walkSize.Y {
		for x := range g.walkSize.X {
			fn(WalkPosition{x, y}, &g.miniTiles[y*g.walkSize.X+x])
		}
	}
}

// EachTile calls fn for every tile in row-major order.
func (g *Grid) EachTile(fn func(t TilePosition, tile *Tile)) {
	for y := range g.size.Y {
		for x := range g.size.X {
			fn(TilePosition{x, y}, &g.tiles[y*g.size.X+x])
		}
	}
}

// SetAreaIDInTile recomputes the tile's area id from its minitiles: the id
// owning most walkable minitiles wins, ties go to the lowest id.
func (g *Grid) SetAreaIDInTile(t TilePosition) {
	var counts [MiniTilesPerTile * MiniTilesPerTile]struct {
		id AreaID
		n  int
	}
	used := 0

	origin := t.Walk()
	for dy := range MiniTilesPerTile {
		for dx := range MiniTilesPerTile {
			id := g.MiniTile(origin.Add(dx, dy)).AreaID()
			if id == 0 {
				continue
			}
			found := false
			for i := range used {
				if counts[i].id == id {
					counts[i].n++
					found = true
					break
				}
			}
			if !found {
				counts[used].id = id
				counts[used].n = 1
				used++
			}
		}
	}

	best := AreaID(0)
	bestN := 0
	for i := range used {
		c := counts[i]
		if c.n > bestN || (c.n == bestN && c.id < best) {
			best, bestN = c.id, c.n
		}
	}
	g.Tile(t).areaID = best
}

// SetAltitudeInTile stores the lowest altitude of the tile's minitiles.
func (g *Grid) SetAltitudeInTile(t TilePosition) {
	lowest := Altitude(-1)
	origin := t.Walk()
	for dy := range MiniTilesPerTile {
		for dx := range MiniTilesPerTile {
			a := g.MiniTile(origin.Add(dx, dy)).Altitude()
			if lowest < 0 || a < lowest {
				lowest = a
			}
		}
	}
	g.Tile(t).minAltitude = lowest
}

// RefreshTiles recomputes area ids and altitude summaries of every tile.
func (g *Grid) RefreshTiles() {
	g.EachTile(func(t TilePosition, _ *Tile) {
		g.SetAreaIDInTile(t)
		g.SetAltitudeInTile(t)
	})
}

// ReplaceAreaIDs rewrites every minitile owned by from to to, and refreshes
// the tiles that changed.
func (g *Grid) ReplaceAreaIDs(from, to AreaID) int {
	changed := 0
	touched := make(map[TilePosition]struct{})
	g.EachMiniTile(func(w WalkPosition, m *MiniTile) {
		if m.areaID == from {
			m.areaID = to
			changed++
			touched[w.Tile()] = struct{}{}
		}
	})
	for t := range touched {
		g.SetAreaIDInTile(t)
	}
	return changed
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
