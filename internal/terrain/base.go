package terrain

import (
	"log/slog"
	"slices"

	"github.com/udisondev/geomap/internal/geo"
)

// Base is a site where a town hall can be built next to resources.
type Base struct {
	id               int
	area             geo.AreaID
	location         geo.TilePosition
	center           geo.Position
	minerals         []geo.ObstacleID
	geysers          []geo.ObstacleID
	blockingMinerals []geo.ObstacleID
	starting         bool
}

func (b *Base) ID() int                    { return b.id }
func (b *Base) Area() geo.AreaID           { return b.area }
func (b *Base) Location() geo.TilePosition { return b.location }
func (b *Base) Center() geo.Position       { return b.center }
func (b *Base) Minerals() []geo.ObstacleID { return slices.Clone(b.minerals) }
func (b *Base) Geysers() []geo.ObstacleID  { return slices.Clone(b.geysers) }

// BlockingMinerals returns the small minerals lying on the base footprint.
func (b *Base) BlockingMinerals() []geo.ObstacleID { return slices.Clone(b.blockingMinerals) }

// Starting reports whether the base was matched to a starting location.
func (b *Base) Starting() bool { return b.starting }

func (m *Map) Bases() []*Base {
	out := make([]*Base, len(m.bases))
	for i := range m.bases {
		out[i] = &m.bases[i]
	}
	return out
}

func (m *Map) StartingLocations() []geo.TilePosition { return slices.Clone(m.startingLocations) }

// assignResources attaches every resource to the nearest area.
func (m *Map) assignResources() {
	for i := range m.obstacles {
		o := &m.obstacles[i]
		if o.removed || !o.kind.IsResource() {
			continue
		}
		a, err := m.NearestArea(o.Pos().Walk())
		if err != nil || a == nil {
			continue
		}
		if o.kind == Mineral {
			a.minerals = append(a.minerals, o.id)
		} else {
			a.geysers = append(a.geysers, o.id)
		}
	}
}

func (m *Map) createBases() {
	m.assigned = make(map[geo.ObstacleID]int)
	for _, a := range m.Areas() {
		m.createAreaBases(a)
	}
	slog.Debug("bases created", "count", len(m.bases))
}

func (m *Map) baseResource(o *Obstacle) bool {
	switch o.kind {
	case Mineral:
		return o.amount >= m.opts.MinMineralAmount
	case Geyser:
		return o.amount >= m.opts.MinGeyserAmount
	}
	return false
}

func (m *Map) createAreaBases(a *Area) {
	var remaining []*Obstacle
	for _, id := range slices.Concat(a.minerals, a.geysers) {
		if o := m.obstacle(id); !o.removed && m.baseResource(o) {
			remaining = append(remaining, o)
		}
	}
	exclusion := slices.Clone(remaining)

	for len(remaining) > 0 {
		anchor, blocking, ok := m.bestAnchor(a, remaining, exclusion)
		if !ok {
			break
		}
		center := m.baseCenter(anchor)

		var assigned, rest []*Obstacle
		for _, r := range remaining {
			if m.inCaptureRange(center, r) {
				assigned = append(assigned, r)
			} else {
				rest = append(rest, r)
			}
		}
		if len(assigned) == 0 {
			break
		}
		remaining = rest

		m.bases = append(m.bases, Base{
			id:               len(m.bases),
			area:             a.id,
			location:         anchor,
			center:           center,
			blockingMinerals: blocking,
		})
		b := &m.bases[len(m.bases)-1]
		for _, r := range assigned {
			m.assignToBase(b, r)
		}
		a.bases = append(a.bases, b.id)
	}
}

func (m *Map) assignToBase(b *Base, r *Obstacle) {
	if r.kind == Mineral {
		b.minerals = append(b.minerals, r.id)
	} else {
		b.geysers = append(b.geysers, r.id)
	}
	m.assigned[r.id] = b.id
}

// bestAnchor scores every anchor around the resources with a potential
// field and returns the best valid one.
func (m *Map) bestAnchor(a *Area, resources, exclusion []*Obstacle) (geo.TilePosition, []geo.ObstacleID, bool) {
	reach := m.opts.MaxTilesBetweenBaseAndResources
	lo, hi := resources[0].topLeft, resources[0].BottomRight()
	for _, r := range resources[1:] {
		lo = geo.Tp(min(lo.X, r.topLeft.X), min(lo.Y, r.topLeft.Y))
		br := r.BottomRight()
		hi = geo.Tp(max(hi.X, br.X), max(hi.Y, br.Y))
	}
	lo = m.grid.CropTile(lo.Add(-reach-m.opts.BaseWidth, -reach-m.opts.BaseHeight))
	hi = m.grid.CropTile(hi.Add(reach, reach))

	var best geo.TilePosition
	var bestBlocking []geo.ObstacleID
	bestScore := 0
	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			t := geo.Tp(x, y)
			blocking, ok := m.validAnchor(a.id, t, exclusion)
			if !ok {
				continue
			}
			if score := m.anchorScore(t, resources); score > bestScore {
				best, bestBlocking, bestScore = t, blocking, score
			}
		}
	}
	return best, bestBlocking, bestScore > 0
}

// validAnchor checks the base footprint at t: inside the map and the area,
// buildable, clear of resources and free of obstacles other than small
// minerals, which it returns.
func (m *Map) validAnchor(area geo.AreaID, t geo.TilePosition, exclusion []*Obstacle) ([]geo.ObstacleID, bool) {
	w, h := m.opts.BaseWidth, m.opts.BaseHeight
	if !m.grid.ValidTile(t) || !m.grid.ValidTile(t.Add(w-1, h-1)) {
		return nil, false
	}
	for _, r := range exclusion {
		if !r.removed && rectGap(t, geo.Tp(w, h), r.topLeft, r.size) < m.opts.ResourceExclusion {
			return nil, false
		}
	}

	var blocking []geo.ObstacleID
	for dy := range h {
		for dx := range w {
			tile := m.grid.Tile(t.Add(dx, dy))
			if !tile.Buildable() || tile.AreaID() != area {
				return nil, false
			}
			if id := tile.Obstacle(); id != 0 {
				o := m.obstacle(id)
				if o.kind != Mineral || o.amount > m.opts.BlockingMineralAmount {
					return nil, false
				}
				if !slices.Contains(blocking, id) {
					blocking = append(blocking, id)
				}
			}
		}
	}
	return blocking, true
}

func (m *Map) anchorScore(t geo.TilePosition, resources []*Obstacle) int {
	center := m.baseCenter(t)
	score := 0
	for _, r := range resources {
		s := max(0, m.opts.MaxTilesBetweenBaseAndResources+3-m.tileDist(center, r))
		if r.kind == Geyser {
			s *= 3
		}
		score += s
	}
	return score
}

func (m *Map) baseCenter(anchor geo.TilePosition) geo.Position {
	return anchor.Pixel().Add(m.opts.BaseWidth*geo.TileSize/2, m.opts.BaseHeight*geo.TileSize/2)
}

func (m *Map) tileDist(center geo.Position, r *Obstacle) int {
	return (geo.DistToRectangle(center, r.topLeft, r.size) + geo.TileSize/2) / geo.TileSize
}

func (m *Map) inCaptureRange(center geo.Position, r *Obstacle) bool {
	return m.tileDist(center, r) <= m.opts.MaxTilesBetweenBaseAndResources
}

// rectGap returns the number of tiles between two rectangles along the
// axis where they are furthest apart, 0 when they overlap or touch.
func rectGap(aTopLeft, aSize, bTopLeft, bSize geo.TilePosition) int {
	gap := func(a0, a1, b0, b1 int) int {
		return max(b0-a1, a0-b1, 0)
	}
	gx := gap(aTopLeft.X, aTopLeft.X+aSize.X, bTopLeft.X, bTopLeft.X+bSize.X)
	gy := gap(aTopLeft.Y, aTopLeft.Y+aSize.Y, bTopLeft.Y, bTopLeft.Y+bSize.Y)
	return max(gx, gy)
}

// FindBasesForStartingLocations matches every starting location with the
// nearest base within a small radius. The base moves onto the starting
// location and takes the unassigned resources in range. It returns false if
// some starting location has no base nearby.
func (m *Map) FindBasesForStartingLocations() bool {
	ok := true
	radius := m.opts.MaxTilesBetweenStartAndBase
	for _, s := range m.startingLocations {
		anchors := make(map[geo.TilePosition]int)
		for i := range m.bases {
			b := &m.bases[i]
			if !b.starting || b.location == s {
				anchors[b.location] = i
			}
		}

		found, err := m.grid.SearchTile(s,
			func(t geo.TilePosition, _ *geo.Tile) bool {
				_, hit := anchors[t]
				return hit && geo.QueenWiseDist(t, s) <= radius
			},
			func(t geo.TilePosition, _ *geo.Tile) bool { return geo.QueenWiseDist(t, s) <= radius },
			geo.Connect8)
		if err != nil {
			slog.Warn("no base near starting location", "location", s, "radius", radius)
			ok = false
			continue
		}
		m.setStartingLocation(&m.bases[anchors[found]], s)
	}
	return ok
}

func (m *Map) setStartingLocation(b *Base, location geo.TilePosition) {
	b.starting = true
	b.location = location
	b.center = m.baseCenter(location)

	a := m.Area(b.area)
	for _, id := range slices.Concat(a.minerals, a.geysers) {
		o := m.obstacle(id)
		if o.removed || !m.baseResource(o) {
			continue
		}
		if _, taken := m.assigned[id]; taken || !m.inCaptureRange(b.center, o) {
			continue
		}
		m.assignToBase(b, o)
	}

	b.blockingMinerals = b.blockingMinerals[:0]
	for dy := range m.opts.BaseHeight {
		for dx := range m.opts.BaseWidth {
			t := location.Add(dx, dy)
			if !m.grid.ValidTile(t) {
				continue
			}
			id := m.grid.Tile(t).Obstacle()
			if id == 0 || slices.Contains(b.blockingMinerals, id) {
				continue
			}
			if o := m.obstacle(id); o.kind == Mineral && o.amount <= m.opts.BlockingMineralAmount {
				b.blockingMinerals = append(b.blockingMinerals, id)
			}
		}
	}
	slog.Debug("starting base", "location", location, "area", b.area, "minerals", len(b.minerals), "geysers", len(b.geysers))
}

// detachMineral forgets a destroyed mineral in its area and base.
func (m *Map) detachMineral(o *Obstacle) {
	for _, a := range m.Areas() {
		a.minerals = slices.DeleteFunc(a.minerals, func(id geo.ObstacleID) bool { return id == o.id })
	}
	for i := range m.bases {
		b := &m.bases[i]
		b.minerals = slices.DeleteFunc(b.minerals, func(id geo.ObstacleID) bool { return id == o.id })
		b.blockingMinerals = slices.DeleteFunc(b.blockingMinerals, func(id geo.ObstacleID) bool { return id == o.id })
	}
	delete(m.assigned, o.id)
}
