package terrain

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/udisondev/geomap/internal/geo"
)

// Map is the analysed terrain: the grid, its obstacles, the areas and the
// connectors between them, and the base sites. A Map is built once by New
// and then queried; it is not safe for concurrent use.
type Map struct {
	opts  Options
	grid  *geo.Grid
	lakes int

	obstacles []Obstacle
	byHandle  map[uint64]geo.ObstacleID
	stacks    map[geo.TilePosition][]geo.ObstacleID

	areas             []Area
	connectors        []Connector
	rawFrontier       []FrontierCell
	bases             []Base
	assigned          map[geo.ObstacleID]int
	startingLocations []geo.TilePosition

	ground     map[groundKey]int
	planGroups []int
	memo       map[pathKey]memoEntry

	automaticPathUpdate bool
}

// New analyses the raw observation: altitude, water, blocking obstacles,
// areas, connectors and bases.
func New(in Input, opts Options) (*Map, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	grid, err := geo.NewGrid(geo.Layers{
		TileWidth:  in.TileWidth,
		TileHeight: in.TileHeight,
		Walkable:   in.Walkable,
		Buildable:  in.Buildable,
		Heights:    in.Heights,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	m := &Map{
		opts:              opts,
		grid:              grid,
		byHandle:          make(map[uint64]geo.ObstacleID, len(in.Obstacles)),
		stacks:            make(map[geo.TilePosition][]geo.ObstacleID),
		startingLocations: slices.Clone(in.StartingLocations),
		memo:              make(map[pathKey]memoEntry),
	}

	m.grid.ComputeAltitude(opts.MaxAltitude)
	m.lakes = m.grid.DecideSeasOrLakes()
	m.obstacles = make([]Obstacle, 0, len(in.Obstacles))
	for _, o := range in.Obstacles {
		if err := m.addObstacle(o); err != nil {
			return nil, fmt.Errorf("placing obstacle %d: %w", o.Handle, err)
		}
	}
	m.processBlockingObstacles()
	m.computeAreas()
	m.createConnectors()
	m.rebuildGraph()
	m.assignResources()
	m.createBases()

	slog.Debug("terrain analysed",
		"size", m.grid.Size(),
		"max_altitude", m.grid.MaxAltitude(),
		"lakes", m.lakes,
		"areas", len(m.areas),
		"connectors", len(m.connectors),
		"bases", len(m.bases))
	return m, nil
}

func (m *Map) Options() Options { return m.opts }

// Size returns the map size in tiles.
func (m *Map) Size() geo.TilePosition     { return m.grid.Size() }
func (m *Map) WalkSize() geo.WalkPosition { return m.grid.WalkSize() }
func (m *Map) Center() geo.Position       { return m.grid.Center() }
func (m *Map) MaxAltitude() geo.Altitude  { return m.grid.MaxAltitude() }

// Lakes returns the number of enclosed water bodies.
func (m *Map) Lakes() int { return m.lakes }

// Tile returns the tile at t, or nil outside the map.
func (m *Map) Tile(t geo.TilePosition) *geo.Tile {
	if !m.grid.ValidTile(t) {
		return nil
	}
	return m.grid.Tile(t)
}

// MiniTile returns the minitile at w, or nil outside the map.
func (m *Map) MiniTile(w geo.WalkPosition) *geo.MiniTile {
	if !m.grid.ValidWalk(w) {
		return nil
	}
	return m.grid.MiniTile(w)
}

// EnableAutomaticPathUpdate makes obstacle destruction repair the area
// graph. It cannot be disabled again.
func (m *Map) EnableAutomaticPathUpdate() { m.automaticPathUpdate = true }

func (m *Map) AutomaticPathUpdate() bool { return m.automaticPathUpdate }

// OnMineralDestroyed takes the mineral off the map and its base.
func (m *Map) OnMineralDestroyed(handle uint64) error {
	return m.destroy(handle, Mineral)
}

func (m *Map) OnStaticStructureDestroyed(handle uint64) error {
	return m.destroy(handle, StaticStructure)
}

func (m *Map) destroy(handle uint64, kind Kind) error {
	id, ok := m.byHandle[handle]
	if !ok {
		return fmt.Errorf("%w: %s %d", ErrUnknownObstacle, kind, handle)
	}
	o := m.obstacle(id)
	if o.kind != kind {
		return fmt.Errorf("%w: %d is a %s, not a %s", ErrUnknownObstacle, handle, o.kind, kind)
	}

	head, err := m.remove(o)
	if err != nil {
		return err
	}
	if kind == Mineral {
		m.detachMineral(o)
	}
	slog.Debug("obstacle destroyed", "kind", kind, "handle", handle, "blocking", o.Blocking(), "next", head)

	if o.Blocking() {
		return m.onBlockingObstacleDestroyed(o, head)
	}
	return nil
}

// onBlockingObstacleDestroyed moves the pseudo connectors of o to the next
// obstacle of its stack. Once the stack is gone the footprint is unblocked
// and, with automatic path update, each pseudo connector either becomes
// passable or merges the two areas it separated.
func (m *Map) onBlockingObstacleDestroyed(o *Obstacle, head geo.ObstacleID) error {
	var pseudo []ConnectorID
	for i := range m.connectors {
		c := &m.connectors[i]
		if c.alive && c.obstacle == o.id {
			c.obstacle = head
			pseudo = append(pseudo, c.id)
		}
	}
	if head != 0 {
		return nil
	}

	o.eachMiniTile(func(w geo.WalkPosition) { m.grid.MiniTile(w).SetBlocked(false) })
	if !m.automaticPathUpdate {
		return nil
	}

	for _, id := range pseudo {
		c := m.Connector(id)
		if c == nil {
			continue
		}
		if err := m.openConnector(c); err != nil {
			return err
		}
	}
	m.refreshBlocking()
	m.computeAreaStats()
	m.rebuildGraph()
	return nil
}

// openConnector makes c passable when another passable connector already
// joins its areas, and merges the two areas otherwise.
func (m *Map) openConnector(c *Connector) error {
	a, b := c.areas[0], c.areas[1]
	for _, id := range m.Area(a).connectors {
		d := m.Connector(id)
		if d.id != c.id && !d.blocked && d.Other(a) == b {
			c.blocked = false
			c.obstacle = 0
			slog.Debug("connector opened", "connector", c.id, "areas", c.areas)
			return nil
		}
	}
	return m.mergeAreas(a, b)
}

// mergeAreas folds gone into keep. Connectors between them disappear, the
// other connectors, bases and resources of gone move to keep.
func (m *Map) mergeAreas(keep, gone geo.AreaID) error {
	k, g := m.Area(keep), m.Area(gone)
	if k == nil || g == nil || keep == gone {
		return m.internal("merge areas", fmt.Errorf("%w: cannot merge area %d into %d", ErrTopology, gone, keep))
	}

	m.grid.ReplaceAreaIDs(gone, keep)
	for _, id := range g.connectors {
		c := &m.connectors[id-1]
		for side := range c.areas {
			if c.areas[side] == gone {
				c.areas[side] = keep
			}
		}
		if c.areas[0] == c.areas[1] {
			c.alive = false
			k.connectors = slices.DeleteFunc(k.connectors, func(x ConnectorID) bool { return x == id })
			continue
		}
		if c.areas[0] > c.areas[1] {
			c.areas[0], c.areas[1] = c.areas[1], c.areas[0]
			c.posIn[0], c.posIn[1] = c.posIn[1], c.posIn[0]
		}
		k.connectors = append(k.connectors, id)
	}
	slices.Sort(k.connectors)

	for _, i := range g.bases {
		m.bases[i].area = keep
	}
	k.bases = append(k.bases, g.bases...)
	k.minerals = append(k.minerals, g.minerals...)
	k.geysers = append(k.geysers, g.geysers...)
	*g = Area{id: gone}

	m.rawFrontier = slices.DeleteFunc(m.rawFrontier, func(f FrontierCell) bool {
		for side := range f.Areas {
			if f.Areas[side] == gone {
				f.Areas[side] = keep
			}
		}
		return f.Areas[0] == f.Areas[1]
	})
	for i := range m.rawFrontier {
		f := &m.rawFrontier[i]
		if f.Areas[0] == gone || f.Areas[1] == gone {
			f.Areas = orderedPair(keep, f.Areas[0]+f.Areas[1]-gone)
		}
	}

	slog.Debug("areas merged", "keep", keep, "gone", gone)
	return nil
}

// refreshBlocking clears the blocking state of obstacles whose doors now
// all lie in one area.
func (m *Map) refreshBlocking() {
	for i := range m.obstacles {
		o := &m.obstacles[i]
		if o.removed || !o.Blocking() {
			continue
		}
		if len(m.blockedAreas(o)) < 2 {
			o.blockedAt = nil
			o.eachMiniTile(func(w geo.WalkPosition) { m.grid.MiniTile(w).SetBlocked(false) })
			slog.Debug("obstacle no longer blocking", "kind", o.kind, "handle", o.handle)
		}
	}
}
