package terrain

import (
	"log/slog"
	"slices"

	"github.com/udisondev/geomap/internal/geo"
)

// ConnectorID identifies a connector. Ids are stable for the life of the map.
type ConnectorID int32

// Connector is a narrow passage joining exactly two areas. A pseudo
// connector spans a blocking obstacle and stays blocked until the whole
// obstacle stack is destroyed.
type Connector struct {
	id       ConnectorID
	alive    bool
	areas    [2]geo.AreaID
	geometry []geo.WalkPosition
	center   geo.WalkPosition
	posIn    [2]geo.WalkPosition
	pseudo   bool
	blocked  bool
	obstacle geo.ObstacleID
}

func (c *Connector) ID() ConnectorID { return c.id }

// Areas returns the joined areas, lowest id first.
func (c *Connector) Areas() (geo.AreaID, geo.AreaID) { return c.areas[0], c.areas[1] }

// Geometry returns the minitiles spanned by the connector, end to end.
func (c *Connector) Geometry() []geo.WalkPosition { return slices.Clone(c.geometry) }

func (c *Connector) Ends() (geo.WalkPosition, geo.WalkPosition) {
	return c.geometry[0], c.geometry[len(c.geometry)-1]
}

func (c *Connector) Center() geo.WalkPosition { return c.center }
func (c *Connector) Pseudo() bool             { return c.pseudo }

// Blocked reports whether the connector is impassable for reachability.
func (c *Connector) Blocked() bool { return c.blocked }

// BlockingObstacle returns the obstacle currently heading the blocking
// stack, or 0.
func (c *Connector) BlockingObstacle() geo.ObstacleID { return c.obstacle }

// PosIn returns a free walkable minitile of area next to the connector.
func (c *Connector) PosIn(area geo.AreaID) geo.WalkPosition {
	if area == c.areas[1] {
		return c.posIn[1]
	}
	return c.posIn[0]
}

// Other returns the area on the other side of the connector.
func (c *Connector) Other(area geo.AreaID) geo.AreaID {
	if area == c.areas[0] {
		return c.areas[1]
	}
	return c.areas[0]
}

// span is the pixel length of a crossing: between the two inner positions.
func (c *Connector) span() int {
	return geo.RoundedDist(c.posIn[0].Center(), c.posIn[1].Center())
}

// Connector returns the live connector with the given id, or nil.
func (m *Map) Connector(id ConnectorID) *Connector {
	if id <= 0 || int(id) > len(m.connectors) {
		return nil
	}
	c := &m.connectors[id-1]
	if !c.alive {
		return nil
	}
	return c
}

// Connectors returns the live connectors ordered by id.
func (m *Map) Connectors() []*Connector {
	out := make([]*Connector, 0, len(m.connectors))
	for i := range m.connectors {
		if m.connectors[i].alive {
			out = append(out, &m.connectors[i])
		}
	}
	return out
}

// RawFrontier returns the frontier cells left by region growth.
func (m *Map) RawFrontier() []FrontierCell { return slices.Clone(m.rawFrontier) }

func (m *Map) newConnector(pair [2]geo.AreaID, geometry []geo.WalkPosition, center geo.WalkPosition) *Connector {
	m.connectors = append(m.connectors, Connector{
		id:       ConnectorID(len(m.connectors) + 1),
		alive:    true,
		areas:    pair,
		geometry: geometry,
		center:   center,
	})
	c := &m.connectors[len(m.connectors)-1]
	for _, id := range pair {
		a := &m.areas[id-1]
		a.connectors = append(a.connectors, c.id)
	}
	return c
}

// createConnectors builds the real connectors from the raw frontier and one
// pseudo connector per pair of areas separated by each blocking stack.
func (m *Map) createConnectors() {
	byPair := make(map[[2]geo.AreaID][]geo.WalkPosition)
	var pairs [][2]geo.AreaID
	for _, f := range m.rawFrontier {
		if _, ok := byPair[f.Areas]; !ok {
			pairs = append(pairs, f.Areas)
		}
		byPair[f.Areas] = append(byPair[f.Areas], f.Pos)
	}
	slices.SortFunc(pairs, comparePairs)

	for _, pair := range pairs {
		for _, cluster := range clusterFrontier(byPair[pair], m.opts.ClusterMinDist) {
			c := m.newConnector(pair, cluster, nearestToCentroid(cluster))
			for side, id := range pair {
				c.posIn[side] = m.innerPosition(c.center, id)
			}
		}
	}

	for i := range m.obstacles {
		o := &m.obstacles[i]
		if o.removed || !o.Blocking() || m.stacks[o.topLeft][0] != o.id {
			continue
		}
		m.createPseudoConnectors(o)
	}

	slog.Debug("connectors created", "frontier_pairs", len(pairs), "connectors", len(m.connectors))
}

func (m *Map) createPseudoConnectors(o *Obstacle) {
	doors := make(map[geo.AreaID]geo.WalkPosition)
	for _, w := range o.blockedAt {
		id := m.grid.MiniTile(w).AreaID()
		if _, ok := doors[id]; !ok && id != 0 {
			doors[id] = w
		}
	}
	ids := m.blockedAreas(o)
	slices.Sort(ids)
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			a, b := doors[ids[i]], doors[ids[j]]
			line := geo.Line(a, b)
			c := m.newConnector([2]geo.AreaID{ids[i], ids[j]}, line, line[len(line)/2])
			c.posIn = [2]geo.WalkPosition{a, b}
			c.pseudo = true
			c.blocked = true
			c.obstacle = o.id
		}
	}
}

// innerPosition finds the free walkable minitile of area closest to from.
func (m *Map) innerPosition(from geo.WalkPosition, area geo.AreaID) geo.WalkPosition {
	found, err := m.grid.SearchWalk(from,
		func(w geo.WalkPosition, mt *geo.MiniTile) bool {
			return mt.AreaID() == area && !mt.Blocked() && m.grid.Tile(w.Tile()).Obstacle() == 0
		},
		func(_ geo.WalkPosition, mt *geo.MiniTile) bool { return mt.Walkable() },
		geo.Connect8)
	if err != nil {
		return from
	}
	return found
}

// clusterFrontier splits the frontier cells of one area pair into chains of
// cells no further than minDist apart, growing each chain at either end.
func clusterFrontier(cells []geo.WalkPosition, minDist int) [][]geo.WalkPosition {
	var clusters [][]geo.WalkPosition
	for _, w := range cells {
		placed := false
		for i, cluster := range clusters {
			front, back := cluster[0], cluster[len(cluster)-1]
			dFront, dBack := queenWise(w, front), queenWise(w, back)
			if min(dFront, dBack) > minDist {
				continue
			}
			if dFront < dBack {
				clusters[i] = append([]geo.WalkPosition{w}, cluster...)
			} else {
				clusters[i] = append(cluster, w)
			}
			placed = true
			break
		}
		if !placed {
			clusters = append(clusters, []geo.WalkPosition{w})
		}
	}
	return clusters
}

func nearestToCentroid(cells []geo.WalkPosition) geo.WalkPosition {
	var sx, sy int
	for _, w := range cells {
		sx += w.X
		sy += w.Y
	}
	c := geo.Wp(sx/len(cells), sy/len(cells))
	best := cells[0]
	for _, w := range cells[1:] {
		if geo.WalkDist(w, c) < geo.WalkDist(best, c) {
			best = w
		}
	}
	return best
}

func queenWise(a, b geo.WalkPosition) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func comparePairs(x, y [2]geo.AreaID) int {
	if x[0] != y[0] {
		return int(x[0] - y[0])
	}
	return int(x[1] - y[1])
}
