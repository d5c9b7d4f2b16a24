package terrain

import (
	"container/heap"
	"slices"

	zheap "github.com/zyedidia/generic/heap"

	"github.com/udisondev/geomap/internal/geo"
)

// PathOptions tunes GetPathWithOptions.
type PathOptions struct {
	// AvoidBlocked treats blocked connectors as impassable. By default a
	// path may cross them and is then reported as Blocked.
	AvoidBlocked bool
}

// Path is a shortest path between two points over the connector graph.
type Path struct {
	Connectors []ConnectorID
	// Length in pixels, -1 when the points are mutually unreachable.
	Length int
	// Blocked is set when the path crosses a blocked connector.
	Blocked bool
}

func (p Path) Reachable() bool { return p.Length >= 0 }

type groundKey struct {
	area geo.AreaID
	a, b ConnectorID
}

// pathKey identifies a query: legs to and from the end points take part
// in the connector choice, so the points themselves are the key.
type pathKey struct {
	a, b  geo.Position
	avoid bool
}

type memoEntry struct {
	connectors []ConnectorID
	cost       int
	ok         bool
}

// rebuildGraph recomputes everything derived from areas and connectors:
// neighbours, ground distances and groups. Memoized paths are dropped.
func (m *Map) rebuildGraph() {
	for _, a := range m.Areas() {
		a.neighbours = a.neighbours[:0]
		for _, id := range a.connectors {
			c := m.Connector(id)
			if c.blocked {
				continue
			}
			if other := c.Other(a.id); !slices.Contains(a.neighbours, other) {
				a.neighbours = append(a.neighbours, other)
			}
		}
		slices.Sort(a.neighbours)
	}
	m.computeGroundDistances()
	groups := m.computeGroups(true)
	for _, a := range m.Areas() {
		a.group = groups[a.id-1]
	}
	m.planGroups = m.computeGroups(false)
	m.memo = make(map[pathKey]memoEntry)
}

func (m *Map) computeGroundDistances() {
	m.ground = make(map[groundKey]int)
	for _, a := range m.Areas() {
		for i, from := range a.connectors {
			rest := a.connectors[i+1:]
			if len(rest) == 0 {
				break
			}
			targets := make([]geo.WalkPosition, len(rest))
			for j, to := range rest {
				targets[j] = m.Connector(to).PosIn(a.id)
			}
			dists := m.groundDistances(a.id, m.Connector(from).PosIn(a.id), targets)
			for j, to := range rest {
				m.ground[newGroundKey(a.id, from, to)] = dists[j]
			}
		}
	}
}

func newGroundKey(area geo.AreaID, a, b ConnectorID) groundKey {
	if a > b {
		a, b = b, a
	}
	return groundKey{area: area, a: a, b: b}
}

type groundCell struct {
	pos  geo.WalkPosition
	dist int
}

// groundDistances runs a Dijkstra over the free minitiles of area from
// start and returns the pixel distance to each target, -1 if unreached.
func (m *Map) groundDistances(area geo.AreaID, start geo.WalkPosition, targets []geo.WalkPosition) []int {
	out := make([]int, len(targets))
	pending := make(map[geo.WalkPosition][]int, len(targets))
	for i, t := range targets {
		out[i] = -1
		pending[t] = append(pending[t], i)
	}

	settled := make(map[geo.WalkPosition]struct{})
	frontier := zheap.New[groundCell](func(a, b groundCell) bool { return a.dist < b.dist })
	frontier.Push(groundCell{pos: start})
	for frontier.Size() > 0 && len(pending) > 0 {
		cur, _ := frontier.Pop()
		if _, done := settled[cur.pos]; done {
			continue
		}
		settled[cur.pos] = struct{}{}
		if idx, ok := pending[cur.pos]; ok {
			for _, i := range idx {
				out[i] = cur.dist
			}
			delete(pending, cur.pos)
		}

		for _, d := range geo.Connect8.Offsets() {
			next := cur.pos.Add(d[0], d[1])
			if !m.grid.ValidWalk(next) {
				continue
			}
			if _, done := settled[next]; done {
				continue
			}
			mt := m.grid.MiniTile(next)
			if !mt.Walkable() || mt.Blocked() || mt.AreaID() != area {
				continue
			}
			step := geo.OrthogonalStep
			if d[0] != 0 && d[1] != 0 {
				step = geo.DiagonalStep
			}
			frontier.Push(groundCell{pos: next, dist: cur.dist + step})
		}
	}
	return out
}

// computeGroups labels connected components of areas. With avoidBlocked,
// blocked connectors do not link areas.
func (m *Map) computeGroups(avoidBlocked bool) []int {
	groups := make([]int, len(m.areas))
	next := 0
	for i := range m.areas {
		if !m.areas[i].alive || groups[i] != 0 {
			continue
		}
		next++
		groups[i] = next
		queue := []geo.AreaID{m.areas[i].id}
		for len(queue) > 0 {
			a := m.Area(queue[0])
			queue = queue[1:]
			for _, id := range a.connectors {
				c := m.Connector(id)
				if avoidBlocked && c.blocked {
					continue
				}
				other := c.Other(a.id)
				if groups[other-1] == 0 {
					groups[other-1] = next
					queue = append(queue, other)
				}
			}
		}
	}
	return groups
}

// Accessible reports whether b can be reached from a without crossing a
// blocked connector.
func (m *Map) Accessible(a, b geo.AreaID) bool {
	x, y := m.Area(a), m.Area(b)
	return x != nil && y != nil && x.group == y.group
}

func (m *Map) sameGroup(a, b geo.AreaID, avoidBlocked bool) bool {
	if avoidBlocked {
		return m.Accessible(a, b)
	}
	return m.planGroups[a-1] == m.planGroups[b-1]
}

// GetPath returns the shortest path from a to b, planning through blocked
// connectors.
func (m *Map) GetPath(a, b geo.Position) Path {
	return m.GetPathWithOptions(a, b, PathOptions{})
}

func (m *Map) GetPathWithOptions(a, b geo.Position, opts PathOptions) Path {
	unreachable := Path{Length: -1}

	from, err := m.NearestArea(a.Walk())
	if err != nil || from == nil {
		return unreachable
	}
	to, err := m.NearestArea(b.Walk())
	if err != nil || to == nil {
		return unreachable
	}
	if from.id == to.id {
		return Path{Length: geo.RoundedDist(a, b)}
	}
	if !m.sameGroup(from.id, to.id, opts.AvoidBlocked) {
		return unreachable
	}

	key := pathKey{a: a, b: b, avoid: opts.AvoidBlocked}
	entry, ok := m.memo[key]
	if !ok {
		entry = m.searchPath(a, b, from.id, to.id, opts.AvoidBlocked)
		m.memo[key] = entry
	}
	if !entry.ok {
		return unreachable
	}

	p := Path{Connectors: slices.Clone(entry.connectors), Length: entry.cost}
	for _, id := range p.Connectors {
		if m.Connector(id).blocked {
			p.Blocked = true
			break
		}
	}
	return p
}

// pathNode is a search state: the connector just crossed and the area it
// led into. A final node has also walked the last leg to the end point.
type pathNode struct {
	conn  ConnectorID
	area  geo.AreaID
	cost  int
	final bool
	prev  *pathNode
	index int
}

type pathNodeKey struct {
	conn ConnectorID
	area geo.AreaID
}

// searchPath runs a Dijkstra over connector crossings from point a in area
// from to point b in area to. The walk from a to the first connector and
// from the last connector to b is counted, so the best entry and exit are
// chosen together. Ties are broken by lowest area id, then lowest
// connector id.
func (m *Map) searchPath(a, b geo.Position, from, to geo.AreaID, avoidBlocked bool) memoEntry {
	passable := func(c *Connector) bool { return !avoidBlocked || !c.blocked }

	open := &pathHeap{}
	heap.Init(open)
	reach := func(n *pathNode) {
		heap.Push(open, n)
		if n.area == to {
			exit := m.Connector(n.conn).PosIn(to).Center()
			heap.Push(open, &pathNode{
				conn:  n.conn,
				area:  to,
				cost:  n.cost + geo.RoundedDist(exit, b),
				final: true,
				prev:  n,
			})
		}
	}

	for _, id := range m.Area(from).connectors {
		c := m.Connector(id)
		if !passable(c) {
			continue
		}
		entry := c.PosIn(from).Center()
		reach(&pathNode{conn: id, area: c.Other(from), cost: geo.RoundedDist(a, entry) + c.span()})
	}

	closed := make(map[pathNodeKey]struct{})
	for open.Len() > 0 {
		current := heap.Pop(open).(*pathNode)
		if current.final {
			var conns []ConnectorID
			for n := current.prev; n != nil; n = n.prev {
				conns = append(conns, n.conn)
			}
			slices.Reverse(conns)
			return memoEntry{connectors: conns, cost: current.cost, ok: true}
		}

		key := pathNodeKey{current.conn, current.area}
		if _, done := closed[key]; done {
			continue
		}
		closed[key] = struct{}{}

		for _, id := range m.Area(current.area).connectors {
			if id == current.conn {
				continue
			}
			c := m.Connector(id)
			if !passable(c) {
				continue
			}
			next := pathNodeKey{id, c.Other(current.area)}
			if _, done := closed[next]; done {
				continue
			}
			g, ok := m.ground[newGroundKey(current.area, current.conn, id)]
			if !ok || g < 0 {
				continue
			}
			reach(&pathNode{
				conn: id,
				area: next.area,
				cost: current.cost + g + c.span(),
				prev: current,
			})
		}
	}
	return memoEntry{}
}

// pathHeap implements container/heap for the connector search (min-heap by cost).
type pathHeap []*pathNode

func (h pathHeap) Len() int { return len(h) }
func (h pathHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.cost != b.cost {
		return a.cost < b.cost
	}
	if a.final != b.final {
		return a.final
	}
	if a.area != b.area {
		return a.area < b.area
	}
	return a.conn < b.conn
}
func (h pathHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *pathHeap) Push(x any)   { n := x.(*pathNode); n.index = len(*h); *h = append(*h, n) }
func (h *pathHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[:n-1]
	return node
}
