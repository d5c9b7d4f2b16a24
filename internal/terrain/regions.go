package terrain

import (
	"cmp"
	"slices"

	"github.com/udisondev/geomap/internal/geo"
)

// FrontierCell is a minitile where two regions met during growth without
// being merged. Connectors are built from these cells.
type FrontierCell struct {
	Areas [2]geo.AreaID
	Pos   geo.WalkPosition
}

type tempArea struct {
	top     geo.WalkPosition
	highest geo.Altitude
	size    int
}

type tempFrontier struct {
	a, b int32
	pos  geo.WalkPosition
}

// regionBuilder grows provisional regions over the minitiles. Provisional
// ids are merged with a union-find: parent[id] == id for roots.
type regionBuilder struct {
	m        *Map
	width    int
	cellID   []int32
	parent   []int32
	areas    []tempArea
	frontier []tempFrontier
	turns    map[[2]int32]int
}

func (m *Map) computeAreas() {
	ws := m.grid.WalkSize()
	b := &regionBuilder{
		m:      m,
		width:  ws.X,
		cellID: make([]int32, ws.X*ws.Y),
		parent: []int32{0},
		areas:  []tempArea{{}},
		turns:  make(map[[2]int32]int),
	}
	b.grow()
	final := b.finalize()
	m.assignBlockedCells()
	m.grid.RefreshTiles()
	m.computeAreaStats()

	for _, f := range b.frontier {
		a, c := final[b.find(f.a)], final[b.find(f.b)]
		if a == 0 || c == 0 || a == c {
			continue
		}
		m.rawFrontier = append(m.rawFrontier, FrontierCell{Areas: orderedPair(a, c), Pos: f.pos})
	}
}

func (b *regionBuilder) pos(idx int) geo.WalkPosition { return geo.Wp(idx%b.width, idx/b.width) }
func (b *regionBuilder) index(w geo.WalkPosition) int { return w.Y*b.width + w.X }

func (b *regionBuilder) find(id int32) int32 {
	root := id
	for b.parent[root] != root {
		root = b.parent[root]
	}
	for b.parent[id] != root {
		b.parent[id], id = root, b.parent[id]
	}
	return root
}

// grow visits the free walkable minitiles by descending altitude. Each one
// joins its provisional neighbour, starts a new region or, when it touches
// two regions, either merges them or becomes a frontier cell.
func (b *regionBuilder) grow() {
	g := b.m.grid
	var order []int
	g.EachMiniTile(func(w geo.WalkPosition, mt *geo.MiniTile) {
		if mt.Walkable() && !mt.Blocked() {
			order = append(order, b.index(w))
		}
	})
	slices.SortStableFunc(order, func(i, j int) int {
		return cmp.Compare(g.MiniTile(b.pos(j)).Altitude(), g.MiniTile(b.pos(i)).Altitude())
	})

	for _, idx := range order {
		w := b.pos(idx)
		alt := g.MiniTile(w).Altitude()

		var first, second int32
		for _, d := range geo.Connect4.Offsets() {
			next := w.Add(d[0], d[1])
			if !g.ValidWalk(next) {
				continue
			}
			id := b.cellID[b.index(next)]
			if id == 0 {
				continue
			}
			id = b.find(id)
			if first == 0 {
				first = id
			} else if second == 0 && id != first {
				second = id
			}
		}

		switch {
		case first == 0:
			id := int32(len(b.areas))
			b.areas = append(b.areas, tempArea{top: w, highest: alt})
			b.parent = append(b.parent, id)
			b.add(idx, id)
		case second == 0:
			b.add(idx, first)
		default:
			bigger, smaller := first, second
			if b.areas[smaller].size > b.areas[bigger].size {
				bigger, smaller = smaller, bigger
			}
			if b.shouldMerge(w, alt, &b.areas[smaller], &b.areas[bigger]) {
				b.union(smaller, bigger)
				b.add(idx, bigger)
				continue
			}
			b.add(idx, b.choose(first, second))
			b.frontier = append(b.frontier, tempFrontier{a: first, b: second, pos: w})
		}
	}
}

func (b *regionBuilder) add(idx int, id int32) {
	b.cellID[idx] = id
	b.areas[id].size++
}

func (b *regionBuilder) union(from, into int32) {
	b.parent[from] = into
	src, dst := &b.areas[from], &b.areas[into]
	dst.size += src.size
	if src.highest > dst.highest {
		dst.top, dst.highest = src.top, src.highest
	}
}

func (b *regionBuilder) shouldMerge(w geo.WalkPosition, alt geo.Altitude, smaller, bigger *tempArea) bool {
	o := b.m.opts
	switch {
	case smaller.size < o.MergeMinSize:
		return true
	case smaller.highest < o.MergeMinAltitude:
		return true
	case float64(alt)/float64(bigger.highest) >= o.MergeAltitudeRatio:
		return true
	case float64(alt)/float64(smaller.highest) >= o.MergeAltitudeRatio:
		return true
	}
	return b.m.nearStartingLocation(w)
}

// choose alternates between the two regions of a frontier so both get a
// share of the contested cells.
func (b *regionBuilder) choose(a, c int32) int32 {
	key := [2]int32{min(a, c), max(a, c)}
	n := b.turns[key]
	b.turns[key] = n + 1
	if n%2 == 0 {
		return key[0]
	}
	return key[1]
}

// finalize folds provisional regions too small to stand alone into their
// largest neighbour, numbers the survivors 1..N in creation order and writes
// the ids to the minitiles. It returns the provisional root to id mapping.
func (b *regionBuilder) finalize() map[int32]geo.AreaID {
	g := b.m.grid
	members := make(map[int32][]int)
	for idx, id := range b.cellID {
		if id != 0 {
			root := b.find(id)
			members[root] = append(members[root], idx)
		}
	}

	var small []int32
	for root := range members {
		if b.areas[root].size < b.m.opts.AreaMinMiniTiles {
			small = append(small, root)
		}
	}
	slices.SortFunc(small, func(x, y int32) int {
		if c := cmp.Compare(b.areas[x].size, b.areas[y].size); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})

	for _, root := range small {
		if b.find(root) != root || b.areas[root].size >= b.m.opts.AreaMinMiniTiles {
			continue
		}
		var best int32
		for _, idx := range members[root] {
			w := b.pos(idx)
			for _, d := range geo.Connect8.Offsets() {
				next := w.Add(d[0], d[1])
				if !g.ValidWalk(next) {
					continue
				}
				id := b.cellID[b.index(next)]
				if id == 0 {
					continue
				}
				other := b.find(id)
				if other == root {
					continue
				}
				if best == 0 || b.areas[other].size > b.areas[best].size ||
					(b.areas[other].size == b.areas[best].size && other < best) {
					best = other
				}
			}
		}
		if best == 0 {
			continue
		}
		b.union(root, best)
		members[best] = append(members[best], members[root]...)
		delete(members, root)
	}

	roots := make([]int32, 0, len(members))
	for root := range members {
		roots = append(roots, root)
	}
	slices.Sort(roots)

	final := make(map[int32]geo.AreaID, len(roots))
	b.m.areas = make([]Area, 0, len(roots))
	for _, root := range roots {
		id := geo.AreaID(len(b.m.areas) + 1)
		final[root] = id
		b.m.areas = append(b.m.areas, Area{id: id, alive: true})
		for _, idx := range members[root] {
			g.MiniTile(b.pos(idx)).SetAreaID(id)
		}
	}
	for id := range b.areas {
		if id != 0 {
			if root := b.find(int32(id)); root != int32(id) {
				final[int32(id)] = final[root]
			}
		}
	}
	return final
}

// assignBlockedCells gives every walkable minitile under a blocking
// obstacle the id of the nearest region, spreading from the footprint edge.
// The cells stay flagged blocked.
func (m *Map) assignBlockedCells() {
	g := m.grid
	var queue []geo.WalkPosition
	var leftovers []geo.WalkPosition
	g.EachMiniTile(func(w geo.WalkPosition, mt *geo.MiniTile) {
		if mt.Walkable() && mt.Blocked() {
			leftovers = append(leftovers, w)
		}
		if mt.AreaID() == 0 {
			return
		}
		for _, d := range geo.Connect8.Offsets() {
			next := w.Add(d[0], d[1])
			if g.ValidWalk(next) && g.MiniTile(next).Blocked() && g.MiniTile(next).AreaID() == 0 {
				queue = append(queue, w)
				return
			}
		}
	})
	if len(leftovers) == 0 {
		return
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		id := g.MiniTile(current).AreaID()
		for _, d := range geo.Connect8.Offsets() {
			next := current.Add(d[0], d[1])
			if !g.ValidWalk(next) {
				continue
			}
			mt := g.MiniTile(next)
			if mt.Walkable() && mt.Blocked() && mt.AreaID() == 0 {
				mt.SetAreaID(id)
				queue = append(queue, next)
			}
		}
	}

	// Blocked pockets cut off by unwalkable cells take the closest region.
	for _, w := range leftovers {
		mt := g.MiniTile(w)
		if mt.AreaID() != 0 {
			continue
		}
		found, err := g.SearchWalk(w,
			func(_ geo.WalkPosition, other *geo.MiniTile) bool { return other.AreaID() != 0 },
			func(geo.WalkPosition, *geo.MiniTile) bool { return true },
			geo.Connect8)
		if err != nil {
			continue
		}
		mt.SetAreaID(g.MiniTile(found).AreaID())
	}
}

func (m *Map) nearStartingLocation(w geo.WalkPosition) bool {
	r := m.opts.StartMergeRadius
	t := w.Tile()
	for _, s := range m.startingLocations {
		c := s.Add(m.opts.BaseWidth/2, m.opts.BaseHeight/2)
		dx, dy := t.X-c.X, t.Y-c.Y
		if dx*dx+dy*dy <= r*r {
			return true
		}
	}
	return false
}

func orderedPair(a, b geo.AreaID) [2]geo.AreaID {
	if a > b {
		a, b = b, a
	}
	return [2]geo.AreaID{a, b}
}
