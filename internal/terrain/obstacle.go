package terrain

import (
	"fmt"
	"slices"

	"github.com/udisondev/geomap/internal/geo"
)

// Obstacle is a footprint-occupying entity: a resource or a static structure.
type Obstacle struct {
	id      geo.ObstacleID
	handle  uint64
	kind    Kind
	topLeft geo.TilePosition
	size    geo.TilePosition
	amount  int
	removed bool

	// One door cell per region the obstacle separates. Region ids are
	// resolved through the grid so they follow merges.
	blockedAt []geo.WalkPosition
}

func (o *Obstacle) ID() geo.ObstacleID        { return o.id }
func (o *Obstacle) Handle() uint64            { return o.handle }
func (o *Obstacle) Kind() Kind                { return o.kind }
func (o *Obstacle) TopLeft() geo.TilePosition { return o.topLeft }
func (o *Obstacle) Size() geo.TilePosition    { return o.size }
func (o *Obstacle) Amount() int               { return o.amount }
func (o *Obstacle) Removed() bool             { return o.removed }
func (o *Obstacle) Blocking() bool            { return len(o.blockedAt) > 0 }

func (o *Obstacle) BottomRight() geo.TilePosition {
	return o.topLeft.Add(o.size.X-1, o.size.Y-1)
}

// Pos returns the pixel center of the footprint.
func (o *Obstacle) Pos() geo.Position {
	return o.topLeft.Pixel().Add(o.size.X*geo.TileSize/2, o.size.Y*geo.TileSize/2)
}

func (o *Obstacle) eachTile(fn func(t geo.TilePosition)) {
	for dy := range o.size.Y {
		for dx := range o.size.X {
			fn(o.topLeft.Add(dx, dy))
		}
	}
}

func (o *Obstacle) eachMiniTile(fn func(w geo.WalkPosition)) {
	origin := o.topLeft.Walk()
	for dy := range o.size.Y * geo.MiniTilesPerTile {
		for dx := range o.size.X * geo.MiniTilesPerTile {
			fn(origin.Add(dx, dy))
		}
	}
}

// obstacle returns the live or removed obstacle with the given id, or nil.
func (m *Map) obstacle(id geo.ObstacleID) *Obstacle {
	if id <= 0 || int(id) > len(m.obstacles) {
		return nil
	}
	return &m.obstacles[id-1]
}

func (m *Map) addObstacle(in ObstacleInput) error {
	m.obstacles = append(m.obstacles, Obstacle{
		id:      geo.ObstacleID(len(m.obstacles) + 1),
		handle:  in.Handle,
		kind:    in.Kind,
		topLeft: in.TopLeft,
		size:    in.Size,
		amount:  in.Amount,
	})
	o := &m.obstacles[len(m.obstacles)-1]
	m.byHandle[o.handle] = o.id
	return m.place(o)
}

// place puts o on its footprint. An occupied footprint must hold a stack
// of the same kind, top-left and size, and geysers never stack.
func (m *Map) place(o *Obstacle) error {
	if stack, ok := m.stacks[o.topLeft]; ok {
		head := m.obstacle(stack[0])
		switch {
		case head.kind == Geyser:
			return m.internal("place", fmt.Errorf("%w: geyser %d at %v cannot be stacked", ErrStackMismatch, head.handle, o.topLeft))
		case head.kind != o.kind:
			return m.internal("place", fmt.Errorf("%w: %s on %s at %v", ErrStackMismatch, o.kind, head.kind, o.topLeft))
		case head.size != o.size:
			return m.internal("place", fmt.Errorf("%w: size %v on %v at %v", ErrStackMismatch, o.size, head.size, o.topLeft))
		}
		m.stacks[o.topLeft] = append(stack, o.id)
		return nil
	}

	var clash geo.ObstacleID
	o.eachTile(func(t geo.TilePosition) {
		if id := m.grid.Tile(t).Obstacle(); id != 0 && clash == 0 {
			clash = id
		}
	})
	if clash != 0 {
		other := m.obstacle(clash)
		return m.internal("place", fmt.Errorf("%w: obstacle %d at %v overlaps obstacle %d at %v",
			ErrStackMismatch, o.handle, o.topLeft, other.handle, other.topLeft))
	}

	o.eachTile(func(t geo.TilePosition) { m.grid.Tile(t).SetObstacle(o.id) })
	m.stacks[o.topLeft] = []geo.ObstacleID{o.id}
	return nil
}

// remove takes o off the grid and returns the obstacle now heading its
// stack, or 0 when the footprint is free.
func (m *Map) remove(o *Obstacle) (geo.ObstacleID, error) {
	if o.removed {
		return 0, m.internal("remove", fmt.Errorf("%w: %s %d", ErrObstacleRemoved, o.kind, o.handle))
	}
	stack := m.stacks[o.topLeft]
	idx := slices.Index(stack, o.id)
	if idx < 0 {
		return 0, m.internal("remove", fmt.Errorf("%w: %s %d missing from stack at %v", ErrStackMismatch, o.kind, o.handle, o.topLeft))
	}
	stack = slices.Delete(stack, idx, idx+1)

	var head geo.ObstacleID
	if len(stack) > 0 {
		head = stack[0]
	}
	if idx == 0 {
		var broken bool
		o.eachTile(func(t geo.TilePosition) {
			tile := m.grid.Tile(t)
			if tile.Obstacle() != o.id {
				broken = true
			}
			tile.SetObstacle(head)
		})
		if broken {
			return 0, m.internal("remove", fmt.Errorf("%w: footprint of %s %d not owned by it", ErrStackMismatch, o.kind, o.handle))
		}
	}

	if len(stack) == 0 {
		delete(m.stacks, o.topLeft)
	} else {
		m.stacks[o.topLeft] = stack
	}
	o.removed = true
	return head, nil
}

// blockedAreas resolves the regions a blocking obstacle separates, without
// duplicates, in door order.
func (m *Map) blockedAreas(o *Obstacle) []geo.AreaID {
	var ids []geo.AreaID
	for _, w := range o.blockedAt {
		id := m.grid.MiniTile(w).AreaID()
		if id != 0 && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// BlockedAreas returns the regions o separates. Empty when o is not blocking.
func (m *Map) BlockedAreas(o *Obstacle) []geo.AreaID {
	return m.blockedAreas(o)
}

// Stack returns the obstacles stacked on the footprint at topLeft, head first.
func (m *Map) Stack(topLeft geo.TilePosition) []*Obstacle {
	ids := m.stacks[topLeft]
	out := make([]*Obstacle, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.obstacle(id))
	}
	return out
}

// Obstacle returns the obstacle with the given external handle.
func (m *Map) Obstacle(handle uint64) (*Obstacle, bool) {
	id, ok := m.byHandle[handle]
	if !ok {
		return nil, false
	}
	return m.obstacle(id), true
}

// Obstacles returns the obstacles still on the map, in input order.
func (m *Map) Obstacles() []*Obstacle { return m.obstaclesOf(0) }

func (m *Map) Minerals() []*Obstacle         { return m.obstaclesOf(Mineral) }
func (m *Map) Geysers() []*Obstacle          { return m.obstaclesOf(Geyser) }
func (m *Map) StaticStructures() []*Obstacle { return m.obstaclesOf(StaticStructure) }

func (m *Map) obstaclesOf(kind Kind) []*Obstacle {
	var out []*Obstacle
	for i := range m.obstacles {
		o := &m.obstacles[i]
		if o.removed || (kind != 0 && o.kind != kind) {
			continue
		}
		out = append(out, o)
	}
	return out
}
