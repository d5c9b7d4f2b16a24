package geo

import (
	"errors"

	"github.com/zyedidia/generic/mapset"
)

// ErrSearchExhausted is returned when a breadth first search runs out of
// frontier before the find condition holds.
var ErrSearchExhausted = errors.New("breadth first search exhausted")

// Point is implemented by the lattice positions a traversal can walk.
type Point[P any] interface {
	comparable
	Add(dx, dy int) P
}

// BreadthFirstSearch explores from start and returns the first position for
// which find holds. find is tested on every valid neighbour reached; only
// neighbours for which visit holds are expanded. The start itself is tested
// with find before anything else.
//
// Callers are expected to guarantee that a target exists: when the frontier
// empties, ErrSearchExhausted is returned together with start.
func BreadthFirstSearch[P Point[P]](
	valid func(P) bool,
	start P,
	find, visit func(P) bool,
	conn Connectivity,
) (P, error) {
	found, ok, _ := search(valid, start, find, visit, conn)
	if !ok {
		return start, ErrSearchExhausted
	}
	return found, nil
}

// Flood returns every position reachable from start through positions for
// which visit holds, start included.
func Flood[P Point[P]](valid func(P) bool, start P, visit func(P) bool, conn Connectivity) mapset.Set[P] {
	_, _, visited := search(valid, start, func(P) bool { return false }, visit, conn)
	return visited
}

func search[P Point[P]](
	valid func(P) bool,
	start P,
	find, visit func(P) bool,
	conn Connectivity,
) (P, bool, mapset.Set[P]) {
	visited := mapset.New[P]()
	visited.Put(start)
	if find(start) {
		return start, true, visited
	}

	offsets := conn.Offsets()
	queue := []P{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, d := range offsets {
			next := current.Add(d[0], d[1])
			if !valid(next) {
				continue
			}
			if find(next) {
				return next, true, visited
			}
			if !visited.Has(next) && visit(next) {
				visited.Put(next)
				queue = append(queue, next)
			}
		}
	}

	var zero P
	return zero, false, visited
}

// SearchWalk runs BreadthFirstSearch over the minitiles of the grid.
func (g *Grid) SearchWalk(
	start WalkPosition,
	find, visit func(WalkPosition, *MiniTile) bool,
	conn Connectivity,
) (WalkPosition, error) {
	return BreadthFirstSearch(g.ValidWalk, start,
		func(w WalkPosition) bool { return find(w, g.MiniTile(w)) },
		func(w WalkPosition) bool { return visit(w, g.MiniTile(w)) },
		conn)
}

// SearchTile runs BreadthFirstSearch over the tiles of the grid.
func (g *Grid) SearchTile(
	start TilePosition,
	find, visit func(TilePosition, *Tile) bool,
	conn Connectivity,
) (TilePosition, error) {
	return BreadthFirstSearch(g.ValidTile, start,
		func(t TilePosition) bool { return find(t, g.Tile(t)) },
		func(t TilePosition) bool { return visit(t, g.Tile(t)) },
		conn)
}
