package geo

import (
	"fmt"
	"math"
)

// Position is a pixel coordinate.
type Position struct {
	X, Y int
}

// WalkPosition addresses a minitile.
type WalkPosition struct {
	X, Y int
}

// TilePosition addresses a tile.
type TilePosition struct {
	X, Y int
}

// Pt, Wp and Tp are shorthand constructors.
func Pt(x, y int) Position     { return Position{X: x, Y: y} }
func Wp(x, y int) WalkPosition { return WalkPosition{X: x, Y: y} }
func Tp(x, y int) TilePosition { return TilePosition{X: x, Y: y} }

func (p Position) Add(dx, dy int) Position         { return Position{p.X + dx, p.Y + dy} }
func (w WalkPosition) Add(dx, dy int) WalkPosition { return WalkPosition{w.X + dx, w.Y + dy} }
func (t TilePosition) Add(dx, dy int) TilePosition { return TilePosition{t.X + dx, t.Y + dy} }

func (p Position) String() string     { return fmt.Sprintf("(%d, %d)px", p.X, p.Y) }
func (w WalkPosition) String() string { return fmt.Sprintf("(%d, %d)w", w.X, w.Y) }
func (t TilePosition) String() string { return fmt.Sprintf("(%d, %d)t", t.X, t.Y) }

// Walk converts a pixel position to the minitile containing it.
func (p Position) Walk() WalkPosition {
	return WalkPosition{floorDiv(p.X, MiniTileSize), floorDiv(p.Y, MiniTileSize)}
}

// Tile converts a pixel position to the tile containing it.
func (p Position) Tile() TilePosition {
	return TilePosition{floorDiv(p.X, TileSize), floorDiv(p.Y, TileSize)}
}

// Tile returns the tile containing the minitile.
func (w WalkPosition) Tile() TilePosition {
	return TilePosition{floorDiv(w.X, MiniTilesPerTile), floorDiv(w.Y, MiniTilesPerTile)}
}

// Center returns the pixel at the center of the minitile.
func (w WalkPosition) Center() Position {
	return Position{w.X*MiniTileSize + MiniTileSize/2, w.Y*MiniTileSize + MiniTileSize/2}
}

// Walk returns the top-left minitile of the tile.
func (t TilePosition) Walk() WalkPosition {
	return WalkPosition{t.X * MiniTilesPerTile, t.Y * MiniTilesPerTile}
}

// Pixel returns the top-left pixel of the tile.
func (t TilePosition) Pixel() Position {
	return Position{t.X * TileSize, t.Y * TileSize}
}

// Center returns the pixel at the center of the tile.
func (t TilePosition) Center() Position {
	return Position{t.X*TileSize + TileSize/2, t.Y*TileSize + TileSize/2}
}

// Dist returns the euclidean distance between two pixel positions.
func Dist(a, b Position) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// RoundedDist returns Dist rounded to the nearest pixel.
func RoundedDist(a, b Position) int {
	return int(0.5 + Dist(a, b))
}

// WalkDist returns the euclidean distance between two minitiles, in minitiles.
func WalkDist(a, b WalkPosition) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// QueenWiseDist is the chebyshev distance between two tiles.
func QueenWiseDist(a, b TilePosition) int {
	return max(abs(a.X-b.X), abs(a.Y-b.Y))
}

// DistToRectangle returns the pixel distance from a to the tile rectangle
// starting at topLeft with the given size. Zero when a is inside.
func DistToRectangle(a Position, topLeft, size TilePosition) int {
	tl := topLeft.Pixel()
	br := topLeft.Add(size.X, size.Y).Pixel().Add(-1, -1)

	dx := 0
	if a.X < tl.X {
		dx = tl.X - a.X
	} else if a.X > br.X {
		dx = a.X - br.X
	}
	dy := 0
	if a.Y < tl.Y {
		dy = tl.Y - a.Y
	} else if a.Y > br.Y {
		dy = a.Y - br.Y
	}
	if dx == 0 || dy == 0 {
		return dx + dy
	}
	return RoundedDist(Position{}, Position{dx, dy})
}

// OuterBorder returns the minitiles surrounding the tile rectangle, corners included.
func OuterBorder(topLeft, size TilePosition) []WalkPosition {
	tl := topLeft.Walk().Add(-1, -1)
	w := size.X*MiniTilesPerTile + 2
	h := size.Y*MiniTilesPerTile + 2

	border := make([]WalkPosition, 0, 2*(w+h))
	for dy := range h {
		for dx := range w {
			if dy == 0 || dy == h-1 || dx == 0 || dx == w-1 {
				border = append(border, tl.Add(dx, dy))
			}
		}
	}
	return border
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
