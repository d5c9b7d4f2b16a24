package geo

// LineIterator steps through the minitiles of a 2D Bresenham line,
// start and target included.
type LineIterator struct {
	current, target WalkPosition
	deltaX, deltaY  int
	stepX, stepY    int
	err             int
	xDominant       bool
	started         bool
}

// NewLineIterator creates an iterator from a to b.
func NewLineIterator(a, b WalkPosition) *LineIterator {
	it := &LineIterator{current: a, target: b}

	it.deltaX = abs(b.X - a.X)
	it.deltaY = abs(b.Y - a.Y)

	it.stepX = 1
	if a.X > b.X {
		it.stepX = -1
	}
	it.stepY = 1
	if a.Y > b.Y {
		it.stepY = -1
	}

	it.xDominant = it.deltaX >= it.deltaY
	if it.xDominant {
		it.err = it.deltaX / 2
	} else {
		it.err = it.deltaY / 2
	}
	return it
}

// Next advances the iterator. Returns false once the target was produced.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true
	}
	if it.current == it.target {
		return false
	}

	if it.xDominant {
		it.current.X += it.stepX
		it.err += it.deltaY
		if it.err >= it.deltaX {
			it.current.Y += it.stepY
			it.err -= it.deltaX
		}
	} else {
		it.current.Y += it.stepY
		it.err += it.deltaX
		if it.err >= it.deltaY {
			it.current.X += it.stepX
			it.err -= it.deltaY
		}
	}
	return true
}

// Pos returns the current minitile.
func (it *LineIterator) Pos() WalkPosition { return it.current }

// Line returns the minitiles from a to b.
func Line(a, b WalkPosition) []WalkPosition {
	it := NewLineIterator(a, b)
	points := make([]WalkPosition, 0, max(it.deltaX, it.deltaY)+1)
	for it.Next() {
		points = append(points, it.Pos())
	}
	return points
}
