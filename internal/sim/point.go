package sim

// Point identifies a single cell on the world grid.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceSquared returns the squared Euclidean distance between two cells.
func (p Point) DistanceSquared(other Point) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// Adjacent reports whether other is one of the eight neighbouring cells.
// A point is not adjacent to itself.
func (p Point) Adjacent(other Point) bool {
	d := p.DistanceSquared(other)
	return d > 0 && d <= 2
}

// sign collapses a coordinate delta to a single-cell step.
func sign(delta int) int {
	switch {
	case delta > 0:
		return 1
	case delta < 0:
		return -1
	default:
		return 0
	}
}
