package sim

// blockedBy decides whether an occupant stops a mover from entering
// its cell. The greedy step algorithm is shared between fairies and
// workers; this predicate is the single place their policies differ.
type blockedBy func(occupant *Entity) bool

// blocksFairy: any live occupant blocks a fairy.
func blocksFairy(*Entity) bool {
	return true
}

// blocksDude: workers walk through stumps; everything else blocks.
// The asymmetry with fairy movement is a behavioral rule, not an
// oversight.
func blocksDude(occupant *Entity) bool {
	return occupant.kind != KindStump
}

// nextPosition takes one greedy step from pos toward dest: first
// horizontally along the sign of dx, then vertically if the
// horizontal step is unneeded or blocked, staying put when both are.
// A step onto an occupied cell is allowed only when the policy says
// the occupant does not block.
func (w *World) nextPosition(pos, dest Point, blocked blockedBy) Point {
	horiz := sign(dest.X - pos.X)
	next := Point{X: pos.X + horiz, Y: pos.Y}

	if horiz == 0 || w.cellBlocked(next, blocked) {
		vert := sign(dest.Y - pos.Y)
		next = Point{X: pos.X, Y: pos.Y + vert}

		if vert == 0 || w.cellBlocked(next, blocked) {
			next = pos
		}
	}
	return next
}

func (w *World) cellBlocked(pos Point, blocked blockedBy) bool {
	occupant, ok := w.Occupant(pos)
	if !ok {
		return false
	}
	return blocked(occupant)
}
