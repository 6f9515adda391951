package sim

// EntitySnapshot is a read-only copy of an entity's observable state,
// safe to serialize after the world lock is released.
type EntitySnapshot struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Frame         int    `json:"frame"`
	Health        int    `json:"health,omitempty"`
	HealthLimit   int    `json:"healthLimit,omitempty"`
	ResourceCount int    `json:"resourceCount,omitempty"`
	ResourceLimit int    `json:"resourceLimit,omitempty"`
}

// Snapshot copies every live entity in insertion order.
func (w *World) Snapshot() []EntitySnapshot {
	out := make([]EntitySnapshot, 0, len(w.order))
	for _, id := range w.order {
		entity, ok := w.entities[id]
		if !ok {
			continue
		}
		out = append(out, EntitySnapshot{
			ID:            entity.ID,
			Kind:          string(entity.kind),
			X:             entity.Position.X,
			Y:             entity.Position.Y,
			Frame:         entity.Frame,
			Health:        entity.Health,
			HealthLimit:   entity.HealthLimit,
			ResourceCount: entity.ResourceCount,
			ResourceLimit: entity.ResourceLimit,
		})
	}
	return out
}

// BackgroundSnapshot copies the background tile IDs row by row.
func (w *World) BackgroundSnapshot() [][]string {
	out := make([][]string, w.rows)
	for y := 0; y < w.rows; y++ {
		row := make([]string, w.cols)
		for x := 0; x < w.cols; x++ {
			row[x] = w.background[y][x].ID
		}
		out[y] = row
	}
	return out
}
