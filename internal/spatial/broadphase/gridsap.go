package broadphase

import "github.com/ridgeline-games/enginecore/internal/domain"

// gridSAP is an unbounded uniform grid over the X/Z plane (Y is ignored for
// cell assignment: shapes are bucketed as if dropped straight down, which
// is the usual assumption for things moving across open ground) with a
// sweep-and-prune list per cell along a configurable primary axis (X, Z,
// or the both-axes XZ filter). Unlike MBP it requires no world
// bounds: cells are created lazily in a sparse map keyed by grid
// coordinate.
type gridSAP struct {
	cellSize float32
	axis     Axis
	cells    map[gridKey]*sapRegion
	members  map[int][]gridKey
	boxes    map[int]domain.AABB
}

type gridKey struct{ cx, cz int64 }

func newGridSAP(cellSize float32, axis Axis) *gridSAP {
	if cellSize <= 0 {
		cellSize = 8
	}
	return &gridSAP{
		cellSize: cellSize,
		axis:     axis,
		cells:    make(map[gridKey]*sapRegion),
		members:  make(map[int][]gridKey),
		boxes:    make(map[int]domain.AABB),
	}
}

func (g *gridSAP) cellIndex(v float32) int64 {
	return int64(v / g.cellSize) // truncation toward zero is fine for a bucket id, not a coordinate
}

func (g *gridSAP) cellsFor(box domain.AABB) []gridKey {
	x0, x1 := g.cellIndex(box.Min.X), g.cellIndex(box.Max.X)
	z0, z1 := g.cellIndex(box.Min.Z), g.cellIndex(box.Max.Z)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if z1 < z0 {
		z0, z1 = z1, z0
	}
	keys := make([]gridKey, 0, (x1-x0+1)*(z1-z0+1))
	for x := x0; x <= x1; x++ {
		for z := z0; z <= z1; z++ {
			keys = append(keys, gridKey{cx: x, cz: z})
		}
	}
	return keys
}

// sortKey returns the coordinate entries within a region are sorted by,
// per g.axis (AxisXZ sorts by X and relies on the final AABB.Overlaps check
// to apply the Z filter, acting as a both-axes filter).
func (g *gridSAP) sortKey(box domain.AABB) float32 {
	if g.axis == AxisZ {
		return box.Min.Z
	}
	return box.Min.X
}

func (g *gridSAP) maxKey(box domain.AABB) float32 {
	if g.axis == AxisZ {
		return box.Max.Z
	}
	return box.Max.X
}

func (g *gridSAP) insertSorted(r *sapRegion, e sapEntry) {
	key := g.sortKey(e.box)
	i := 0
	for i < len(r.entries) && g.sortKey(r.entries[i].box) < key {
		i++
	}
	r.entries = append(r.entries, sapEntry{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = e
}

// Add implements Strategy.
func (g *gridSAP) Add(index int, box domain.AABB) {
	if _, exists := g.boxes[index]; exists {
		return
	}
	g.boxes[index] = box
	keys := g.cellsFor(box)
	g.members[index] = keys
	for _, key := range keys {
		r, ok := g.cells[key]
		if !ok {
			r = &sapRegion{}
			g.cells[key] = r
		}
		g.insertSorted(r, sapEntry{index: index, box: box})
	}
}

func (g *gridSAP) removeFromCell(key gridKey, index int) {
	r, ok := g.cells[key]
	if !ok {
		return
	}
	for i, e := range r.entries {
		if e.index == index {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
}

// Remove implements Strategy.
func (g *gridSAP) Remove(index int) {
	keys, ok := g.members[index]
	if !ok {
		return
	}
	for _, key := range keys {
		g.removeFromCell(key, index)
	}
	delete(g.members, index)
	delete(g.boxes, index)
}

// Update implements Strategy.
func (g *gridSAP) Update(index int, _ domain.AABB, newBox domain.AABB) {
	if _, ok := g.boxes[index]; !ok {
		return
	}
	g.Remove(index)
	g.Add(index, newBox)
}

// Query implements Strategy.
func (g *gridSAP) Query(box domain.AABB, out []int) (int, error) {
	visited := make(map[int]struct{})
	count := 0
	truncated := false
	queryMax := g.maxKey(box)
	for _, key := range g.cellsFor(box) {
		r, ok := g.cells[key]
		if !ok {
			continue
		}
		for _, e := range r.entries {
			if g.sortKey(e.box) > queryMax {
				break
			}
			if _, seen := visited[e.index]; seen {
				continue
			}
			if !e.box.Overlaps(box) {
				continue
			}
			visited[e.index] = struct{}{}
			if count >= len(out) {
				truncated = true
				continue
			}
			out[count] = e.index
			count++
		}
	}
	if truncated {
		return count, errBufferExhausted("gridsap")
	}
	return count, nil
}

// Clear implements Strategy.
func (g *gridSAP) Clear() {
	g.cells = make(map[gridKey]*sapRegion)
	g.members = make(map[int][]gridKey)
	g.boxes = make(map[int]domain.AABB)
}
