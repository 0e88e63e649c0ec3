package broadphase

import "github.com/ridgeline-games/enginecore/internal/domain"

// multiBoxPruning splits a bounded world into a fixed grid of regions; each
// region keeps its members in an array sorted along X (a sweep-and-prune
// list), so a region's own Query only has to scan until the sorted minimum
// exceeds the query box's maximum. Requires world bounds: space is split
// into a fixed grid of regions, each maintaining its own sweep-and-prune
// list. A shape overlapping
// several regions is registered in each; Query dedupes across regions with
// a per-call visited set.
type multiBoxPruning struct {
	bounds   domain.AABB
	cellSize float32
	dims     [3]int
	regions  map[int]*sapRegion
	members  map[int][]int // registry index -> region keys it's registered in
	boxes    map[int]domain.AABB
}

type sapRegion struct {
	entries []sapEntry // kept sorted by entries[i].box.Min.X
}

type sapEntry struct {
	index int
	box   domain.AABB
}

func newMultiBoxPruning(bounds domain.AABB, cellSize float32) *multiBoxPruning {
	if cellSize <= 0 {
		cellSize = 8
	}
	size := bounds.Max.Sub(bounds.Min)
	dims := [3]int{
		maxInt(1, int(size.X/cellSize)+1),
		maxInt(1, int(size.Y/cellSize)+1),
		maxInt(1, int(size.Z/cellSize)+1),
	}
	return &multiBoxPruning{
		bounds:   bounds,
		cellSize: cellSize,
		dims:     dims,
		regions:  make(map[int]*sapRegion),
		members:  make(map[int][]int),
		boxes:    make(map[int]domain.AABB),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (m *multiBoxPruning) cellCoord(p domain.Vector3) (int, int, int) {
	cx := clampInt(int((p.X-m.bounds.Min.X)/m.cellSize), 0, m.dims[0]-1)
	cy := clampInt(int((p.Y-m.bounds.Min.Y)/m.cellSize), 0, m.dims[1]-1)
	cz := clampInt(int((p.Z-m.bounds.Min.Z)/m.cellSize), 0, m.dims[2]-1)
	return cx, cy, cz
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m *multiBoxPruning) regionKey(cx, cy, cz int) int {
	return (cz*m.dims[1]+cy)*m.dims[0] + cx
}

// overlappingRegions returns every region key whose cell AABB the given box
// touches.
func (m *multiBoxPruning) overlappingRegions(box domain.AABB) []int {
	x0, y0, z0 := m.cellCoord(box.Min)
	x1, y1, z1 := m.cellCoord(box.Max)
	keys := make([]int, 0, (x1-x0+1)*(y1-y0+1)*(z1-z0+1))
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				keys = append(keys, m.regionKey(x, y, z))
			}
		}
	}
	return keys
}

func (m *multiBoxPruning) insertSorted(r *sapRegion, e sapEntry) {
	i := 0
	for i < len(r.entries) && r.entries[i].box.Min.X < e.box.Min.X {
		i++
	}
	r.entries = append(r.entries, sapEntry{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = e
}

// Add implements Strategy.
func (m *multiBoxPruning) Add(index int, box domain.AABB) {
	if _, exists := m.boxes[index]; exists {
		return
	}
	m.boxes[index] = box
	keys := m.overlappingRegions(box)
	m.members[index] = keys
	for _, key := range keys {
		r, ok := m.regions[key]
		if !ok {
			r = &sapRegion{}
			m.regions[key] = r
		}
		m.insertSorted(r, sapEntry{index: index, box: box})
	}
}

func (m *multiBoxPruning) removeFromRegion(key, index int) {
	r, ok := m.regions[key]
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
func (m *multiBoxPruning) Remove(index int) {
	keys, ok := m.members[index]
	if !ok {
		return
	}
	for _, key := range keys {
		m.removeFromRegion(key, index)
	}
	delete(m.members, index)
	delete(m.boxes, index)
}

// Update implements Strategy.
func (m *multiBoxPruning) Update(index int, _ domain.AABB, newBox domain.AABB) {
	if _, ok := m.boxes[index]; !ok {
		return
	}
	m.Remove(index)
	m.Add(index, newBox)
}

// Query implements Strategy.
func (m *multiBoxPruning) Query(box domain.AABB, out []int) (int, error) {
	visited := make(map[int]struct{})
	count := 0
	truncated := false
	for _, key := range m.overlappingRegions(box) {
		r, ok := m.regions[key]
		if !ok {
			continue
		}
		for _, e := range r.entries {
			if e.box.Min.X > box.Max.X {
				break // sorted by Min.X: nothing further in this region can overlap
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
		return count, errBufferExhausted("mbp")
	}
	return count, nil
}

// Clear implements Strategy.
func (m *multiBoxPruning) Clear() {
	m.regions = make(map[int]*sapRegion)
	m.members = make(map[int][]int)
	m.boxes = make(map[int]domain.AABB)
}
