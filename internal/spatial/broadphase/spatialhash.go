package broadphase

import "github.com/ridgeline-games/enginecore/internal/domain"

// spatialHash is an unbounded uniform-cell hash: each shape is registered
// into every 3D cell its AABB overlaps, giving expected O(1) Add/Remove and
// a Query cost proportional to the cells the query box touches.
// Unlike gridSAP's cells (which keep a sorted sweep list), a hash cell is
// just an unordered set; there is no per-cell ordering to exploit since
// every member of a touched cell is, by definition, a candidate.
type spatialHash struct {
	cellSize float32
	cells    map[hashKey]map[int]struct{}
	members  map[int][]hashKey
	boxes    map[int]domain.AABB
}

type hashKey struct{ cx, cy, cz int64 }

func newSpatialHash(cellSize float32) *spatialHash {
	if cellSize <= 0 {
		cellSize = 8
	}
	return &spatialHash{
		cellSize: cellSize,
		cells:    make(map[hashKey]map[int]struct{}),
		members:  make(map[int][]hashKey),
		boxes:    make(map[int]domain.AABB),
	}
}

func (h *spatialHash) idx(v float32) int64 {
	return int64(v / h.cellSize)
}

func (h *spatialHash) cellsFor(box domain.AABB) []hashKey {
	x0, x1 := h.idx(box.Min.X), h.idx(box.Max.X)
	y0, y1 := h.idx(box.Min.Y), h.idx(box.Max.Y)
	z0, z1 := h.idx(box.Min.Z), h.idx(box.Max.Z)
	keys := make([]hashKey, 0, (x1-x0+1)*(y1-y0+1)*(z1-z0+1))
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for z := z0; z <= z1; z++ {
				keys = append(keys, hashKey{cx: x, cy: y, cz: z})
			}
		}
	}
	return keys
}

// Add implements Strategy.
func (h *spatialHash) Add(index int, box domain.AABB) {
	if _, exists := h.boxes[index]; exists {
		return
	}
	h.boxes[index] = box
	keys := h.cellsFor(box)
	h.members[index] = keys
	for _, key := range keys {
		set, ok := h.cells[key]
		if !ok {
			set = make(map[int]struct{})
			h.cells[key] = set
		}
		set[index] = struct{}{}
	}
}

// Remove implements Strategy.
func (h *spatialHash) Remove(index int) {
	keys, ok := h.members[index]
	if !ok {
		return
	}
	for _, key := range keys {
		if set, ok := h.cells[key]; ok {
			delete(set, index)
			if len(set) == 0 {
				delete(h.cells, key)
			}
		}
	}
	delete(h.members, index)
	delete(h.boxes, index)
}

// Update implements Strategy.
func (h *spatialHash) Update(index int, _ domain.AABB, newBox domain.AABB) {
	if _, ok := h.boxes[index]; !ok {
		return
	}
	h.Remove(index)
	h.Add(index, newBox)
}

// Query implements Strategy.
func (h *spatialHash) Query(box domain.AABB, out []int) (int, error) {
	visited := make(map[int]struct{})
	count := 0
	truncated := false
	for _, key := range h.cellsFor(box) {
		set, ok := h.cells[key]
		if !ok {
			continue
		}
		for index := range set {
			if _, seen := visited[index]; seen {
				continue
			}
			if !h.boxes[index].Overlaps(box) {
				continue
			}
			visited[index] = struct{}{}
			if count >= len(out) {
				truncated = true
				continue
			}
			out[count] = index
			count++
		}
	}
	if truncated {
		return count, errBufferExhausted("spatialhash")
	}
	return count, nil
}

// Clear implements Strategy.
func (h *spatialHash) Clear() {
	h.cells = make(map[hashKey]map[int]struct{})
	h.members = make(map[int][]hashKey)
	h.boxes = make(map[int]domain.AABB)
}
