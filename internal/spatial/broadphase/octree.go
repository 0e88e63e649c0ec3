package broadphase

import "github.com/ridgeline-games/enginecore/internal/domain"

// octree is a bounded, loose octree: a shape is stored at the smallest node
// whose box fully contains the shape's AABB, rather than being pushed down
// into (and split across) multiple children, so Remove/Update never have to
// touch more than one node's bucket. Requires a bounded world; best for
// sparse distributions.
type octree struct {
	bounds   domain.AABB
	maxDepth int
	root     *octreeNode
	byIndex  map[int]*octreeNode
}

type octreeNode struct {
	bounds   domain.AABB
	depth    int
	children [8]*octreeNode
	items    map[int]domain.AABB
}

func newOctree(bounds domain.AABB, maxDepth int) *octree {
	if maxDepth <= 0 {
		maxDepth = 8
	}
	return &octree{
		bounds:   bounds,
		maxDepth: maxDepth,
		root:     &octreeNode{bounds: bounds, items: make(map[int]domain.AABB)},
		byIndex:  make(map[int]*octreeNode),
	}
}

func octreeChildBounds(parent domain.AABB, octant int) domain.AABB {
	c := parent.Center()
	min, max := parent.Min, parent.Max
	var lo, hi domain.Vector3
	if octant&1 != 0 {
		lo.X, hi.X = c.X, max.X
	} else {
		lo.X, hi.X = min.X, c.X
	}
	if octant&2 != 0 {
		lo.Y, hi.Y = c.Y, max.Y
	} else {
		lo.Y, hi.Y = min.Y, c.Y
	}
	if octant&4 != 0 {
		lo.Z, hi.Z = c.Z, max.Z
	} else {
		lo.Z, hi.Z = min.Z, c.Z
	}
	return domain.AABB{Min: lo, Max: hi}
}

// place descends from n as far as a single child fully contains box,
// creating children lazily, and returns the node the item should live in.
func (o *octree) place(n *octreeNode, box domain.AABB) *octreeNode {
	if n.depth >= o.maxDepth {
		return n
	}
	for octant := 0; octant < 8; octant++ {
		childBounds := octreeChildBounds(n.bounds, octant)
		if aabbContains(childBounds, box) {
			if n.children[octant] == nil {
				n.children[octant] = &octreeNode{
					bounds: childBounds,
					depth:  n.depth + 1,
					items:  make(map[int]domain.AABB),
				}
			}
			return o.place(n.children[octant], box)
		}
	}
	return n
}

// Add implements Strategy. A shape whose AABB falls outside the world
// bounds entirely is stored at the root rather than dropped, so out-of-
// bounds shapes are still queryable (a conservative fallback, not a silent
// loss).
func (o *octree) Add(index int, box domain.AABB) {
	if _, exists := o.byIndex[index]; exists {
		return
	}
	n := o.root
	if o.bounds.Overlaps(box) {
		n = o.place(o.root, box)
	}
	n.items[index] = box
	o.byIndex[index] = n
}

// Remove implements Strategy.
func (o *octree) Remove(index int) {
	n, ok := o.byIndex[index]
	if !ok {
		return
	}
	delete(n.items, index)
	delete(o.byIndex, index)
}

// Update implements Strategy: always a remove+reinsert, since the loose
// octree's placement only depends on the new AABB, not the old one.
func (o *octree) Update(index int, _ domain.AABB, newBox domain.AABB) {
	if _, ok := o.byIndex[index]; !ok {
		return
	}
	o.Remove(index)
	o.Add(index, newBox)
}

// Query implements Strategy via a depth-first walk that prunes any subtree
// whose bounds don't overlap the query box.
func (o *octree) Query(box domain.AABB, out []int) (int, error) {
	count := 0
	truncated := false
	var walk func(n *octreeNode)
	walk = func(n *octreeNode) {
		if n == nil || !n.bounds.Overlaps(box) {
			// Root is always walked regardless of bounds, since out-of-
			// world shapes are stashed there unconditionally.
			if n != o.root {
				return
			}
		}
		for idx, itemBox := range n.items {
			if !itemBox.Overlaps(box) {
				continue
			}
			if count >= len(out) {
				truncated = true
				continue
			}
			out[count] = idx
			count++
		}
		for _, child := range n.children {
			walk(child)
		}
	}
	walk(o.root)
	if truncated {
		return count, errBufferExhausted("octree")
	}
	return count, nil
}

// Clear implements Strategy.
func (o *octree) Clear() {
	o.root = &octreeNode{bounds: o.bounds, items: make(map[int]domain.AABB)}
	o.byIndex = make(map[int]*octreeNode)
}
