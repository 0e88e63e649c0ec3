package broadphase

// bvh is the zero-margin dynamic tree: the default strategy.
// Add/Remove/Update/Query are O(log n) and no world bounds are required.
type bvh struct {
	*dynamicTree
}

func newBVH() *bvh {
	return &bvh{dynamicTree: newDynamicTree(0)}
}
