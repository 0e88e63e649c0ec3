package broadphase

// dbvt is the dynamic tree with a positive leaf margin: small moves stay
// inside the fattened box and are O(1); larger ones fall through to a
// remove+reinsert relink, so small moves are O(1).
type dbvt struct {
	*dynamicTree
}

func newDBVT(margin float32) *dbvt {
	if margin <= 0 {
		margin = 0.1
	}
	return &dbvt{dynamicTree: newDynamicTree(margin)}
}
