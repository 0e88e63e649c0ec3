package flowtree

// State is the user-supplied data a tree ticks against. The only contract
// the engine imposes is the parent link state-injecting sub-trees use to
// chain a child's state back to its caller's.
type State interface {
	Parent() State
	SetParent(State)
}

// BaseState is an embeddable State implementation; most callers embed this
// rather than implementing Parent/SetParent by hand.
type BaseState struct {
	parent State
}

func (s *BaseState) Parent() State     { return s.parent }
func (s *BaseState) SetParent(p State) { s.parent = p }

// Node is a single element of a tree: composite, decorator, or leaf. Tick is
// called with the recursion depth assigned by the owning call frame.
//
// Reset clears whatever per-depth state the node owns, recursively for any
// children, as if the node had never been ticked. It is invoked by Tree.Reset
// and by a node on itself once its own tick reaches a terminal status at a
// given depth (the node resets only that depth's slot in the latter case;
// Tree.Reset clears all depths at once).
type Node interface {
	Tick(tc *TickContext, depth int) Status
	Reset()
}

// resetAll is a small helper for composite nodes resetting every child.
func resetAll(children []Node) {
	for _, c := range children {
		c.Reset()
	}
}
