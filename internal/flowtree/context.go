package flowtree

// TickContext is threaded through every Node.Tick call during one
// tree.Tick invocation. It carries the state the tree is ticking
// against, the elapsed ticks for this step, the shared call stack (shared
// across self- and mutually-recursive sub-trees), and the pending-Return
// signal.
type TickContext struct {
	State State
	Delta int64
	Stack *CallStack

	returned    bool
	returnValue Status
}

// signalReturn marks that a Return node fired; every ancestor up the current
// tick's call chain must stop processing and propagate returnValue as-is.
func (tc *TickContext) signalReturn(s Status) {
	tc.returned = true
	tc.returnValue = s
}

// Returned reports whether a Return node has fired during this tick, and if
// so, the status it chose.
func (tc *TickContext) Returned() (Status, bool) {
	return tc.returnValue, tc.returned
}
