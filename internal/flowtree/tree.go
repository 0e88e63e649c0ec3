package flowtree

import "github.com/ridgeline-games/enginecore/internal/domain"

// DefaultMaxCallDepth bounds the call stack when a Tree is constructed
// without an explicit depth (0 would mean unbounded, which makes runaway
// mutual recursion fatal rather than a controlled Failure).
const DefaultMaxCallDepth = 64

// Tree owns a root Node and the state it ticks against. Trees are built via
// Builder and finalized with Complete, after which Root is fixed for the
// purposes of any tick already in flight (a later SetRoot takes effect only
// on the next fresh Tick call, per the builder/replace-root rule).
type Tree struct {
	name         string
	root         Node
	state        State
	maxCallDepth int
}

// New constructs an empty, unbuilt Tree. Use NewBuilder(tree) to populate it.
func New(name string) *Tree {
	return &Tree{name: name, maxCallDepth: DefaultMaxCallDepth}
}

// Name returns the tree's identifying name (used by the named-tree registry
// and in error messages).
func (t *Tree) Name() string { return t.name }

// SetMaxCallDepth overrides the call-stack bound used by this tree's own
// top-level Tick calls (sub-tree descents still share whatever stack the
// outermost Tick created, bounded by that tree's own maxCallDepth).
func (t *Tree) SetMaxCallDepth(n int) { t.maxCallDepth = n }

// SetState attaches the state object ticks run against.
func (t *Tree) SetState(s State) { t.state = s }

// State returns the tree's current state.
func (t *Tree) State() State { return t.state }

// SetRoot installs root as the tree's entry node. Safe to call mid-execution;
// the change is observed starting with the next top-level Tick call.
func (t *Tree) SetRoot(root Node) { t.root = root }

// Root returns the tree's current root node, or nil if never set.
func (t *Tree) Root() Node { return t.root }

// Reset clears every node's per-depth state recursively, as if the tree had
// never ticked. RoundRobin cursors deliberately survive Reset (their own
// Reset is a no-op); see DESIGN.md.
func (t *Tree) Reset() {
	if t.root != nil {
		t.root.Reset()
	}
}

// Tick drives one step of the tree: pushes a call frame, ticks the root at
// the assigned depth, and pops the frame regardless of outcome. If a Return
// node fired during the tick, the tree resets and the chosen status is
// returned in place of whatever the root itself produced.
func (t *Tree) Tick(delta int64) Status {
	if t.root == nil {
		return Failure
	}

	stack := NewCallStack(t.maxCallDepth)
	depth, ok := stack.Push(t)
	if !ok {
		return Failure
	}

	tc := &TickContext{State: t.state, Delta: delta, Stack: stack}
	status := t.root.Tick(tc, depth)
	stack.Pop()

	if retStatus, fired := tc.Returned(); fired {
		return retStatus
	}
	return status
}

// tickAsSubTree is used by SubTree nodes: depth and stack are supplied by
// the caller (the parent tick's shared context) rather than created fresh,
// so self- and mutual-recursion share one call stack and one depth bound.
func (t *Tree) tickAsSubTree(parent *TickContext, state State, depth int) Status {
	if t.root == nil {
		return Failure
	}
	tc := &TickContext{State: state, Delta: parent.Delta, Stack: parent.Stack}
	status := t.root.Tick(tc, depth)
	if retStatus, fired := tc.Returned(); fired {
		t.Reset()
		parent.signalReturn(retStatus)
		return retStatus
	}
	return status
}

// ErrBuilderIncomplete is returned by Builder.Complete when a composite was
// opened (Sequence/Selector/etc.) but never closed with End before Complete.
var ErrBuilderIncomplete = domain.NewError(domain.ErrCodeBuilderIncomplete, "flowtree",
	"builder left open composite(s) unclosed", nil)
