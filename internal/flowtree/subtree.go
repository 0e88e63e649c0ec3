package flowtree

import "github.com/ridgeline-games/enginecore/internal/domain"

// ErrCallStackExceeded names the condition where sub-tree descent would
// exceed the tree's depth bound. The tick path reports it as a plain
// Failure status, never as an error value; the sentinel exists so other
// packages can log against it.
var ErrCallStackExceeded = domain.NewError(domain.ErrCodeCallStackExceeded, "flowtree",
	"sub-tree descent would exceed the call-depth bound", nil)

// TreeProvider resolves a state to a tree to descend into, used by Dynamic
// and StateInjecting sub-trees. A nil return fails the sub-tree node.
type TreeProvider func(state State) *Tree

// StateProvider builds a child tree's state from its parent's, used by
// StateInjecting sub-trees.
type StateProvider func(parent State) State

// subTreeState tracks the resolved child tree for the current depth-cycle so
// a Dynamic provider is evaluated once per entry, not on every tick while
// Running.
type subTreeState struct {
	resolved   bool
	childTree  *Tree
	childState State
}

// SubTree descends into another tree (or the same tree, for self-recursion)
// as part of the current tick's shared call stack, honoring the stack's
// depth bound.
//
// Three variants exist: Static holds a fixed tree, Dynamic resolves a tree
// via provider on first entry to a depth, and StateInjecting additionally
// builds a child state from the parent's via stateProvider, chaining
// child.Parent() back to the parent.
type SubTree struct {
	static        *Tree
	provider      TreeProvider
	stateProvider StateProvider
	state         *DepthState[subTreeState]
}

// NewStaticSubTree descends into the same tree reference every time.
func NewStaticSubTree(tree *Tree) *SubTree {
	return &SubTree{static: tree, state: NewDepthState[subTreeState]()}
}

// NewDynamicSubTree resolves which tree to descend into via provider,
// re-evaluated only after a terminal status (not mid-Running).
func NewDynamicSubTree(provider TreeProvider) *SubTree {
	return &SubTree{provider: provider, state: NewDepthState[subTreeState]()}
}

// NewStateInjectingSubTree is a Dynamic sub-tree that additionally derives
// the child's state from the parent's via stateProvider, setting the
// child's parent link.
func NewStateInjectingSubTree(provider TreeProvider, stateProvider StateProvider) *SubTree {
	return &SubTree{provider: provider, stateProvider: stateProvider, state: NewDepthState[subTreeState]()}
}

func (n *SubTree) Tick(tc *TickContext, depth int) Status {
	s := n.state.At(depth)

	if !s.resolved {
		var tree *Tree
		if n.static != nil {
			tree = n.static
		} else if n.provider != nil {
			tree = n.provider(tc.State)
		}
		if tree == nil {
			n.state.ResetAt(depth)
			return Failure
		}

		childState := tc.State
		if n.stateProvider != nil {
			childState = n.stateProvider(tc.State)
			if childState != nil {
				childState.SetParent(tc.State)
			}
		}

		s.resolved = true
		s.childTree = tree
		s.childState = childState
	}

	newDepth, ok := tc.Stack.Push(s.childTree)
	if !ok {
		n.state.ResetAt(depth)
		return Failure
	}
	status := s.childTree.tickAsSubTree(tc, s.childState, newDepth)
	tc.Stack.Pop()

	if _, fired := tc.Returned(); fired {
		n.state.ResetAt(depth)
		return status
	}

	if status.Terminal() {
		n.state.ResetAt(depth)
	}
	return status
}

func (n *SubTree) Reset() {
	n.state.ResetAll()
}
