package flowtree

import (
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Registry is a concurrent-safe name-to-tree lookup, used by Dynamic and
// StateInjecting sub-tree providers that resolve a tree by name rather than
// holding a direct reference (letting trees be hot-swapped by name without
// touching every SubTree node pointing at them). Reads/writes may come from
// different goroutines driving independent trees concurrently; distinct
// trees are independent, and only a single tree's own tick is
// thread-confined.
type Registry struct {
	trees *xsync.MapOf[string, *Tree]
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{trees: xsync.NewMapOf[string, *Tree]()}
}

// Register adds or replaces the tree stored under name.
func (r *Registry) Register(name string, tree *Tree) {
	r.trees.Store(name, tree)
}

// Lookup returns the tree registered under name, or nil if none.
func (r *Registry) Lookup(name string) *Tree {
	tree, ok := r.trees.Load(name)
	if !ok {
		return nil
	}
	return tree
}

// RegisterAnonymous stores tree under a freshly generated name, for callers
// that spin up a tree dynamically and have no natural name to register it
// under (e.g. a per-spawn behavior tree instance). Returns the generated
// name so the caller can Unregister it later.
func (r *Registry) RegisterAnonymous(tree *Tree) string {
	name := uuid.NewString()
	r.Register(name, tree)
	return name
}

// Unregister removes name from the registry, if present.
func (r *Registry) Unregister(name string) {
	r.trees.Delete(name)
}

// Size returns the number of trees currently registered.
func (r *Registry) Size() int {
	return r.trees.Size()
}

// Provider returns a TreeProvider that resolves state to the tree named by
// nameOf(state), suitable for a Dynamic or StateInjecting SubTree node.
func (r *Registry) Provider(nameOf func(state State) string) TreeProvider {
	return func(state State) *Tree {
		if nameOf == nil {
			return nil
		}
		return r.Lookup(nameOf(state))
	}
}
