package pipeline

import "github.com/ridgeline-games/enginecore/internal/arena"

// System is the capability every node in a pipeline tree satisfies: groups,
// serial systems, parallel systems, and ordered-serial systems are all
// Systems, which is what lets them nest arbitrarily.
//
// The executor type-switches on the richer capability interfaces below to
// decide how to run a given System; a System that implements none of them
// is an executor error (domain.ErrCodeUnknownSystemKind).
type System interface {
	// Enabled reports whether this system/group should run this tick.
	// Disabled systems and groups are skipped entirely.
	Enabled() bool
}

// SerialSystem receives the full handle list and processes it in one call,
// synchronously on the calling thread.
type SerialSystem interface {
	System
	ProcessSerial(registry Registry, handles []arena.Handle, ctx *Context) error
}

// ParallelSystem is given a per-entity callback; the executor distributes
// entities across a worker pool, honoring the context's cancellation token.
type ParallelSystem interface {
	System
	ProcessEntity(registry Registry, h arena.Handle, ctx *Context) error
}

// OrderedSerialSystem exposes OrderEntities, which fills an output buffer
// with a permutation/subset of the input handles (for priority or
// topological ordering) before ProcessSerial runs on the ordered result.
type OrderedSerialSystem interface {
	System
	// OrderEntities fills (and returns) an ordering of input into the
	// supplied output buffer, which the executor then passes whole to
	// ProcessSerial.
	OrderEntities(input []arena.Handle, output []arena.Handle) []arena.Handle
	ProcessSerial(registry Registry, handles []arena.Handle, ctx *Context) error
}

// baseSystem is embeddable by concrete systems to satisfy the Enabled half
// of the System interface with a plain on/off flag rather than a richer
// predicate.
type baseSystem struct {
	enabled bool
}

// NewBase constructs a baseSystem defaulting to enabled.
func NewBase() baseSystem {
	return baseSystem{enabled: true}
}

// Enabled implements System.
func (b *baseSystem) Enabled() bool { return b.enabled }

// SetEnabled toggles the system/group on or off.
func (b *baseSystem) SetEnabled(v bool) { b.enabled = v }

// BaseSystem is the exported form of baseSystem, embeddable by systems
// defined outside this package.
type BaseSystem = baseSystem
