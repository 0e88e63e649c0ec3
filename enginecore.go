// Package enginecore is the public facade over the four core engine
// subsystems: the generational Entity Arena, the System Pipeline, the
// FlowTree behavior-tree engine, and the Collision/Spatial World. It
// re-exports the internal packages' types as aliases (so a caller never
// imports internal/... directly) and adds construction, configuration,
// status-display, and scene-composition helpers on top.
package enginecore

import (
	"github.com/ridgeline-games/enginecore/internal/arena"
	"github.com/ridgeline-games/enginecore/internal/domain"
	"github.com/ridgeline-games/enginecore/internal/flowtree"
	"github.com/ridgeline-games/enginecore/internal/pipeline"
	"github.com/ridgeline-games/enginecore/internal/spatial"
	"github.com/ridgeline-games/enginecore/internal/spatial/broadphase"
)

// ---- Math primitives ---------------------------------------------------

// Vector3 is the three-component single-precision vector every spatial
// parameter bundle and query is expressed in.
type Vector3 = domain.Vector3

// AABB is an axis-aligned bounding box: component-wise Min ≤ Max corners.
type AABB = domain.AABB

// ---- Entity Arena ------------------------------------------------------

// Handle is a safe, non-owning reference into an Arena or a Container.
type Handle = arena.Handle

// Arena is a generational slot-reusing pool of entity records of type E.
type Arena[E any] = arena.Arena[E]

// SpawnFunc is invoked against a freshly allocated entity record.
type SpawnFunc[E any] = arena.SpawnFunc[E]

// DespawnFunc is invoked against an entity record about to be freed.
type DespawnFunc[E any] = arena.DespawnFunc[E]

// Container is an append-only, skip/offset-iterable sequence of Handles.
type Container = arena.Container

// ---- System Pipeline ----------------------------------------------------

// System is the capability every pipeline node (group or leaf) satisfies.
type System = pipeline.System

// SerialSystem processes the full entity list synchronously, in one call.
type SerialSystem = pipeline.SerialSystem

// ParallelSystem processes entities independently across a worker pool.
type ParallelSystem = pipeline.ParallelSystem

// OrderedSerialSystem orders its entities before a synchronous pass.
type OrderedSerialSystem = pipeline.OrderedSerialSystem

// BaseSystem is embeddable by concrete systems for a plain on/off toggle.
type BaseSystem = pipeline.BaseSystem

// SerialGroup executes its children in registration order.
type SerialGroup = pipeline.SerialGroup

// ParallelGroup executes its children concurrently, waiting for all of them.
type ParallelGroup = pipeline.ParallelGroup

// Registry is the interface systems use to obtain entity handles each tick.
type Registry = pipeline.Registry

// ContainerRegistry adapts a Container to the Registry interface.
type ContainerRegistry = pipeline.ContainerRegistry

// Context is the per-Execute call context passed to every system.
type Context = pipeline.Context

// CancellationToken is the cooperative cancellation signal threaded through
// a tick.
type CancellationToken = pipeline.CancellationToken

// Pipeline drives Execute calls against a root System once per tick.
type Pipeline = pipeline.Pipeline

// ---- FlowTree ------------------------------------------------------------

// State is the user-supplied data a behavior tree ticks against.
type State = flowtree.State

// BaseState is an embeddable State implementation.
type BaseState = flowtree.BaseState

// Node is a single tree element: composite, decorator, or leaf.
type Node = flowtree.Node

// Status is the result of ticking a Node.
type Status = flowtree.Status

// Tree owns a root Node and the state it ticks against.
type Tree = flowtree.Tree

// Builder assembles a Tree via a fluent, stack-based DSL.
type Builder = flowtree.Builder

// TreeRegistry is a concurrent-safe name-to-tree lookup for Dynamic and
// StateInjecting sub-trees.
type TreeRegistry = flowtree.Registry

// TreeProvider resolves a State to the Tree a sub-tree node should descend
// into.
type TreeProvider = flowtree.TreeProvider

// StateProvider derives a child tree's State from its parent's.
type StateProvider = flowtree.StateProvider

// ActionFunc is the callback an Action leaf invokes each tick.
type ActionFunc = flowtree.ActionFunc

// ConditionFunc is the predicate signature used by Guard, WaitUntil, and the
// Condition leaf.
type ConditionFunc = flowtree.ConditionFunc

// ScopeEvent fires when a Scope node enters a depth-cycle.
type ScopeEvent = flowtree.ScopeEvent

// ScopeExit fires on a Scope's child's terminal result.
type ScopeExit = flowtree.ScopeExit

// ParallelPolicy controls how Parallel/Join interpret their children's
// results.
type ParallelPolicy = flowtree.ParallelPolicy

// ExprEvaluator compiles and caches expr-lang condition expressions for
// data-driven Guard/Condition/WaitUntil nodes.
type ExprEvaluator = flowtree.ExprEvaluator

// ExprVars adapts a State into the variable environment an ExprEvaluator
// runs expressions against.
type ExprVars = flowtree.ExprVars

const (
	// Running signals a node has not reached a terminal result yet.
	Running = flowtree.Running
	// Success is a terminal, successful result.
	Success = flowtree.Success
	// Failure is a terminal, unsuccessful result.
	Failure = flowtree.Failure
)

const (
	// RequireAll succeeds only once every child has succeeded.
	RequireAll = flowtree.RequireAll
	// RequireOne succeeds as soon as any child succeeds.
	RequireOne = flowtree.RequireOne
)

// ---- Spatial World ---------------------------------------------------

// World ties a shape registry to a broad-phase strategy and answers typed
// spatial queries.
type World = spatial.World

// ShapeHandle is a safe, non-owning reference to a shape registered in a
// World.
type ShapeHandle = spatial.ShapeHandle

// ShapeKind tags which geometric primitive a shape is.
type ShapeKind = spatial.ShapeKind

// SphereParams, CapsuleParams, CylinderParams, and BoxParams describe the
// four primitive shape kinds a World can hold.
type (
	SphereParams   = spatial.SphereParams
	CapsuleParams  = spatial.CapsuleParams
	CylinderParams = spatial.CylinderParams
	BoxParams      = spatial.BoxParams
)

// HitResult is the outcome of a single-hit or buffered spatial query.
type HitResult = spatial.HitResult

// Ray is a query ray for Raycast/RaycastAll.
type Ray = spatial.Ray

// BroadPhaseKind selects which broad-phase strategy a World is built over.
type BroadPhaseKind = broadphase.Kind

// BroadPhaseConfig bundles the construction parameters bounded/gridded
// broad-phase strategies need.
type BroadPhaseConfig = broadphase.Config

const (
	// BVH is an incrementally-built dynamic AABB tree with zero leaf margin.
	BVH = broadphase.KindBVH
	// DBVT is a BVH variant with fattened leaf AABBs, trading query
	// precision for fewer relinks on small moves.
	DBVT = broadphase.KindDBVT
	// Octree is a bounded, depth-limited loose octree.
	Octree = broadphase.KindOctree
	// MBP is multi-box pruning: per-region sweep-and-prune over a bounded
	// world.
	MBP = broadphase.KindMBP
	// GridSAP is sweep-and-prune restricted to a shape's occupied grid
	// cells.
	GridSAP = broadphase.KindGridSAP
	// SpatialHash buckets shapes into uniform grid cells with no bound on
	// world extent.
	SpatialHash = broadphase.KindSpatialHash
)

// NoHitIndex is the sentinel HitResult.ShapeIndex meaning "no hit".
const NoHitIndex = spatial.NoHitIndex

// DefaultIncludeMask and DefaultExcludeMask are the layer-mask filter that
// admits every shape and excludes none.
const (
	DefaultIncludeMask = spatial.DefaultIncludeMask
	DefaultExcludeMask = spatial.DefaultExcludeMask
)
