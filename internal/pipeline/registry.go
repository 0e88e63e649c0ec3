package pipeline

import "github.com/ridgeline-games/enginecore/internal/arena"

// Registry is the interface systems use to obtain the entity handles they
// should process each tick. A Container (internal/arena) satisfies it via
// GetAllEntities; GetEntitiesOfKind is left to callers that layer a
// type-tagged view over one or more containers (the core does not itself
// tag arenas by "kind"; that classification belongs to the combat and
// game-system layers above this one).
type Registry interface {
	// GetAllEntities returns every currently-valid handle.
	GetAllEntities() []arena.Handle
}

// ContainerRegistry adapts an *arena.Container to the Registry interface.
type ContainerRegistry struct {
	Container *arena.Container
}

// GetAllEntities implements Registry.
func (r ContainerRegistry) GetAllEntities() []arena.Handle {
	return r.Container.Collect(0, 0)
}
