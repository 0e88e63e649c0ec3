package arena

import (
	"sync"

	"github.com/ridgeline-games/enginecore/internal/domain"
	"github.com/ridgeline-games/enginecore/internal/logging"
)

// slot holds one entity record plus its generation. freeNext chains free
// slots into a LIFO free list; it is only meaningful while the slot is free.
type slot[E any] struct {
	entity     E
	generation int64
	live       bool
	freeNext   int // index of next free slot, or -1
}

// SpawnFunc is invoked with a mutable reference to a freshly allocated
// entity record. It may panic; see Arena.Allocate.
type SpawnFunc[E any] func(entity *E)

// DespawnFunc is invoked with a mutable reference to an entity record about
// to be freed.
type DespawnFunc[E any] func(entity *E)

// Arena is a generational slot-reusing pool of entity records of type E.
// All operations are serialized under a single exclusive lock.
type Arena[E any] struct {
	mu sync.Mutex

	slots     []slot[E]
	freeHead  int // index of most-recently-freed slot, or -1
	count     int // live entity count
	freeCount int
	onSpawn   SpawnFunc[E]
	onDespawn DespawnFunc[E]

	// maxCapacity bounds how far the arena may grow; 0 means unbounded.
	// Allocate reports growth past this bound as an allocation failure.
	maxCapacity int
}

// New constructs an Arena with the given initial capacity (minimum 1) and
// optional spawn/despawn callbacks (either may be nil). The arena grows
// without bound.
func New[E any](initialCapacity int, onSpawn SpawnFunc[E], onDespawn DespawnFunc[E]) *Arena[E] {
	return NewBounded[E](initialCapacity, 0, onSpawn, onDespawn)
}

// NewBounded is like New but caps growth at maxCapacity slots (0 means
// unbounded). Allocate returns a *domain.Error with ErrCodeAllocationFailed
// once every slot up to maxCapacity is in use.
func NewBounded[E any](initialCapacity, maxCapacity int, onSpawn SpawnFunc[E], onDespawn DespawnFunc[E]) *Arena[E] {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	return &Arena[E]{
		slots:       make([]slot[E], 0, initialCapacity),
		freeHead:    -1,
		onSpawn:     onSpawn,
		onDespawn:   onDespawn,
		maxCapacity: maxCapacity,
	}
}

// Capacity returns the number of slots currently backing the arena.
func (a *Arena[E]) Capacity() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.slots)
}

// Count returns the number of live entities.
func (a *Arena[E]) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// FreeCount returns the number of slots on the free list.
func (a *Arena[E]) FreeCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.freeCount
}

// Allocate obtains a slot (reusing the most-recently-freed one if any, else
// growing), bumps its generation, invokes the spawn callback with a mutable
// reference to the entity record, and returns a Handle.
//
// If the spawn callback panics, the slot is released back to the free list
// before the panic is re-raised, so arena invariants
// (count+freeCount<=capacity) hold even though the caller never receives a
// handle.
func (a *Arena[E]) Allocate() (h Handle, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, ok := a.takeSlot()
	if !ok {
		return Handle{}, domain.NewError(domain.ErrCodeAllocationFailed, "arena",
			"arena exhausted: max capacity reached", nil)
	}

	s := &a.slots[idx]
	s.generation = domain.NextGeneration(s.generation)
	s.live = true
	a.count++

	reclaimed := false
	defer func() {
		if r := recover(); r != nil {
			if !reclaimed {
				s.live = false
				a.count--
				a.pushFree(idx)
			}
			log := logging.Default()
			log.Error().Interface("panic", r).Msg("arena: spawn callback panicked, slot reclaimed")
			panic(r)
		}
	}()

	if a.onSpawn != nil {
		a.onSpawn(&s.entity)
	}
	reclaimed = true // spawn succeeded; nothing to reclaim

	return NewHandle(a, idx, s.generation), nil
}

// takeSlot pops the free list if non-empty, else grows (doubling capacity,
// preserving existing contents) and appends a fresh slot. Returns false if
// the arena is bounded and already at maxCapacity.
func (a *Arena[E]) takeSlot() (int, bool) {
	if a.freeHead >= 0 {
		idx := a.freeHead
		a.freeHead = a.slots[idx].freeNext
		a.freeCount--
		return idx, true
	}

	if a.maxCapacity > 0 && len(a.slots) >= a.maxCapacity {
		return 0, false
	}

	a.growIfFull()
	idx := len(a.slots)
	a.slots = append(a.slots, slot[E]{freeNext: -1})
	return idx, true
}

// growIfFull ensures the backing slice has spare capacity, doubling it when
// full. Existing entities are preserved because the copy keeps every slot at
// its index.
func (a *Arena[E]) growIfFull() {
	if len(a.slots) < cap(a.slots) {
		return
	}
	newCap := cap(a.slots) * 2
	if newCap == 0 {
		newCap = 1
	}
	grown := make([]slot[E], len(a.slots), newCap)
	copy(grown, a.slots)
	a.slots = grown
}

func (a *Arena[E]) pushFree(idx int) {
	a.slots[idx].freeNext = a.freeHead
	a.freeHead = idx
	a.freeCount++
}

// Deallocate invalidates the handle's slot: invokes the despawn callback,
// then frees the slot. Generation is NOT bumped here: clearing the live flag
// invalidates every handle to the slot at once, and the next Allocate on this
// slot bumps the generation, so handles naming the old generation stay
// invalid after the slot is reused.
//
// Returns false without effect if the handle is already invalid (including
// double-deallocate).
func (a *Arena[E]) Deallocate(index int, generation int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.isValidLocked(index, generation) {
		return false
	}

	s := &a.slots[index]
	if a.onDespawn != nil {
		a.onDespawn(&s.entity)
	}

	s.live = false
	a.count--
	a.pushFree(index)

	return true
}

// IsValid implements ValidityChecker.
func (a *Arena[E]) IsValid(index int, generation int64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.isValidLocked(index, generation)
}

func (a *Arena[E]) isValidLocked(index int, generation int64) bool {
	if index < 0 || index >= len(a.slots) {
		return false
	}
	if generation <= 0 {
		return false
	}
	s := &a.slots[index]
	return s.live && s.generation == generation
}

// TryGet returns a mutable reference to the entity named by (index,
// generation), or (nil, false) if invalid. The returned pointer is valid
// only until the next Allocate/Deallocate call on this arena (growth may
// reallocate the backing slice).
func (a *Arena[E]) TryGet(index int, generation int64) (*E, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.isValidLocked(index, generation) {
		return nil, false
	}
	return &a.slots[index].entity, true
}

// TryGetHandle is a convenience wrapper over TryGet taking a Handle.
func (a *Arena[E]) TryGetHandle(h Handle) (*E, bool) {
	if h.Arena() != ValidityChecker(a) {
		return nil, false
	}
	return a.TryGet(h.Index, h.Generation)
}
