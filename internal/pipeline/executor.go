package pipeline

import (
	"sync"

	"github.com/ridgeline-games/enginecore/internal/arena"
	"github.com/ridgeline-games/enginecore/internal/domain"
)

// groupExecutor is implemented by SerialGroup and ParallelGroup; Execute
// dispatches to it directly rather than re-deriving group semantics.
type groupExecutor interface {
	Execute(registry Registry, ctx *Context) error
}

// Execute runs any System according to its capability:
//   - a group delegates to its own Execute (its execution policy)
//   - a serial system gathers the registry's handles once and calls
//     ProcessSerial
//   - an ordered-serial system calls OrderEntities first, then
//     ProcessSerial on the ordered buffer
//   - a parallel system dispatches ProcessEntity across a worker pool,
//     short-circuiting on cancellation
//   - anything else fails with ErrCodeUnknownSystemKind
//
// Disabled systems/groups have already been filtered out by the caller
// (Pipeline.Execute, or a parent group); Execute itself does not re-check
// Enabled so that a directly-invoked System (e.g. in tests) always runs.
func Execute(s System, registry Registry, ctx *Context) error {
	switch sys := s.(type) {
	case groupExecutor:
		return sys.Execute(registry, ctx)

	case OrderedSerialSystem:
		input := registry.GetAllEntities()
		output := make([]arena.Handle, 0, len(input))
		ordered := sys.OrderEntities(input, output)
		return sys.ProcessSerial(registry, ordered, ctx)

	case SerialSystem:
		handles := registry.GetAllEntities()
		return sys.ProcessSerial(registry, handles, ctx)

	case ParallelSystem:
		return executeParallelSystem(sys, registry, ctx)

	default:
		return domain.NewError(domain.ErrCodeUnknownSystemKind, "pipeline",
			"system satisfies no known capability interface", nil)
	}
}

// executeParallelSystem distributes ProcessEntity calls for every handle
// across a worker pool, polling the cancellation token before dispatching
// each entity.
func executeParallelSystem(sys ParallelSystem, registry Registry, ctx *Context) error {
	handles := registry.GetAllEntities()
	if len(handles) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(handles))

	for _, h := range handles {
		if ctx.Cancellation.Cancelled() {
			break
		}
		h := h
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ctx.Cancellation.Cancelled() {
				return
			}
			if err := sys.ProcessEntity(registry, h, ctx); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	var first error
	for err := range errs {
		if first == nil {
			first = err
		}
	}
	return first
}
