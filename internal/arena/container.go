package arena

// Container is an append-only, insertion-ordered sequence of Handles that
// knows how to skip entries whose handles have gone invalid, and to reuse
// the lowest such slot on the next Add.
type Container struct {
	entries  []Handle
	freeHint int // index of the lowest known invalid slot, or -1
}

// NewContainer constructs an empty Container.
func NewContainer() *Container {
	return &Container{freeHint: -1}
}

// Add appends h, unless a previously invalidated slot is known (via the
// free hint), in which case it overwrites that slot instead and clears the
// hint. The hint is recomputed lazily by Iterate, not eagerly scanned here.
func (c *Container) Add(h Handle) {
	if c.freeHint >= 0 && c.freeHint < len(c.entries) {
		c.entries[c.freeHint] = h
		c.freeHint = -1
		return
	}
	c.entries = append(c.entries, h)
}

// Get returns the handle at index i. Panics if i is out of range, matching
// slice semantics; callers are expected to bound i by Capacity().
func (c *Container) Get(i int) Handle {
	return c.entries[i]
}

// Capacity returns the number of appended entries, which is NOT the number
// of currently-live handles.
func (c *Container) Capacity() int {
	return len(c.entries)
}

// Iterate visits indices offset, offset+(skip+1), offset+2*(skip+1), ...
// up to the container's length, calling fn with each entry whose handle is
// still valid. Invalid entries encountered along the way update the free
// hint to the lowest such index seen. After a full traversal
// (skip=0, offset=0) the hint therefore references the lowest known
// invalid slot; partial/striped traversals still record whatever invalid
// slots they happen to visit.
//
// skip=0, offset=0 visits every entry. Calling with skip=k-1 at offset
// i=0..k-1 across k frames distributes one of every k entries to each
// frame, in round-robin stripes.
func (c *Container) Iterate(skip, offset int, fn func(Handle)) {
	if skip < 0 {
		skip = 0
	}
	if offset < 0 {
		offset = 0
	}
	stride := skip + 1

	for i := offset; i < len(c.entries); i += stride {
		h := c.entries[i]
		if h.IsValid() {
			fn(h)
			continue
		}
		if c.freeHint < 0 || i < c.freeHint {
			c.freeHint = i
		}
	}
}

// Collect is a convenience wrapper over Iterate that returns the visited
// valid handles as a slice, for callers (like the pipeline executor) that
// need the full set at once rather than a callback.
func (c *Container) Collect(skip, offset int) []Handle {
	out := make([]Handle, 0, len(c.entries))
	c.Iterate(skip, offset, func(h Handle) {
		out = append(out, h)
	})
	return out
}

// FreeHint exposes the container's current free-slot hint, mainly for
// testing the "lowest known invalid slot" invariant.
func (c *Container) FreeHint() int {
	return c.freeHint
}
