package flowtree

import "math/rand"

// randomSelectorState remembers which child was picked for the current
// depth-cycle, so a Running result resumes the same child rather than
// re-rolling.
type randomSelectorState struct {
	picked  bool
	childIx int
}

// RandomSelector picks one child uniformly at random on first entry to a
// depth and returns whatever that child returns (re-ticking the same child
// while Running).
type RandomSelector struct {
	children []Node
	state    *DepthState[randomSelectorState]
	rng      *rand.Rand
}

// NewRandomSelector constructs a RandomSelector over children using the
// package-level random source.
func NewRandomSelector(children ...Node) *RandomSelector {
	return &RandomSelector{children: children, state: NewDepthState[randomSelectorState]()}
}

// NewRandomSelectorSeeded is identical but takes an explicit *rand.Rand, for
// deterministic tests.
func NewRandomSelectorSeeded(rng *rand.Rand, children ...Node) *RandomSelector {
	return &RandomSelector{children: children, state: NewDepthState[randomSelectorState](), rng: rng}
}

func (n *RandomSelector) intn(n2 int) int {
	if n.rng != nil {
		return n.rng.Intn(n2)
	}
	return rand.Intn(n2)
}

func (n *RandomSelector) Tick(tc *TickContext, depth int) Status {
	if len(n.children) == 0 {
		return Failure
	}
	s := n.state.At(depth)
	if !s.picked {
		s.picked = true
		s.childIx = n.intn(len(n.children))
	}
	status := n.children[s.childIx].Tick(tc, depth)
	if status.Terminal() {
		n.state.ResetAt(depth)
	}
	return status
}

func (n *RandomSelector) Reset() {
	n.state.ResetAll()
	resetAll(n.children)
}

// shuffledSelectorState holds the shuffled order and current cursor for one
// depth-cycle.
type shuffledSelectorState struct {
	order   []int
	cursor  int
	started bool
}

// ShuffledSelector shuffles its children at first entry to a depth and
// executes them in that order until one succeeds or all fail, reshuffling
// on completion.
type ShuffledSelector struct {
	children []Node
	state    *DepthState[shuffledSelectorState]
	rng      *rand.Rand
}

func NewShuffledSelector(children ...Node) *ShuffledSelector {
	return &ShuffledSelector{children: children, state: NewDepthState[shuffledSelectorState]()}
}

func NewShuffledSelectorSeeded(rng *rand.Rand, children ...Node) *ShuffledSelector {
	return &ShuffledSelector{children: children, state: NewDepthState[shuffledSelectorState](), rng: rng}
}

func (n *ShuffledSelector) shuffle(order []int) {
	if n.rng != nil {
		n.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		return
	}
	rand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
}

func (n *ShuffledSelector) Tick(tc *TickContext, depth int) Status {
	if len(n.children) == 0 {
		return Failure
	}
	s := n.state.At(depth)
	if !s.started {
		s.order = make([]int, len(n.children))
		for i := range s.order {
			s.order[i] = i
		}
		n.shuffle(s.order)
		s.cursor = 0
		s.started = true
	}

	for s.cursor < len(s.order) {
		status := n.children[s.order[s.cursor]].Tick(tc, depth)
		if _, fired := tc.Returned(); fired {
			return status
		}
		switch status {
		case Running:
			return Running
		case Success:
			n.state.ResetAt(depth)
			return Success
		}
		s.cursor++
	}
	n.state.ResetAt(depth)
	return Failure
}

func (n *ShuffledSelector) Reset() {
	n.state.ResetAll()
	resetAll(n.children)
}

// WeightedChild pairs a child with its selection weight.
type WeightedChild struct {
	Weight float64
	Node   Node
}

// WeightedRandomSelector picks a child with probability weight_i / sum(weight)
// on first entry to a depth.
type WeightedRandomSelector struct {
	children []WeightedChild
	total    float64
	state    *DepthState[randomSelectorState]
	rng      *rand.Rand
}

func NewWeightedRandomSelector(children ...WeightedChild) *WeightedRandomSelector {
	var total float64
	for _, c := range children {
		total += c.Weight
	}
	return &WeightedRandomSelector{children: children, total: total, state: NewDepthState[randomSelectorState]()}
}

func NewWeightedRandomSelectorSeeded(rng *rand.Rand, children ...WeightedChild) *WeightedRandomSelector {
	w := NewWeightedRandomSelector(children...)
	w.rng = rng
	return w
}

func (n *WeightedRandomSelector) float64n() float64 {
	if n.rng != nil {
		return n.rng.Float64()
	}
	return rand.Float64()
}

func (n *WeightedRandomSelector) pick() int {
	if n.total <= 0 {
		return 0
	}
	r := n.float64n() * n.total
	var cum float64
	for i, c := range n.children {
		cum += c.Weight
		if r < cum {
			return i
		}
	}
	return len(n.children) - 1
}

func (n *WeightedRandomSelector) Tick(tc *TickContext, depth int) Status {
	if len(n.children) == 0 {
		return Failure
	}
	s := n.state.At(depth)
	if !s.picked {
		s.picked = true
		s.childIx = n.pick()
	}
	status := n.children[s.childIx].Node.Tick(tc, depth)
	if status.Terminal() {
		n.state.ResetAt(depth)
	}
	return status
}

func (n *WeightedRandomSelector) Reset() {
	n.state.ResetAll()
	for _, c := range n.children {
		c.Node.Reset()
	}
}

// RoundRobin maintains a cursor across the whole tree's lifetime (it is
// explicitly NOT reset by Tree.Reset), advancing modulo n on every fresh
// entry to a depth.
type RoundRobin struct {
	children []Node
	cursor   int
	entered  *DepthState[bool]
}

func NewRoundRobin(children ...Node) *RoundRobin {
	return &RoundRobin{children: children, entered: NewDepthState[bool]()}
}

func (n *RoundRobin) Tick(tc *TickContext, depth int) Status {
	if len(n.children) == 0 {
		return Failure
	}
	entered := n.entered.At(depth)
	if !*entered {
		*entered = true
	}
	child := n.children[n.cursor]
	status := child.Tick(tc, depth)
	if status.Terminal() {
		n.entered.ResetAt(depth)
		n.cursor = (n.cursor + 1) % len(n.children)
	}
	return status
}

// Reset resets child state but deliberately leaves the round-robin cursor
// untouched: the cursor is node-lifetime state (see DESIGN.md).
func (n *RoundRobin) Reset() {
	n.entered.ResetAll()
	resetAll(n.children)
}
