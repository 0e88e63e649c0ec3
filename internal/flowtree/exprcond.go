package flowtree

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ExprVars adapts a State into the variable environment expr-lang evaluates
// expressions against. Most callers supply a function closing over their own
// State concrete type's exported fields.
type ExprVars func(state State) map[string]any

// ExprEvaluator compiles and caches expr-lang programs keyed by source
// text, so a Guard/Condition built from an expression string only pays
// compilation cost once per distinct expression.
type ExprEvaluator struct {
	mu     sync.RWMutex
	cache  map[string]*vm.Program
	toVars ExprVars
}

// NewExprEvaluator constructs an evaluator that converts State to variables
// via toVars before running a compiled expression against them.
func NewExprEvaluator(toVars ExprVars) *ExprEvaluator {
	return &ExprEvaluator{cache: make(map[string]*vm.Program), toVars: toVars}
}

func (e *ExprEvaluator) compile(source string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.cache[source]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	program, err := expr.Compile(source, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("flowtree: compile condition %q: %w", source, err)
	}

	e.mu.Lock()
	e.cache[source] = program
	e.mu.Unlock()
	return program, nil
}

// Eval compiles (or reuses a cached compile of) source and runs it against
// toVars(state), returning the boolean result. A compile or evaluation
// error is treated as false, matching the engine's "degenerate input means
// no match" posture elsewhere (narrow-phase NaN handling, for instance)
// rather than panicking mid-tick.
func (e *ExprEvaluator) Eval(source string, state State) bool {
	program, err := e.compile(source)
	if err != nil {
		return false
	}

	vars := map[string]any{}
	if e.toVars != nil {
		vars = e.toVars(state)
	}

	out, err := expr.Run(program, vars)
	if err != nil {
		return false
	}
	result, _ := out.(bool)
	return result
}

// Condition returns a ConditionFunc backed by a compiled expr-lang program,
// usable directly as the predicate for Guard, Condition, and WaitUntil
// nodes so trees can be data-driven (expressions loaded from config) instead
// of requiring a Go closure per condition.
func (e *ExprEvaluator) Condition(source string) ConditionFunc {
	return func(state State) bool {
		return e.Eval(source, state)
	}
}
