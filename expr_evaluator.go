package settings

import (
	"errors"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

var errEmptyExpression = errors.New("expression must not be empty")

// ExprEvaluatorOption configures an expr evaluator instance.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache shares compiled programs between gates that declare
// the same expression.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry makes registered functions callable by name.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator returns the default EnableWhen engine, backed by
// expr-lang/expr. Predicates read `state.<collection>.<category>...`;
// ids that are not identifiers use index syntax, `state["fork-wp-1"]`.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) Compile(expression string) (Predicate, error) {
	if expression == "" {
		return nil, errEmptyExpression
	}
	key := cacheKey("expr", expression)
	if e.cache != nil {
		if program, ok := e.cache.Get(key); ok {
			if program, ok := program.(*exprvm.Program); ok {
				return exprPredicate{program: program}, nil
			}
		}
	}

	options := []exprlang.Option{
		exprlang.Env(RuleContext{}.bindings()),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.functionNames() {
		options = append(options, exprlang.Function(name, e.function(name)))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return exprPredicate{program: program}, nil
}

type exprPredicate struct {
	program *exprvm.Program
}

func (p exprPredicate) Evaluate(ctx RuleContext) (any, error) {
	return exprlang.Run(p.program, ctx.bindings())
}

func (e *exprEvaluator) functionNames() []string {
	if e.registry == nil {
		return nil
	}
	return e.registry.Names()
}

func (e *exprEvaluator) function(name string) func(...any) (any, error) {
	return func(arguments ...any) (any, error) {
		return e.registry.Call(name, arguments...)
	}
}
