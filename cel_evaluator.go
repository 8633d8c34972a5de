package settings

import (
	"reflect"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELEvaluatorOption configures the CEL evaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache shares compiled programs between gates that declare
// the same expression.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry makes registered functions reachable through
// call(name) and call(name, [args...]).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		if registry == nil {
			return
		}
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator returns an EnableWhen engine backed by cel-go. state is
// declared as map(string, dyn), so predicates read
// `state.settings.general.level > 2` or `state["fork-wp-1"].enabled`.
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) Compile(expression string) (Predicate, error) {
	if expression == "" {
		return nil, errEmptyExpression
	}
	key := cacheKey("cel", expression)
	if e.cache != nil {
		if program, ok := e.cache.Get(key); ok {
			if program, ok := program.(celgo.Program); ok {
				return celPredicate{program: program}, nil
			}
		}
	}

	env, err := e.env()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return celPredicate{program: program}, nil
}

type celPredicate struct {
	program celgo.Program
}

func (p celPredicate) Evaluate(ctx RuleContext) (any, error) {
	out, _, err := p.program.Eval(ctx.bindings())
	if err != nil {
		return nil, err
	}
	return out.Value(), nil
}

// env declares the same three bindings for every predicate, so a program
// compiled once stays valid as collections come and go.
func (e *celEvaluator) env() (*celgo.Env, error) {
	opts := []celgo.EnvOption{
		celgo.Variable("state", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("args", celgo.MapType(celgo.StringType, celgo.DynType)),
		celgo.Variable("now", celgo.TimestampType),
	}
	if e.registry != nil {
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string",
				[]*celgo.Type{celgo.StringType}, celgo.DynType,
				celgo.UnaryBinding(func(name ref.Val) ref.Val {
					return e.call(name, nil)
				}),
			),
			celgo.Overload("call_string_list",
				[]*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)}, celgo.DynType,
				celgo.BinaryBinding(func(name, arguments ref.Val) ref.Val {
					return e.call(name, arguments)
				}),
			),
		))
	}
	return celgo.NewEnv(opts...)
}

func (e *celEvaluator) call(name ref.Val, arguments ref.Val) ref.Val {
	fn, ok := name.Value().(string)
	if !ok {
		return types.NewErr("settings: call name must be string")
	}
	var args []any
	if arguments != nil {
		native, err := arguments.ConvertToNative(reflect.TypeOf([]any{}))
		if err != nil {
			return types.NewErr("settings: call arguments: %v", err)
		}
		args, _ = native.([]any)
	}
	result, err := e.registry.Call(fn, args...)
	if err != nil {
		return types.NewErr("%s", err.Error())
	}
	if result == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(result)
}
