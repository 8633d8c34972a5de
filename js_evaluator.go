//go:build js_eval

package settings

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
)

type jsEvaluator struct {
	jsOptions
}

// NewJSEvaluator returns an EnableWhen engine backed by goja. Each run gets
// a fresh runtime with state, args and now bound as globals.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	return &jsEvaluator{jsOptions: newJSOptions(opts)}
}

func (e *jsEvaluator) Compile(expression string) (Predicate, error) {
	if expression == "" {
		return nil, errEmptyExpression
	}
	key := cacheKey("js", expression)
	if e.cache != nil {
		if program, ok := e.cache.Get(key); ok {
			if program, ok := program.(*goja.Program); ok {
				return &jsPredicate{evaluator: e, program: program}, nil
			}
		}
	}
	program, err := goja.Compile("enableWhen", fmt.Sprintf("(function(){ return (%s); })()", expression), true)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Set(key, program)
	}
	return &jsPredicate{evaluator: e, program: program}, nil
}

type jsPredicate struct {
	evaluator *jsEvaluator
	program   *goja.Program
}

func (p *jsPredicate) Evaluate(ctx RuleContext) (any, error) {
	vm := goja.New()
	for name, value := range ctx.bindings() {
		if err := vm.Set(name, value); err != nil {
			return nil, err
		}
	}
	if registry := p.evaluator.registry; registry != nil {
		for _, name := range registry.Names() {
			if err := vm.Set(name, func(arguments ...any) (any, error) {
				return registry.Call(name, arguments...)
			}); err != nil {
				return nil, err
			}
		}
	}
	if timeout := p.evaluator.timeout; timeout > 0 {
		timer := time.AfterFunc(timeout, func() {
			vm.Interrupt(fmt.Sprintf("predicate exceeded %s", timeout))
		})
		defer timer.Stop()
	}
	value, err := vm.RunProgram(p.program)
	if err != nil {
		return nil, err
	}
	return value.Export(), nil
}

func isJSEvaluator(e Evaluator) bool {
	_, ok := e.(*jsEvaluator)
	return ok
}
