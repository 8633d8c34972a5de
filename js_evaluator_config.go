package settings

import (
	"errors"
	"time"
)

// ErrJSEvaluatorUnavailable is reported by every JavaScript predicate when
// the binary was built without the js_eval tag.
var ErrJSEvaluatorUnavailable = errors.New("settings: javascript predicates need the js_eval build tag")

// defaultJSTimeout bounds a single predicate run. Disabled is read while
// rendering, so a looping predicate must not hang the caller.
const defaultJSTimeout = 100 * time.Millisecond

type jsOptions struct {
	cache    ProgramCache
	registry *FunctionRegistry
	timeout  time.Duration
}

// JSEvaluatorOption configures the JavaScript evaluator.
type JSEvaluatorOption func(*jsOptions)

// JSWithProgramCache shares compiled programs between gates that declare
// the same expression.
func JSWithProgramCache(cache ProgramCache) JSEvaluatorOption {
	return func(o *jsOptions) {
		o.cache = cache
	}
}

// JSWithFunctionRegistry binds every registered function as a global.
func JSWithFunctionRegistry(registry *FunctionRegistry) JSEvaluatorOption {
	return func(o *jsOptions) {
		if registry == nil {
			return
		}
		o.registry = registry.Clone()
	}
}

// JSWithTimeout interrupts predicates that run longer than d. A
// non-positive d disables the limit.
func JSWithTimeout(d time.Duration) JSEvaluatorOption {
	return func(o *jsOptions) {
		o.timeout = d
	}
}

func newJSOptions(opts []JSEvaluatorOption) jsOptions {
	o := jsOptions{timeout: defaultJSTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
