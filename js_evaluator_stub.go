//go:build !js_eval

package settings

// jsUnavailable stands in for the goja engine so schemas that ask for it
// still load. Their predicates fail with ErrJSEvaluatorUnavailable.
type jsUnavailable struct{}

// NewJSEvaluator returns an evaluator whose predicates all fail with
// ErrJSEvaluatorUnavailable. Build with -tags js_eval for the goja engine.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = newJSOptions(opts)
	return jsUnavailable{}
}

func (jsUnavailable) Compile(string) (Predicate, error) {
	return nil, ErrJSEvaluatorUnavailable
}

func isJSEvaluator(e Evaluator) bool {
	_, ok := e.(jsUnavailable)
	return ok
}
