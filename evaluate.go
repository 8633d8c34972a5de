package settings

import (
	"errors"
	"time"
)

var ErrNoEvaluator = errors.New("settings: evaluator not configured")

// RuleContext is what an EnableWhen predicate sees. Engines expose it as
// three bindings: state, args and now.
type RuleContext struct {
	// State is a private copy of the whole settings tree, keyed by
	// collection id. Writes made by a predicate never reach the Manager.
	State map[string]any
	// Args holds the "collection" and "category" ids of the node.
	Args map[string]any
	Now  *time.Time
	// Path is the node under evaluation.
	Path Path
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.State == nil {
		ctx.State = map[string]any{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) bindings() map[string]any {
	ctx = ctx.withDefaults()
	return map[string]any{
		"state": ctx.State,
		"args":  ctx.Args,
		"now":   *ctx.Now,
	}
}

// Evaluator turns EnableWhen source into a reusable Predicate. Gates
// compile their expression once, when the node is attached.
type Evaluator interface {
	Compile(expr string) (Predicate, error)
}

// Predicate is a compiled EnableWhen expression.
type Predicate interface {
	Evaluate(ctx RuleContext) (any, error)
}

// compiledGate pairs a predicate with the metadata needed to report on it.
type compiledGate struct {
	engine    string
	expr      string
	predicate Predicate
	err       error
}

// compilePredicate builds the predicate for the node at path. Failures are
// kept on the result and reported by every Disabled call.
func (m *Manager) compilePredicate(path Path, expr string) *compiledGate {
	compiled := &compiledGate{expr: expr, engine: "unknown"}
	evaluator, err := m.resolveEvaluator()
	if err != nil {
		compiled.err = wrapEvaluationError(compiled.engine, expr, path, err)
		return compiled
	}
	compiled.engine = evaluatorEngineName(evaluator)

	start := time.Now()
	predicate, err := evaluator.Compile(expr)
	if err == nil && predicate == nil {
		err = ErrNoEvaluator
	}
	compiled.err = wrapEvaluationError(compiled.engine, expr, path, err)
	compiled.predicate = predicate
	m.cfg.evaluatorLogger.LogEvaluation(EvaluatorLogEvent{
		Stage:    StageCompile,
		Engine:   compiled.engine,
		Expr:     expr,
		Path:     path,
		Duration: time.Since(start),
		Err:      compiled.err,
	})
	return compiled
}

// run evaluates the compiled predicate against ctx and logs the timing.
func (m *Manager) run(compiled *compiledGate, ctx RuleContext) (any, error) {
	if compiled.err != nil {
		return nil, compiled.err
	}
	start := time.Now()
	value, err := compiled.predicate.Evaluate(ctx.withDefaults())
	err = wrapEvaluationError(compiled.engine, compiled.expr, ctx.Path, err)
	m.cfg.evaluatorLogger.LogEvaluation(EvaluatorLogEvent{
		Stage:    StageEvaluate,
		Engine:   compiled.engine,
		Expr:     compiled.expr,
		Path:     ctx.Path,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (m *Manager) resolveEvaluator() (Evaluator, error) {
	if m.cfg.evaluator != nil {
		return m.cfg.evaluator, nil
	}
	exprOpts := []ExprEvaluatorOption{ExprWithProgramCache(m.cfg.programCache)}
	if m.cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(m.cfg.functions))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	m.cfg.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch e.(type) {
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if isJSEvaluator(e) {
			return "js"
		}
		return "custom"
	}
}

// cacheKey namespaces compiled programs by engine so one ProgramCache can
// serve every evaluator.
func cacheKey(engine, expr string) string {
	return engine + ":" + expr
}
