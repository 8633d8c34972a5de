package settings

import (
	"errors"
	"fmt"
)

// EvaluationError reports an EnableWhen predicate that failed to compile or
// run. Path names the schema node that declared it.
type EvaluationError struct {
	Engine string
	Expr   string
	Path   Path
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	node := e.Path.String()
	if node == "" {
		node = "<unattached>"
	}
	return fmt.Sprintf("settings: enableWhen %q on %s (%s): %v", e.Expr, node, e.Engine, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// wrapEvaluationError attaches predicate metadata to err. An error that is
// already an EvaluationError only has its empty fields filled.
func wrapEvaluationError(engine, expr string, path Path, err error) error {
	if err == nil {
		return nil
	}
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Path == (Path{}) {
			evalErr.Path = path
		}
		return evalErr
	}
	return &EvaluationError{Engine: engine, Expr: expr, Path: path, Err: err}
}
