package settings

import (
	"log/slog"
	"time"
)

// Stages reported in EvaluatorLogEvent.
const (
	StageCompile  = "compile"
	StageEvaluate = "evaluate"
)

// EvaluatorLogEvent describes one compile or run of an EnableWhen
// predicate. Compiles happen once per node, when its collection is
// registered; runs happen on every Disabled call.
type EvaluatorLogEvent struct {
	Stage    string
	Engine   string
	Expr     string
	Path     Path
	Duration time.Duration
	Err      error
}

// EvaluatorLogger records evaluator events.
type EvaluatorLogger interface {
	LogEvaluation(EvaluatorLogEvent)
}

// EvaluatorLoggerFunc adapts a function to EvaluatorLogger.
type EvaluatorLoggerFunc func(EvaluatorLogEvent)

// LogEvaluation implements EvaluatorLogger.
func (f EvaluatorLoggerFunc) LogEvaluation(event EvaluatorLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopEvaluatorLogger struct{}

func (noopEvaluatorLogger) LogEvaluation(EvaluatorLogEvent) {}

// SlogEvaluatorLogger writes evaluations at debug level and failures at
// warn level.
func SlogEvaluatorLogger(logger *slog.Logger) EvaluatorLogger {
	if logger == nil {
		return noopEvaluatorLogger{}
	}
	return EvaluatorLoggerFunc(func(event EvaluatorLogEvent) {
		args := []any{
			"stage", event.Stage,
			"engine", event.Engine,
			"expr", event.Expr,
			"path", event.Path.String(),
			"duration", event.Duration,
		}
		if event.Err != nil {
			logger.Warn("settings: predicate "+event.Stage+" failed", append(args, "error", event.Err)...)
			return
		}
		logger.Debug("settings: predicate "+event.Stage, args...)
	})
}

// WithEvaluatorLogger attaches an evaluator logger to the engine.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.evaluatorLogger = noopEvaluatorLogger{}
			return
		}
		cfg.evaluatorLogger = logger
	}
}
