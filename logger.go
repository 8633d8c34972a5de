package settings

import "log/slog"

// Logger is the structured logger used by the engine. *slog.Logger
// satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

func discardLogger() Logger {
	return slog.New(slog.DiscardHandler)
}

// WithLogger sets the engine logger. A nil logger discards output.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = discardLogger()
			return
		}
		cfg.logger = logger
	}
}
