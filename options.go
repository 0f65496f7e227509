package strata

import "log/slog"

type Option func(*containerConfig)

// WithLogger sets the logger for container and scope events. A nil logger
// keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *containerConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.onResolve = append(cfg.onResolve, hook)
	}
}

func WithDisposeObserver(hook DisposeHook) Option {
	return func(cfg *containerConfig) {
		cfg.onDispose = append(cfg.onDispose, hook)
	}
}

// WithScopeObserver is called for every scope created, the root included.
func WithScopeObserver(hook ScopeHook) Option {
	return func(cfg *containerConfig) {
		cfg.onScope = append(cfg.onScope, hook)
	}
}
