// Package scopehttp gives every HTTP request its own scope.
//
//	r := chi.NewRouter()
//	r.Use(scopehttp.Middleware(root))
//	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
//	    session, err := scopehttp.Require[*Session](r)
//	    ...
//	})
//
// The request scope is one level deeper than the scope given to Middleware
// and is disposed once the handler returns.
package scopehttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danpasecinic/strata"
)

var ErrNoScope = errors.New("scopehttp: request has no scope")

type requestScopeKey struct{}

type Option func(*config)

type config struct {
	logger  *slog.Logger
	sibling bool
}

// WithSiblingScopes makes request scopes siblings of the parent instead of
// one level deeper.
func WithSiblingScopes() Option {
	return func(cfg *config) {
		cfg.sibling = true
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

func Middleware(parent *strata.Scope, opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var s *strata.Scope
			if cfg.sibling {
				s = parent.NewSiblingScope()
			} else {
				s = parent.NewDeeperScope()
			}

			defer func() {
				if err := s.Dispose(); err != nil {
					cfg.logger.Warn("request scope dispose failed",
						"method", r.Method, "path", r.URL.Path, "error", err)
				}
			}()

			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), s)))
		})
	}
}

func WithScope(ctx context.Context, s *strata.Scope) context.Context {
	return context.WithValue(ctx, requestScopeKey{}, s)
}

func FromContext(ctx context.Context) (*strata.Scope, bool) {
	s, ok := ctx.Value(requestScopeKey{}).(*strata.Scope)
	return s, ok
}

// Require resolves T from the request's scope.
func Require[T any](r *http.Request) (T, error) {
	s, ok := FromContext(r.Context())
	if !ok {
		var zero T
		return zero, ErrNoScope
	}
	return strata.Require[T](s)
}
