package strata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	reflectx "github.com/danpasecinic/strata/internal/reflect"
)

// Dispose tears down the scope: async-disposable instances first, then
// disposable ones, both newest first, then every child. The root also
// disposes the container's singletons. Only the first call does any work.
//
// Async-disposable instances are disposed one after another with a
// background context. Use DisposeAsync to run them concurrently under a
// caller supplied context.
func (s *Scope) Dispose() error {
	return s.dispose(context.Background(), false)
}

// DisposeAsync runs the same teardown as Dispose on its own goroutine. The
// returned channel receives the result and is then closed.
func (s *Scope) DisposeAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- s.dispose(ctx, true)
	}()
	return done
}

func (s *Scope) dispose(ctx context.Context, async bool) error {
	if !s.disposed.CompareAndSwap(false, true) {
		return nil
	}

	start := time.Now()
	logger := s.container.config.logger

	var errs error
	errs = multierr.Append(errs, teardown(ctx, async, s.asyncDisposables.Drain()))
	errs = multierr.Append(errs, teardown(ctx, async, s.disposables.Drain()))

	for _, child := range s.Children() {
		errs = multierr.Append(errs, child.dispose(ctx, async))
	}

	if s.root {
		errs = multierr.Append(errs, s.container.disposeSingletons(ctx, async))
	}

	s.detach()

	var err error
	if errs != nil {
		err = errDisposeFailed(s.depth, errs)
		logger.Warn("scope dispose failed", "depth", s.depth, "error", errs)
	} else {
		logger.Debug("scope disposed", "depth", s.depth, "duration", time.Since(start))
	}

	s.container.observeDispose(s.depth, time.Since(start), err)
	return err
}

// detach drops cached state and removes s from its parent.
func (s *Scope) detach() {
	s.instances.Clear()
	s.children.Clear()

	s.parentMu.Lock()
	parent := s.parent
	s.parent = nil
	s.parentMu.Unlock()

	if parent != nil {
		parent.children.Delete(s)
	}
}

// teardown disposes entries in order, async-disposable ones first. With
// async set, the async-disposable entries run concurrently.
func teardown(ctx context.Context, async bool, entries []tracked) error {
	var asyncEntries, syncEntries []tracked
	for _, e := range entries {
		if e.descriptor.asyncDisposable {
			asyncEntries = append(asyncEntries, e)
		} else {
			syncEntries = append(syncEntries, e)
		}
	}

	var errs error
	if async && len(asyncEntries) > 1 {
		errs = disposeConcurrently(ctx, asyncEntries)
	} else {
		for _, e := range asyncEntries {
			errs = multierr.Append(errs, disposeInstance(ctx, e))
		}
	}

	for _, e := range syncEntries {
		errs = multierr.Append(errs, disposeInstance(ctx, e))
	}
	return errs
}

func disposeConcurrently(ctx context.Context, entries []tracked) error {
	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		errs error
	)

	for _, e := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := disposeInstance(ctx, e); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return errs
}

// disposeInstance prefers DisposeAsync and falls back to Dispose.
func disposeInstance(ctx context.Context, e tracked) error {
	var err error
	switch v := e.instance.(type) {
	case AsyncDisposable:
		err = v.DisposeAsync(ctx)
	case Disposable:
		err = v.Dispose()
	}
	if err != nil {
		return fmt.Errorf("dispose %s: %w", reflectx.Name(e.descriptor.serviceType), err)
	}
	return nil
}
