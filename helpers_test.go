package strata_test

import (
	"context"
	"sync"
	"sync/atomic"
)

type Config struct {
	Port int
}

type ServiceA struct {
	id int
}

type ServiceB struct {
	A *ServiceA
}

type ServiceC struct {
	B *ServiceB
}

type Unbound struct {
	id int
}

type Greeter interface {
	Greet() string
}

type english struct {
	name string
}

func (e *english) Greet() string { return "hello " + e.name }

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type resource struct {
	name     string
	rec      *recorder
	err      error
	disposed atomic.Int32
}

func (r *resource) Dispose() error {
	r.disposed.Add(1)
	if r.rec != nil {
		r.rec.add("dispose:" + r.name)
	}
	return r.err
}

type asyncResource struct {
	name     string
	rec      *recorder
	err      error
	disposed atomic.Int32
}

func (r *asyncResource) DisposeAsync(ctx context.Context) error {
	r.disposed.Add(1)
	if r.rec != nil {
		r.rec.add("async:" + r.name)
	}
	return r.err
}
