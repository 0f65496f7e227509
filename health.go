package strata

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	reflectx "github.com/danpasecinic/strata/internal/reflect"
)

type HealthStatus string

const (
	HealthStatusUp      HealthStatus = "up"
	HealthStatusDown    HealthStatus = "down"
	HealthStatusUnknown HealthStatus = "unknown"
)

type HealthReport struct {
	Name    string
	Depth   int
	Status  HealthStatus
	Error   error
	Latency time.Duration
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type ReadinessChecker interface {
	ReadinessCheck(ctx context.Context) error
}

// Live fails with the first down report from Health.
func (s *Scope) Live(ctx context.Context) error {
	return firstDown(s.Health(ctx))
}

func (s *Scope) Ready(ctx context.Context) error {
	return firstDown(s.Readiness(ctx))
}

// Health checks every built singleton and every instance cached in the
// subtree rooted at s. Instances that are not built yet are not checked.
func (s *Scope) Health(ctx context.Context) []HealthReport {
	return s.check(ctx, func(instance any) (func(context.Context) error, bool) {
		hc, ok := instance.(HealthChecker)
		if !ok {
			return nil, false
		}
		return hc.HealthCheck, true
	})
}

func (s *Scope) Readiness(ctx context.Context) []HealthReport {
	return s.check(ctx, func(instance any) (func(context.Context) error, bool) {
		rc, ok := instance.(ReadinessChecker)
		if !ok {
			return nil, false
		}
		return rc.ReadinessCheck, true
	})
}

type probe struct {
	name  string
	depth int
	check func(context.Context) error
}

func (s *Scope) check(
	ctx context.Context,
	pick func(instance any) (func(context.Context) error, bool),
) []HealthReport {
	c := s.container
	var probes []probe

	collect := func(depth int) func(uuid.UUID, any) bool {
		return func(id uuid.UUID, instance any) bool {
			fn, ok := pick(instance)
			if !ok {
				return true
			}
			name := "<unknown>"
			if d, ok := c.byID[id]; ok {
				name = reflectx.Name(d.serviceType)
			}
			probes = append(probes, probe{name: name, depth: depth, check: fn})
			return true
		}
	}

	c.singletons.Range(collect(RootDepth))
	s.walk(func(node *Scope) {
		node.instances.Range(collect(node.depth))
	})

	reports := make([]HealthReport, len(probes))
	var wg sync.WaitGroup

	for i, p := range probes {
		wg.Add(1)
		go func() {
			defer wg.Done()

			start := time.Now()
			err := p.check(ctx)

			report := HealthReport{
				Name:    p.name,
				Depth:   p.depth,
				Latency: time.Since(start),
			}

			if err != nil {
				report.Status = HealthStatusDown
				report.Error = err
			} else {
				report.Status = HealthStatusUp
			}

			reports[i] = report
		}()
	}

	wg.Wait()
	return reports
}

func (s *Scope) walk(fn func(*Scope)) {
	fn(s)
	for _, child := range s.Children() {
		child.walk(fn)
	}
}

func firstDown(reports []HealthReport) error {
	for _, r := range reports {
		if r.Status == HealthStatusDown {
			return errHealthCheckFailed(r.Name, r.Error)
		}
	}
	return nil
}
