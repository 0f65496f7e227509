package benchmark

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/danpasecinic/strata"
)

type slowConnection struct {
	work time.Duration
}

func (c *slowConnection) DisposeAsync(ctx context.Context) error {
	time.Sleep(c.work)
	return nil
}

func BenchmarkDispose_10_Strata(b *testing.B) {
	benchmarkDisposeStrata(b, 10)
}

func BenchmarkDispose_10_Fx(b *testing.B) {
	benchmarkStopFx(b, 10, 0)
}

func BenchmarkDispose_50_Strata(b *testing.B) {
	benchmarkDisposeStrata(b, 50)
}

func BenchmarkDispose_50_Fx(b *testing.B) {
	benchmarkStopFx(b, 50, 0)
}

func BenchmarkDisposeWithWork_10_Strata(b *testing.B) {
	benchmarkDisposeStrataWithWork(b, 10, false, time.Millisecond)
}

func BenchmarkDisposeWithWork_10_StrataAsync(b *testing.B) {
	benchmarkDisposeStrataWithWork(b, 10, true, time.Millisecond)
}

func BenchmarkDisposeWithWork_10_Fx(b *testing.B) {
	benchmarkStopFx(b, 10, time.Millisecond)
}

func benchmarkDisposeStrata(b *testing.B, count int) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		root := strata.Build([]*strata.Descriptor{
			strata.MustSynthesize[*Connection](strata.Transient, func() *Connection { return &Connection{} }),
		})
		for j := 0; j < count; j++ {
			_, _ = strata.Require[*Connection](root)
		}

		b.StartTimer()
		_ = root.Dispose()
	}
}

func benchmarkDisposeStrataWithWork(b *testing.B, count int, async bool, work time.Duration) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		root := strata.Build([]*strata.Descriptor{
			strata.MustSynthesize[*slowConnection](strata.Transient, func() *slowConnection {
				return &slowConnection{work: work}
			}),
		})
		for j := 0; j < count; j++ {
			_, _ = strata.Require[*slowConnection](root)
		}

		b.StartTimer()
		if async {
			_ = <-root.DisposeAsync(context.Background())
		} else {
			_ = root.Dispose()
		}
	}
}

func benchmarkStopFx(b *testing.B, count int, work time.Duration) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		providers := make([]fx.Option, count)
		invokers := make([]any, count)
		for j := 0; j < count; j++ {
			idx := j
			name := fmt.Sprintf("conn_%d", j)
			providers[j] = fx.Provide(
				fx.Annotate(
					func(lc fx.Lifecycle) *Connection {
						conn := &Connection{Port: idx}
						lc.Append(
							fx.Hook{
								OnStop: func(ctx context.Context) error {
									time.Sleep(work)
									return conn.Dispose()
								},
							},
						)
						return conn
					},
					fx.ResultTags(fmt.Sprintf(`name:"%s"`, name)),
				),
			)
			invokers[j] = fx.Annotate(
				func(*Connection) {},
				fx.ParamTags(fmt.Sprintf(`name:"%s"`, name)),
			)
		}

		opts := []fx.Option{fx.NopLogger, fx.Invoke(invokers...)}
		opts = append(opts, providers...)
		app := fx.New(opts...)

		ctx := context.Background()
		_ = app.Start(ctx)
		b.StartTimer()
		_ = app.Stop(ctx)
	}
}
