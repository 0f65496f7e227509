package strata_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danpasecinic/strata"
)

type HealthyService struct{ id int }

func (s *HealthyService) HealthCheck(ctx context.Context) error {
	return nil
}

type UnhealthyService struct{ id int }

func (s *UnhealthyService) HealthCheck(ctx context.Context) error {
	return errors.New("service unhealthy")
}

type NotReadyService struct{ id int }

func (s *NotReadyService) ReadinessCheck(ctx context.Context) error {
	return errors.New("service not ready")
}

func TestHealth_BuiltInstancesOnly(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := strata.Build([]*strata.Descriptor{
		strata.ProvideValue(&HealthyService{}),
		strata.MustSynthesize[*UnhealthyService](strata.AtDepth(1), func() *UnhealthyService {
			return &UnhealthyService{}
		}),
	})

	assert.Empty(t, root.Health(ctx))

	strata.MustRequire[*HealthyService](root)
	require.NoError(t, root.Live(ctx))

	reports := root.Health(ctx)
	require.Len(t, reports, 1)
	assert.Equal(t, strata.HealthStatusUp, reports[0].Status)
}

func TestHealth_ReportsSubtree(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := strata.Build([]*strata.Descriptor{
		strata.MustSynthesize[*UnhealthyService](strata.AtDepth(1), func() *UnhealthyService {
			return &UnhealthyService{}
		}),
	})
	level := root.NewDeeperScope()
	strata.MustRequire[*UnhealthyService](level)

	reports := root.Health(ctx)
	require.Len(t, reports, 1)
	assert.Equal(t, strata.HealthStatusDown, reports[0].Status)
	assert.Equal(t, 1, reports[0].Depth)
	assert.Contains(t, reports[0].Name, "UnhealthyService")

	err := root.Live(ctx)
	require.Error(t, err)
	var se *strata.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, strata.ErrCodeHealthCheckFailed, se.Code)
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := strata.Build([]*strata.Descriptor{strata.ProvideValue(&NotReadyService{})})
	require.NoError(t, root.Ready(ctx))

	strata.MustRequire[*NotReadyService](root)
	assert.ErrorContains(t, root.Ready(ctx), "service not ready")
}
