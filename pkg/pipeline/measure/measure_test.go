package measure_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-interceptor/pkg/pipeline"
	"github.com/askiada/go-interceptor/pkg/pipeline/measure"
	"github.com/askiada/go-interceptor/pkg/pipeline/model"
)

func TestDefaultMetric(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()
	mt := msr.AddMetric("step")

	assert.Zero(t, mt.AVGDuration())

	var wg sync.WaitGroup

	for range 10 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			mt.AddDuration(2 * time.Millisecond)
			mt.AddOutcome(model.OutcomeOK)
		}()
	}

	wg.Wait()

	mt.AddOutcome(model.OutcomeSkipped)
	mt.SetTotalDuration(time.Second)
	mt.SetTotalDuration(time.Millisecond)

	assert.Equal(t, 2*time.Millisecond, mt.AVGDuration())
	assert.EqualValues(t, 10, mt.Count(model.OutcomeOK))
	assert.EqualValues(t, 1, mt.Count(model.OutcomeSkipped))
	assert.EqualValues(t, 11, mt.Total())
	assert.Equal(t, time.Second, mt.GetTotalDuration())
	assert.Same(t, mt, msr.GetMetric("step"))
	assert.Nil(t, msr.GetMetric("unknown"))
	assert.Len(t, msr.AllMetrics(), 1)
}

func TestPipelineMeasure(t *testing.T) {
	t.Parallel()

	msr := measure.NewDefaultMeasure()

	pipe, err := pipeline.FromSlice([]pipeline.Step[int]{
		pipeline.Named("sleep", pipeline.Sync(func(_ context.Context, n int) (int, error) {
			time.Sleep(time.Millisecond)

			return n - 1, nil
		})),
		pipeline.Named("fail", pipeline.Sync(func(_ context.Context, n int) (int, error) {
			if n == 4 {
				return 0, assert.AnError
			}

			return n, nil
		})),
		pipeline.Named("identity", pipeline.Map(func(n int) int { return n })),
	}, pipeline.WithHooks[int](measure.PipelineMeasure(msr)))
	require.NoError(t, err)

	// 10 -> ok, 5 -> fails on "fail", 1 -> falsy after "sleep"
	for _, in := range []int{10, 5, 1} {
		_, _ = pipe.Do(t.Context(), in)
	}

	metrics := msr.AllMetrics()
	require.Len(t, metrics, 5)

	assert.EqualValues(t, 3, metrics[model.StartStep.Name].Count(model.OutcomeOK))

	sleep := metrics["sleep"]
	assert.EqualValues(t, 3, sleep.Count(model.OutcomeOK))
	assert.GreaterOrEqual(t, sleep.AVGDuration(), time.Millisecond)

	fail := metrics["fail"]
	assert.EqualValues(t, 1, fail.Count(model.OutcomeOK))
	assert.EqualValues(t, 1, fail.Count(model.OutcomeFailed))
	assert.EqualValues(t, 1, fail.Count(model.OutcomeSkipped))

	identity := metrics["identity"]
	assert.EqualValues(t, 1, identity.Count(model.OutcomeOK))
	assert.EqualValues(t, 2, identity.Count(model.OutcomeSkipped))

	end := metrics[model.EndStep.Name]
	assert.EqualValues(t, 1, end.Count(model.OutcomeOK))
	assert.EqualValues(t, 1, end.Count(model.OutcomeFailed))
	assert.EqualValues(t, 1, end.Count(model.OutcomeFalsy))
	assert.GreaterOrEqual(t, end.GetTotalDuration(), time.Millisecond)
}
