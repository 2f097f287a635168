package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-interceptor/pkg/pipeline"
)

type (
	mapper  func(any) any
	checker func(context.Context, any) (any, error)
	deferer func(context.Context, any) *pipeline.Future[any]
)

func TestBuildShapes(t *testing.T) {
	t.Parallel()

	double := func(in any) any { return in.(int) * 2 }

	tcs := map[string]struct {
		args []any
		want any
	}{
		"map": {
			args: []any{double},
			want: 6,
		},
		"func with error": {
			args: []any{func(in any) (any, error) { return in.(int) + 1, nil }},
			want: 4,
		},
		"func with context": {
			args: []any{func(_ context.Context, in any) (any, error) { return in.(int) - 1, nil }},
			want: 2,
		},
		"async func": {
			args: []any{func(ctx context.Context, in any) *pipeline.Future[any] {
				return pipeline.Go(ctx, func(context.Context) (any, error) { return in.(int) * 10, nil })
			}},
			want: 30,
		},
		"step": {
			args: []any{pipeline.Map(double)},
			want: 6,
		},
		"several": {
			args: []any{double, double, pipeline.Map(double)},
			want: 24,
		},
		"slice": {
			args: []any{[]any{double, double}},
			want: 12,
		},
		"typed slice": {
			args: []any{[]func(any) any{double, double, double}},
			want: 24,
		},
		"array": {
			args: []any{[2]func(any) any{double, double}},
			want: 12,
		},
		"named func types": {
			args: []any{
				mapper(double),
				checker(func(_ context.Context, in any) (any, error) { return in.(int) + 1, nil }),
				deferer(func(_ context.Context, in any) *pipeline.Future[any] { return pipeline.Resolved[any](in.(int) * 10) }),
			},
			want: 70,
		},
		"slice of named func type": {
			args: []any{[]mapper{double, double}},
			want: 12,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.Build(tc.args...)
			require.NoError(t, err)

			got, err := pipe.Do(t.Context(), 3)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildInvalid(t *testing.T) {
	t.Parallel()

	identity := func(a any) any { return a }

	var nilFunc func(any) any

	tcs := map[string]struct {
		args []any
	}{
		"no argument":            {args: nil},
		"empty slice":            {args: []any{[]any{}}},
		"number in arguments":    {args: []any{identity, 1, identity}},
		"string in slice":        {args: []any{[]any{identity, "1", identity}}},
		"nil in arguments":       {args: []any{identity, nil}},
		"nil func in slice":      {args: []any{[]any{nilFunc}}},
		"two arguments function": {args: []any{func(a, b any) any { return a }}},
		"slice among arguments":  {args: []any{identity, []any{identity}}},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.Build(tc.args...)
			require.ErrorIs(t, err, pipeline.ErrInvalidArgument)
			assert.Nil(t, pipe)
		})
	}
}

func TestNamed(t *testing.T) {
	t.Parallel()

	assert.Nil(t, pipeline.Named[int]("nil", nil))

	pipe, err := pipeline.New(
		pipeline.Named("plus one", pipeline.Sync(plus1)),
		pipeline.Named("", pipeline.Sync(plus1)),
	)
	require.NoError(t, err)

	steps := pipe.Steps()
	require.Len(t, steps, 2)
	assert.Equal(t, "plus one", steps[0].Name)
	assert.Equal(t, "step 2", steps[1].Name)

	got, err := pipe.Do(t.Context(), 1)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}
