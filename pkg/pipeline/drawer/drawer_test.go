package drawer_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-interceptor/pkg/pipeline"
	"github.com/askiada/go-interceptor/pkg/pipeline/drawer"
	"github.com/askiada/go-interceptor/pkg/pipeline/measure"
)

func steps() []pipeline.Step[int] {
	return []pipeline.Step[int]{
		pipeline.Named("decrement", pipeline.Sync(func(_ context.Context, n int) (int, error) { return n - 1, nil })),
		pipeline.Named("double", pipeline.Map(func(n int) int { return n * 2 })),
	}
}

func TestPipelineDrawer(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	pipe, err := pipeline.FromSlice(steps(), pipeline.WithHooks[int](drawer.PipelineDrawer(drawer.NewDOTWriterDrawer(buf), nil)))
	require.NoError(t, err)

	require.NoError(t, pipe.Finish())

	want := `digraph pipeline {
	rankdir="LR";
	"start" [shape="circle"];
	"decrement" [shape="box"];
	"double" [shape="box"];
	"end" [shape="circle"];
	"start" -> "decrement" [];
	"decrement" -> "double" [];
	"double" -> "end" [];
}
`
	assert.Equal(t, want, buf.String())
}

func TestPipelineDrawerWithMeasure(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	msr := measure.NewDefaultMeasure()

	pipe, err := pipeline.FromSlice(steps(), pipeline.WithHooks[int](
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTWriterDrawer(buf), msr),
	))
	require.NoError(t, err)

	for _, in := range []int{1, 2, 3} {
		_, err = pipe.Do(t.Context(), in)
		require.NoError(t, err)
	}

	require.NoError(t, pipe.Finish())

	out := buf.String()
	assert.Contains(t, out, `"start" -> "decrement" [color=`)
	assert.Contains(t, out, `"decrement" [shape="box", xlabel="`)
	assert.Contains(t, out, `falsy=1`)
	assert.Contains(t, out, `skipped=1`)
	assert.Contains(t, out, `"end" [shape="circle", xlabel="runs=3`)
	assert.Contains(t, out, `"double" -> "end" [];`)
}

func TestPipelineDrawerDuplicateStep(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.FromSlice([]pipeline.Step[int]{
		pipeline.Named("same", pipeline.Map(func(n int) int { return n })),
		pipeline.Named("same", pipeline.Map(func(n int) int { return n })),
	}, pipeline.WithHooks[int](drawer.PipelineDrawer(drawer.NewDOTWriterDrawer(&bytes.Buffer{}), nil)))
	require.Error(t, err)
	assert.Nil(t, pipe)
}

func TestDOTDrawerFile(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "pipeline.dot")

	pipe, err := pipeline.FromSlice(steps(), pipeline.WithHooks[int](drawer.PipelineDrawer(drawer.NewDOTDrawer(fileName), nil)))
	require.NoError(t, err)
	require.NoError(t, pipe.Finish())

	content, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "digraph pipeline {"))
}

func TestDOTDrawerFileError(t *testing.T) {
	t.Parallel()

	fileName := filepath.Join(t.TempDir(), "missing", "pipeline.dot")

	pipe, err := pipeline.FromSlice(steps(), pipeline.WithHooks[int](drawer.PipelineDrawer(drawer.NewDOTDrawer(fileName), nil)))
	require.NoError(t, err)
	assert.Error(t, pipe.Finish())
}
