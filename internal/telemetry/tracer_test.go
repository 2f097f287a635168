package telemetry_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-interceptor/internal/config"
	"github.com/askiada/go-interceptor/internal/telemetry"
)

func TestInitTracerDisabled(t *testing.T) {
	tp, shutdown, err := telemetry.InitTracer(config.TelemetryConfig{}, zerolog.Nop())
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(t.Context(), "noop")
	span.End()

	assert.False(t, span.SpanContext().IsValid())
	require.NoError(t, shutdown(t.Context()))
}

func TestInitTracerEnabled(t *testing.T) {
	buf := &bytes.Buffer{}

	tp, shutdown, err := telemetry.InitTracerWithWriter(config.TelemetryConfig{Enabled: true, ServiceName: "svc"}, zerolog.Nop(), buf)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(t.Context(), "exported span")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(t.Context()))
	assert.Contains(t, buf.String(), "exported span")
	assert.Contains(t, buf.String(), "svc")
}
