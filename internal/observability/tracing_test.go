package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "cine-log-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracing_Stdout(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{
		ServiceName:  "cine-log-test",
		Enabled:      true,
		Exporter:     "stdout",
		SamplerRatio: 1,
	})
	require.NoError(t, err)
	defer func() { _ = shutdown(context.Background()) }()

	ctx, span := StartSpan(context.Background(), "friends", "send_request")
	span.SetError(errors.New("boom"))
	span.End()

	assert.NotNil(t, ctx)
	assert.Len(t, span.TraceID(), 32)
}

func TestInitTracing_UnknownExporter(t *testing.T) {
	_, err := InitTracing(TracingConfig{ServiceName: "cine-log-test", Enabled: true, Exporter: "zipkin"})
	assert.Error(t, err)
}

func TestTraceRedisOperation(t *testing.T) {
	ctx, span := TraceRedisOperation(context.Background(), "get")
	defer span.End()
	assert.NotNil(t, ctx)
}
