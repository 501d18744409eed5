package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_Disabled(t *testing.T) {
	tracer, err := InitTracing(Config{Enabled: false})
	require.NoError(t, err)

	ctx, span := tracer.StartSpan(context.Background(), "rules.evaluate")
	defer span.End()
	assert.NotNil(t, ctx)
	assert.False(t, span.SpanContext().IsValid())
	assert.Same(t, tracer, GetTracer())
	assert.NoError(t, Shutdown(context.Background()))
}
