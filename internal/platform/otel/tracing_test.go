package otel

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func TestInitTracer_ExportsOnShutdown(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var out bytes.Buffer
	shutdown, err := InitTracer(context.Background(), "app-config-api", "1.0.0", zap.NewNop(), &out)
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "GET /")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, out.String(), `"Name":"GET /"`)
	assert.Contains(t, out.String(), "app-config-api")
}
