package observability

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestObservability_RecordResolution(t *testing.T) {
	obs := New("storebot-test")
	defer obs.Shutdown()

	assert.NotPanics(t, func() {
		obs.RecordResolution(context.Background(), "hours", 3*time.Millisecond)
	})
}

func TestObservability_NilSafe(t *testing.T) {
	var obs *Observability
	assert.NotPanics(t, func() {
		obs.RecordResolution(context.Background(), "fallback", time.Millisecond)
		obs.Shutdown()
	})
}

func TestObservability_StdoutTracing(t *testing.T) {
	obs := &Observability{}
	var buf bytes.Buffer
	require.NoError(t, obs.EnableStdoutTracing(&buf))

	_, span := otel.Tracer("storebot-test").Start(context.Background(), "resolve")
	span.End()

	obs.Shutdown()
	assert.Contains(t, buf.String(), `"Name":"resolve"`)
}
