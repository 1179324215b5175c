package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("scope", "SCOPE_1"),
		attribute.String("company_id", "456"),
		attribute.String("outcome", "generated"),
	)
	assert.Len(t, attrs, 2)
	keys := []attribute.Key{attrs[0].Key, attrs[1].Key}
	assert.Contains(t, keys, attribute.Key("scope"))
	assert.Contains(t, keys, attribute.Key("outcome"))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordEmissionRecord(context.Background(), "SCOPE_1", "manual")
		m.RecordAICall(context.Background(), "classifier", "ok")
	})
	assert.NotPanics(t, func() {
		NewNoop().RecordReportGenerated(context.Background(), "CSRD")
	})
}
