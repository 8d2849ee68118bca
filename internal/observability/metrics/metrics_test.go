package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("op", "create"),
		attribute.String("client_name", "ana"),
		attribute.String("outcome", "ok"),
	)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	for _, attr := range attrs {
		if attr.Key == "client_name" {
			t.Fatal("expected client_name to be dropped")
		}
	}
}

func TestNewHTTPMetricsSurvivesDoubleRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	cfg := Config{ServiceName: "estilista", Environment: "test"}

	first := newHTTPMetrics(registry, cfg)
	second := newHTTPMetrics(registry, cfg)

	if first == nil || second == nil {
		t.Fatal("expected metrics instances")
	}
	if first.requests != second.requests {
		t.Fatal("expected the registered counter to be reused")
	}
}
