package tracing

import (
	"errors"

	"go.opentelemetry.io/otel/attribute"
)

var allowedAttributeKeys = map[attribute.Key]struct{}{
	"request_id":                  {},
	"http.method":                 {},
	"http.route":                  {},
	"http.status_code":            {},
	"http.server_duration_ms":     {},
	"user_id":                     {},
	"week_start":                  {},
}

// SafeAttributes drops attributes outside the allow-list so spans never
// carry free-form request data.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedAttributeKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

// SafeError reduces an error to its sentinel text before recording it on
// a span, keeping wrapped detail out of the trace backend.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	root := err
	for {
		unwrapped := errors.Unwrap(root)
		if unwrapped == nil {
			break
		}
		root = unwrapped
	}
	return root
}
