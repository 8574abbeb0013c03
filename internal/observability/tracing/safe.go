package tracing

import (
	"errors"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

const maxErrorLength = 256

// SafeAttributes drops attributes with empty string values so spans stay
// free of placeholder noise.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if attr.Value.Type() == attribute.STRING && strings.TrimSpace(attr.Value.AsString()) == "" {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

// SafeError truncates error messages before they are recorded on a span.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if len(message) > maxErrorLength {
		message = message[:maxErrorLength]
	}
	return errors.New(message)
}
