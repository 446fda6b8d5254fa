// Package telemetry wraps the OpenTelemetry API used by the outbound clients.
// No exporter is installed here: without one the global provider is a no-op.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func String(key string, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

func Int(key string, value int) attribute.KeyValue {
	return attribute.Int(key, value)
}

func Bool(key string, value bool) attribute.KeyValue {
	return attribute.Bool(key, value)
}

// GetTracer returns a tracer for the named component.
func GetTracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(name)
}
