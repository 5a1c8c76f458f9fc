// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

package o11y

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/schildwaechter/countinghouse/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// ErrBadConnectionString signals an unusable secondary backend credential.
var ErrBadConnectionString = errors.New("malformed telemetry connection string")

// ConnectionString is the parsed credential for the optional secondary
// trace backend, a semicolon-separated Key=Value list.
type ConnectionString struct {
	IngestionEndpoint  string
	InstrumentationKey string
}

// ParseConnectionString parses the secondary backend credential.
// An IngestionEndpoint entry is required, everything else is optional.
func ParseConnectionString(raw string) (ConnectionString, error) {
	var cs ConnectionString
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, found := strings.Cut(part, "=")
		if !found {
			return ConnectionString{}, ErrBadConnectionString
		}
		switch key {
		case "IngestionEndpoint":
			cs.IngestionEndpoint = value
		case "InstrumentationKey":
			cs.InstrumentationKey = value
		}
	}
	if cs.IngestionEndpoint == "" {
		return ConnectionString{}, ErrBadConnectionString
	}
	return cs, nil
}

// TracesURL is the full OTLP HTTP traces URL at the ingestion endpoint.
func (cs ConnectionString) TracesURL() string {
	return strings.TrimSuffix(cs.IngestionEndpoint, "/") + "/v1/traces"
}

// Headers are the request headers carrying the credential.
func (cs ConnectionString) Headers() map[string]string {
	if cs.InstrumentationKey == "" {
		return nil
	}
	return map[string]string{"x-instrumentation-key": cs.InstrumentationKey}
}

// InitPropagator installs W3C trace context propagation. It runs
// unconditionally at startup, so traceparent headers keep flowing
// even when no exporter could be set up.
func InitPropagator() {
	otel.SetTextMapPropagator(propagation.TraceContext{})
}

// SamplerFromRatio turns the configured sampling ratio into a sampler.
// Sampling decisions from upstream services are always respected.
func SamplerFromRatio(ratio float64) sdktrace.Sampler {
	if ratio >= 1.0 {
		return sdktrace.AlwaysSample()
	}
	if ratio <= 0 {
		return sdktrace.NeverSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// InitTracer initializes an OpenTelemetry tracer provider that exports traces
// to the primary OTLP HTTP endpoint and, when a connection string is set, to
// the secondary backend as well. Each exporter gets its own batch processor,
// so a stalled backend never delays the other one or any request.
func InitTracer(telemetry config.Telemetry, commonAttribs []attribute.KeyValue) (*sdktrace.TracerProvider, error) {
	ctx := context.Background()
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(telemetry.TracesEndpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(SamplerFromRatio(telemetry.SampleRatio)),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			commonAttribs...,
		)),
	}

	if telemetry.ConnectionString != "" {
		cs, err := ParseConnectionString(telemetry.ConnectionString)
		if err != nil {
			// fail open, the primary exporter keeps running
			slog.Warn("Ignoring secondary trace backend: " + err.Error())
		} else {
			secondary, err := otlptracehttp.New(ctx,
				otlptracehttp.WithEndpointURL(cs.TracesURL()),
				otlptracehttp.WithHeaders(cs.Headers()),
			)
			if err != nil {
				slog.Warn("Ignoring secondary trace backend: " + err.Error())
			} else {
				opts = append(opts, sdktrace.WithBatcher(secondary))
			}
		}
	}

	tracerProvider := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tracerProvider, nil
}

// InitMeter initializes an OpenTelemetry meter provider that exports metrics to the specified OTLP HTTP endpoint.
func InitMeter(otlphttpEndpoint string, commonAttribs []attribute.KeyValue) (*sdkmetric.MeterProvider, error) {
	ctx := context.Background()
	metricExporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(otlphttpEndpoint), otlpmetrichttp.WithInsecure())
	if err != nil {
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			commonAttribs...,
		)),
	)
	otel.SetMeterProvider(meterProvider)

	return meterProvider, nil
}

// InitOtelLogger initializes an OpenTelemetry logger provider that exports logs to the specified OTLP HTTP endpoint.
func InitOtelLogger(otlphttpEndpoint string, commonAttribs []attribute.KeyValue) (*sdklog.LoggerProvider, error) {
	ctx := context.Background()
	logExporter, err := otlploghttp.New(ctx, otlploghttp.WithEndpoint(otlphttpEndpoint), otlploghttp.WithInsecure())
	if err != nil {
		return nil, err
	}

	logProvider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			commonAttribs...,
		)),
	)
	global.SetLoggerProvider(logProvider)

	return logProvider, nil
}
