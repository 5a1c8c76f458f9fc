// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

// Package o11y wires up logging, metrics and tracing.
package o11y

import (
	"context"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/trace"
)

var Logger *slog.Logger

// CreateLogger fans slog out to the OTEL bridge and stdout.
func CreateLogger(appName string, jsonLogging bool) *slog.Logger {
	var stdoutHandler slog.Handler
	if jsonLogging {
		stdoutHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{})
	} else {
		stdoutHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	Logger = slog.New(
		slogmulti.Fanout(
			otelslog.NewLogger(appName).Handler(),
			stdoutHandler,
		),
	)
	return Logger
}

// LoggerTraceAttr provides the trace ID as a log attribute.
func LoggerTraceAttr(ctx context.Context, span trace.Span) slog.Attr {
	var traceAttr slog.Attr
	if trace.SpanFromContext(ctx).SpanContext().HasTraceID() {
		traceAttr = slog.String("trace_id", span.SpanContext().TraceID().String())
	}
	return traceAttr
}

// LoggerSpanAttr provides the span ID as a log attribute.
func LoggerSpanAttr(ctx context.Context, span trace.Span) slog.Attr {
	var spanAttr slog.Attr
	if trace.SpanFromContext(ctx).SpanContext().HasSpanID() {
		spanAttr = slog.String("span_id", span.SpanContext().SpanID().String())
	}
	return spanAttr
}
