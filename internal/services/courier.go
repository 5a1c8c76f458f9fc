// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/schildwaechter/countinghouse/internal/o11y"
	"github.com/schildwaechter/countinghouse/internal/types"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// we need to make calls out, with one traced client for all of them
var courierClient = &http.Client{
	Transport: otelhttp.NewTransport(http.DefaultTransport),
}

// NimbleCourier asks a remote counting house for a tally
func NimbleCourier(ctx context.Context, backend string, text string) (types.TextTally, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "NimbleCourier")
	defer span.End()

	o11y.Logger.DebugContext(ctx, "Courier calling "+backend+" 🐦", o11y.LoggerTraceAttr(ctx, span), o11y.LoggerSpanAttr(ctx, span))

	requestBody, err := json.Marshal(types.TallyRequest{Text: &text})
	if err != nil {
		span.RecordError(err)
		return types.TextTally{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", backend+"/analyze", bytes.NewReader(requestBody))
	if err != nil {
		span.RecordError(err)
		return types.TextTally{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	// Inject TraceParent to Context
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	var tally types.TextTally
	resp, err := courierClient.Do(req)
	if err != nil {
		span.RecordError(err)
		o11y.Logger.ErrorContext(ctx, "Error calling backend!", o11y.LoggerTraceAttr(ctx, span), o11y.LoggerSpanAttr(ctx, span))
		return tally, err
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		o11y.Logger.ErrorContext(ctx, err.Error())
		return tally, err
	}
	if err := json.Unmarshal(responseData, &tally); err != nil {
		span.RecordError(err)
		return tally, err
	}

	return tally, nil
}
