// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

// Package services holds the clerks doing the actual work.
package services

import (
	"context"
	"unicode"

	"github.com/schildwaechter/countinghouse/internal/o11y"
	"github.com/schildwaechter/countinghouse/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "countinghouse"

// texts shorter than this classify as "short"
const shortTextLimit = 20

// TallyText counts the characters in a text.
// Length counts Unicode code points (not bytes), uppercase classification
// is unicode.IsUpper, which is locale-invariant. Total over all inputs.
func TallyText(text string) types.TextTally {
	var tally types.TextTally
	for _, r := range text {
		tally.Length++
		if unicode.IsUpper(r) {
			tally.UppercaseCount++
		}
	}
	return tally
}

// Classify sorts a tally into short and long texts.
func Classify(tally types.TextTally) string {
	if tally.Length < shortTextLimit {
		return "short"
	}
	return "long"
}

// DiligentClerk tallies a text under its own span and books the result
// into the ledger.
func DiligentClerk(ctx context.Context, text string, requestID string) types.TextTally {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "DiligentClerk")
	defer span.End()

	o11y.Logger.DebugContext(ctx, "Clerk at work 🖊️")

	span.AddEvent("Tallying text")
	tally := TallyText(text)
	span.SetAttributes(
		attribute.Int("tally.length", tally.Length),
		attribute.Int("tally.uppercase", tally.UppercaseCount),
		attribute.String("RequestID", requestID),
	)

	RecordTally(int64(tally.Length))
	span.AddEvent("Tally booked")

	return tally
}
