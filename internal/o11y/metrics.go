// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

package o11y

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	TextsTalliedCounterProm      prometheus.Counter
	CharactersTalliedCounterProm prometheus.Counter
	TextsTalliedCounterOtel      metric.Int64ObservableCounter
	CharactersTalliedCounterOtel metric.Int64ObservableCounter
)

// InitLedgerCounters sets up the ledger metrics in both OTEL and Prometheus
func InitLedgerCounters(appName string, commonAttribs []attribute.KeyValue, textsTallied *atomic.Int64, charactersTallied *atomic.Int64) error {
	meterProvider := otel.GetMeterProvider()
	meter := meterProvider.Meter(appName)

	// register the OTEL metrics
	TextsTalliedCounterOtel, _ = meter.Int64ObservableCounter(
		"countinghouse_texts_tallied",
		metric.WithDescription("Number of texts the Counting House has tallied"),
	)
	CharactersTalliedCounterOtel, _ = meter.Int64ObservableCounter(
		"countinghouse_characters_tallied",
		metric.WithDescription("Number of characters the Counting House has tallied"),
	)

	promLabels := make(prometheus.Labels)
	for _, attr := range commonAttribs {
		promLabels[string(attr.Key)] = attr.Value.AsString()
	}

	// register the Prometheus metrics
	TextsTalliedCounterProm = promauto.NewCounter(prometheus.CounterOpts{
		Name:        "countinghouse_texts_tallied_p",
		Help:        "Number of texts the Counting House has tallied",
		ConstLabels: promLabels,
	})
	CharactersTalliedCounterProm = promauto.NewCounter(prometheus.CounterOpts{
		Name:        "countinghouse_characters_tallied_p",
		Help:        "Number of characters the Counting House has tallied",
		ConstLabels: promLabels,
	})

	// OTEL sending as callback on meter activity (fed by the ledger monitor)
	var err error = nil
	_, err = meter.RegisterCallback(
		func(ctx context.Context, observer metric.Observer) error {
			observer.ObserveInt64(TextsTalliedCounterOtel, textsTallied.Load(), metric.WithAttributes(commonAttribs...))
			return nil
		}, TextsTalliedCounterOtel)

	if err != nil {
		log.Fatalf("Failed to register callback: %v", err)
	}
	_, err = meter.RegisterCallback(
		func(ctx context.Context, observer metric.Observer) error {
			observer.ObserveInt64(CharactersTalliedCounterOtel, charactersTallied.Load(), metric.WithAttributes(commonAttribs...))
			return nil
		}, CharactersTalliedCounterOtel)

	if err != nil {
		log.Fatalf("Failed to register callback: %v", err)
	}
	return err
}
