// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

package main

import (
	"context"
	"log"
	"log/slog"
	"sync"

	"github.com/schildwaechter/countinghouse/internal/config"
	"github.com/schildwaechter/countinghouse/internal/handlers"
	"github.com/schildwaechter/countinghouse/internal/o11y"
	"github.com/schildwaechter/countinghouse/internal/services"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	slogfiber "github.com/samber/slog-fiber"

	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

func main() {
	cfg := config.Load()

	// open the ledger before anything gets counted
	services.InitLedgerChannel()
	services.StartLedgerMonitor()

	app := fiber.New()
	appInt := fiber.New()
	app.Use(requestid.New())

	// liveness and readiness before any tracing/logging/metrics and on the internal port
	appInt.Use(healthcheck.New(healthcheck.Config{
		LivenessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		LivenessEndpoint: "/livez",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		ReadinessEndpoint: "/readyz",
	}))

	// common attributes for all OTEL data
	commonAttribs := []attribute.KeyValue{
		semconv.ServiceNameKey.String("countinghouse"),
		semconv.ServiceVersionKey.String(cfg.BuildVersion),
		semconv.ServiceInstanceIDKey.String(uuid.New().String()),
		attribute.String("hostname", cfg.NodeName),
	}

	// we use both prometheus and OTEL
	prometheus := fiberprometheus.NewWithDefaultRegistry(cfg.AppName)
	prometheus.RegisterAt(appInt, "/metrics")
	app.Use(prometheus.Middleware)
	app.Use(otelfiber.Middleware())

	// propagation must work even if the exporters cannot be set up
	o11y.InitPropagator()

	// traces always go out, to the local collector if nothing else is configured,
	// and additionally to the secondary backend if a connection string is set
	tp, err := o11y.InitTracer(cfg.Telemetry, commonAttribs)
	if err != nil {
		slog.Error("Can't send traces")
	} else {
		defer func() {
			_ = tp.Shutdown(context.Background())
		}()
		slog.Info("Sending traces to " + cfg.Telemetry.TracesEndpoint)
		if cfg.Telemetry.ConnectionString != "" {
			slog.Info("Secondary trace backend configured")
		}
	}

	// metrics and logs only with an explicitly configured OTLP endpoint
	if cfg.Telemetry.OtlpConfigured {
		mp, err := o11y.InitMeter(cfg.Telemetry.OtlpEndpoint, commonAttribs)
		if err != nil {
			log.Fatal("Can't send metrics")
		}
		defer func() {
			_ = mp.Shutdown(context.Background())
		}()
		lp, err := o11y.InitOtelLogger(cfg.Telemetry.OtlpEndpoint, commonAttribs)
		if err != nil {
			log.Fatal("Can't send logs")
		}
		defer func() {
			_ = lp.Shutdown(context.Background())
		}()
		slog.Info("Sending OTEL metrics and logs to " + cfg.Telemetry.OtlpEndpoint)
	}

	// the ledger reports through both prometheus and OTEL
	o11y.InitLedgerCounters(cfg.AppName, commonAttribs, &services.TextsTallied, &services.CharactersTallied)

	// set up the logging with fanout to both stdout and (optionally) OTEL
	logger := o11y.CreateLogger(cfg.AppName, cfg.JSONLogging)
	// always log traceID, spanID and requestID
	loggerConfig := slogfiber.Config{
		WithSpanID:    true,
		WithTraceID:   true,
		WithRequestID: true,
	}
	app.Use(slogfiber.NewWithConfig(logger, loggerConfig))
	app.Use(recover.New())

	handlers.RegisterRoutes(app, cfg)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Fatal(appInt.Listen(cfg.IntAddr + ":" + cfg.IntPort))
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Fatal(app.Listen(cfg.AppAddr + ":" + cfg.AppPort))
	}()
	wg.Wait()
}
