// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

// Package handlers provides the HTTP surface of the Counting House.
package handlers

import (
	"net/http"
	"text/template"

	"github.com/schildwaechter/countinghouse/internal/config"
	"github.com/schildwaechter/countinghouse/internal/o11y"
	"github.com/schildwaechter/countinghouse/internal/services"
	"github.com/schildwaechter/countinghouse/internal/types"

	"github.com/enescakir/emoji"
	"github.com/gofiber/fiber/v2"
	slogfiber "github.com/samber/slog-fiber"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "countinghouse"

// RegisterRoutes attaches all public endpoints.
func RegisterRoutes(app *fiber.App, cfg config.Config) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(cfg.AppName + " 🧮")
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return handleHealthz(c)
	})

	app.Post("/analyze", func(c *fiber.Ctx) error {
		return handleAnalyze(c)
	})

	app.Post("/classify", func(c *fiber.Ctx) error {
		return handleClassify(c, cfg)
	})
}

// handleHealthz always reports a healthy house, it depends on nothing.
func handleHealthz(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "ok"})
}

func handleAnalyze(c *fiber.Ctx) error {
	// add tracing
	ctx, span := otel.Tracer(tracerName).Start(c.UserContext(), "AnalyzeEndpoint")
	span.SetAttributes(attribute.String("RequestID", slogfiber.GetRequestIDFromContext(c.Context())))
	defer span.End()

	// an absent, null or unreadable body tallies as the empty text
	var tallyRequest types.TallyRequest
	if err := c.BodyParser(&tallyRequest); err != nil {
		o11y.Logger.DebugContext(ctx, "Unreadable tally request, counting the empty text")
	}

	tally := services.DiligentClerk(ctx, tallyRequest.PlainText(), slogfiber.GetRequestIDFromContext(c.Context()))

	// respond with appropriate mimetype
	offer := c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextPlain)
	o11y.Logger.DebugContext(ctx, "Offer: "+offer)
	if offer == fiber.MIMETextPlain {
		tmpl, err := template.New("tallyText").Parse("{{ .Emoji }} {{ .Length }} characters, {{ .UppercaseCount }} of them upper case")
		if err != nil {
			panic(err)
		}
		return tmpl.ExecuteTemplate(c.Response().BodyWriter(), "tallyText", struct {
			Emoji          string
			Length         int
			UppercaseCount int
		}{emoji.Parse(":abacus:"), tally.Length, tally.UppercaseCount})
	}
	return c.Status(http.StatusOK).JSON(tally)
}

func handleClassify(c *fiber.Ctx, cfg config.Config) error {
	// add tracing
	ctx, span := otel.Tracer(tracerName).Start(c.UserContext(), "ClassifyEndpoint")
	span.SetAttributes(attribute.String("RequestID", slogfiber.GetRequestIDFromContext(c.Context())))
	defer span.End()

	var tallyRequest types.TallyRequest
	if err := c.BodyParser(&tallyRequest); err != nil {
		o11y.Logger.DebugContext(ctx, "Unreadable tally request, counting the empty text")
	}

	// ask the remote counting house if one is configured
	var tally types.TextTally
	if cfg.TallyBackend != "" {
		var courierErr error
		tally, courierErr = services.NimbleCourier(ctx, cfg.TallyBackend, tallyRequest.PlainText())
		if courierErr != nil {
			span.RecordError(courierErr)
			return fiber.NewError(fiber.StatusBadGateway, "Tally backend unavailable")
		}
	} else {
		o11y.Logger.DebugContext(ctx, "No tally backend, counting locally")
		tally = services.DiligentClerk(ctx, tallyRequest.PlainText(), slogfiber.GetRequestIDFromContext(c.Context()))
	}

	return c.Status(http.StatusOK).JSON(types.Classification{
		Classification: services.Classify(tally),
		Analysis:       tally,
	})
}
