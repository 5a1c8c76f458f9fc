// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"COUNTINGHOUSE_NAME", "APP_ADDR", "APP_PORT", "INT_ADDR", "INT_PORT",
		"OTLPHTTP_ENDPOINT", "OTLPHTTP_TRACES_ENDPOINT",
		"TELEMETRY_CONNECTION_STRING", "TALLY_SAMPLERATIO",
		"TALLY_BACKEND", "JSONLOGGING",
	} {
		if value, ok := os.LookupEnv(name); ok {
			t.Setenv(name, value) // restores after the test
			os.Unsetenv(name)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "Counting House", cfg.AppName)
	assert.Equal(t, "0.0.0.0", cfg.AppAddr)
	assert.Equal(t, "1343", cfg.AppPort)
	assert.Equal(t, "127.0.0.1", cfg.IntAddr)
	assert.Equal(t, "1347", cfg.IntPort)
	assert.Empty(t, cfg.TallyBackend)
	assert.False(t, cfg.JSONLogging)

	// the well-known local collector when nothing is configured
	assert.Equal(t, "localhost:4318", cfg.Telemetry.TracesEndpoint)
	assert.False(t, cfg.Telemetry.OtlpConfigured)
	assert.Empty(t, cfg.Telemetry.ConnectionString)
	assert.Equal(t, 1.0, cfg.Telemetry.SampleRatio)
}

func TestLoadEndpointFallback(t *testing.T) {
	clearEnv(t)

	t.Setenv("OTLPHTTP_ENDPOINT", "collector:4318")
	cfg := Load()
	assert.Equal(t, "collector:4318", cfg.Telemetry.TracesEndpoint)
	assert.True(t, cfg.Telemetry.OtlpConfigured)

	// the dedicated traces endpoint wins
	t.Setenv("OTLPHTTP_TRACES_ENDPOINT", "apm-server:4318")
	cfg = Load()
	assert.Equal(t, "apm-server:4318", cfg.Telemetry.TracesEndpoint)
	assert.Equal(t, "collector:4318", cfg.Telemetry.OtlpEndpoint)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)

	t.Setenv("COUNTINGHOUSE_NAME", "Branch Office")
	t.Setenv("TALLY_BACKEND", "http://central:1343")
	t.Setenv("TELEMETRY_CONNECTION_STRING", "IngestionEndpoint=https://ingest.example.com")
	t.Setenv("TALLY_SAMPLERATIO", "0.5")
	t.Setenv("JSONLOGGING", "1")

	cfg := Load()
	assert.Equal(t, "Branch Office", cfg.AppName)
	assert.Equal(t, "http://central:1343", cfg.TallyBackend)
	assert.Equal(t, "IngestionEndpoint=https://ingest.example.com", cfg.Telemetry.ConnectionString)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRatio)
	assert.True(t, cfg.JSONLogging)
}

func TestLoadBadSampleRatio(t *testing.T) {
	clearEnv(t)

	t.Setenv("TALLY_SAMPLERATIO", "plenty")
	cfg := Load()
	assert.Equal(t, 1.0, cfg.Telemetry.SampleRatio)
}
