// Counting House
// Copyright Carsten Thiel 2026
//
// SPDX-Identifier: Apache-2.0

// Package config resolves the process configuration from the environment.
// It is read exactly once at startup and passed around as an immutable value.
package config

import (
	"os"
	"strconv"
)

var (
	// to be overwritten on build
	BuildVersion string = "0.0.0"
)

// Telemetry holds the exporter configuration.
// The primary OTLP endpoint is always set (falling back to the local
// collector), the secondary backend only runs when a connection string
// is provided.
type Telemetry struct {
	TracesEndpoint   string
	OtlpEndpoint     string
	OtlpConfigured   bool
	ConnectionString string
	SampleRatio      float64
}

// Config is the process-wide configuration.
type Config struct {
	AppName      string
	NodeName     string
	BuildVersion string

	AppAddr string
	AppPort string
	IntAddr string
	IntPort string

	// optional remote tally backend for /classify
	TallyBackend string

	JSONLogging bool

	Telemetry Telemetry
}

// GetEnv gets an environment variable with a default value
func GetEnv(name string, defaultValue string) string {
	value, exists := os.LookupEnv(name)
	if exists {
		return value
	}
	return defaultValue
}

// Load reads the configuration from the environment.
func Load() Config {
	nodeName, err := os.Hostname()
	if err != nil {
		nodeName = "unknown_host"
	}

	sampleRatio, err := strconv.ParseFloat(GetEnv("TALLY_SAMPLERATIO", "1.0"), 64)
	if err != nil {
		sampleRatio = 1.0
	}

	otlpEndpoint, otlpConfigured := os.LookupEnv("OTLPHTTP_ENDPOINT")
	// a dedicated traces endpoint wins, then the general OTLP one,
	// then the well-known local collector address
	tracesEndpoint := GetEnv("OTLPHTTP_TRACES_ENDPOINT", GetEnv("OTLPHTTP_ENDPOINT", "localhost:4318"))

	_, jsonLogging := os.LookupEnv("JSONLOGGING")

	return Config{
		AppName:      GetEnv("COUNTINGHOUSE_NAME", "Counting House"),
		NodeName:     nodeName,
		BuildVersion: BuildVersion,
		AppAddr:      GetEnv("APP_ADDR", "0.0.0.0"),
		AppPort:      GetEnv("APP_PORT", "1343"),
		IntAddr:      GetEnv("INT_ADDR", "127.0.0.1"),
		IntPort:      GetEnv("INT_PORT", "1347"),
		TallyBackend: GetEnv("TALLY_BACKEND", ""),
		JSONLogging:  jsonLogging,
		Telemetry: Telemetry{
			TracesEndpoint:   tracesEndpoint,
			OtlpEndpoint:     otlpEndpoint,
			OtlpConfigured:   otlpConfigured,
			ConnectionString: GetEnv("TELEMETRY_CONNECTION_STRING", ""),
			SampleRatio:      sampleRatio,
		},
	}
}
