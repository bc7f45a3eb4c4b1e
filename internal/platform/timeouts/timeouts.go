// Package timeouts defines timeout constants shared across commands.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers and telemetry wait for in-flight work
// during graceful shutdown.
const Shutdown = 5 * time.Second

// SnapshotIO caps a single snapshot store read or write.
const SnapshotIO = 5 * time.Second

// HealthCheck caps a readiness check against a running server.
const HealthCheck = 3 * time.Second
