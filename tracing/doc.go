// Package tracing wraps OpenTelemetry so that the supervisor and planes can
// record spans for commands and flights without importing the SDK directly.
// Spans are no-ops until Init installs a provider.
package tracing
