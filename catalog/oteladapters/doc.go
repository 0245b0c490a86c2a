// Package oteladapters provides OpenTelemetry implementations of the catalog observability interfaces.
//
// The same adapters serve the storage engines and the command and query handlers:
//   - SlogBridgeLogger and OTelLogger implement catalog.Logger and catalog.ContextualLogger
//   - MetricsCollector implements catalog.ContextualMetricsCollector
//   - TracingCollector implements catalog.TracingCollector
//
// Providers are not configured here, see config.NewObservabilityProviders.
package oteladapters
