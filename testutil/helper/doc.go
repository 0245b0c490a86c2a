// Package helper provides test doubles for the observability interfaces (log, metrics and tracing spies)
// and fixtures for arranging and asserting catalog state in tests.
package helper
