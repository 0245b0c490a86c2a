// Package zerologadapter implements catalog.Logger and catalog.ContextualLogger on top of rs/zerolog.
//
// The contextual methods add the trace and span id of the active OpenTelemetry span, if any,
// so console or JSON logs can be correlated with traces.
package zerologadapter
