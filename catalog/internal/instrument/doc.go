// Package instrument provides the logging, metrics and tracing plumbing shared by the storage engines.
//
// Every collaborator is optional. A nil logger, collector or tracer turns the corresponding
// instrumentation into a no-op, so engines can call the helpers unconditionally.
package instrument
