// Package observable provides decorators that add metrics, tracing and logging to command and query handlers.
//
// The wrappers derive the command or query type from a zero value of the command or query type parameter,
// so they can be created generically:
//
//	handler := reservebook.NewCommandHandler(store)
//	wrapped, err := observable.NewCommandWrapper[reservebook.Command](
//		handler,
//		observable.WithCommandMetrics[reservebook.Command](metricsCollector),
//		observable.WithCommandTracing[reservebook.Command](tracingCollector),
//		observable.WithCommandContextualLogging[reservebook.Command](contextualLogger),
//	)
//
// Outcome classification:
//   - success: the handler returned no error
//   - rejected: a business rule refused the operation (out of stock, forbidden, not found, ...)
//   - canceled / timeout: the context ended
//   - error: everything else, e.g. an unavailable storage
package observable
