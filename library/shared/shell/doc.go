// Package shell contains the infrastructure shared by all command and query slices of the library:
// the handler contracts, retry with exponential backoff for transient storage contention,
// handler results, and the logging, metrics and tracing helpers used by the observable wrappers.
//
// Business rules live in the catalog package and in the Decide functions of the slices;
// nothing in here makes a business decision.
package shell
