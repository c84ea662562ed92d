/*
Package observability provides Prometheus metrics for the interpro2go service.

It counts invocations by outcome and records how long the annotation tool ran
and how it exited. All methods are safe to call on a nil *Metrics, so metrics
stay optional for library users.
*/
package observability
