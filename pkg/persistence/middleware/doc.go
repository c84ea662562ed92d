// Package middleware wraps ports.ObjectStore implementations with logging and metrics.
package middleware
