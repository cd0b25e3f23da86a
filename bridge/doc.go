// Package bridge forwards boundary operations into the managed runtime.
//
// Each public operation resolves its handle, marshals arguments, invokes
// the managed object, and translates managed-side failures into the
// boundary's structured errors. Managed failures never propagate across
// the boundary: the cause is logged at debug level and then reduced to the
// failing operation's name, so callers see that a call failed but not the
// managed runtime's internal failure model.
//
// The Boundary returns explicit errors. Callers that need the original
// sentinel-value-plus-last-error contract should go through the capi
// package, which layers that convention over this one.
//
// Per-operation call counts and live-handle gauges are exported as
// prometheus metrics.
package bridge
