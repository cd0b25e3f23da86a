// Package errors provides structured error types for the neon-bridge boundary.
//
// Errors are categorized by Stage (where in the boundary the error occurred)
// and Kind (error category). Kinds map one-to-one onto the boundary's
// failure taxonomy: invalid handles, attach failures, bad addresses,
// construction failures, and managed-side call failures.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.StageInvoke, errors.KindManagedCallFailed).
//		Op("connect").
//		Cause(cause).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidHandle("connect", "client")
//	err := errors.BadAddress("missing ':' separator")
//
// All errors implement the standard error interface and support errors.Is/As.
// Two boundary errors match under errors.Is when Stage and Kind agree, so
// callers can classify failures without string inspection.
package errors
