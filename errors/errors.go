package errors

import (
	"fmt"
	"strings"
)

// Stage indicates where in the boundary the error occurred
type Stage string

const (
	StageInit      Stage = "init"      // runtime binding setup/teardown
	StageAttach    Stage = "attach"    // caller attachment
	StageMarshal   Stage = "marshal"   // argument conversion
	StageConstruct Stage = "construct" // managed object creation
	StageInvoke    Stage = "invoke"    // forwarded managed call
	StageRelease   Stage = "release"   // handle/object release
)

// Kind categorizes the error
type Kind string

const (
	KindNotInitialized     Kind = "not_initialized"
	KindAlreadyInitialized Kind = "already_initialized"
	KindInvalidHandle      Kind = "invalid_handle"
	KindAttachFailed       Kind = "attach_failed"
	KindBadAddress         Kind = "bad_address"
	KindConstructionFailed Kind = "construction_failed"
	KindManagedCallFailed  Kind = "managed_call_failed"
	KindAllocationFailed   Kind = "allocation_failed"
	KindInvalidArgument    Kind = "invalid_argument"
	KindInvalidUTF8        Kind = "invalid_utf8"
)

// Error is the structured error type used throughout the boundary
type Error struct {
	Cause  error
	Stage  Stage
	Kind   Kind
	Op     string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Stage))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Stage == t.Stage && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(stage Stage, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Stage: stage,
			Kind:  kind,
		},
	}
}

// Op sets the boundary operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotInitialized reports a missing process-wide runtime binding
func NotInitialized(stage Stage) *Error {
	return &Error{
		Stage:  stage,
		Kind:   KindNotInitialized,
		Detail: "runtime binding not initialized",
	}
}

// AlreadyInitialized reports a second Init without an intervening Shutdown
func AlreadyInitialized() *Error {
	return &Error{
		Stage:  StageInit,
		Kind:   KindAlreadyInitialized,
		Detail: "runtime binding already initialized",
	}
}

// InvalidHandle reports a zero, stale, or wrongly-typed handle
func InvalidHandle(op, kind string) *Error {
	return &Error{
		Stage:  StageInvoke,
		Kind:   KindInvalidHandle,
		Op:     op,
		Detail: fmt.Sprintf("invalid %s handle", kind),
	}
}

// AttachFailed reports a rejected caller attachment
func AttachFailed(detail string) *Error {
	return &Error{
		Stage:  StageAttach,
		Kind:   KindAttachFailed,
		Detail: detail,
	}
}

// BadAddress reports a malformed relay address
func BadAddress(detail string) *Error {
	return &Error{
		Stage:  StageMarshal,
		Kind:   KindBadAddress,
		Detail: detail,
	}
}

// InvalidUTF8 reports a string that cannot cross into the managed encoding
func InvalidUTF8(what string) *Error {
	return &Error{
		Stage:  StageMarshal,
		Kind:   KindInvalidUTF8,
		Detail: fmt.Sprintf("%s is not valid UTF-8", what),
	}
}

// InvalidArgument reports a rejected argument value
func InvalidArgument(op, detail string) *Error {
	return &Error{
		Stage:  StageMarshal,
		Kind:   KindInvalidArgument,
		Op:     op,
		Detail: detail,
	}
}

// ConstructionFailed reports a managed constructor failure
func ConstructionFailed(what string, cause error) *Error {
	return &Error{
		Stage:  StageConstruct,
		Kind:   KindConstructionFailed,
		Detail: fmt.Sprintf("create %s", what),
		Cause:  cause,
	}
}

// ManagedCall reports a failure raised by the managed side during a
// forwarded call. Downstream surfaces keep only the operation name.
func ManagedCall(op string, cause error) *Error {
	return &Error{
		Stage: StageInvoke,
		Kind:  KindManagedCallFailed,
		Op:    op,
		Cause: cause,
	}
}

// AllocationFailed reports a handle allocation failure
func AllocationFailed(what string, cause error) *Error {
	return &Error{
		Stage:  StageConstruct,
		Kind:   KindAllocationFailed,
		Detail: fmt.Sprintf("allocate %s", what),
		Cause:  cause,
	}
}
