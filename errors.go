package hull

import (
	"fmt"
	"reflect"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeContainerAlreadyBuilt indicates the builder was used after Build was called
	CodeContainerAlreadyBuilt = "CONTAINER_ALREADY_BUILT"

	// CodeContainerNotBuilt indicates the container was requested before a successful Build
	CodeContainerNotBuilt = "CONTAINER_NOT_BUILT"

	// CodeRegistrationFailed indicates a registration or alias was rejected
	CodeRegistrationFailed = "REGISTRATION_FAILED"

	// CodeInvalidConstructor indicates a constructor function has an unusable shape
	CodeInvalidConstructor = "INVALID_CONSTRUCTOR"

	// CodeResolutionFailed indicates a type-key is not resolvable from the container
	CodeResolutionFailed = "RESOLUTION_FAILED"

	// CodeDependencyMissing indicates a constructor needs a type that was never registered
	CodeDependencyMissing = "DEPENDENCY_MISSING"

	// CodeDependencyCycle indicates the remaining components depend on each other
	CodeDependencyCycle = "DEPENDENCY_CYCLE"

	// CodeConstructorFaulted indicates a constructor failed while building
	CodeConstructorFaulted = "CONSTRUCTOR_FAULTED"

	// CodeHealthCheckFailed indicates a built component reported itself unhealthy
	CodeHealthCheckFailed = "HEALTH_CHECK_FAILED"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrContainerAlreadyBuilt is returned by every builder mutation and by a second Build.
var ErrContainerAlreadyBuilt = errs.NewError(CodeContainerAlreadyBuilt, "container already built", nil)

// ErrContainerNotBuilt is returned when the container is accessed before Build succeeded.
var ErrContainerNotBuilt = errs.NewError(CodeContainerNotBuilt, "container not built", nil)

// ErrInvalidConstructor is a sentinel error for constructor shape problems.
var ErrInvalidConstructor = errs.NewError(CodeInvalidConstructor, "invalid constructor", nil)

// ErrRegistrationFailedSentinel is a sentinel error for rejected registrations (for error checking).
var ErrRegistrationFailedSentinel = errs.NewError(CodeRegistrationFailed, "registration failed", nil)

// ErrResolutionFailedSentinel is a sentinel error for failed lookups (for error checking).
var ErrResolutionFailedSentinel = errs.NewError(CodeResolutionFailed, "resolution failed", nil)

// ErrDependencyMissingSentinel is a sentinel error for missing dependencies (for error checking).
var ErrDependencyMissingSentinel = errs.NewError(CodeDependencyMissing, "dependency missing", nil)

// ErrDependencyCycleSentinel is a sentinel error for dependency cycles (for error checking).
var ErrDependencyCycleSentinel = errs.NewError(CodeDependencyCycle, "dependency cycle", nil)

// ErrConstructorFaultedSentinel is a sentinel error for failing constructors (for error checking).
var ErrConstructorFaultedSentinel = errs.NewError(CodeConstructorFaulted, "constructor faulted", nil)

// ErrHealthCheckFailedSentinel is a sentinel error for failing health checks (for error checking).
var ErrHealthCheckFailedSentinel = errs.NewError(CodeHealthCheckFailed, "health check failed", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrRegistrationFailed creates an error for a rejected registration of typ.
func ErrRegistrationFailed(typ reflect.Type, reason string) *errs.Error {
	return errs.NewError(
		CodeRegistrationFailed,
		fmt.Sprintf("registration of %s failed: %s", DescribeType(typ), reason),
		nil,
	).WithContext("type", DescribeType(typ)).
		WithContext("reason", reason).(*errs.Error)
}

// ErrIncompatibleCapability creates an error for an alias the component does not satisfy.
func ErrIncompatibleCapability(typ, capability reflect.Type) *errs.Error {
	return errs.NewError(
		CodeRegistrationFailed,
		fmt.Sprintf("%s is not assignable to %s", DescribeType(typ), DescribeType(capability)),
		nil,
	).WithContext("type", DescribeType(typ)).
		WithContext("capability", DescribeType(capability)).
		WithContext("reason", "incompatible capability").(*errs.Error)
}

// NewConstructorError creates an error for a constructor with an unusable shape.
func NewConstructorError(fn any, cause error) *errs.Error {
	return errs.NewError(
		CodeInvalidConstructor,
		fmt.Sprintf("invalid constructor %T", fn),
		cause,
	).WithContext("constructor", fmt.Sprintf("%T", fn)).(*errs.Error)
}

// ErrResolutionFailed creates an error for a type-key that is not in the container.
func ErrResolutionFailed(typ reflect.Type) *errs.Error {
	return errs.NewError(
		CodeResolutionFailed,
		fmt.Sprintf("no component registered as %s", DescribeType(typ)),
		nil,
	).WithContext("type", DescribeType(typ)).(*errs.Error)
}

// ErrTypeMismatch creates an error for a resolved instance that is not of the requested type.
func ErrTypeMismatch(typ reflect.Type, actual any) *errs.Error {
	return errs.NewError(
		CodeResolutionFailed,
		fmt.Sprintf("component %s type mismatch: got %T", DescribeType(typ), actual),
		nil,
	).WithContext("type", DescribeType(typ)).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// NewHealthCheckError creates an error for a component whose health check failed.
func NewHealthCheckError(typ reflect.Type, name string, cause error) *errs.Error {
	return errs.NewError(
		CodeHealthCheckFailed,
		fmt.Sprintf("component '%s' (%s) is unhealthy", name, DescribeType(typ)),
		cause,
	).WithContext("type", DescribeType(typ)).
		WithContext("component", name).(*errs.Error)
}

// =============================================================================
// BUILD ERRORS
// =============================================================================

// Signature pairs a component type with the dependency types of its selected constructor.
type Signature struct {
	Type   reflect.Type
	Params []reflect.Type
}

// String renders the signature as Type(Param, Param).
func (s Signature) String() string {
	return DescribeConstructor(s.Type, s.Params)
}

// BuildError is returned by Build. It carries everything that was known when the
// build stopped; the container is never produced alongside it.
type BuildError struct {
	err *errs.Error

	// Created lists the instances constructed before the failure, in construction order.
	Created []any

	// Missing lists the unregistered dependency types, sorted by description.
	// Only set for CodeDependencyMissing.
	Missing []reflect.Type

	// Incomplete lists the components that could not be constructed with the
	// dependency signature of their selected constructor.
	Incomplete []Signature

	// Cycle is one concrete dependency cycle among Incomplete, closed by repeating
	// its first element. Only set for CodeDependencyCycle.
	Cycle []reflect.Type

	// Attempted is the constructor that faulted. Only set for CodeConstructorFaulted.
	Attempted *Signature
}

// Error returns the diagnostic report.
func (e *BuildError) Error() string {
	return e.err.Error()
}

// Unwrap returns the constructor failure, if any.
func (e *BuildError) Unwrap() error {
	return e.err.Unwrap()
}

// Cause returns the constructor failure, if any.
func (e *BuildError) Cause() error {
	return e.err.Cause()
}

// Is matches sentinel errors by code.
func (e *BuildError) Is(target error) bool {
	return e.err.Is(target)
}

// GetCode returns the error code.
func (e *BuildError) GetCode() string {
	return e.err.GetCode()
}

// GetContext returns the structured context attached to the error.
func (e *BuildError) GetContext() map[string]any {
	return e.err.GetContext()
}

// IncompleteTypes returns the component types that were left unconstructed.
func (e *BuildError) IncompleteTypes() []reflect.Type {
	types := make([]reflect.Type, len(e.Incomplete))
	for i, sig := range e.Incomplete {
		types[i] = sig.Type
	}

	return types
}

func newDependencyMissing(created []any, missing []reflect.Type, incomplete []Signature) *BuildError {
	return &BuildError{
		err: errs.NewError(CodeDependencyMissing, missingReport(missing, incomplete), nil).
			WithContext("missing", describeAll(missing)).
			WithContext("incomplete", describeSignatures(incomplete)).(*errs.Error),
		Created:    created,
		Missing:    missing,
		Incomplete: incomplete,
	}
}

func newDependencyCycle(created []any, incomplete []Signature, cycle []reflect.Type) *BuildError {
	return &BuildError{
		err: errs.NewError(CodeDependencyCycle, incompleteReport("", incomplete), nil).
			WithContext("incomplete", describeSignatures(incomplete)).
			WithContext("cycle", describeAll(cycle)).(*errs.Error),
		Created:    created,
		Incomplete: incomplete,
		Cycle:      cycle,
	}
}

func newConstructorFaulted(created []any, attempted Signature, cause error) *BuildError {
	return &BuildError{
		err: errs.NewError(CodeConstructorFaulted, attempted.String(), cause).
			WithContext("type", DescribeType(attempted.Type)).(*errs.Error),
		Created:   created,
		Attempted: &attempted,
	}
}
