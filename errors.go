package strata

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	reflectx "github.com/danpasecinic/strata/internal/reflect"
)

type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNoUsableConstructor
	ErrCodeMultipleConstructors
	ErrCodeInvalidConstructor
	ErrCodeInvalidDepth
	ErrCodeDeeperScopeRequired
	ErrCodeCouldNotBeResolved
	ErrCodeConstructionFailed
	ErrCodeTypeMismatch
	ErrCodeScopeDisposed
	ErrCodeDisposeFailed
	ErrCodeValidationFailed
	ErrCodeHealthCheckFailed
	ErrCodeModuleBuildFailed
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:              "UNKNOWN",
	ErrCodeNoUsableConstructor:  "NO_USABLE_CONSTRUCTOR",
	ErrCodeMultipleConstructors: "MULTIPLE_CONSTRUCTORS",
	ErrCodeInvalidConstructor:   "INVALID_CONSTRUCTOR",
	ErrCodeInvalidDepth:         "INVALID_DEPTH",
	ErrCodeDeeperScopeRequired:  "DEEPER_SCOPE_REQUIRED",
	ErrCodeCouldNotBeResolved:   "COULD_NOT_BE_RESOLVED",
	ErrCodeConstructionFailed:   "CONSTRUCTION_FAILED",
	ErrCodeTypeMismatch:         "TYPE_MISMATCH",
	ErrCodeScopeDisposed:        "SCOPE_DISPOSED",
	ErrCodeDisposeFailed:        "DISPOSE_FAILED",
	ErrCodeValidationFailed:     "VALIDATION_FAILED",
	ErrCodeHealthCheckFailed:    "HEALTH_CHECK_FAILED",
	ErrCodeModuleBuildFailed:    "MODULE_BUILD_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Sentinels for errors.Is. Matching is by code, so any *Error with the same
// code satisfies them.
var (
	ErrNoUsableConstructor  = &Error{Code: ErrCodeNoUsableConstructor}
	ErrMultipleConstructors = &Error{Code: ErrCodeMultipleConstructors}
	ErrInvalidConstructor   = &Error{Code: ErrCodeInvalidConstructor}
	ErrInvalidDepth         = &Error{Code: ErrCodeInvalidDepth}
	ErrDeeperScopeRequired  = &Error{Code: ErrCodeDeeperScopeRequired}
	ErrCouldNotBeResolved   = &Error{Code: ErrCodeCouldNotBeResolved}
	ErrConstructionFailed   = &Error{Code: ErrCodeConstructionFailed}
	ErrTypeMismatch         = &Error{Code: ErrCodeTypeMismatch}
	ErrScopeDisposed        = &Error{Code: ErrCodeScopeDisposed}
	ErrDisposeFailed        = &Error{Code: ErrCodeDisposeFailed}
)

type Error struct {
	Code    ErrorCode
	Message string
	Service string
	Cause   error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Service != "" {
		b.WriteString(fmt.Sprintf(" service=%q:", e.Service))
	}

	if e.Message != "" {
		b.WriteString(" ")
		b.WriteString(e.Message)
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithService(service string) *Error {
	e.Service = service
	return e
}

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// DeeperScopeRequiredError is returned when a descriptor bound to a concrete
// depth is requested from a scope shallower than that depth. Create a scope of
// the required depth and resolve from there.
type DeeperScopeRequiredError struct {
	ServiceType reflect.Type
	Depth       int
	Required    Depth
}

func (e *DeeperScopeRequiredError) Error() string {
	return fmt.Sprintf(
		"[%s] service=%q: required scope depth %d is deeper than the current scope depth %d",
		ErrCodeDeeperScopeRequired, reflectx.Name(e.ServiceType), int(e.Required), e.Depth,
	)
}

func (e *DeeperScopeRequiredError) Is(target error) bool {
	var t *Error
	return errors.As(target, &t) && t.Code == ErrCodeDeeperScopeRequired
}

func errNoUsableConstructor(service reflect.Type) *Error {
	return newError(
		ErrCodeNoUsableConstructor,
		"no usable constructor was supplied",
		nil,
	).WithService(reflectx.Name(service))
}

func errMultipleConstructors(service reflect.Type, count int) *Error {
	return newError(
		ErrCodeMultipleConstructors,
		fmt.Sprintf("%d constructors with parameters, expected exactly one", count),
		nil,
	).WithService(reflectx.Name(service))
}

func errInvalidConstructor(service reflect.Type, cause error) *Error {
	return newError(
		ErrCodeInvalidConstructor,
		"invalid constructor",
		cause,
	).WithService(reflectx.Name(service))
}

func errInvalidDepth(service reflect.Type, depth Depth) *Error {
	return newError(
		ErrCodeInvalidDepth,
		fmt.Sprintf("%s is neither a reserved lifetime nor a scope depth", depth),
		nil,
	).WithService(reflectx.Name(service))
}

func errCouldNotBeResolved(service reflect.Type, cause error) *Error {
	return newError(
		ErrCodeCouldNotBeResolved,
		"the required service could not be resolved",
		cause,
	).WithService(reflectx.Name(service))
}

func errScopeConflict(service, conflicting reflect.Type, cause error) *Error {
	return newError(
		ErrCodeCouldNotBeResolved,
		fmt.Sprintf(
			"while resolving it, service %s could not be resolved due to a scope conflict",
			reflectx.Name(conflicting),
		),
		cause,
	).WithService(reflectx.Name(service))
}

func errConstructionFailed(service reflect.Type, cause error) *Error {
	return newError(
		ErrCodeConstructionFailed,
		"creation function returned error",
		cause,
	).WithService(reflectx.Name(service))
}

func errTypeMismatch(service reflect.Type, got any) *Error {
	return newError(
		ErrCodeTypeMismatch,
		fmt.Sprintf("resolved value of type %T is not a %s", got, reflectx.Name(service)),
		nil,
	).WithService(reflectx.Name(service))
}

func errScopeDisposed(depth int) *Error {
	return newError(
		ErrCodeScopeDisposed,
		fmt.Sprintf("scope at depth %d has been disposed", depth),
		nil,
	)
}

func errDisposeFailed(depth int, cause error) *Error {
	return newError(
		ErrCodeDisposeFailed,
		fmt.Sprintf("disposing scope at depth %d", depth),
		cause,
	)
}

func errValidationFailed(cause error) *Error {
	return newError(ErrCodeValidationFailed, "container validation failed", cause)
}

func errModuleBuildFailed(moduleName string, cause error) *Error {
	return newError(
		ErrCodeModuleBuildFailed,
		"failed to build module "+moduleName,
		cause,
	)
}

func errHealthCheckFailed(service string, cause error) *Error {
	return newError(
		ErrCodeHealthCheckFailed,
		"health check failed",
		cause,
	).WithService(service)
}

// requireError translates a failed resolution of service into a
// could-not-be-resolved error, keeping any deeper-scope signal in the chain.
func requireError(service reflect.Type, err error) error {
	var deeper *DeeperScopeRequiredError
	if !errors.As(err, &deeper) {
		return err
	}
	if deeper.ServiceType == service {
		return errCouldNotBeResolved(service, err)
	}
	return errScopeConflict(service, deeper.ServiceType, err)
}

func IsNoUsableConstructor(err error) bool {
	return errors.Is(err, ErrNoUsableConstructor)
}

func IsMultipleConstructors(err error) bool {
	return errors.Is(err, ErrMultipleConstructors)
}

func IsInvalidConstructor(err error) bool {
	return errors.Is(err, ErrInvalidConstructor)
}

func IsDeeperScopeRequired(err error) bool {
	return errors.Is(err, ErrDeeperScopeRequired)
}

func IsCouldNotBeResolved(err error) bool {
	return errors.Is(err, ErrCouldNotBeResolved)
}

func IsConstructionFailed(err error) bool {
	return errors.Is(err, ErrConstructionFailed)
}

func IsScopeDisposed(err error) bool {
	return errors.Is(err, ErrScopeDisposed)
}

func IsDisposeFailed(err error) bool {
	return errors.Is(err, ErrDisposeFailed)
}
