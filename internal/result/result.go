// Package result carries service-layer outcomes across the handler boundary.
// Every service operation returns a tagged success/failure value so handlers
// can map the error kind to a transport status without inspecting error
// strings.
package result

import "net/http"

type ErrorCode int

const (
	None ErrorCode = iota
	NotFound
	Validation
	Conflict
	Unauthorized
	Forbidden
	InternalServerError
)

// HTTPStatus maps an error kind to its transport status. The mapping is
// deterministic: controllers must not override it per endpoint.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case None:
		return http.StatusOK
	case NotFound:
		return http.StatusNotFound
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Result is the outcome of a service operation that yields a value.
type Result[T any] struct {
	Value  T
	Errors []string
	Code   ErrorCode
}

func Success[T any](value T) Result[T] {
	return Result[T]{Value: value, Code: None}
}

func Failure[T any](code ErrorCode, errors ...string) Result[T] {
	return Result[T]{Code: code, Errors: errors}
}

// FailureList is Failure with a pre-built message slice, e.g. aggregated
// validation errors.
func FailureList[T any](code ErrorCode, errors []string) Result[T] {
	return Result[T]{Code: code, Errors: errors}
}

func (r Result[T]) IsSuccess() bool {
	return r.Code == None
}

// Empty is the value type for operations that yield no payload.
type Empty struct{}

func OK() Result[Empty] {
	return Success(Empty{})
}
