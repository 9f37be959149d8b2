package api

import "fmt"

// Result is a discriminated success/failure value for call sites that prefer
// branching over error propagation.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Err     string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Wrap converts a (value, error) pair into a Result. For an *Error the
// Message field carries the "Error {status}: {message}" elaboration; any
// other error is coerced to its text, or "Unknown error" when it has none.
func Wrap[T any](data T, err error) Result[T] {
	if err == nil {
		return Result[T]{Success: true, Data: data}
	}
	res := Result[T]{Success: false}
	if ae, ok := AsError(err); ok {
		res.Err = ae.Message
		res.Message = fmt.Sprintf("Error %d: %s", ae.Status, ae.Message)
		return res
	}
	if msg := err.Error(); msg != "" {
		res.Err = msg
	} else {
		res.Err = "Unknown error"
	}
	return res
}
