package store

import "errors"

// Sentinel error kinds recorded by the Gateway.
var (
	ErrDecode      = errors.New("snapshot decode failed")
	ErrEncode      = errors.New("snapshot encode failed")
	ErrUnavailable = errors.New("shared storage unavailable")
)

// Error carries the failure kind and its cause. errors.Is matches either.
type Error struct {
	Kind error
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
