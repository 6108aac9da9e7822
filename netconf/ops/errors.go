package ops

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrMalformedReply is the cause of the synthetic error recorded against a reply that
// could not be parsed.
var ErrMalformedReply = errors.New("malformed rpc reply")

// RequestError reports an operation argument that could not be turned into a valid
// request. It is returned before anything is sent to the device.
type RequestError struct {
	// Op is the name of the operation being built, e.g. "get-config".
	Op string
	// Arg identifies the offending argument.
	Arg string
	// Reason describes the failure.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("netconf %s: invalid %s: %s", e.Op, e.Arg, e.Reason)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func requestError(op, arg string, cause error, format string, args ...interface{}) error {
	return errors.WithStack(&RequestError{Op: op, Arg: arg, Reason: fmt.Sprintf(format, args...), Err: cause})
}

// IsRequestError reports whether err was caused by an invalid request argument.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}
