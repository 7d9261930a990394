package host

import (
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// Codespace of host-level failures.
const Codespace = "host"

var (
	ErrAborted      = errorsmod.Register(Codespace, 1, "invocation aborted")
	ErrArchived     = errorsmod.Register(Codespace, 2, "instance storage archived")
	ErrMissingValue = errorsmod.Register(Codespace, 3, "missing instance storage value")
	ErrInvalidTTL   = errorsmod.Register(Codespace, 4, "invalid ttl extension")
)

// Abort is the panic value raised when a contract invocation traps.
// Host.Invoke recovers it and returns it as the invocation error.
type Abort struct {
	Cause error
}

func (a *Abort) Error() string {
	return fmt.Sprintf("%s: %v", ErrAborted.Error(), a.Cause)
}

func (a *Abort) Unwrap() []error {
	return []error{ErrAborted, a.Cause}
}

func abort(cause error) {
	panic(&Abort{Cause: cause})
}

// ErrorCode extracts the registered codespace and code carried by err.
func ErrorCode(err error) (string, uint32, bool) {
	var abortErr *Abort
	if errors.As(err, &abortErr) {
		return Codespace, ErrAborted.ABCICode(), true
	}
	var registered *errorsmod.Error
	if errors.As(err, &registered) {
		return registered.Codespace(), registered.ABCICode(), true
	}
	return "", 0, false
}
