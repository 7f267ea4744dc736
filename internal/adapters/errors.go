package adapters

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConfigured marks a missing receiving address, provider or token
	// contract. It is fatal to the attempt and never retried.
	ErrNotConfigured = errors.New("not configured")
	ErrUnknownChain  = errors.New("unknown chain")
)

func notConfigured(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotConfigured, fmt.Sprintf(format, args...))
}
