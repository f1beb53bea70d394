package main

import "errors"

// ErrUsage is matched by errors caused by invalid flags or configuration.
var ErrUsage = errors.New("routedoc: usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}
