package cli

import "github.com/cockroachdb/errors"

// ErrUsage marks invocation errors: wrong argument counts, unknown commands
// or flags.
var ErrUsage = errors.New("cli usage error")

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
