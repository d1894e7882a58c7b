package generator

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Warning is a recoverable problem found while generating. Generation never
// stops on a warning.
type Warning struct {
	// Scope is the definition or operation the warning belongs to.
	Scope string
	// Path is the parameter path or reference that triggered it.
	Path    string
	Message string
}

func (warning Warning) String() string {
	if warning.Path == "" {
		return fmt.Sprintf("%s: %s", warning.Scope, warning.Message)
	}

	return fmt.Sprintf("%s: %s: %s", warning.Scope, warning.Path, warning.Message)
}

// Err converts the warning into an error with its context attached as
// details.
func (warning Warning) Err() error {
	err := errors.Newf("%s", warning.Message)
	err = errors.WithDetailf(err, "scope: %s", warning.Scope)
	if warning.Path != "" {
		err = errors.WithDetailf(err, "path: %s", warning.Path)
	}

	return err
}

type warnings struct {
	list []Warning
}

// reporter returns a callback that records warnings under scope.
func (w *warnings) reporter(scope string) func(path, message string) {
	return func(path, message string) {
		w.list = append(w.list, Warning{Scope: scope, Path: path, Message: message})
	}
}
