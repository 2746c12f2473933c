package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/depsort/pkg/dsort"
	"github.com/matzehuels/depsort/pkg/errors"
)

// ExitError carries a process exit code through cobra. main unwraps it and
// exits with Code; fang has already printed Err.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the exit status for err: 0 for nil, [ExitCycles] for
// circular dependencies, the code of an [*ExitError], 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, errors.ErrCodeCyclicDependency) || stderrors.Is(err, dsort.ErrCyclicDependency) {
		return ExitCycles
	}
	return ExitFailure
}
