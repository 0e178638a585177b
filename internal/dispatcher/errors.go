package dispatcher

import "fmt"

// InternalError reports a bug in the dispatcher itself: a worker panicked,
// or a solver returned an error that isn't a *model.SolverError. It should
// never surface in a correctly functioning build.
type InternalError struct {
	Context string
	Err     error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error (%s): %v", e.Context, e.Err)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Canceled reports that the run's context was canceled (timeout or
// operator interrupt) before every partition finished.
type Canceled struct {
	Err error
}

func (e *Canceled) Error() string {
	return fmt.Sprintf("run canceled: %v", e.Err)
}

func (e *Canceled) Unwrap() error {
	return e.Err
}
