package runtime

import "sync"

// Execution is the handle of one engine run.
//
// It completes when the engine terminates: successfully (Err is nil) when the
// Model decided to stop, or carrying the error that ended the run.
type Execution struct {
	id   string
	done chan struct{}
	errs chan error

	mu  sync.Mutex
	err error
}

func newExecution(id string) *Execution {
	return &Execution{
		id:   id,
		done: make(chan struct{}),
		errs: make(chan error, 1),
	}
}

// ID returns the run identifier.
func (x *Execution) ID() string {
	return x.id
}

// Done is closed when the run has ended.
func (x *Execution) Done() <-chan struct{} {
	return x.done
}

// Errors yields the error that ended the run, if any, and is then closed.
func (x *Execution) Errors() <-chan error {
	return x.errs
}

// Wait blocks until the run ends and returns its terminal error.
func (x *Execution) Wait() error {
	<-x.done
	return x.Err()
}

// Err returns the terminal error, or nil while running or after a clean end.
func (x *Execution) Err() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.err
}

func (x *Execution) finish(err error) {
	x.mu.Lock()
	x.err = err
	x.mu.Unlock()

	if err != nil {
		x.errs <- err
	}
	close(x.errs)
	close(x.done)
}
