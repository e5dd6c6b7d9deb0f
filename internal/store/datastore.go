package store

// Recorder is the history access the script runtime needs.
type Recorder interface {
	InsertComputation(c *Computation) (int64, error)
	Computations(limit int) ([]*Computation, error)
}

// Compile-time check: *Store satisfies Recorder.
var _ Recorder = (*Store)(nil)
