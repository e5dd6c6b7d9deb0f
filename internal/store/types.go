package store

import "time"

// Computation is one recorded area evaluation.
type Computation struct {
	ID        int64
	Session   string
	Radius    float64
	Area      float64
	Source    string // "cli" or "script"
	CreatedAt time.Time
}

// Sources a computation can be recorded from.
const (
	SourceCLI    = "cli"
	SourceScript = "script"
)
