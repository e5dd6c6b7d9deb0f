package main

import (
	"encoding/json"
	"math"
	"time"

	"github.com/jward/circle"
	"github.com/jward/circle/internal/geometry"
)

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIFloat is a float64 that survives JSON encoding: non-finite values are
// written as the strings "NaN", "+Inf" and "-Inf".
type CLIFloat float64

func (f CLIFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(geometry.FormatArea(v))
	}
	return []byte(geometry.FormatArea(v)), nil
}

// CLIComputation is a JSON-friendly computation.
type CLIComputation struct {
	ID        *int64     `json:"id,omitempty"`
	Session   string     `json:"session,omitempty"`
	Source    string     `json:"source,omitempty"`
	Radius    CLIFloat   `json:"radius"`
	Area      CLIFloat   `json:"area"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// CLIValue wraps a script result.
type CLIValue struct {
	Value any `json:"value"`
}

// toCLIComputation converts c. Stored metadata (id, session, source, time)
// is included only when withMeta is set.
func toCLIComputation(c circle.Computation, withMeta bool) CLIComputation {
	out := CLIComputation{Radius: CLIFloat(c.Radius), Area: CLIFloat(c.Area)}
	if withMeta {
		id, created := c.ID, c.CreatedAt
		out.ID = &id
		out.Session = c.Session
		out.Source = c.Source
		out.CreatedAt = &created
	}
	return out
}

// toCLIValue replaces float64s, at any depth, with CLIFloat so script
// results containing NaN or Inf can be encoded.
func toCLIValue(v any) any {
	switch x := v.(type) {
	case float64:
		return CLIFloat(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = toCLIValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = toCLIValue(e)
		}
		return out
	default:
		return v
	}
}
