package store

import (
	"database/sql"
	"fmt"
	"time"
)

// InsertComputation records c and sets c.ID. A zero CreatedAt is replaced
// with the current time; an empty Source defaults to SourceCLI.
func (s *Store) InsertComputation(c *Computation) (int64, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	if c.Source == "" {
		c.Source = SourceCLI
	}
	res, err := s.db.Exec(
		"INSERT INTO computations (session, radius, area, source, created_at) VALUES (?, ?, ?, ?, ?)",
		c.Session, formatFloat(c.Radius), formatFloat(c.Area), c.Source, c.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert computation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	c.ID = id
	return id, nil
}

// Computations returns up to limit computations, newest first. A limit of
// zero or less returns all rows.
func (s *Store) Computations(limit int) ([]*Computation, error) {
	query := "SELECT id, session, radius, area, source, created_at FROM computations ORDER BY id DESC"
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("computations: %w", err)
	}
	return scanComputations(rows)
}

// ComputationsBySession returns a session's computations in insertion order.
func (s *Store) ComputationsBySession(session string) ([]*Computation, error) {
	rows, err := s.db.Query(
		"SELECT id, session, radius, area, source, created_at FROM computations WHERE session = ? ORDER BY id",
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("computations by session: %w", err)
	}
	return scanComputations(rows)
}

// CountComputations returns the number of recorded computations.
func (s *Store) CountComputations() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM computations").Scan(&n); err != nil {
		return 0, fmt.Errorf("count computations: %w", err)
	}
	return n, nil
}

// ClearComputations deletes all recorded computations.
func (s *Store) ClearComputations() error {
	if _, err := s.db.Exec("DELETE FROM computations"); err != nil {
		return fmt.Errorf("clear computations: %w", err)
	}
	return nil
}

func scanComputations(rows *sql.Rows) ([]*Computation, error) {
	defer rows.Close()
	var out []*Computation
	for rows.Next() {
		c := &Computation{}
		var radius, area string
		if err := rows.Scan(&c.ID, &c.Session, &radius, &area, &c.Source, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan computation: %w", err)
		}
		var err error
		if c.Radius, err = parseFloat(radius); err != nil {
			return nil, fmt.Errorf("computation %d radius: %w", c.ID, err)
		}
		if c.Area, err = parseFloat(area); err != nil {
			return nil, fmt.Errorf("computation %d area: %w", c.ID, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
