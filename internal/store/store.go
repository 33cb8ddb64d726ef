// Package store records simulation traces in SQLite for offline analysis.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-pursuit-simulation/pkg/pursuit"
	_ "modernc.org/sqlite"
)

// schema.sql holds one row per run, one per leader step and one per agent step.
//
//go:embed schema.sql
var schemaSQL string

// ErrUnknownRun is returned when a run id has no recorded run.
var ErrUnknownRun = errors.New("unknown run")

type TraceStore struct {
	*sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway store.
func Open(path string) (*TraceStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace database: %w", err)
	}
	// one connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply trace schema: %w", err)
	}
	return &TraceStore{db}, nil
}

// BeginRun registers a new run and returns its id.
func (s *TraceStore) BeginRun(ctx context.Context, configJSON string) (string, error) {
	id := uuid.New().String()
	_, err := s.ExecContext(ctx, `INSERT INTO runs (run_id, config_json) VALUES (?, ?)`, id, configJSON)
	if err != nil {
		return "", fmt.Errorf("failed to begin run: %w", err)
	}
	return id, nil
}

// RecordFrame stores one step of a run atomically.
func (s *TraceStore) RecordFrame(ctx context.Context, runID string, f pursuit.Frame) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin frame transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO leader_steps (run_id, step, t, x, y) VALUES (?, ?, ?, ?, ?)`,
		runID, f.Step, f.Time, f.Leader.X, f.Leader.Y)
	if err != nil {
		return fmt.Errorf("failed to insert leader step %d: %w", f.Step, err)
	}

	for _, a := range f.Agents {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO agent_steps (run_id, step, agent, kind, x, y, vx, vy, cruise_speed, sensed_distance, true_distance)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, f.Step, a.Name, string(a.Kind), a.Position.X, a.Position.Y, a.Velocity.X, a.Velocity.Y,
			a.CruiseSpeed, a.SensedDistance, a.TrueDistance)
		if err != nil {
			return fmt.Errorf("failed to insert agent %q step %d: %w", a.Name, f.Step, err)
		}
	}
	return tx.Commit()
}

// Frames reads back every recorded step of a run, in step order, agents in
// the order they were recorded.
func (s *TraceStore) Frames(ctx context.Context, runID string) ([]pursuit.Frame, error) {
	var exists int
	err := s.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE run_id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRun, runID)
	}

	rows, err := s.QueryContext(ctx, `
		SELECT step, t, x, y FROM leader_steps WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leader steps: %w", err)
	}
	var frames []pursuit.Frame
	index := make(map[int]int)
	for rows.Next() {
		var f pursuit.Frame
		if err := rows.Scan(&f.Step, &f.Time, &f.Leader.X, &f.Leader.Y); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan leader step: %w", err)
		}
		index[f.Step] = len(frames)
		frames = append(frames, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.QueryContext(ctx, `
		SELECT step, agent, kind, x, y, vx, vy, cruise_speed, sensed_distance, true_distance
		FROM agent_steps WHERE run_id = ? ORDER BY step, rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query agent steps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			step     int
			kind     string
			a        pursuit.AgentFrame
			pos, vel geometry.Vector2D
		)
		if err := rows.Scan(&step, &a.Name, &kind, &pos.X, &pos.Y, &vel.X, &vel.Y,
			&a.CruiseSpeed, &a.SensedDistance, &a.TrueDistance); err != nil {
			return nil, fmt.Errorf("failed to scan agent step: %w", err)
		}
		a.Kind = pursuit.AgentKind(kind)
		a.Position, a.Velocity = pos, vel
		i := index[step]
		frames[i].Agents = append(frames[i].Agents, a)
	}
	return frames, rows.Err()
}

// Recorder is a pursuit.Observer writing every frame to a TraceStore.
// Observers cannot fail, so the first error is kept and later frames are dropped.
type Recorder struct {
	ctx   context.Context
	store *TraceStore
	runID string
	err   error
}

func NewRecorder(ctx context.Context, store *TraceStore, runID string) *Recorder {
	return &Recorder{ctx: ctx, store: store, runID: runID}
}

func (r *Recorder) Observe(f pursuit.Frame) {
	if r.err != nil {
		return
	}
	r.err = r.store.RecordFrame(r.ctx, r.runID, f)
}

func (r *Recorder) RunID() string { return r.runID }

// Err returns the first write error, if any.
func (r *Recorder) Err() error { return r.err }
