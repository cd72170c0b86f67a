// Package jumpdb stores analyzed jumps in a local SQLite logbook.
package jumpdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/skydive-tools/jumptrace"
)

// ErrNotFound reports a jump id with no logbook row.
var ErrNotFound = errors.New("jumpdb: jump not found")

type DB struct {
	*sql.DB
}

// Open opens (creating if needed) a logbook database at path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open logbook: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS jumps (
			jump_id      TEXT PRIMARY KEY,
			source       TEXT NOT NULL,
			recorded_at  TIMESTAMP NOT NULL,
			sample_count INTEGER NOT NULL,
			fallback     INTEGER NOT NULL DEFAULT 0,
			metrics_json TEXT,
			notes        TEXT,
			created_at   TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS jump_segments (
			jump_id      TEXT NOT NULL,
			seq          INTEGER NOT NULL,
			phase        TEXT NOT NULL,
			start_index  INTEGER NOT NULL,
			end_index    INTEGER NOT NULL,
			start_time   TIMESTAMP NOT NULL,
			end_time     TIMESTAMP NOT NULL,
			start_alt_m  DOUBLE NOT NULL,
			end_alt_m    DOUBLE NOT NULL,
			PRIMARY KEY (jump_id, seq),
			FOREIGN KEY (jump_id) REFERENCES jumps(jump_id)
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("create logbook schema: %w", err)
	}

	return &DB{db}, nil
}

// Jump is one logbook row.
type Jump struct {
	ID          string                        `json:"id"`
	Source      string                        `json:"source"`
	RecordedAt  time.Time                     `json:"recorded_at"`
	SampleCount int                           `json:"sample_count"`
	Fallback    bool                          `json:"fallback"`
	Metrics     *jumptrace.PerformanceMetrics `json:"metrics,omitempty"`
	Notes       string                        `json:"notes,omitempty"`
	Segments    []jumptrace.Segment           `json:"segments,omitempty"`
}

// SaveAnalysis stores one analyzed jump and returns its id. Source names the
// input recording; sampleCount is the number of samples it contributed.
func (db *DB) SaveAnalysis(ctx context.Context, source string, sampleCount int, analysis *jumptrace.JumpAnalysis) (string, error) {
	if analysis == nil || len(analysis.Segments) == 0 {
		return "", errors.New("jumpdb: analysis has no segments")
	}

	var metricsJSON sql.NullString
	if analysis.Metrics != nil {
		raw, err := json.Marshal(analysis.Metrics)
		if err != nil {
			return "", fmt.Errorf("encode metrics: %w", err)
		}
		metricsJSON = sql.NullString{String: string(raw), Valid: true}
	}

	id := uuid.NewString()
	recordedAt := analysis.Segments[0].StartTime.UTC()
	notes := jumptrace.BuildJumpNotes(analysis)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin logbook tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO jumps (jump_id, source, recorded_at, sample_count, fallback, metrics_json, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, source, recordedAt, sampleCount, analysis.Fallback, metricsJSON, notes)
	if err != nil {
		return "", fmt.Errorf("insert jump: %w", err)
	}

	for seq, seg := range analysis.Segments {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO jump_segments (jump_id, seq, phase, start_index, end_index, start_time, end_time, start_alt_m, end_alt_m)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, seq, seg.Phase.String(), seg.StartIndex, seg.EndIndex,
			seg.StartTime.UTC(), seg.EndTime.UTC(), seg.StartAltitude, seg.EndAltitude)
		if err != nil {
			return "", fmt.Errorf("insert segment %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit logbook tx: %w", err)
	}
	return id, nil
}

// Jump loads one logbook entry with its segments.
func (db *DB) Jump(ctx context.Context, id string) (*Jump, error) {
	row := db.QueryRowContext(ctx,
		`SELECT jump_id, source, recorded_at, sample_count, fallback, metrics_json, notes
		 FROM jumps WHERE jump_id = ?`, id)

	j, err := scanJump(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load jump: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT phase, start_index, end_index, start_time, end_time, start_alt_m, end_alt_m
		 FROM jump_segments WHERE jump_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seg   jumptrace.Segment
			phase string
		)
		if err := rows.Scan(&phase, &seg.StartIndex, &seg.EndIndex,
			&seg.StartTime, &seg.EndTime, &seg.StartAltitude, &seg.EndAltitude); err != nil {
			return nil, fmt.Errorf("scan segment: %w", err)
		}
		if err := seg.Phase.UnmarshalText([]byte(phase)); err != nil {
			return nil, fmt.Errorf("segment phase: %w", err)
		}
		j.Segments = append(j.Segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	return j, nil
}

// Jumps lists the most recent logbook entries, newest first, without segments.
func (db *DB) Jumps(ctx context.Context, limit int) ([]Jump, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx,
		`SELECT jump_id, source, recorded_at, sample_count, fallback, metrics_json, notes
		 FROM jumps ORDER BY recorded_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list jumps: %w", err)
	}
	defer rows.Close()

	var jumps []Jump
	for rows.Next() {
		j, err := scanJump(rows)
		if err != nil {
			return nil, fmt.Errorf("scan jump: %w", err)
		}
		jumps = append(jumps, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list jumps: %w", err)
	}
	return jumps, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJump(r rowScanner) (*Jump, error) {
	var (
		j           Jump
		metricsJSON sql.NullString
		notes       sql.NullString
	)
	if err := r.Scan(&j.ID, &j.Source, &j.RecordedAt, &j.SampleCount, &j.Fallback, &metricsJSON, &notes); err != nil {
		return nil, err
	}
	j.RecordedAt = j.RecordedAt.UTC()
	j.Notes = notes.String
	if metricsJSON.Valid {
		var m jumptrace.PerformanceMetrics
		if err := json.Unmarshal([]byte(metricsJSON.String), &m); err != nil {
			return nil, fmt.Errorf("decode metrics: %w", err)
		}
		j.Metrics = &m
	}
	return &j, nil
}
