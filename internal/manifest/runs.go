package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const runColumns = "id, kind, chunks_file, started_at, finished_at, status, error"

// StartRun records a new run in the running state and returns it. The
// generated UUID doubles as the logging correlation ID.
func (s *Store) StartRun(ctx context.Context, kind RunKind, chunksFile string) (*Run, error) {
	ctx = ensureContext(ctx)
	id := uuid.NewString()
	startedAt := time.Now().UTC()

	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, kind, chunks_file, started_at, finished_at, status, error)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		string(kind),
		nullableString(chunksFile),
		startedAt.Format(time.RFC3339Nano),
		nil,
		string(RunRunning),
		nil,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return s.GetRun(ctx, id)
}

// FinishRun marks a run completed, or failed when runErr is non-nil.
func (s *Store) FinishRun(ctx context.Context, id string, runErr error) error {
	ctx = ensureContext(ctx)
	status := RunCompleted
	message := ""
	if runErr != nil {
		status = RunFailed
		message = runErr.Error()
	}
	finishedAt := time.Now().UTC()

	if _, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, status = ?, error = ? WHERE id = ?`,
		finishedAt.Format(time.RFC3339Nano),
		string(status),
		nullableString(message),
		id,
	); err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// GetRun fetches a run by identifier; nil when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*Run, error) {
	ctx = ensureContext(ctx)
	if limit < 1 {
		limit = 10
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id          string
		kind        string
		chunksFile  sql.NullString
		startedRaw  sql.NullString
		finishedRaw sql.NullString
		status      string
		errorMsg    sql.NullString
	)
	if err := scanner.Scan(&id, &kind, &chunksFile, &startedRaw, &finishedRaw, &status, &errorMsg); err != nil {
		return nil, err
	}

	run := &Run{
		ID:         id,
		Kind:       RunKind(kind),
		ChunksFile: chunksFile.String,
		Status:     RunStatus(status),
		ErrorMsg:   errorMsg.String,
	}
	if started, err := parseTimeString(startedRaw.String); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}
