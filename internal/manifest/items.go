package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const itemColumns = "id, run_id, deck_index, title, output_base, phrase_count, failed_phrases, duration_ms, audio_path, video_path, status, error, created_at, updated_at"

// CreateItem records a new pending deck item for a run.
func (s *Store) CreateItem(ctx context.Context, runID string, deckIndex int, title, outputBase string, phraseCount int) (*Item, error) {
	ctx = ensureContext(ctx)
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO items (
            run_id, deck_index, title, output_base, phrase_count, failed_phrases,
            duration_ms, audio_path, video_path, status, error, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		deckIndex,
		title,
		nullableString(outputBase),
		phraseCount,
		0,
		0,
		nil,
		nil,
		string(ItemPending),
		nil,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(ctx, id)
}

// GetItem fetches an item by identifier; nil when absent.
func (s *Store) GetItem(ctx context.Context, id int64) (*Item, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// UpdateItem persists changes to an existing item.
func (s *Store) UpdateItem(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	ctx = ensureContext(ctx)
	item.UpdatedAt = time.Now().UTC()

	if _, err := s.db.ExecContext(
		ctx,
		`UPDATE items
         SET deck_index = ?, title = ?, output_base = ?, phrase_count = ?,
             failed_phrases = ?, duration_ms = ?, audio_path = ?, video_path = ?,
             status = ?, error = ?, updated_at = ?
         WHERE id = ?`,
		item.DeckIndex,
		item.Title,
		nullableString(item.OutputBase),
		item.PhraseCount,
		item.FailedPhrases,
		item.DurationMS,
		nullableString(item.AudioPath),
		nullableString(item.VideoPath),
		string(item.Status),
		nullableString(item.ErrorMsg),
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	); err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// ItemsForRun returns a run's items ordered by deck index.
func (s *Store) ItemsForRun(ctx context.Context, runID string) ([]*Item, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM items WHERE run_id = ? ORDER BY deck_index`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list run items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RecentItems returns up to limit items across all runs, newest first.
func (s *Store) RecentItems(ctx context.Context, limit int) ([]*Item, error) {
	ctx = ensureContext(ctx)
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list recent items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id            int64
		runID         string
		deckIndex     int64
		title         string
		outputBase    sql.NullString
		phraseCount   int64
		failedPhrases int64
		durationMS    int64
		audioPath     sql.NullString
		videoPath     sql.NullString
		status        string
		errorMsg      sql.NullString
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)
	if err := scanner.Scan(
		&id,
		&runID,
		&deckIndex,
		&title,
		&outputBase,
		&phraseCount,
		&failedPhrases,
		&durationMS,
		&audioPath,
		&videoPath,
		&status,
		&errorMsg,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:            id,
		RunID:         runID,
		DeckIndex:     int(deckIndex),
		Title:         title,
		OutputBase:    outputBase.String,
		PhraseCount:   int(phraseCount),
		FailedPhrases: int(failedPhrases),
		DurationMS:    durationMS,
		AudioPath:     audioPath.String,
		VideoPath:     videoPath.String,
		Status:        ItemStatus(status),
		ErrorMsg:      errorMsg.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}
