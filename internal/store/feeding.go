package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/verdantloop/garden/internal/entity"
	"github.com/verdantloop/garden/internal/rarity"
)

// FeedingProgress returns the feeding cycle state for one pond field.
// A field that was never fed returns a zero-count progress with an empty
// history rather than an error.
func (s *Store) FeedingProgress(ctx context.Context, userID string, fieldIndex int) (entity.FeedingProgress, error) {
	progress := entity.FeedingProgress{
		UserID:     userID,
		FieldIndex: fieldIndex,
	}

	var lastFedAt int64
	err := s.db.QueryRowContext(ctx, `
		SELECT count, last_fed_at FROM feeding_progress
		WHERE user_id = ? AND field_index = ?
	`, userID, fieldIndex).Scan(&progress.Count, &lastFedAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return entity.FeedingProgress{}, fmt.Errorf("query feeding progress: %w", err)
	}
	if lastFedAt > 0 {
		progress.LastFedAt = fromMillis(lastFedAt)
	}

	history, err := s.fedHistory(ctx, userID, fieldIndex)
	if err != nil {
		return entity.FeedingProgress{}, err
	}
	progress.History = history

	return progress, nil
}

// RecordFeed appends one fed rarity to a field's history and increments the
// feeding counter, atomically. Returns the updated progress including the
// full history, so the caller can decide whether the cycle completed.
func (s *Store) RecordFeed(ctx context.Context, userID string, fieldIndex int, fed rarity.Tier, at time.Time) (entity.FeedingProgress, error) {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return entity.FeedingProgress{}, fmt.Errorf("record feed: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO fed_history (user_id, field_index, rarity, fed_at)
		VALUES (?, ?, ?, ?)
	`, userID, fieldIndex, int(fed), at.UnixMilli())
	if err != nil {
		return entity.FeedingProgress{}, fmt.Errorf("record feed: insert history: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO feeding_progress (user_id, field_index, count, last_fed_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(user_id, field_index) DO UPDATE SET
			count = count + 1,
			last_fed_at = excluded.last_fed_at
	`, userID, fieldIndex, at.UnixMilli())
	if err != nil {
		return entity.FeedingProgress{}, fmt.Errorf("record feed: update counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return entity.FeedingProgress{}, fmt.Errorf("record feed: commit: %w", err)
	}

	return s.FeedingProgress(ctx, userID, fieldIndex)
}

// ResetFeedingProgress clears a field's counter and fed history after a
// fish spawn completes the cycle.
func (s *Store) ResetFeedingProgress(ctx context.Context, userID string, fieldIndex int) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("reset feeding progress: begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM fed_history
		WHERE user_id = ? AND field_index = ?
	`, userID, fieldIndex)
	if err != nil {
		return fmt.Errorf("reset feeding progress: clear history: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE feeding_progress SET count = 0
		WHERE user_id = ? AND field_index = ?
	`, userID, fieldIndex)
	if err != nil {
		return fmt.Errorf("reset feeding progress: reset counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reset feeding progress: commit: %w", err)
	}

	return nil
}

// fedHistory returns the fed rarities for a field in feed order.
func (s *Store) fedHistory(ctx context.Context, userID string, fieldIndex int) ([]rarity.Tier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rarity FROM fed_history
		WHERE user_id = ? AND field_index = ?
		ORDER BY id ASC
	`, userID, fieldIndex)
	if err != nil {
		return nil, fmt.Errorf("query fed history: %w", err)
	}
	defer rows.Close()

	var history []rarity.Tier
	for rows.Next() {
		var tier int
		if err := rows.Scan(&tier); err != nil {
			return nil, fmt.Errorf("scan fed history: %w", err)
		}
		history = append(history, rarity.Tier(tier))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fed history: %w", err)
	}

	return history, nil
}
