package store

import (
	"context"
	"fmt"
	"time"

	"github.com/verdantloop/garden/internal/entity"
)

// CreateEntity inserts a field entity, enforcing the occupancy invariant.
//
// The field must exist, the entity kind must be allowed on the field's
// kind, and the target (user, field, layer) slot must be empty. The insert
// uses ON CONFLICT DO NOTHING with a RowsAffected check, so two concurrent
// creates for the same slot resolve to exactly one winner; the loser gets
// ErrOccupied.
func (s *Store) CreateEntity(ctx context.Context, e entity.FieldEntity) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("create entity: %w", err)
	}

	tx, err := s.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("create entity: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var fieldKind string
	err = tx.QueryRowContext(ctx, `
		SELECT kind FROM fields
		WHERE user_id = ? AND field_index = ?
	`, e.UserID, e.FieldIndex).Scan(&fieldKind)
	if err != nil {
		return fmt.Errorf("create entity: field %d for user %s: %w", e.FieldIndex, e.UserID, ErrNoSuchField)
	}

	if !e.Kind.AllowedOn(entity.FieldKind(fieldKind)) {
		return fmt.Errorf("create entity: %s on %s field: %w", e.Kind, fieldKind, ErrWrongFieldKind)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO field_entities
		(id, user_id, field_index, kind, layer, species_id, name, rarity,
		 image_url, created_at, next_transition_at, expires_at, spawn_slot, sun_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, field_index, layer) DO NOTHING
	`,
		e.ID,
		e.UserID,
		e.FieldIndex,
		string(e.Kind),
		string(e.Kind.Layer()),
		e.SpeciesID,
		e.Name,
		int(e.Rarity),
		e.ImageURL,
		e.CreatedAt.UnixMilli(),
		millisPtr(e.NextTransitionAt),
		millisPtr(e.ExpiresAt),
		e.SpawnSlot,
		e.SunAmount,
	)
	if err != nil {
		return fmt.Errorf("create entity: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create entity: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("create entity: field %d layer %s: %w", e.FieldIndex, e.Kind.Layer(), ErrOccupied)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("create entity: commit: %w", err)
	}

	return nil
}

// DeleteIfExists removes an entity row by ID and reports whether this call
// removed it.
//
// This is the sole race primitive for destructive transitions: when a user
// collect and a scheduler timeout race on the same row, exactly one caller
// sees true and performs the follow-on effect. A false return means a
// concurrent actor already consumed the entity; treat it as a benign no-op.
func (s *Store) DeleteIfExists(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM field_entities WHERE id = ?
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete entity %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete entity %s: rows affected: %w", id, err)
	}

	return rowsAffected > 0, nil
}

// RescheduleBouquet advances a bouquet's spawn cycle in place: sets the
// next spawn deadline and the current slot. Reports whether the row still
// existed. A false return means the bouquet withered (or was otherwise
// removed) since the caller read it.
func (s *Store) RescheduleBouquet(ctx context.Context, id string, nextSpawnAt time.Time, slot int) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE field_entities
		SET next_transition_at = ?, spawn_slot = ?
		WHERE id = ? AND kind = ?
	`, nextSpawnAt.UnixMilli(), slot, id, string(entity.KindBouquet))
	if err != nil {
		return false, fmt.Errorf("reschedule bouquet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reschedule bouquet %s: rows affected: %w", id, err)
	}

	return rowsAffected > 0, nil
}

// EnsureFields creates the fixed garden slots for a user if they do not
// exist yet. Existing rows are left untouched.
func (s *Store) EnsureFields(ctx context.Context, userID string, kinds []entity.FieldKind) error {
	tx, err := s.beginTx(ctx)
	if err != nil {
		return fmt.Errorf("ensure fields: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fields (user_id, field_index, kind)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, field_index) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("ensure fields: prepare: %w", err)
	}
	defer stmt.Close()

	for i, kind := range kinds {
		if !kind.Valid() {
			return fmt.Errorf("ensure fields: invalid field kind %q at index %d", kind, i)
		}
		if _, err := stmt.ExecContext(ctx, userID, i, string(kind)); err != nil {
			return fmt.Errorf("ensure fields: insert field %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ensure fields: commit: %w", err)
	}

	return nil
}
