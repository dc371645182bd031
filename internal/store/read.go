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

const entityColumns = `id, user_id, field_index, kind, species_id, name, rarity,
	image_url, created_at, next_transition_at, expires_at, spawn_slot, sun_amount`

// FieldKind returns the kind of one (user, field) slot.
// Returns ErrNoSuchField if the slot does not exist.
func (s *Store) FieldKind(ctx context.Context, userID string, fieldIndex int) (entity.FieldKind, error) {
	var kind string
	err := s.db.QueryRowContext(ctx, `
		SELECT kind FROM fields
		WHERE user_id = ? AND field_index = ?
	`, userID, fieldIndex).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("field %d for user %s: %w", fieldIndex, userID, ErrNoSuchField)
	}
	if err != nil {
		return "", fmt.Errorf("query field kind: %w", err)
	}
	return entity.FieldKind(kind), nil
}

// EntityByID retrieves a single entity by ID.
// Returns sql.ErrNoRows if not found.
func (s *Store) EntityByID(ctx context.Context, id string) (entity.FieldEntity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entityColumns+`
		FROM field_entities
		WHERE id = ?
	`, id)
	return scanEntityRow(row)
}

// EntityByField returns the entity occupying one layer of a field.
// Returns sql.ErrNoRows if the layer is empty.
func (s *Store) EntityByField(ctx context.Context, userID string, fieldIndex int, layer entity.Layer) (entity.FieldEntity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+entityColumns+`
		FROM field_entities
		WHERE user_id = ? AND field_index = ? AND layer = ?
	`, userID, fieldIndex, string(layer))
	return scanEntityRow(row)
}

// ListDue returns entities of one kind whose deadline has passed: either
// next_transition_at or expires_at is at or before now. Results are ordered
// by deadline so the oldest transitions apply first.
func (s *Store) ListDue(ctx context.Context, kind entity.Kind, now time.Time) ([]entity.FieldEntity, error) {
	ms := now.UnixMilli()
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entityColumns+`
		FROM field_entities
		WHERE kind = ?
		  AND ((next_transition_at IS NOT NULL AND next_transition_at <= ?)
		    OR (expires_at IS NOT NULL AND expires_at <= ?))
		ORDER BY COALESCE(next_transition_at, expires_at) ASC, id ASC
	`, string(kind), ms, ms)
	if err != nil {
		return nil, fmt.Errorf("query due %s entities: %w", kind, err)
	}
	defer rows.Close()

	return scanEntities(rows)
}

// ListByUser returns every live entity owned by a user, ordered by field
// then layer. Feeds the field-state read model.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]entity.FieldEntity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entityColumns+`
		FROM field_entities
		WHERE user_id = ?
		ORDER BY field_index ASC, layer ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query entities for user %s: %w", userID, err)
	}
	defer rows.Close()

	return scanEntities(rows)
}

// ListFields returns a user's field slots ordered by index.
func (s *Store) ListFields(ctx context.Context, userID string) (map[int]entity.FieldKind, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT field_index, kind FROM fields
		WHERE user_id = ?
		ORDER BY field_index ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query fields for user %s: %w", userID, err)
	}
	defer rows.Close()

	fields := make(map[int]entity.FieldKind)
	for rows.Next() {
		var idx int
		var kind string
		if err := rows.Scan(&idx, &kind); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		fields[idx] = entity.FieldKind(kind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fields: %w", err)
	}

	return fields, nil
}

// scanEntities drains a result set of entity rows.
func scanEntities(rows *sql.Rows) ([]entity.FieldEntity, error) {
	var entities []entity.FieldEntity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}

	// Return empty slice instead of nil
	if entities == nil {
		entities = []entity.FieldEntity{}
	}

	return entities, nil
}

// scanEntity scans a row from a multi-row result into a FieldEntity.
func scanEntity(rows *sql.Rows) (entity.FieldEntity, error) {
	var e entity.FieldEntity
	var kind string
	var rarityIdx int
	var createdAt int64
	var nextAt, expiresAt sql.NullInt64

	if err := rows.Scan(
		&e.ID, &e.UserID, &e.FieldIndex, &kind, &e.SpeciesID, &e.Name,
		&rarityIdx, &e.ImageURL, &createdAt, &nextAt, &expiresAt,
		&e.SpawnSlot, &e.SunAmount,
	); err != nil {
		return entity.FieldEntity{}, fmt.Errorf("scan entity: %w", err)
	}

	e.Kind = entity.Kind(kind)
	e.Rarity = rarity.Tier(rarityIdx)
	e.CreatedAt = fromMillis(createdAt)
	e.NextTransitionAt = fromMillisPtr(nextAt)
	e.ExpiresAt = fromMillisPtr(expiresAt)

	return e, nil
}

// scanEntityRow scans a single-row query into a FieldEntity.
func scanEntityRow(row *sql.Row) (entity.FieldEntity, error) {
	var e entity.FieldEntity
	var kind string
	var rarityIdx int
	var createdAt int64
	var nextAt, expiresAt sql.NullInt64

	if err := row.Scan(
		&e.ID, &e.UserID, &e.FieldIndex, &kind, &e.SpeciesID, &e.Name,
		&rarityIdx, &e.ImageURL, &createdAt, &nextAt, &expiresAt,
		&e.SpawnSlot, &e.SunAmount,
	); err != nil {
		return entity.FieldEntity{}, err
	}

	e.Kind = entity.Kind(kind)
	e.Rarity = rarity.Tier(rarityIdx)
	e.CreatedAt = fromMillis(createdAt)
	e.NextTransitionAt = fromMillisPtr(nextAt)
	e.ExpiresAt = fromMillisPtr(expiresAt)

	return e, nil
}
