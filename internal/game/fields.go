package game

import (
	"context"
	"slices"
	"time"

	"github.com/verdantloop/garden/internal/entity"
)

// DefaultFieldLayout is the starting garden: four grass fields followed by
// two pond fields.
func DefaultFieldLayout() []entity.FieldKind {
	return []entity.FieldKind{
		entity.FieldGrass, entity.FieldGrass, entity.FieldGrass,
		entity.FieldGrass, entity.FieldPond, entity.FieldPond,
	}
}

// FieldStates builds the read model for every field a user owns, ordered by
// field index. Remaining times are computed against the service clock and
// floor at zero; an entity past its deadline that the sweep has not yet
// transitioned reports zero rather than a negative countdown.
func (s *Service) FieldStates(ctx context.Context, userID string) ([]entity.FieldState, error) {
	fields, err := s.store.ListFields(ctx, userID)
	if err != nil {
		return nil, err
	}

	entities, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	byField := make(map[int][]entity.FieldEntity)
	for _, e := range entities {
		byField[e.FieldIndex] = append(byField[e.FieldIndex], e)
	}

	indexes := make([]int, 0, len(fields))
	for idx := range fields {
		indexes = append(indexes, idx)
	}
	slices.Sort(indexes)

	now := s.now()
	states := make([]entity.FieldState, 0, len(indexes))
	for _, idx := range indexes {
		state := entity.FieldState{
			FieldIndex: idx,
			FieldKind:  fields[idx],
		}
		for _, e := range byField[idx] {
			switch e.Kind.Layer() {
			case entity.LayerOccupant:
				state.Occupant = &entity.OccupantState{
					Kind:        e.Kind,
					SpeciesID:   e.SpeciesID,
					Name:        e.Name,
					Rarity:      e.Rarity.String(),
					ImageURL:    e.ImageURL,
					RemainingMS: remainingMS(e.NextTransitionAt, now),
				}
			case entity.LayerBouquet:
				state.Bouquet = &entity.BouquetState{
					SpeciesID:   e.SpeciesID,
					Name:        e.Name,
					Rarity:      e.Rarity.String(),
					SpawnSlot:   e.SpawnSlot,
					NextSpawnMS: remainingMS(e.NextTransitionAt, now),
					ExpiresInMS: remainingMS(e.ExpiresAt, now),
				}
			case entity.LayerSun:
				state.Sun = &entity.SunState{
					Amount:      e.SunAmount,
					ExpiresInMS: remainingMS(e.ExpiresAt, now),
				}
			}
		}
		states = append(states, state)
	}

	return states, nil
}

// remainingMS converts a deadline to milliseconds from now, flooring at zero.
func remainingMS(deadline *time.Time, now time.Time) int64 {
	if deadline == nil {
		return 0
	}
	ms := deadline.Sub(now).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}
