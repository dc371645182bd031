package game

import (
	"context"
	"database/sql"
	"errors"

	"github.com/verdantloop/garden/internal/entity"
)

// CollectButterfly moves a field butterfly into the user's owned-butterfly
// inventory. Racing the scheduler's metamorphosis deadline is expected: the
// delete decides the winner, and a lost race returns an AlreadyTransitioned
// error instead of duplicating the creature.
func (s *Service) CollectButterfly(ctx context.Context, userID string, fieldIndex int) (entity.FieldEntity, error) {
	e, err := s.takeOccupant(ctx, userID, fieldIndex, entity.KindButterfly)
	if err != nil {
		return entity.FieldEntity{}, err
	}

	if err := s.inv.AddItem(ctx, userID, string(entity.KindButterfly), e.SpeciesID, 1); err != nil {
		return entity.FieldEntity{}, err
	}

	s.logger.Info("butterfly collected",
		"user", userID,
		"field", fieldIndex,
		"species", e.SpeciesID,
		"rarity", e.Rarity.String(),
	)
	return e, nil
}

// CollectCaterpillar moves a field caterpillar into the user's
// owned-caterpillar inventory. Caterpillars carry no scheduler deadline, so
// collecting is the only way the field frees up for the next placement.
func (s *Service) CollectCaterpillar(ctx context.Context, userID string, fieldIndex int) (entity.FieldEntity, error) {
	e, err := s.takeOccupant(ctx, userID, fieldIndex, entity.KindCaterpillar)
	if err != nil {
		return entity.FieldEntity{}, err
	}

	if err := s.inv.AddItem(ctx, userID, string(entity.KindCaterpillar), e.SpeciesID, 1); err != nil {
		return entity.FieldEntity{}, err
	}

	s.logger.Info("caterpillar collected",
		"user", userID,
		"field", fieldIndex,
		"species", e.SpeciesID,
		"rarity", e.Rarity.String(),
	)
	return e, nil
}

// CollectFish moves a spawned fish into the user's owned-fish inventory.
// Fish have no deadline, so the only contention is a double collect.
func (s *Service) CollectFish(ctx context.Context, userID string, fieldIndex int) (entity.FieldEntity, error) {
	e, err := s.takeOccupant(ctx, userID, fieldIndex, entity.KindFish)
	if err != nil {
		return entity.FieldEntity{}, err
	}

	if err := s.inv.AddItem(ctx, userID, string(entity.KindFish), e.SpeciesID, 1); err != nil {
		return entity.FieldEntity{}, err
	}

	s.logger.Info("fish collected",
		"user", userID,
		"field", fieldIndex,
		"species", e.SpeciesID,
		"rarity", e.Rarity.String(),
	)
	return e, nil
}

// CollectSun picks up a sun and credits its amount to the user's sun
// balance. Racing the expiry sweep yields AlreadyTransitioned for the
// loser, never a double credit.
func (s *Service) CollectSun(ctx context.Context, userID string, fieldIndex int) (int, error) {
	e, err := s.store.EntityByField(ctx, userID, fieldIndex, entity.LayerSun)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, newError(CodeNotFound, userID, fieldIndex, "no sun on field")
	}
	if err != nil {
		return 0, err
	}

	won, err := s.store.DeleteIfExists(ctx, e.ID)
	if err != nil {
		return 0, err
	}
	if !won {
		return 0, newError(CodeAlreadyTransitioned, userID, fieldIndex, "sun already collected or expired")
	}

	if err := s.cur.AddCurrency(ctx, userID, 0, int64(e.SunAmount), 0); err != nil {
		return 0, err
	}

	s.logger.Info("sun collected",
		"user", userID,
		"field", fieldIndex,
		"amount", e.SunAmount,
	)
	return e.SunAmount, nil
}

// takeOccupant atomically removes the ground-layer occupant of a field if
// it has the wanted kind. Exactly one caller wins a concurrent removal.
func (s *Service) takeOccupant(ctx context.Context, userID string, fieldIndex int, want entity.Kind) (entity.FieldEntity, error) {
	e, err := s.store.EntityByField(ctx, userID, fieldIndex, entity.LayerOccupant)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.FieldEntity{}, newError(CodeNotFound, userID, fieldIndex, "no %s on field", want)
	}
	if err != nil {
		return entity.FieldEntity{}, err
	}
	if e.Kind != want {
		return entity.FieldEntity{}, newError(CodeNotFound, userID, fieldIndex,
			"field holds a %s, not a %s", e.Kind, want)
	}

	won, err := s.store.DeleteIfExists(ctx, e.ID)
	if err != nil {
		return entity.FieldEntity{}, err
	}
	if !won {
		return entity.FieldEntity{}, newError(CodeAlreadyTransitioned, userID, fieldIndex,
			"%s already transitioned", want)
	}

	return e, nil
}
