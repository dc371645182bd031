package game

import (
	"context"

	"github.com/verdantloop/garden/internal/entity"
)

// PlaceBouquet puts a bouquet on a grass field and schedules its first
// butterfly emission. The bouquet starts at spawn slot 1 with a randomized
// first spawn deadline and a fixed wither deadline.
func (s *Service) PlaceBouquet(ctx context.Context, userID string, fieldIndex int, bouquetSpeciesID string) (entity.FieldEntity, error) {
	info, err := s.catalog.Species(ctx, entity.KindBouquet, bouquetSpeciesID)
	if err != nil {
		return entity.FieldEntity{}, err
	}

	now := s.now()
	nextSpawn := now.Add(s.spawnDelay())
	expires := now.Add(s.cfg.BouquetLifetime)

	e := entity.FieldEntity{
		ID:               s.ids.NewID(),
		UserID:           userID,
		FieldIndex:       fieldIndex,
		Kind:             entity.KindBouquet,
		SpeciesID:        info.ID,
		Name:             info.Name,
		Rarity:           info.Rarity,
		ImageURL:         info.ImageURL,
		CreatedAt:        now,
		NextTransitionAt: &nextSpawn,
		ExpiresAt:        &expires,
		SpawnSlot:        1,
	}

	if err := s.store.CreateEntity(ctx, e); err != nil {
		return entity.FieldEntity{}, storeCommandError(err, userID, fieldIndex)
	}

	s.logger.Info("bouquet placed",
		"user", userID,
		"field", fieldIndex,
		"species", info.ID,
		"next_spawn", nextSpawn,
	)
	return e, nil
}

// PlaceFlower plants an owned flower on a grass field. The flower dwells
// for its tier's duration, then the scheduler turns it into a caterpillar
// of the same tier.
//
// The store create runs before the inventory debit; a failed debit rolls
// the placement back, so the flower never ends up both planted and owned.
func (s *Service) PlaceFlower(ctx context.Context, userID string, fieldIndex int, flowerSpeciesID string) (entity.FieldEntity, error) {
	info, err := s.catalog.Species(ctx, entity.KindFlower, flowerSpeciesID)
	if err != nil {
		return entity.FieldEntity{}, err
	}

	now := s.now()
	matures := now.Add(s.cfg.FlowerDwell[info.Rarity])

	e := entity.FieldEntity{
		ID:               s.ids.NewID(),
		UserID:           userID,
		FieldIndex:       fieldIndex,
		Kind:             entity.KindFlower,
		SpeciesID:        info.ID,
		Name:             info.Name,
		Rarity:           info.Rarity,
		ImageURL:         info.ImageURL,
		CreatedAt:        now,
		NextTransitionAt: &matures,
	}

	if err := s.store.CreateEntity(ctx, e); err != nil {
		return entity.FieldEntity{}, storeCommandError(err, userID, fieldIndex)
	}

	if err := s.inv.RemoveItem(ctx, userID, string(entity.KindFlower), info.ID, 1); err != nil {
		if _, delErr := s.store.DeleteIfExists(ctx, e.ID); delErr != nil {
			s.logger.Error("roll back flower placement",
				"user", userID, "field", fieldIndex, "error", delErr)
		}
		return entity.FieldEntity{}, storeCommandError(err, userID, fieldIndex)
	}

	s.logger.Info("flower planted",
		"user", userID,
		"field", fieldIndex,
		"species", info.ID,
		"rarity", info.Rarity.String(),
		"matures_at", matures,
	)
	return e, nil
}

// SpawnSun drops a sun pickup on any field. Suns expire if not collected
// within the configured lifetime.
func (s *Service) SpawnSun(ctx context.Context, userID string, fieldIndex, amount int) (entity.FieldEntity, error) {
	now := s.now()
	expires := now.Add(s.cfg.SunLifetime)

	e := entity.FieldEntity{
		ID:         s.ids.NewID(),
		UserID:     userID,
		FieldIndex: fieldIndex,
		Kind:       entity.KindSun,
		CreatedAt:  now,
		ExpiresAt:  &expires,
		SunAmount:  amount,
	}

	if err := s.store.CreateEntity(ctx, e); err != nil {
		return entity.FieldEntity{}, storeCommandError(err, userID, fieldIndex)
	}

	s.logger.Info("sun spawned",
		"user", userID,
		"field", fieldIndex,
		"amount", amount,
		"expires_at", expires,
	)
	return e, nil
}
