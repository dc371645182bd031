package game

import (
	"context"
	"fmt"

	"github.com/verdantloop/garden/internal/entity"
	"github.com/verdantloop/garden/internal/rarity"
)

// FeedResult reports the feeding cycle state after one feed, plus the fish
// if this feed completed the cycle.
type FeedResult struct {
	Progress entity.FeedingProgress
	Fish     *entity.FieldEntity
}

// Feed consumes one owned caterpillar or butterfly and advances a pond
// field's feeding cycle. A fed butterfly counts as a caterpillar unit of the
// same rarity, so the cycle history is rarity-homogeneous. When the cycle
// completes, a fish spawns with the averaged rarity of the last three feeds
// and the cycle resets.
//
// If the pond is still occupied when the fish should spawn, the cycle stays
// complete and the next Feed call retries the spawn without consuming
// another creature.
func (s *Service) Feed(ctx context.Context, userID string, fieldIndex int, sourceSpeciesID string, sourceKind entity.Kind) (FeedResult, error) {
	if sourceKind != entity.KindCaterpillar && sourceKind != entity.KindButterfly {
		return FeedResult{}, fmt.Errorf("feed: source kind %q is not feedable", sourceKind)
	}

	fieldKind, err := s.store.FieldKind(ctx, userID, fieldIndex)
	if err != nil {
		return FeedResult{}, storeCommandError(err, userID, fieldIndex)
	}
	if fieldKind != entity.FieldPond {
		return FeedResult{}, newError(CodeInvalidFieldKind, userID, fieldIndex,
			"cannot feed on a %s field", fieldKind)
	}

	// A completed cycle without a fish means an earlier spawn attempt found
	// the pond occupied. Retry the spawn before consuming anything.
	progress, err := s.store.FeedingProgress(ctx, userID, fieldIndex)
	if err != nil {
		return FeedResult{}, err
	}
	if progress.Count >= s.cfg.FeedingCycle {
		fish, err := s.spawnFish(ctx, userID, fieldIndex, progress)
		if err != nil {
			return FeedResult{Progress: progress}, err
		}
		return FeedResult{Progress: progress, Fish: fish}, nil
	}

	info, err := s.catalog.Species(ctx, sourceKind, sourceSpeciesID)
	if err != nil {
		return FeedResult{}, err
	}

	if err := s.inv.RemoveItem(ctx, userID, string(sourceKind), info.ID, 1); err != nil {
		return FeedResult{}, storeCommandError(err, userID, fieldIndex)
	}

	progress, err = s.store.RecordFeed(ctx, userID, fieldIndex, info.Rarity, s.now())
	if err != nil {
		return FeedResult{}, err
	}

	s.logger.Info("creature fed",
		"user", userID,
		"field", fieldIndex,
		"source", info.ID,
		"rarity", info.Rarity.String(),
		"count", progress.Count,
	)

	if progress.Count < s.cfg.FeedingCycle {
		return FeedResult{Progress: progress}, nil
	}

	fish, err := s.spawnFish(ctx, userID, fieldIndex, progress)
	if err != nil {
		return FeedResult{Progress: progress}, err
	}
	return FeedResult{Progress: progress, Fish: fish}, nil
}

// spawnFish creates the fish a completed feeding cycle earned and resets
// the cycle. The fish rarity is the rounded average of the last three fed
// rarities.
func (s *Service) spawnFish(ctx context.Context, userID string, fieldIndex int, progress entity.FeedingProgress) (*entity.FieldEntity, error) {
	if len(progress.History) < 3 {
		return nil, fmt.Errorf("spawn fish: cycle complete with %d history entries", len(progress.History))
	}
	last := progress.History[len(progress.History)-3:]
	avg := rarity.Average([3]rarity.Tier{last[0], last[1], last[2]})

	info, err := s.catalog.FishOf(ctx, avg)
	if err != nil {
		return nil, err
	}

	fish := entity.FieldEntity{
		ID:         s.ids.NewID(),
		UserID:     userID,
		FieldIndex: fieldIndex,
		Kind:       entity.KindFish,
		SpeciesID:  info.ID,
		Name:       info.Name,
		Rarity:     avg,
		ImageURL:   info.ImageURL,
		CreatedAt:  s.now(),
	}

	if err := s.store.CreateEntity(ctx, fish); err != nil {
		return nil, storeCommandError(err, userID, fieldIndex)
	}

	if err := s.store.ResetFeedingProgress(ctx, userID, fieldIndex); err != nil {
		return nil, err
	}

	s.logger.Info("fish spawned",
		"user", userID,
		"field", fieldIndex,
		"species", info.ID,
		"rarity", avg.String(),
	)
	return &fish, nil
}
