package game_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantloop/garden/internal/entity"
	"github.com/verdantloop/garden/internal/game"
	"github.com/verdantloop/garden/internal/rarity"
)

func TestPlaceBouquet_SchedulesSpawnAndWither(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	placed, err := f.svc.PlaceBouquet(ctx, testUser, grassField, "rose-bunch")
	require.NoError(t, err)

	assert.Equal(t, entity.KindBouquet, placed.Kind)
	assert.Equal(t, rarity.Rare, placed.Rarity)
	assert.Equal(t, 1, placed.SpawnSlot)

	// The zero random draw yields the minimum spawn delay.
	require.NotNil(t, placed.NextTransitionAt)
	assert.Equal(t, testStart.Add(time.Minute), *placed.NextTransitionAt)
	require.NotNil(t, placed.ExpiresAt)
	assert.Equal(t, testStart.Add(21*time.Minute), *placed.ExpiresAt)

	stored, err := f.store.EntityByField(ctx, testUser, grassField, entity.LayerBouquet)
	require.NoError(t, err)
	assert.Equal(t, placed.ID, stored.ID)
}

func TestPlaceBouquet_SpawnDelayUsesWindow(t *testing.T) {
	f := newFixture(t)
	f.src.Push(0.5) // halfway into the 1..5 minute window

	placed, err := f.svc.PlaceBouquet(context.Background(), testUser, grassField, "daisy-bunch")
	require.NoError(t, err)
	assert.Equal(t, testStart.Add(3*time.Minute), *placed.NextTransitionAt)
}

func TestPlaceBouquet_OccupiedField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceBouquet(ctx, testUser, grassField, "rose-bunch")
	require.NoError(t, err)

	_, err = f.svc.PlaceBouquet(ctx, testUser, grassField, "daisy-bunch")
	assert.True(t, game.IsFieldOccupied(err))
}

func TestPlaceBouquet_PondFieldRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceBouquet(context.Background(), testUser, pondField, "rose-bunch")
	assert.True(t, game.IsInvalidFieldKind(err))
}

func TestPlaceBouquet_UnknownSpecies(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceBouquet(context.Background(), testUser, grassField, "nonesuch")
	assert.True(t, game.IsNotFound(err))
}

func TestPlaceBouquet_UnknownField(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceBouquet(context.Background(), testUser, 99, "rose-bunch")
	assert.True(t, game.IsNotFound(err))
}

func TestPlaceFlower_ConsumesInventoryAndSetsDwell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.give(t, entity.KindFlower, "lily", 2)

	placed, err := f.svc.PlaceFlower(ctx, testUser, grassField, "lily")
	require.NoError(t, err)

	assert.Equal(t, rarity.Epic, placed.Rarity)
	require.NotNil(t, placed.NextTransitionAt)
	assert.Equal(t, testStart.Add(6*time.Second), *placed.NextTransitionAt)
	assert.Nil(t, placed.ExpiresAt)

	assert.Equal(t, 1, f.owned(t, entity.KindFlower, "lily"))
}

func TestPlaceFlower_InsufficientInventoryRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.PlaceFlower(ctx, testUser, grassField, "daisy")
	assert.True(t, game.IsInsufficientInventory(err))

	// The rolled-back placement leaves the field empty.
	_, err = f.store.EntityByField(ctx, testUser, grassField, entity.LayerOccupant)
	assert.Error(t, err)
}

func TestPlaceFlower_OccupiedKeepsInventory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.give(t, entity.KindFlower, "daisy", 1)
	f.give(t, entity.KindFlower, "rose", 1)

	_, err := f.svc.PlaceFlower(ctx, testUser, grassField, "daisy")
	require.NoError(t, err)

	_, err = f.svc.PlaceFlower(ctx, testUser, grassField, "rose")
	assert.True(t, game.IsFieldOccupied(err))
	assert.Equal(t, 1, f.owned(t, entity.KindFlower, "rose"))
}

func TestSpawnSun_SetsExpiry(t *testing.T) {
	f := newFixture(t)

	sun, err := f.svc.SpawnSun(context.Background(), testUser, pondField, 2)
	require.NoError(t, err)

	assert.Equal(t, entity.KindSun, sun.Kind)
	assert.Equal(t, 2, sun.SunAmount)
	require.NotNil(t, sun.ExpiresAt)
	assert.Equal(t, testStart.Add(60*time.Second), *sun.ExpiresAt)
}

func TestSpawnSun_OnePerField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SpawnSun(ctx, testUser, grassField, 1)
	require.NoError(t, err)

	_, err = f.svc.SpawnSun(ctx, testUser, grassField, 3)
	assert.True(t, game.IsFieldOccupied(err))
}

func TestSpawnSun_CoexistsWithOccupant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.give(t, entity.KindFlower, "daisy", 1)

	_, err := f.svc.PlaceFlower(ctx, testUser, grassField, "daisy")
	require.NoError(t, err)

	_, err = f.svc.SpawnSun(ctx, testUser, grassField, 1)
	assert.NoError(t, err)
}
