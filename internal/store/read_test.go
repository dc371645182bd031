package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantloop/garden/internal/entity"
	"github.com/verdantloop/garden/internal/rarity"
)

func TestFieldKind(t *testing.T) {
	s := openTestStore(t)
	seedFields(t, s, "u-1")
	ctx := context.Background()

	kind, err := s.FieldKind(ctx, "u-1", 0)
	require.NoError(t, err)
	assert.Equal(t, entity.FieldGrass, kind)

	kind, err = s.FieldKind(ctx, "u-1", 4)
	require.NoError(t, err)
	assert.Equal(t, entity.FieldPond, kind)

	_, err = s.FieldKind(ctx, "u-1", 99)
	assert.ErrorIs(t, err, ErrNoSuchField)
}

func TestListDue_DeadlineBoundary(t *testing.T) {
	s := openTestStore(t)
	seedFields(t, s, "u-1")
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.CreateEntity(ctx, butterflyAt("b-past", "u-1", 0, now.Add(-time.Second))))
	require.NoError(t, s.CreateEntity(ctx, butterflyAt("b-exact", "u-1", 1, now)))
	require.NoError(t, s.CreateEntity(ctx, butterflyAt("b-future", "u-1", 2, now.Add(time.Hour))))

	due, err := s.ListDue(ctx, entity.KindButterfly, now)
	require.NoError(t, err)
	require.Len(t, due, 2)
	// Oldest deadline first.
	assert.Equal(t, "b-past", due[0].ID)
	assert.Equal(t, "b-exact", due[1].ID)
}

func TestListDue_ExpiryCountsAsDue(t *testing.T) {
	s := openTestStore(t)
	seedFields(t, s, "u-1")
	ctx := context.Background()

	now := time.Now()
	// Bouquet whose next spawn is far off but whose lifetime already ended.
	nextSpawn := now.Add(4 * time.Minute)
	expired := now.Add(-time.Minute)
	bouquet := entity.FieldEntity{
		ID: "q-1", UserID: "u-1", FieldIndex: 0, Kind: entity.KindBouquet,
		SpeciesID: "spring-mix", Rarity: rarity.Rare, CreatedAt: now.Add(-22 * time.Minute),
		NextTransitionAt: &nextSpawn, ExpiresAt: &expired, SpawnSlot: 3,
	}
	require.NoError(t, s.CreateEntity(ctx, bouquet))

	due, err := s.ListDue(ctx, entity.KindBouquet, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "q-1", due[0].ID)
}

func TestListDue_FiltersByKind(t *testing.T) {
	s := openTestStore(t)
	seedFields(t, s, "u-1")
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.CreateEntity(ctx, butterflyAt("b-1", "u-1", 0, now.Add(-time.Second))))

	due, err := s.ListDue(ctx, entity.KindFlower, now)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestListDue_SkipsNoDeadlineKinds(t *testing.T) {
	s := openTestStore(t)
	seedFields(t, s, "u-1")
	ctx := context.Background()

	// Caterpillars are terminal: no deadline columns set.
	caterpillar := entity.FieldEntity{
		ID: "c-1", UserID: "u-1", FieldIndex: 0, Kind: entity.KindCaterpillar,
		SpeciesID: "inchworm", Rarity: rarity.Uncommon, CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateEntity(ctx, caterpillar))

	due, err := s.ListDue(ctx, entity.KindCaterpillar, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestListByUser(t *testing.T) {
	s := openTestStore(t)
	seedFields(t, s, "u-1")
	seedFields(t, s, "u-2")
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, s.CreateEntity(ctx, butterflyAt("b-1", "u-1", 2, now.Add(15*time.Second))))
	require.NoError(t, s.CreateEntity(ctx, butterflyAt("b-2", "u-2", 0, now.Add(15*time.Second))))

	mine, err := s.ListByUser(ctx, "u-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "b-1", mine[0].ID)
}

func TestListByUser_EmptyIsNotNil(t *testing.T) {
	s := openTestStore(t)

	entities, err := s.ListByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, entities)
	assert.Empty(t, entities)
}
