package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantloop/garden/internal/entity"
	"github.com/verdantloop/garden/internal/rarity"
)

func TestDefaultCatalog_CoversEveryTier(t *testing.T) {
	c := DefaultCatalog()
	ctx := context.Background()

	for tier := rarity.Common; tier <= rarity.Mythical; tier++ {
		cat, err := c.CaterpillarOf(ctx, tier)
		require.NoError(t, err)
		assert.Equal(t, tier, cat.Rarity)

		fish, err := c.FishOf(ctx, tier)
		require.NoError(t, err)
		assert.Equal(t, tier, fish.Rarity)
	}
}

func TestStaticCatalog_DerivesDisplayNames(t *testing.T) {
	c := DefaultCatalog()

	info, err := c.Species(context.Background(), entity.KindButterfly, "red-admiral")
	require.NoError(t, err)
	assert.Equal(t, "Red Admiral", info.Name)
}

func TestStaticCatalog_UnknownSpecies(t *testing.T) {
	c := DefaultCatalog()

	_, err := c.Species(context.Background(), entity.KindFlower, "nonesuch")
	assert.True(t, IsNotFound(err))
}

func TestStaticCatalog_RecipeMatchesBouquetTier(t *testing.T) {
	c := DefaultCatalog()

	info, err := c.ButterflyForBouquet(context.Background(), "lotus-bunch")
	require.NoError(t, err)
	assert.Equal(t, rarity.Mythical, info.Rarity)
	assert.Equal(t, "glasswing", info.ID)
}
