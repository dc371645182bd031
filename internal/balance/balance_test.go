package balance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verdantloop/garden/internal/rarity"
)

func TestDefault_MatchesLiveTuning(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 2*time.Second, cfg.FlowerDwell[rarity.Common])
	assert.Equal(t, 6*time.Second, cfg.FlowerDwell[rarity.Epic])
	assert.Equal(t, 10*time.Second, cfg.FlowerDwell[rarity.Mythical])
	assert.Equal(t, 15*time.Second, cfg.ButterflyLifespan)
	assert.Equal(t, 21*time.Minute, cfg.BouquetLifetime)
	assert.Equal(t, time.Minute, cfg.SpawnWindowMin)
	assert.Equal(t, 5*time.Minute, cfg.SpawnWindowMax)
	assert.Equal(t, 4, cfg.SpawnSlots)
	assert.Equal(t, 3, cfg.FeedingCycle)
	assert.InDelta(t, 0.50, cfg.InheritSameChance, 1e-9)
	assert.InDelta(t, 0.30, cfg.InheritLowerChance, 1e-9)
}

func TestDefault_Validates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero dwell", func(c *Config) { c.FlowerDwell[rarity.Rare] = 0 }},
		{"zero lifespan", func(c *Config) { c.ButterflyLifespan = 0 }},
		{"zero lifetime", func(c *Config) { c.BouquetLifetime = 0 }},
		{"inverted spawn window", func(c *Config) { c.SpawnWindowMax = c.SpawnWindowMin - 1 }},
		{"zero slots", func(c *Config) { c.SpawnSlots = 0 }},
		{"zero cycle", func(c *Config) { c.FeedingCycle = 0 }},
		{"zero sun lifetime", func(c *Config) { c.SunLifetime = 0 }},
		{"negative reward", func(c *Config) { c.SeedReward[rarity.Common] = -1 }},
		{"chances above one", func(c *Config) { c.InheritSameChance = 0.9; c.InheritLowerChance = 0.3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
