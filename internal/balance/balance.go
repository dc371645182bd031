// Package balance holds the game-tuning constants that drive every timed
// transition: dwell times, spawn windows, lifetimes, rewards, and the
// inherit roll split.
//
// Compiled defaults match the live game. Deployments can override
// individual values with CUE files validated against the embedded schema;
// an invalid override directory is rejected as a whole, never half-applied.
package balance

import (
	"fmt"
	"time"

	"github.com/verdantloop/garden/internal/rarity"
)

// Config is the full set of tuning constants consumed by the command
// surface and the spawn scheduler.
type Config struct {
	// FlowerDwell is the time a flower of each tier stays on the field
	// before dissolving into a caterpillar.
	FlowerDwell [rarity.TierCount]time.Duration

	// ButterflyLifespan is how long a field butterfly waits to be
	// collected before metamorphosing into a caterpillar.
	ButterflyLifespan time.Duration

	// BouquetLifetime is the hard expiry on a placed bouquet, measured
	// from placement.
	BouquetLifetime time.Duration

	// SpawnWindowMin/Max bound the uniform random delay between bouquet
	// spawn slots.
	SpawnWindowMin time.Duration
	SpawnWindowMax time.Duration

	// SpawnSlots is the number of butterfly emissions per bouquet.
	SpawnSlots int

	// FeedingCycle is the number of feeds that completes one fish spawn.
	FeedingCycle int

	// SunLifetime is how long an uncollected sun stays on the field.
	SunLifetime time.Duration

	// SeedReward is the seed quantity credited when a bouquet of each
	// tier withers.
	SeedReward [rarity.TierCount]int

	// InheritSameChance/InheritLowerChance configure the inherit roll.
	// The remaining probability mass goes to the higher branch.
	InheritSameChance  float64
	InheritLowerChance float64
}

// Default returns the live game tuning.
func Default() Config {
	return Config{
		FlowerDwell: [rarity.TierCount]time.Duration{
			2 * time.Second,  // common
			3 * time.Second,  // uncommon
			4 * time.Second,  // rare
			5 * time.Second,  // super-rare
			6 * time.Second,  // epic
			8 * time.Second,  // legendary
			10 * time.Second, // mythical
		},
		ButterflyLifespan:  15 * time.Second,
		BouquetLifetime:    21 * time.Minute,
		SpawnWindowMin:     1 * time.Minute,
		SpawnWindowMax:     5 * time.Minute,
		SpawnSlots:         4,
		FeedingCycle:       3,
		SunLifetime:        60 * time.Second,
		SeedReward:         [rarity.TierCount]int{1, 2, 3, 4, 5, 6, 8},
		InheritSameChance:  0.50,
		InheritLowerChance: 0.30,
	}
}

// Validate checks cross-field invariants that the CUE schema cannot
// express per-entry.
func (c Config) Validate() error {
	for tier, dwell := range c.FlowerDwell {
		if dwell <= 0 {
			return fmt.Errorf("flower dwell for %s must be positive", rarity.Tier(tier))
		}
	}
	if c.ButterflyLifespan <= 0 {
		return fmt.Errorf("butterfly lifespan must be positive")
	}
	if c.BouquetLifetime <= 0 {
		return fmt.Errorf("bouquet lifetime must be positive")
	}
	if c.SpawnWindowMin <= 0 || c.SpawnWindowMax < c.SpawnWindowMin {
		return fmt.Errorf("spawn window [%s, %s] is not a valid range", c.SpawnWindowMin, c.SpawnWindowMax)
	}
	if c.SpawnSlots < 1 {
		return fmt.Errorf("spawn slots must be at least 1")
	}
	if c.FeedingCycle < 1 {
		return fmt.Errorf("feeding cycle must be at least 1")
	}
	if c.SunLifetime <= 0 {
		return fmt.Errorf("sun lifetime must be positive")
	}
	for tier, reward := range c.SeedReward {
		if reward < 0 {
			return fmt.Errorf("seed reward for %s must not be negative", rarity.Tier(tier))
		}
	}
	if c.InheritSameChance < 0 || c.InheritLowerChance < 0 ||
		c.InheritSameChance+c.InheritLowerChance > 1 {
		return fmt.Errorf("inherit chances %.2f/%.2f do not form a probability split",
			c.InheritSameChance, c.InheritLowerChance)
	}
	return nil
}
