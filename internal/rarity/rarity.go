// Package rarity defines the seven-tier quality scale shared by flowers,
// butterflies, caterpillars, and fish, plus the two transition rules built
// on it: the probabilistic inherit roll and the deterministic three-way
// average.
//
// The integer ordering of tiers is load-bearing: both rules operate on the
// tier index, so the enum values must never be reordered.
package rarity

import "fmt"

// Tier is an ordered rarity level. Higher values are rarer.
type Tier int

const (
	Common Tier = iota
	Uncommon
	Rare
	SuperRare
	Epic
	Legendary
	Mythical
)

// TierCount is the number of defined tiers.
const TierCount = 7

var tierNames = [TierCount]string{
	"common",
	"uncommon",
	"rare",
	"super-rare",
	"epic",
	"legendary",
	"mythical",
}

// String returns the canonical lowercase name of the tier.
// Unknown values format as "tier(N)" for diagnostics.
func (t Tier) String() string {
	if t.Valid() {
		return tierNames[t]
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Valid reports whether t is one of the seven defined tiers.
func (t Tier) Valid() bool {
	return t >= Common && t <= Mythical
}

// ParseTier converts a canonical tier name back to its Tier value.
func ParseTier(name string) (Tier, error) {
	for i, n := range tierNames {
		if n == name {
			return Tier(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rarity tier %q", name)
}

// clamp bounds t to the defined tier range.
func clamp(t Tier) Tier {
	if t < Common {
		return Common
	}
	if t > Mythical {
		return Mythical
	}
	return t
}
