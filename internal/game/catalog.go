package game

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/verdantloop/garden/internal/entity"
	"github.com/verdantloop/garden/internal/rarity"
)

// SpeciesInfo describes one catalog species: the display identity stamped
// onto field entities and inventory rows.
type SpeciesInfo struct {
	ID       string
	Name     string
	Rarity   rarity.Tier
	ImageURL string
}

// Catalog resolves species identities for commands and transitions.
//
// The species content itself (art, names, bouquet recipes) lives outside the
// lifecycle core; this interface is the seam. Unknown species resolve to a
// NotFound game error.
type Catalog interface {
	// Species looks up one species of a kind by id.
	Species(ctx context.Context, kind entity.Kind, speciesID string) (SpeciesInfo, error)

	// ButterflyForBouquet rolls the butterfly a bouquet emits. The recipe
	// decides species and rarity.
	ButterflyForBouquet(ctx context.Context, bouquetSpeciesID string) (SpeciesInfo, error)

	// CaterpillarOf returns the caterpillar species for a tier.
	CaterpillarOf(ctx context.Context, tier rarity.Tier) (SpeciesInfo, error)

	// FishOf returns the fish species for a tier.
	FishOf(ctx context.Context, tier rarity.Tier) (SpeciesInfo, error)
}

// StaticCatalog is a map-backed Catalog with one species per (kind, tier).
// It backs the CLI and tests; live deployments resolve species from the
// content service instead.
type StaticCatalog struct {
	species map[entity.Kind]map[string]SpeciesInfo
	byTier  map[entity.Kind]map[rarity.Tier]SpeciesInfo
}

var _ Catalog = (*StaticCatalog)(nil)

var titler = cases.Title(language.English)

// displayName derives a human name from a species id, so static content
// files only need ids ("rose-red" reads as "Rose Red").
func displayName(id string) string {
	return titler.String(strings.ReplaceAll(id, "-", " "))
}

// NewStaticCatalog builds a catalog from a flat species list. Names default
// to the title-cased id when empty.
func NewStaticCatalog(kinds map[entity.Kind][]SpeciesInfo) *StaticCatalog {
	c := &StaticCatalog{
		species: make(map[entity.Kind]map[string]SpeciesInfo),
		byTier:  make(map[entity.Kind]map[rarity.Tier]SpeciesInfo),
	}
	for kind, list := range kinds {
		c.species[kind] = make(map[string]SpeciesInfo)
		c.byTier[kind] = make(map[rarity.Tier]SpeciesInfo)
		for _, info := range list {
			if info.Name == "" {
				info.Name = displayName(info.ID)
			}
			c.species[kind][info.ID] = info
			if _, taken := c.byTier[kind][info.Rarity]; !taken {
				c.byTier[kind][info.Rarity] = info
			}
		}
	}
	return c
}

// DefaultCatalog returns the built-in species set, one per kind and tier.
func DefaultCatalog() *StaticCatalog {
	tiers := []rarity.Tier{
		rarity.Common, rarity.Uncommon, rarity.Rare, rarity.SuperRare,
		rarity.Epic, rarity.Legendary, rarity.Mythical,
	}

	ladder := func(names [7]string) []SpeciesInfo {
		out := make([]SpeciesInfo, 0, len(tiers))
		for i, tier := range tiers {
			out = append(out, SpeciesInfo{ID: names[i], Rarity: tier})
		}
		return out
	}

	return NewStaticCatalog(map[entity.Kind][]SpeciesInfo{
		entity.KindBouquet: ladder([7]string{
			"daisy-bunch", "tulip-bunch", "rose-bunch", "orchid-bunch",
			"lily-bunch", "iris-bunch", "lotus-bunch",
		}),
		entity.KindFlower: ladder([7]string{
			"daisy", "tulip", "rose", "orchid", "lily", "iris", "lotus",
		}),
		entity.KindButterfly: ladder([7]string{
			"cabbage-white", "meadow-brown", "red-admiral", "swallowtail",
			"morpho", "birdwing", "glasswing",
		}),
		entity.KindCaterpillar: ladder([7]string{
			"green-inchworm", "striped-looper", "ruby-crawler", "silk-spinner",
			"azure-crawler", "gilded-spinner", "prism-crawler",
		}),
		entity.KindFish: ladder([7]string{
			"minnow", "perch", "koi", "moonfish",
			"sturgeon", "golden-arowana", "celestial-koi",
		}),
	})
}

// Species implements Catalog.
func (c *StaticCatalog) Species(_ context.Context, kind entity.Kind, speciesID string) (SpeciesInfo, error) {
	info, ok := c.species[kind][speciesID]
	if !ok {
		return SpeciesInfo{}, newError(CodeNotFound, "", 0, "no %s species %q", kind, speciesID)
	}
	return info, nil
}

// ButterflyForBouquet implements Catalog. The static recipe emits the
// butterfly of the bouquet's own tier.
func (c *StaticCatalog) ButterflyForBouquet(ctx context.Context, bouquetSpeciesID string) (SpeciesInfo, error) {
	bouquet, err := c.Species(ctx, entity.KindBouquet, bouquetSpeciesID)
	if err != nil {
		return SpeciesInfo{}, err
	}
	return c.ofTier(entity.KindButterfly, bouquet.Rarity)
}

// CaterpillarOf implements Catalog.
func (c *StaticCatalog) CaterpillarOf(_ context.Context, tier rarity.Tier) (SpeciesInfo, error) {
	return c.ofTier(entity.KindCaterpillar, tier)
}

// FishOf implements Catalog.
func (c *StaticCatalog) FishOf(_ context.Context, tier rarity.Tier) (SpeciesInfo, error) {
	return c.ofTier(entity.KindFish, tier)
}

func (c *StaticCatalog) ofTier(kind entity.Kind, tier rarity.Tier) (SpeciesInfo, error) {
	info, ok := c.byTier[kind][tier]
	if !ok {
		return SpeciesInfo{}, fmt.Errorf("catalog has no %s species for tier %s", kind, tier)
	}
	return info, nil
}
