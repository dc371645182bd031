// Package entity defines the ephemeral field objects of the garden and the
// rules for which of them may occupy which field.
//
// All six ephemeral kinds share one tagged record, FieldEntity, with a kind
// discriminator. Collapsing the kinds into one shape lets the store enforce
// the core occupancy invariant - at most one entity per (user, field) - as
// a single uniqueness constraint instead of six parallel tables.
package entity

import (
	"fmt"
	"time"

	"github.com/verdantloop/garden/internal/rarity"
)

// Kind discriminates the ephemeral entity variants.
type Kind string

const (
	KindBouquet     Kind = "bouquet"
	KindButterfly   Kind = "butterfly"
	KindFlower      Kind = "flower"
	KindCaterpillar Kind = "caterpillar"
	KindFish        Kind = "fish"
	KindSun         Kind = "sun"
)

// Valid reports whether k is a defined entity kind.
func (k Kind) Valid() bool {
	switch k {
	case KindBouquet, KindButterfly, KindFlower, KindCaterpillar, KindFish, KindSun:
		return true
	}
	return false
}

// FieldKind classifies a garden field. Grass fields host the flower and
// insect lifecycle; pond fields host feeding and fish.
type FieldKind string

const (
	FieldGrass FieldKind = "grass"
	FieldPond  FieldKind = "pond"
)

// Valid reports whether f is a defined field kind.
func (f FieldKind) Valid() bool {
	return f == FieldGrass || f == FieldPond
}

// AllowedOn reports whether an entity of kind k may occupy a field of kind f.
// Suns drop anywhere; everything else is tied to one field kind.
func (k Kind) AllowedOn(f FieldKind) bool {
	switch k {
	case KindSun:
		return true
	case KindBouquet, KindButterfly, KindFlower, KindCaterpillar:
		return f == FieldGrass
	case KindFish:
		return f == FieldPond
	}
	return false
}

// Layer partitions entity kinds into the slots a single field offers.
// A bouquet emits butterflies onto its own field, and a sun can drop while
// something else is growing there, so bouquets and suns each occupy their
// own layer instead of competing with the ground occupant. Mutual exclusion
// applies within a layer only.
type Layer string

const (
	// LayerOccupant holds the creature or plant growing on the field:
	// butterfly, flower, caterpillar, or fish.
	LayerOccupant Layer = "occupant"
	// LayerBouquet holds a placed bouquet.
	LayerBouquet Layer = "bouquet"
	// LayerSun holds an uncollected sun pickup.
	LayerSun Layer = "sun"
)

// Layer returns the field layer entities of kind k occupy.
func (k Kind) Layer() Layer {
	switch k {
	case KindBouquet:
		return LayerBouquet
	case KindSun:
		return LayerSun
	default:
		return LayerOccupant
	}
}

// FieldEntity is the single ephemeral occupant of one (user, field, layer)
// slot.
//
// Kind-specific fields are zero for kinds that do not use them:
//   - SpawnSlot is meaningful only for bouquets (1..4)
//   - SunAmount is meaningful only for suns (1..3)
//   - NextTransitionAt is nil for kinds with no scheduler deadline
//     (caterpillar, fish)
//   - ExpiresAt is set for bouquets and suns
type FieldEntity struct {
	ID         string
	UserID     string
	FieldIndex int
	Kind       Kind

	// SpeciesID names the catalog species (bouquet recipe, butterfly,
	// flower, caterpillar, or fish id). Empty for suns.
	SpeciesID string
	Name      string
	Rarity    rarity.Tier
	ImageURL  string

	CreatedAt        time.Time
	NextTransitionAt *time.Time
	ExpiresAt        *time.Time

	SpawnSlot int
	SunAmount int
}

// Validate checks structural invariants before a row is persisted.
func (e *FieldEntity) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("entity missing id")
	}
	if e.UserID == "" {
		return fmt.Errorf("entity missing user id")
	}
	if e.FieldIndex < 0 {
		return fmt.Errorf("negative field index %d", e.FieldIndex)
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("unknown entity kind %q", e.Kind)
	}
	if e.Kind != KindSun && !e.Rarity.Valid() {
		return fmt.Errorf("invalid rarity %d for %s", e.Rarity, e.Kind)
	}
	if e.Kind == KindBouquet && (e.SpawnSlot < 1 || e.SpawnSlot > 4) {
		return fmt.Errorf("bouquet spawn slot %d out of range", e.SpawnSlot)
	}
	if e.Kind == KindSun && (e.SunAmount < 1 || e.SunAmount > 3) {
		return fmt.Errorf("sun amount %d out of range", e.SunAmount)
	}
	return nil
}

// FeedingProgress tracks one pond field's feeding cycle. Count covers the
// fed creatures recorded since the last fish spawn; History holds their
// rarities in feed order, at most three entries.
type FeedingProgress struct {
	UserID     string
	FieldIndex int
	Count      int
	LastFedAt  time.Time
	History    []rarity.Tier
}

// FieldState is the read model the UI layer consumes for one field.
// Remaining durations are computed against the query time and floor at zero.
type FieldState struct {
	FieldIndex int       `json:"field_index"`
	FieldKind  FieldKind `json:"field_kind"`

	// Occupant describes the creature or plant on the ground layer.
	Occupant *OccupantState `json:"occupant,omitempty"`
	// Bouquet describes a placed bouquet, if any.
	Bouquet *BouquetState `json:"bouquet,omitempty"`
	// Sun describes an uncollected sun pickup, if any.
	Sun *SunState `json:"sun,omitempty"`
}

// OccupantState reports the ground-layer occupant of a field.
type OccupantState struct {
	Kind      Kind   `json:"kind"`
	SpeciesID string `json:"species_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Rarity    string `json:"rarity"`
	ImageURL  string `json:"image_url,omitempty"`

	// RemainingMS is the time until the next scheduled transition, in
	// milliseconds. Zero when the occupant has no deadline.
	RemainingMS int64 `json:"remaining_ms,omitempty"`
}

// BouquetState reports a placed bouquet and its spawn cycle position.
type BouquetState struct {
	SpeciesID string `json:"species_id"`
	Name      string `json:"name,omitempty"`
	Rarity    string `json:"rarity"`
	SpawnSlot int    `json:"spawn_slot"`

	// NextSpawnMS is the time until the next butterfly emission attempt.
	NextSpawnMS int64 `json:"next_spawn_ms"`
	// ExpiresInMS is the time until the bouquet withers outright.
	ExpiresInMS int64 `json:"expires_in_ms"`
}

// SunState reports an uncollected sun pickup.
type SunState struct {
	Amount      int   `json:"amount"`
	ExpiresInMS int64 `json:"expires_in_ms"`
}
