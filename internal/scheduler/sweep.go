// Package scheduler applies time-triggered lifecycle transitions: bouquet
// spawn slots and withering, butterfly metamorphosis, flower maturation,
// and sun expiry.
//
// All progress lives in the store as persisted deadlines, so a sweep holds
// no state beyond "now". Restarting the process never loses a pending
// transition, and multiple sweepers can run concurrently behind the store's
// atomic delete guarantee.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/verdantloop/garden/internal/balance"
	"github.com/verdantloop/garden/internal/entity"
	"github.com/verdantloop/garden/internal/game"
	"github.com/verdantloop/garden/internal/rarity"
	"github.com/verdantloop/garden/internal/store"
)

// Sweeper finds entities whose deadline has passed and applies the correct
// transition to each. Failures are isolated per candidate: a failed
// transition is logged and retried on the next sweep, since its deadline
// stays in the past until it succeeds.
type Sweeper struct {
	store   *store.Store
	catalog game.Catalog
	inv     game.Inventory
	cur     game.Currency
	cfg     balance.Config
	roller  *rarity.Roller
	src     rarity.Source
	ids     game.IDGenerator
	logger  *slog.Logger
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithConfig overrides the default tuning values.
func WithConfig(cfg balance.Config) SweeperOption {
	return func(s *Sweeper) { s.cfg = cfg }
}

// WithRandomSource overrides the source feeding inherit rolls and spawn
// delays.
func WithRandomSource(src rarity.Source) SweeperOption {
	return func(s *Sweeper) { s.src = src }
}

// WithIDGenerator overrides entity ID minting.
func WithIDGenerator(gen game.IDGenerator) SweeperOption {
	return func(s *Sweeper) { s.ids = gen }
}

// WithInventory overrides the owned-item collaborator.
func WithInventory(inv game.Inventory) SweeperOption {
	return func(s *Sweeper) { s.inv = inv }
}

// WithCurrency overrides the balance collaborator.
func WithCurrency(cur game.Currency) SweeperOption {
	return func(s *Sweeper) { s.cur = cur }
}

// WithLogger overrides the structured logger.
func WithLogger(logger *slog.Logger) SweeperOption {
	return func(s *Sweeper) { s.logger = logger }
}

// NewSweeper wires a sweeper over a store and a species catalog.
func NewSweeper(st *store.Store, catalog game.Catalog, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		store:   st,
		catalog: catalog,
		inv:     st,
		cur:     st,
		cfg:     balance.Default(),
		src:     rarity.NewSeededSource(),
		ids:     game.UUIDv7Generator{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.roller = rarity.NewRoller(s.src,
		rarity.WithChances(s.cfg.InheritSameChance, s.cfg.InheritLowerChance))
	return s
}

// Stats counts what one sweep did.
type Stats struct {
	BouquetSpawns    int
	BouquetsWithered int
	Metamorphoses    int
	FlowersMatured   int
	SunsExpired      int
	Failures         int
}

// Total returns the number of applied transitions.
func (st Stats) Total() int {
	return st.BouquetSpawns + st.BouquetsWithered + st.Metamorphoses +
		st.FlowersMatured + st.SunsExpired
}

// Sweep applies every due transition as of now. Query failures abort the
// sweep; per-candidate failures are counted and logged but never stop the
// remaining candidates.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (Stats, error) {
	var stats Stats

	bouquets, err := s.store.ListDue(ctx, entity.KindBouquet, now)
	if err != nil {
		return stats, err
	}
	for _, b := range bouquets {
		if err := s.tickBouquet(ctx, b, now, &stats); err != nil {
			stats.Failures++
			s.logger.Error("bouquet transition failed",
				"entity", b.ID, "user", b.UserID, "field", b.FieldIndex, "error", err)
		}
	}

	butterflies, err := s.store.ListDue(ctx, entity.KindButterfly, now)
	if err != nil {
		return stats, err
	}
	for _, b := range butterflies {
		if err := s.metamorphose(ctx, b, now, &stats); err != nil {
			stats.Failures++
			s.logger.Error("butterfly transition failed",
				"entity", b.ID, "user", b.UserID, "field", b.FieldIndex, "error", err)
		}
	}

	flowers, err := s.store.ListDue(ctx, entity.KindFlower, now)
	if err != nil {
		return stats, err
	}
	for _, fl := range flowers {
		if err := s.mature(ctx, fl, now, &stats); err != nil {
			stats.Failures++
			s.logger.Error("flower transition failed",
				"entity", fl.ID, "user", fl.UserID, "field", fl.FieldIndex, "error", err)
		}
	}

	suns, err := s.store.ListDue(ctx, entity.KindSun, now)
	if err != nil {
		return stats, err
	}
	for _, sun := range suns {
		won, err := s.store.DeleteIfExists(ctx, sun.ID)
		if err != nil {
			stats.Failures++
			s.logger.Error("sun expiry failed", "entity", sun.ID, "error", err)
			continue
		}
		if won {
			// Expiry pays nothing; the sun is just removed.
			stats.SunsExpired++
		}
	}

	return stats, nil
}

// tickBouquet handles one due bouquet: wither it if its lifetime is up,
// otherwise fire the current spawn slot.
func (s *Sweeper) tickBouquet(ctx context.Context, b entity.FieldEntity, now time.Time, stats *Stats) error {
	if b.ExpiresAt != nil && !b.ExpiresAt.After(now) {
		return s.wither(ctx, b, stats)
	}

	info, err := s.catalog.ButterflyForBouquet(ctx, b.SpeciesID)
	if err != nil {
		return err
	}

	due := now.Add(s.cfg.ButterflyLifespan)
	butterfly := entity.FieldEntity{
		ID:               s.ids.NewID(),
		UserID:           b.UserID,
		FieldIndex:       b.FieldIndex,
		Kind:             entity.KindButterfly,
		SpeciesID:        info.ID,
		Name:             info.Name,
		Rarity:           info.Rarity,
		ImageURL:         info.ImageURL,
		CreatedAt:        now,
		NextTransitionAt: &due,
	}

	err = s.store.CreateEntity(ctx, butterfly)
	if errors.Is(err, store.ErrOccupied) {
		// The field is busy, so the slot does not fire. Push the deadline
		// out and try the same slot again later.
		_, rerr := s.store.RescheduleBouquet(ctx, b.ID, now.Add(s.spawnDelay()), b.SpawnSlot)
		return rerr
	}
	if err != nil {
		return err
	}
	stats.BouquetSpawns++

	s.logger.Info("butterfly spawned",
		"user", b.UserID,
		"field", b.FieldIndex,
		"species", info.ID,
		"slot", b.SpawnSlot,
	)

	if b.SpawnSlot >= s.cfg.SpawnSlots {
		// The last slot fired; the bouquet is spent.
		return s.wither(ctx, b, stats)
	}

	_, err = s.store.RescheduleBouquet(ctx, b.ID, now.Add(s.spawnDelay()), b.SpawnSlot+1)
	return err
}

// wither removes a bouquet and pays its seed reward exactly once. The
// delete decides the winner if expiry and the final slot race.
func (s *Sweeper) wither(ctx context.Context, b entity.FieldEntity, stats *Stats) error {
	won, err := s.store.DeleteIfExists(ctx, b.ID)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	reward := s.cfg.SeedReward[b.Rarity]
	if reward > 0 {
		if err := s.inv.AddItem(ctx, b.UserID, "seed", b.SpeciesID, reward); err != nil {
			return err
		}
	}
	stats.BouquetsWithered++

	s.logger.Info("bouquet withered",
		"user", b.UserID,
		"field", b.FieldIndex,
		"species", b.SpeciesID,
		"seeds", reward,
	)
	return nil
}

// metamorphose turns a timed-out field butterfly into a caterpillar with an
// inherit-rolled rarity. Losing the delete race to a collect is a no-op.
func (s *Sweeper) metamorphose(ctx context.Context, b entity.FieldEntity, now time.Time, stats *Stats) error {
	won, err := s.store.DeleteIfExists(ctx, b.ID)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	rolled := s.roller.Inherit(b.Rarity)
	return s.createCaterpillar(ctx, b, rolled, now, &stats.Metamorphoses)
}

// mature turns a dwelled flower into a caterpillar of the same rarity.
// The flower's rarity copies straight through, unlike the butterfly path
// which rolls it.
func (s *Sweeper) mature(ctx context.Context, fl entity.FieldEntity, now time.Time, stats *Stats) error {
	won, err := s.store.DeleteIfExists(ctx, fl.ID)
	if err != nil {
		return err
	}
	if !won {
		return nil
	}

	return s.createCaterpillar(ctx, fl, fl.Rarity, now, &stats.FlowersMatured)
}

func (s *Sweeper) createCaterpillar(ctx context.Context, src entity.FieldEntity, tier rarity.Tier, now time.Time, counter *int) error {
	info, err := s.catalog.CaterpillarOf(ctx, tier)
	if err != nil {
		return err
	}

	caterpillar := entity.FieldEntity{
		ID:         s.ids.NewID(),
		UserID:     src.UserID,
		FieldIndex: src.FieldIndex,
		Kind:       entity.KindCaterpillar,
		SpeciesID:  info.ID,
		Name:       info.Name,
		Rarity:     tier,
		ImageURL:   info.ImageURL,
		CreatedAt:  now,
	}

	// A command that claims the field between the source delete and this
	// create wins the slot: the create fails ErrOccupied and the caterpillar
	// is lost, since the source row is already gone and nothing retries.
	if err := s.store.CreateEntity(ctx, caterpillar); err != nil {
		return err
	}
	*counter++

	s.logger.Info("caterpillar created",
		"user", src.UserID,
		"field", src.FieldIndex,
		"from", src.Kind,
		"rarity", tier.String(),
	)
	return nil
}

// spawnDelay draws a uniform delay from the configured spawn window.
func (s *Sweeper) spawnDelay() time.Duration {
	window := s.cfg.SpawnWindowMax - s.cfg.SpawnWindowMin
	if window <= 0 {
		return s.cfg.SpawnWindowMin
	}
	return s.cfg.SpawnWindowMin + time.Duration(s.src.Float64()*float64(window))
}
