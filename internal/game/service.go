// Package game implements the synchronous command surface of the garden:
// placing bouquets and flowers, collecting field creatures and suns, and
// feeding the pond. Commands apply their store effect first and external
// inventory or currency effects second, so a crash between the two never
// leaves a phantom field entity.
package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verdantloop/garden/internal/balance"
	"github.com/verdantloop/garden/internal/rarity"
	"github.com/verdantloop/garden/internal/store"
)

// Inventory is the owned-item collaborator. Debits of more than is owned
// must fail with store.ErrInsufficientQuantity so commands can map the
// failure to an InsufficientInventory error.
type Inventory interface {
	AddItem(ctx context.Context, userID, itemKind, itemID string, quantity int) error
	RemoveItem(ctx context.Context, userID, itemKind, itemID string, quantity int) error
	ItemQuantity(ctx context.Context, userID, itemKind, itemID string) (int, error)
}

// Currency is the balance collaborator. The lifecycle only ever credits.
type Currency interface {
	AddCurrency(ctx context.Context, userID string, credits, suns, hearts int64) error
}

// IDGenerator mints entity IDs.
type IDGenerator interface {
	NewID() string
}

// UUIDv7Generator mints time-ordered UUIDs. The production generator;
// v7 IDs keep the entity table's index append-mostly.
type UUIDv7Generator struct{}

// NewID implements IDGenerator.
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Service executes garden commands against one store.
//
// The clock, random source, and ID generator are injectable so tests and
// the replay harness can drive commands deterministically.
type Service struct {
	store   *store.Store
	catalog Catalog
	inv     Inventory
	cur     Currency
	cfg     balance.Config
	roller  *rarity.Roller
	src     rarity.Source
	ids     IDGenerator
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfig overrides the default tuning values.
func WithConfig(cfg balance.Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithRandomSource overrides the random source feeding inherit rolls and
// spawn-window draws.
func WithRandomSource(src rarity.Source) Option {
	return func(s *Service) { s.src = src }
}

// WithIDGenerator overrides entity ID minting.
func WithIDGenerator(gen IDGenerator) Option {
	return func(s *Service) { s.ids = gen }
}

// WithInventory overrides the owned-item collaborator. The store itself is
// the default.
func WithInventory(inv Inventory) Option {
	return func(s *Service) { s.inv = inv }
}

// WithCurrency overrides the balance collaborator. The store itself is the
// default.
func WithCurrency(cur Currency) Option {
	return func(s *Service) { s.cur = cur }
}

// WithLogger overrides the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService wires a command service over a store and a species catalog.
func NewService(st *store.Store, catalog Catalog, opts ...Option) *Service {
	s := &Service{
		store:   st,
		catalog: catalog,
		inv:     st,
		cur:     st,
		cfg:     balance.Default(),
		src:     rarity.NewSeededSource(),
		ids:     UUIDv7Generator{},
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.roller = rarity.NewRoller(s.src,
		rarity.WithChances(s.cfg.InheritSameChance, s.cfg.InheritLowerChance))
	return s
}

// Store exposes the underlying store for callers that compose the service
// with the spawn scheduler.
func (s *Service) Store() *store.Store { return s.store }

// Config returns the tuning values the service runs with.
func (s *Service) Config() balance.Config { return s.cfg }

// Roller returns the inherit roller, shared with the scheduler so command
// and timeout rolls draw from one source.
func (s *Service) Roller() *rarity.Roller { return s.roller }

// spawnDelay draws a uniform delay from the configured spawn window.
func (s *Service) spawnDelay() time.Duration {
	window := s.cfg.SpawnWindowMax - s.cfg.SpawnWindowMin
	if window <= 0 {
		return s.cfg.SpawnWindowMin
	}
	return s.cfg.SpawnWindowMin + time.Duration(s.src.Float64()*float64(window))
}
