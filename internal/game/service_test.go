package game_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/verdantloop/garden/internal/entity"
	"github.com/verdantloop/garden/internal/game"
	"github.com/verdantloop/garden/internal/store"
	"github.com/verdantloop/garden/internal/testutil"
)

const testUser = "user-1"

// Field layout used by every test: grass at 0..3, pond at 4..5.
const (
	grassField = 0
	pondField  = 4
)

var testStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *game.Service
	store *store.Store
	clock *testutil.ManualClock
	src   *testutil.QueuedSource
}

// newFixture wires a service over a throwaway database with a pinned clock,
// scripted randomness, and sequential IDs. The zero-value random fallback
// takes the "same tier" inherit branch and the minimum spawn delay.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "garden.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, st.Close())
	})

	kinds := []entity.FieldKind{
		entity.FieldGrass, entity.FieldGrass, entity.FieldGrass,
		entity.FieldGrass, entity.FieldPond, entity.FieldPond,
	}
	require.NoError(t, st.EnsureFields(context.Background(), testUser, kinds))

	clock := testutil.NewManualClock(testStart)
	src := testutil.NewQueuedSource()

	svc := game.NewService(st, game.DefaultCatalog(),
		game.WithClock(clock.Now),
		game.WithRandomSource(src),
		game.WithIDGenerator(testutil.NewSequenceIDGenerator("ent")),
		game.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	return &fixture{svc: svc, store: st, clock: clock, src: src}
}

// give credits the user with owned items outside the command surface.
func (f *fixture) give(t *testing.T, itemKind entity.Kind, speciesID string, qty int) {
	t.Helper()
	require.NoError(t, f.store.AddItem(context.Background(), testUser, string(itemKind), speciesID, qty))
}

// owned returns how many of an item the user holds.
func (f *fixture) owned(t *testing.T, itemKind entity.Kind, speciesID string) int {
	t.Helper()
	n, err := f.store.ItemQuantity(context.Background(), testUser, string(itemKind), speciesID)
	require.NoError(t, err)
	return n
}
