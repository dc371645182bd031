package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem_AccumulatesQuantity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "u-1", "butterfly", "monarch", 1))
	require.NoError(t, s.AddItem(ctx, "u-1", "butterfly", "monarch", 2))

	quantity, err := s.ItemQuantity(ctx, "u-1", "butterfly", "monarch")
	require.NoError(t, err)
	assert.Equal(t, 3, quantity)
}

func TestAddItem_RejectsNonPositive(t *testing.T) {
	s := openTestStore(t)

	assert.Error(t, s.AddItem(context.Background(), "u-1", "seed", "daisy", 0))
	assert.Error(t, s.AddItem(context.Background(), "u-1", "seed", "daisy", -1))
}

func TestRemoveItem_DebitsExactly(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "u-1", "caterpillar", "inchworm", 2))
	require.NoError(t, s.RemoveItem(ctx, "u-1", "caterpillar", "inchworm", 1))

	quantity, err := s.ItemQuantity(ctx, "u-1", "caterpillar", "inchworm")
	require.NoError(t, err)
	assert.Equal(t, 1, quantity)
}

func TestRemoveItem_InsufficientQuantity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "u-1", "caterpillar", "inchworm", 1))

	err := s.RemoveItem(ctx, "u-1", "caterpillar", "inchworm", 2)
	assert.ErrorIs(t, err, ErrInsufficientQuantity)

	// The failed debit left the quantity untouched.
	quantity, err := s.ItemQuantity(ctx, "u-1", "caterpillar", "inchworm")
	require.NoError(t, err)
	assert.Equal(t, 1, quantity)
}

func TestRemoveItem_UnknownItem(t *testing.T) {
	s := openTestStore(t)

	err := s.RemoveItem(context.Background(), "u-1", "fish", "koi", 1)
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
}

func TestItemQuantity_UnknownIsZero(t *testing.T) {
	s := openTestStore(t)

	quantity, err := s.ItemQuantity(context.Background(), "u-1", "fish", "koi")
	require.NoError(t, err)
	assert.Equal(t, 0, quantity)
}

func TestListInventory_OrderedAndSkipsEmptyRows(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddItem(ctx, "u-1", "seed", "rose-bunch", 3))
	require.NoError(t, s.AddItem(ctx, "u-1", "butterfly", "monarch", 1))
	require.NoError(t, s.AddItem(ctx, "u-1", "butterfly", "admiral", 2))
	require.NoError(t, s.AddItem(ctx, "u-1", "fish", "koi", 1))
	require.NoError(t, s.RemoveItem(ctx, "u-1", "fish", "koi", 1))
	require.NoError(t, s.AddItem(ctx, "u-2", "seed", "daisy-bunch", 1))

	items, err := s.ListInventory(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, []InventoryItem{
		{ItemKind: "butterfly", ItemID: "admiral", Quantity: 2},
		{ItemKind: "butterfly", ItemID: "monarch", Quantity: 1},
		{ItemKind: "seed", ItemID: "rose-bunch", Quantity: 3},
	}, items)
}

func TestListInventory_EmptyIsNotNil(t *testing.T) {
	s := openTestStore(t)

	items, err := s.ListInventory(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAddCurrency_AccumulatesBalances(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AddCurrency(ctx, "u-1", 10, 2, 0))
	require.NoError(t, s.AddCurrency(ctx, "u-1", 0, 3, 1))

	b, err := s.UserBalances(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.Credits)
	assert.Equal(t, int64(5), b.Suns)
	assert.Equal(t, int64(1), b.Hearts)
}

func TestAddCurrency_RejectsNegative(t *testing.T) {
	s := openTestStore(t)

	assert.Error(t, s.AddCurrency(context.Background(), "u-1", -1, 0, 0))
}

func TestUserBalances_UnknownIsZero(t *testing.T) {
	s := openTestStore(t)

	b, err := s.UserBalances(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, Balances{}, b)
}
