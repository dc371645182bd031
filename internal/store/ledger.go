package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// The store doubles as the default implementation of the game's external
// inventory and currency collaborators. Deployments that keep those systems
// elsewhere wire their own implementations at the service layer.

// Balances is a user's currency holdings.
type Balances struct {
	Credits int64 `json:"credits"`
	Suns    int64 `json:"suns"`
	Hearts  int64 `json:"hearts"`
}

// InventoryItem is one owned-item row.
type InventoryItem struct {
	ItemKind string `json:"item_kind"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// AddItem credits quantity of an owned item. Quantity must be positive.
func (s *Store) AddItem(ctx context.Context, userID, itemKind, itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("add item: non-positive quantity %d", quantity)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (user_id, item_kind, item_id, quantity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, item_kind, item_id) DO UPDATE SET
			quantity = quantity + excluded.quantity
	`, userID, itemKind, itemID, quantity)
	if err != nil {
		return fmt.Errorf("add item %s/%s: %w", itemKind, itemID, err)
	}

	return nil
}

// RemoveItem debits quantity of an owned item. Fails with
// ErrInsufficientQuantity when the user owns fewer than requested; the
// conditional UPDATE makes concurrent debits resolve to at most the owned
// amount.
func (s *Store) RemoveItem(ctx context.Context, userID, itemKind, itemID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("remove item: non-positive quantity %d", quantity)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE inventory SET quantity = quantity - ?
		WHERE user_id = ? AND item_kind = ? AND item_id = ? AND quantity >= ?
	`, quantity, userID, itemKind, itemID, quantity)
	if err != nil {
		return fmt.Errorf("remove item %s/%s: %w", itemKind, itemID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove item %s/%s: rows affected: %w", itemKind, itemID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("remove item %s/%s: %w", itemKind, itemID, ErrInsufficientQuantity)
	}

	return nil
}

// ItemQuantity returns how many of an item a user owns. Unknown items
// count as zero.
func (s *Store) ItemQuantity(ctx context.Context, userID, itemKind, itemID string) (int, error) {
	var quantity int
	err := s.db.QueryRowContext(ctx, `
		SELECT quantity FROM inventory
		WHERE user_id = ? AND item_kind = ? AND item_id = ?
	`, userID, itemKind, itemID).Scan(&quantity)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query item quantity %s/%s: %w", itemKind, itemID, err)
	}
	return quantity, nil
}

// ListInventory returns a user's owned items in (kind, id) order, skipping
// rows debited down to zero.
func (s *Store) ListInventory(ctx context.Context, userID string) ([]InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_kind, item_id, quantity FROM inventory
		WHERE user_id = ? AND quantity > 0
		ORDER BY item_kind ASC, item_id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query inventory for %s: %w", userID, err)
	}
	defer rows.Close()

	items := []InventoryItem{}
	for rows.Next() {
		var item InventoryItem
		if err := rows.Scan(&item.ItemKind, &item.ItemID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}

	return items, nil
}

// AddCurrency credits currency deltas to a user's balances. Deltas must be
// non-negative; the core never debits currency.
func (s *Store) AddCurrency(ctx context.Context, userID string, credits, suns, hearts int64) error {
	if credits < 0 || suns < 0 || hearts < 0 {
		return fmt.Errorf("add currency: negative delta")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO currency (user_id, credits, suns, hearts)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			credits = credits + excluded.credits,
			suns = suns + excluded.suns,
			hearts = hearts + excluded.hearts
	`, userID, credits, suns, hearts)
	if err != nil {
		return fmt.Errorf("add currency for %s: %w", userID, err)
	}

	return nil
}

// UserBalances returns a user's currency holdings. Unknown users have zero
// balances.
func (s *Store) UserBalances(ctx context.Context, userID string) (Balances, error) {
	var b Balances
	err := s.db.QueryRowContext(ctx, `
		SELECT credits, suns, hearts FROM currency
		WHERE user_id = ?
	`, userID).Scan(&b.Credits, &b.Suns, &b.Hearts)
	if errors.Is(err, sql.ErrNoRows) {
		return Balances{}, nil
	}
	if err != nil {
		return Balances{}, fmt.Errorf("query balances for %s: %w", userID, err)
	}
	return b, nil
}
