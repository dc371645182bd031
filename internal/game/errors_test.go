package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/verdantloop/garden/internal/store"
)

func TestCodeOf_WrappedError(t *testing.T) {
	err := newError(CodeFieldOccupied, "u1", 3, "field already occupied")
	wrapped := fmt.Errorf("place bouquet: %w", err)

	assert.Equal(t, CodeFieldOccupied, CodeOf(wrapped))
	assert.True(t, IsFieldOccupied(wrapped))
}

func TestCodeOf_NonGameError(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(fmt.Errorf("disk on fire")))
	assert.False(t, IsNotFound(fmt.Errorf("disk on fire")))
	assert.Equal(t, Code(""), CodeOf(nil))
}

func TestError_MessageIncludesSlot(t *testing.T) {
	err := newError(CodeNotFound, "u1", 7, "no sun on field")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "field=7")
}

func TestStoreCommandError_MapsSentinels(t *testing.T) {
	tests := []struct {
		in   error
		want Code
	}{
		{fmt.Errorf("x: %w", store.ErrOccupied), CodeFieldOccupied},
		{fmt.Errorf("x: %w", store.ErrWrongFieldKind), CodeInvalidFieldKind},
		{fmt.Errorf("x: %w", store.ErrNoSuchField), CodeNotFound},
		{fmt.Errorf("x: %w", store.ErrInsufficientQuantity), CodeInsufficientInventory},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CodeOf(storeCommandError(tt.in, "u1", 0)))
	}

	// Unrelated errors pass through untyped.
	plain := fmt.Errorf("io timeout")
	assert.Equal(t, plain, storeCommandError(plain, "u1", 0))
}
