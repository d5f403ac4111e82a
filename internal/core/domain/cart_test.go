package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartSnapshot_DropsZeroQuantityRows(t *testing.T) {
	total := decimal.RequireFromString("7.5")
	snapshot, err := NewCartSnapshot([]OrderItem{
		{MenuItemID: "b", Quantity: 1, UnitPrice: decimal.RequireFromString("2.5")},
		{MenuItemID: "gone", Quantity: 0},
		{MenuItemID: "a", Quantity: 2, UnitPrice: decimal.RequireFromString("2.5")},
	}, total)
	require.NoError(t, err)

	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, "b", snapshot.Items[0].MenuItemID)
	assert.Equal(t, "a", snapshot.Items[1].MenuItemID)
	assert.True(t, snapshot.TotalPrice.Equal(total))
}

func TestNewCartSnapshot_RejectsNegativeQuantity(t *testing.T) {
	_, err := NewCartSnapshot([]OrderItem{{MenuItemID: "a", Quantity: -1}}, decimal.Zero)
	assert.Error(t, err)
}

func TestCartSnapshot_CloneIsIndependent(t *testing.T) {
	original := CartSnapshot{Items: []OrderItem{{MenuItemID: "a", Quantity: 2}}}
	clone := original.Clone()
	clone.Items[0].Quantity = 5

	assert.Equal(t, 2, original.Items[0].Quantity)
}

func TestCartView_Controls(t *testing.T) {
	snapshot := CartSnapshot{
		Items: []OrderItem{
			{MenuItemID: "single", Quantity: 1},
			{MenuItemID: "double", Quantity: 2},
		},
		TotalPrice: decimal.RequireFromString("12.5"),
	}
	view := CartView{Visible: true, Snapshot: &snapshot}

	assert.True(t, view.CanCheckout())
	assert.False(t, view.CanRemove("single"))
	assert.True(t, view.CanRemove("double"))
	assert.False(t, view.CanRemove("missing"))
	assert.Equal(t, "$12.5", view.TotalLabel())

	view.CheckingOut = true
	assert.False(t, view.CanCheckout())

	view.CheckingOut = false
	view.LoadingSnapshot = true
	assert.False(t, view.CanCheckout())
}

func TestCartView_Empty(t *testing.T) {
	var view CartView
	assert.False(t, view.CanCheckout())
	assert.Equal(t, "$0", view.TotalLabel())
	assert.True(t, view.Row("a").Idle())
	assert.Nil(t, view.Items())
}

func TestDisplayMessage(t *testing.T) {
	remote := NewRemoteError(OpCheckout, "insufficient stock", errors.New("409"))
	assert.Equal(t, "insufficient stock", DisplayMessage(remote))
	assert.Equal(t, "insufficient stock", DisplayMessage(fmt.Errorf("wrapped: %w", remote)))
	assert.Equal(t, "boom", DisplayMessage(errors.New("boom")))
	assert.Empty(t, DisplayMessage(nil))
	assert.ErrorIs(t, remote, remote.Cause)
}
