package cart

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teukusulthan/ninetyn-client/internal/model"
	"github.com/teukusulthan/ninetyn-client/internal/store"
)

func item(id string, price int64) model.CartItem {
	return model.CartItem{ID: id, Name: "Item " + id, UnitPrice: decimal.NewFromInt(price)}
}

func TestAddMergesSameID(t *testing.T) {
	c := New(store.NewMemory())

	c.Add(item("A", 10), 2)
	c.Add(item("A", 10), 3)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(5), items[0].Quantity)
	assert.Equal(t, int64(5), c.TotalItems())
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(50)), "subtotal = %s", c.Subtotal())
}

func TestDerivedTotals(t *testing.T) {
	c := New(store.NewMemory())

	c.Add(item("A", 10), 2)
	c.Add(item("B", 7), 1)
	c.Add(item("C", 3), 4)

	assert.Equal(t, int64(7), c.TotalItems())
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(39)))

	c.Remove("B")
	assert.Equal(t, int64(6), c.TotalItems())
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(32)))

	c.SetQuantity("C", 1)
	assert.Equal(t, int64(3), c.TotalItems())
	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(23)))
}

func TestSetQuantityClampsToOne(t *testing.T) {
	tests := []struct {
		name string
		qty  int64
	}{
		{"zero", 0},
		{"negative", -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(store.NewMemory())
			c.Add(item("A", 10), 3)

			c.SetQuantity("A", tt.qty)

			items := c.Items()
			require.Len(t, items, 1)
			assert.Equal(t, int64(1), items[0].Quantity)
		})
	}
}

func TestSetQuantityAbsentIDIsNoop(t *testing.T) {
	c := New(store.NewMemory())
	c.Add(item("A", 10), 2)

	c.SetQuantity("Z", 9)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, int64(2), items[0].Quantity)
}

func TestRemoveAbsentIDIsNoop(t *testing.T) {
	c := New(store.NewMemory())
	c.Add(item("A", 10), 1)
	c.Add(item("B", 20), 2)
	before := c.Items()

	c.Remove("Z")

	assert.Equal(t, before, c.Items())
}

func TestClearEmptiesCartAndStore(t *testing.T) {
	mem := store.NewMemory()
	c := New(mem)
	c.Add(item("A", 10), 2)
	c.Add(item("B", 5), 1)

	c.Clear()

	assert.Equal(t, int64(0), c.TotalItems())
	assert.True(t, c.Subtotal().IsZero())
	assert.Empty(t, c.Items())

	raw, ok, err := mem.Get(store.KeyCart)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, "[]", raw)
}

func TestEveryMutationPersists(t *testing.T) {
	mem := store.NewMemory()
	c := New(mem)

	c.Add(item("A", 10), 2)

	raw, ok, _ := mem.Get(store.KeyCart)
	require.True(t, ok)
	var persisted []model.CartItem
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, int64(2), persisted[0].Quantity)

	c.SetQuantity("A", 7)
	raw, _, _ = mem.Get(store.KeyCart)
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	assert.Equal(t, int64(7), persisted[0].Quantity)
}

func TestReloadFromStore(t *testing.T) {
	mem := store.NewMemory()
	first := New(mem)
	first.Add(item("A", 10), 2)
	first.Add(item("B", 3), 1)

	second := New(mem)
	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, int64(3), second.TotalItems())
}

func TestCorruptPersistedCartStartsEmpty(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.Put(store.KeyCart, "{not json"))

	c := New(mem)

	assert.Empty(t, c.Items())
	assert.Equal(t, int64(0), c.TotalItems())
}

func TestAddQuantityBelowOneClamps(t *testing.T) {
	c := New(store.NewMemory())
	c.Add(item("A", 10), 0)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].Quantity)
}
