// Package cart holds the shopper's pending line items. Lines are keyed by
// product id; every mutation is written back to the local store immediately
// and totals are derived fresh on each read.
package cart

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/teukusulthan/ninetyn-client/internal/model"
	"github.com/teukusulthan/ninetyn-client/internal/store"
)

type Cart struct {
	mu    sync.Mutex
	local store.Store
	items []model.CartItem
}

// New loads the persisted cart. A missing or corrupt payload starts over
// empty; it is never a fatal condition.
func New(local store.Store) *Cart {
	c := &Cart{local: local}
	raw, ok, err := local.Get(store.KeyCart)
	if err != nil || !ok {
		return c
	}
	if uerr := json.Unmarshal([]byte(raw), &c.items); uerr != nil {
		c.items = nil
	}
	for i := range c.items {
		if c.items[i].Quantity < 1 {
			c.items[i].Quantity = 1
		}
	}
	return c
}

// Add appends a line or, when the id is already present, increments its
// quantity instead of duplicating the row.
func (c *Cart) Add(item model.CartItem, qty int64) {
	if qty < 1 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity += qty
			c.persistLocked()
			return
		}
	}
	item.Quantity = qty
	c.items = append(c.items, item)
	c.persistLocked()
}

// Remove deletes the line with the given id. Absent ids are a no-op.
func (c *Cart) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persistLocked()
			return
		}
	}
}

// SetQuantity sets the quantity for the matching line, clamped to at least
// 1. Absent ids are a no-op.
func (c *Cart) SetQuantity(id string, qty int64) {
	if qty < 1 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = qty
			c.persistLocked()
			return
		}
	}
}

// Clear empties the cart and persists the empty collection.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persistLocked()
}

// Items returns a copy of the current lines in insertion order.
func (c *Cart) Items() []model.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// TotalItems is the sum of all line quantities.
func (c *Cart) TotalItems() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// Subtotal is the sum of quantity times unit price over all lines.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func (c *Cart) persistLocked() {
	items := c.items
	if items == nil {
		items = []model.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		log.Printf("cart: marshal items: %v", err)
		return
	}
	if err := c.local.Put(store.KeyCart, string(raw)); err != nil {
		log.Printf("cart: persist items: %v", err)
	}
}
