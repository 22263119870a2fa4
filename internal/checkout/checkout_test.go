package checkout

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teukusulthan/ninetyn-client/internal/api"
	"github.com/teukusulthan/ninetyn-client/internal/cart"
	"github.com/teukusulthan/ninetyn-client/internal/model"
	"github.com/teukusulthan/ninetyn-client/internal/store"
)

type fakeBackend struct {
	mu       sync.Mutex
	requests []model.OrderRequest
	failFor  map[string]error
}

func (f *fakeBackend) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if err, ok := f.failFor[req.ProductID]; ok {
		return nil, err
	}
	return &model.Order{ID: "ord-" + req.ProductID, ProductID: req.ProductID, Quantity: req.Quantity}, nil
}

type staticCreds string

func (s staticCreds) Token() string { return string(s) }

func seededCart(ids ...string) *cart.Cart {
	c := cart.New(store.NewMemory())
	for i, id := range ids {
		c.Add(model.CartItem{ID: id, Name: "Item " + id, UnitPrice: decimal.NewFromInt(10)}, int64(i+1))
	}
	return c
}

func TestPlaceCartAllSucceedClearsCart(t *testing.T) {
	backend := &fakeBackend{}
	crt := seededCart("A", "B", "C")
	flow := New(backend, staticCreds("tok"), crt)

	res, err := flow.PlaceCart(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Submitted)
	assert.Equal(t, 0, res.Failed)
	assert.Empty(t, crt.Items(), "cart must be cleared after a fully successful checkout")
	assert.Len(t, backend.requests, 3)
}

func TestPlaceCartPartialFailureKeepsCart(t *testing.T) {
	backend := &fakeBackend{failFor: map[string]error{
		"B": &api.Error{StatusCode: 422, Message: "stok habis"},
	}}
	crt := seededCart("A", "B", "C")
	flow := New(backend, staticCreds("tok"), crt)

	res, err := flow.PlaceCart(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, res.Submitted)
	assert.Equal(t, 1, res.Failed)
	assert.Len(t, crt.Items(), 3, "cart is left untouched on partial failure")

	// every line was still attempted, no short-circuit
	assert.Len(t, backend.requests, 3)

	var failedIDs []string
	for _, lr := range res.Lines {
		if lr.Err != nil {
			failedIDs = append(failedIDs, lr.ProductID)
		}
	}
	assert.Equal(t, []string{"B"}, failedIDs)
}

func TestPlaceCartEmptyRefused(t *testing.T) {
	backend := &fakeBackend{}
	flow := New(backend, staticCreds("tok"), seededCart())

	_, err := flow.PlaceCart(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, backend.requests)
}

func TestPlaceCartRequiresCredential(t *testing.T) {
	backend := &fakeBackend{}
	crt := seededCart("A")
	flow := New(backend, staticCreds(""), crt)

	_, err := flow.PlaceCart(context.Background())
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Len(t, crt.Items(), 1)
	assert.Empty(t, backend.requests)
}

func TestPlaceCartSubmitsLineQuantities(t *testing.T) {
	backend := &fakeBackend{}
	crt := seededCart("A", "B")
	flow := New(backend, staticCreds("tok"), crt)

	_, err := flow.PlaceCart(context.Background())
	require.NoError(t, err)

	got := map[string]int64{}
	for _, r := range backend.requests {
		got[r.ProductID] = r.Quantity
	}
	assert.Equal(t, map[string]int64{"A": 1, "B": 2}, got)
}

func TestPlaceSingle(t *testing.T) {
	backend := &fakeBackend{}
	crt := seededCart("A")
	flow := New(backend, staticCreds("tok"), crt)

	order, err := flow.PlaceSingle(context.Background(), "X", 4)
	require.NoError(t, err)

	assert.Equal(t, "X", order.ProductID)
	assert.Equal(t, int64(4), order.Quantity)
	assert.Len(t, crt.Items(), 1, "single-item mode must not touch the cart")
}

func TestPlaceSingleFailureLeavesCart(t *testing.T) {
	backend := &fakeBackend{failFor: map[string]error{
		"X": &api.Error{StatusCode: 500, Message: "server sedang gangguan"},
	}}
	crt := seededCart("A")
	flow := New(backend, staticCreds("tok"), crt)

	_, err := flow.PlaceSingle(context.Background(), "X", 1)
	require.Error(t, err)
	assert.Equal(t, "server sedang gangguan", api.Message(err, ""))
	assert.Len(t, crt.Items(), 1)
}

func TestPlaceSingleClampsQuantity(t *testing.T) {
	backend := &fakeBackend{}
	flow := New(backend, staticCreds("tok"), seededCart())

	order, err := flow.PlaceSingle(context.Background(), "X", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.Quantity)
}

func TestPlaceSingleRequiresCredential(t *testing.T) {
	flow := New(&fakeBackend{}, staticCreds(""), seededCart())

	_, err := flow.PlaceSingle(context.Background(), "X", 1)
	assert.ErrorIs(t, err, ErrNoCredential)
}
