// Package checkout submits orders against the backend. It owns no state of
// its own: it reads the session and cart it is given and clears the cart
// only after every submission in a cart checkout succeeded.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/teukusulthan/ninetyn-client/internal/cart"
	"github.com/teukusulthan/ninetyn-client/internal/model"
)

var (
	// ErrNoCredential means the caller must log in before checking out.
	ErrNoCredential = errors.New("checkout requires an authenticated session")
	// ErrEmptyCart means a cart checkout was attempted with no lines.
	ErrEmptyCart = errors.New("cart has no items to order")
)

// Backend is the slice of the API client the flow needs.
type Backend interface {
	CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error)
}

// Credentials reports the active bearer token.
type Credentials interface {
	Token() string
}

type Flow struct {
	backend Backend
	creds   Credentials
	cart    *cart.Cart
}

func New(backend Backend, creds Credentials, c *cart.Cart) *Flow {
	return &Flow{backend: backend, creds: creds, cart: c}
}

// LineResult is the outcome of one order submission in a cart checkout.
type LineResult struct {
	ProductID string
	Quantity  int64
	Err       error
}

// Result summarizes a cart checkout. Failed is zero exactly when the cart
// was cleared.
type Result struct {
	Submitted int
	Failed    int
	Lines     []LineResult
}

// PlaceSingle submits exactly one order for a product, bypassing the cart.
// The cart is never touched, success or not.
func (f *Flow) PlaceSingle(ctx context.Context, productID string, qty int64) (*model.Order, error) {
	if f.creds.Token() == "" {
		return nil, ErrNoCredential
	}
	if qty < 1 {
		qty = 1
	}
	order, err := f.backend.CreateOrder(ctx, model.OrderRequest{ProductID: productID, Quantity: qty})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// PlaceCart submits one order per cart line, all concurrently, and waits for
// every outcome before deciding. All lines succeeding clears the cart. On
// partial failure the cart keeps every line, succeeded ones included, so a
// blind retry re-submits them; Result.Lines lets a caller do better.
func (f *Flow) PlaceCart(ctx context.Context) (*Result, error) {
	if f.creds.Token() == "" {
		return nil, ErrNoCredential
	}
	lines := f.cart.Items()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	res := &Result{
		Submitted: len(lines),
		Lines:     make([]LineResult, len(lines)),
	}

	var wg sync.WaitGroup
	for i, line := range lines {
		wg.Add(1)
		go func(i int, line model.CartItem) {
			defer wg.Done()
			_, err := f.backend.CreateOrder(ctx, model.OrderRequest{
				ProductID: line.ID,
				Quantity:  line.Quantity,
			})
			res.Lines[i] = LineResult{ProductID: line.ID, Quantity: line.Quantity, Err: err}
		}(i, line)
	}
	wg.Wait()

	for _, lr := range res.Lines {
		if lr.Err != nil {
			res.Failed++
		}
	}
	if res.Failed == 0 {
		f.cart.Clear()
	}
	return res, nil
}
