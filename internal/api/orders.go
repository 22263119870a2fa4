package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/teukusulthan/ninetyn-client/internal/model"
)

type rawOrder struct {
	ID         flexString       `json:"id"`
	UserID     flexString       `json:"userId"`
	ProductID  flexString       `json:"productId"`
	Quantity   int64            `json:"quantity"`
	UnitPrice  *decimal.Decimal `json:"unitPrice"`
	TotalPrice *decimal.Decimal `json:"totalPrice"`
	CreatedAt  string           `json:"createdAt"`
	Product    *rawProduct      `json:"product"`
}

func (c *Client) toOrder(raw rawOrder) model.Order {
	o := model.Order{
		ID:        string(raw.ID),
		UserID:    string(raw.UserID),
		ProductID: string(raw.ProductID),
		Quantity:  raw.Quantity,
		CreatedAt: raw.CreatedAt,
	}
	if raw.UnitPrice != nil {
		o.UnitPrice = *raw.UnitPrice
	}
	if raw.TotalPrice != nil {
		o.TotalPrice = *raw.TotalPrice
	}
	if raw.Product != nil {
		p := c.toProduct(*raw.Product)
		o.Product = &p
	}
	return o
}

// CreateOrder submits one order line.
func (c *Client) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}
	var raw rawOrder
	if err := c.doJSON(ctx, http.MethodPost, "/orders", bytes.NewReader(payload), "application/json", &raw); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	o := c.toOrder(raw)
	return &o, nil
}

// MyOrders lists the caller's order history, {data: [...]} or a bare array.
func (c *Client) MyOrders(ctx context.Context) ([]model.Order, error) {
	resp, err := c.do(ctx, http.MethodGet, "/orders/me", nil, "")
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read orders response: %w", err)
	}

	var raws []rawOrder
	if err := decodeData(body, &raws); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]model.Order, len(raws))
	for i, r := range raws {
		orders[i] = c.toOrder(r)
	}
	return orders, nil
}
