package dto

import (
	"github.com/shopspring/decimal"

	"github.com/teukusulthan/ninetyn-client/internal/model"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type MeResponse struct {
	Data    *model.UserProfile `json:"data"`
	Loading bool               `json:"loading"`
}

type CartAddRequest struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl"`
	Qty      int64           `json:"qty"`
}

type CartQuantityRequest struct {
	Qty int64 `json:"qty"`
}

type CartResponse struct {
	Items      []model.CartItem `json:"items"`
	TotalItems int64            `json:"totalItems"`
	Subtotal   decimal.Decimal  `json:"subtotal"`
}

type CheckoutSingleRequest struct {
	Qty int64 `json:"qty"`
}

type CheckoutResponse struct {
	Redirect string `json:"redirect,omitempty"`
	Failed   int    `json:"failed,omitempty"`
	Message  string `json:"message,omitempty"`
}

type OrdersResponse struct {
	Data []model.Order `json:"data"`
}
