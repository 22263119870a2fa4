package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Role is the storefront-side view of an account's role. The backend may use
// richer role strings; everything is collapsed onto these two.
type Role string

const (
	RoleUser     Role = "USER"
	RoleSupplier Role = "SUPPLIER"
)

// NormalizeRole maps the backend's free-form role strings onto the two roles
// the storefront understands. Admin accounts get the supplier surface.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "supplier", "admin":
		return RoleSupplier
	default:
		return RoleUser
	}
}

// UserProfile is the identity record derived from GET /auth/me. It exists
// only while a credential exists.
type UserProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Points int64  `json:"points"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	SupplierID  string          `json:"supplierId,omitempty"`
	DeletedAt   string          `json:"deletedAt,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	UpdatedAt   string          `json:"updatedAt,omitempty"`
}

// CartItem is one line in the cart, keyed by product id. Quantity is always
// at least 1.
type CartItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Quantity  int64           `json:"qty"`
}

// LineTotal is quantity times unit price.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// OrderRequest is the outbound POST /orders payload, one per line.
type OrderRequest struct {
	ProductID string `json:"productId"`
	Quantity  int64  `json:"quantity"`
}

type Order struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId,omitempty"`
	ProductID  string          `json:"productId"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CreatedAt  string          `json:"createdAt,omitempty"`
	Product    *Product        `json:"product,omitempty"`
}
