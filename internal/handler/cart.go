package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teukusulthan/ninetyn-client/internal/api"
	"github.com/teukusulthan/ninetyn-client/internal/cart"
	"github.com/teukusulthan/ninetyn-client/internal/dto"
	"github.com/teukusulthan/ninetyn-client/internal/model"
)

type CartHandler struct {
	cart    *cart.Cart
	backend *api.Client
}

func NewCartHandler(c *cart.Cart, backend *api.Client) *CartHandler {
	return &CartHandler{cart: c, backend: backend}
}

func (h *CartHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.cartResponse())
}

// Add puts a product in the cart. A request carrying only the id is resolved
// against the catalog so the line still gets a name and unit price.
func (h *CartHandler) Add(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartAddRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.ID == "" {
		return c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "Produk tidak valid."})
	}

	item := model.CartItem{
		ID:        req.ID,
		Name:      req.Name,
		UnitPrice: req.Price,
		ImageURL:  req.ImageURL,
	}
	if item.Name == "" {
		product, err := h.backend.GetProduct(ctx, req.ID)
		if err != nil {
			return fail(c, err, "Produk tidak ditemukan.")
		}
		item.Name = product.Name
		item.UnitPrice = product.Price
		item.ImageURL = product.ImageURL
	}

	h.cart.Add(item, req.Qty)
	return c.JSON(http.StatusOK, h.cartResponse())
}

func (h *CartHandler) SetQuantity(c echo.Context) error {
	var req dto.CartQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	h.cart.SetQuantity(c.Param("id"), req.Qty)
	return c.JSON(http.StatusOK, h.cartResponse())
}

func (h *CartHandler) Remove(c echo.Context) error {
	h.cart.Remove(c.Param("id"))
	return c.JSON(http.StatusOK, h.cartResponse())
}

func (h *CartHandler) Clear(c echo.Context) error {
	h.cart.Clear()
	return c.JSON(http.StatusOK, h.cartResponse())
}

func (h *CartHandler) cartResponse() dto.CartResponse {
	return dto.CartResponse{
		Items:      h.cart.Items(),
		TotalItems: h.cart.TotalItems(),
		Subtotal:   h.cart.Subtotal(),
	}
}
