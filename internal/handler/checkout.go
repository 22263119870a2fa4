package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teukusulthan/ninetyn-client/internal/checkout"
	"github.com/teukusulthan/ninetyn-client/internal/dto"
)

type CheckoutHandler struct {
	flow *checkout.Flow
}

func NewCheckoutHandler(flow *checkout.Flow) *CheckoutHandler {
	return &CheckoutHandler{flow: flow}
}

// Single orders one product directly, bypassing the cart.
func (h *CheckoutHandler) Single(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutSingleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	_, err := h.flow.PlaceSingle(ctx, c.Param("id"), req.Qty)
	if err != nil {
		if errors.Is(err, checkout.ErrNoCredential) {
			return c.Redirect(http.StatusSeeOther, "/login?redirect="+c.Request().URL.Path)
		}
		return fail(c, err, "Checkout gagal")
	}
	return c.JSON(http.StatusOK, dto.CheckoutResponse{Redirect: "/orders"})
}

// Cart orders every cart line. Only a fully successful run clears the cart
// and points the caller at the order history.
func (h *CheckoutHandler) Cart(c echo.Context) error {
	ctx := c.Request().Context()

	res, err := h.flow.PlaceCart(ctx)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNoCredential):
			return c.Redirect(http.StatusSeeOther, "/login?redirect=/checkout")
		case errors.Is(err, checkout.ErrEmptyCart):
			return c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "Tidak ada item untuk di-order."})
		}
		return fail(c, err, "Checkout gagal")
	}

	if res.Failed > 0 {
		return c.JSON(http.StatusBadGateway, dto.CheckoutResponse{
			Failed:  res.Failed,
			Message: fmt.Sprintf("%d item gagal dibuat. Item lain berhasil.", res.Failed),
		})
	}
	return c.JSON(http.StatusOK, dto.CheckoutResponse{Redirect: "/orders"})
}
