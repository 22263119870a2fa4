package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/teukusulthan/ninetyn-client/internal/api"
	"github.com/teukusulthan/ninetyn-client/internal/dto"
)

type OrderHandler struct {
	backend *api.Client
}

func NewOrderHandler(backend *api.Client) *OrderHandler {
	return &OrderHandler{backend: backend}
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.backend.MyOrders(ctx)
	if err != nil {
		return fail(c, err, "Gagal memuat pesanan.")
	}
	return c.JSON(http.StatusOK, dto.OrdersResponse{Data: orders})
}
