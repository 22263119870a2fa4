package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/teukusulthan/ninetyn-client/internal/api"
	"github.com/teukusulthan/ninetyn-client/internal/dto"
)

type ProductHandler struct {
	backend *api.Client
}

func NewProductHandler(backend *api.Client) *ProductHandler {
	return &ProductHandler{backend: backend}
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	q := api.ProductQuery{
		Search: c.QueryParam("search"),
		SortBy: c.QueryParam("sortBy"),
		Order:  c.QueryParam("order"),
	}
	if v := c.QueryParam("page"); v != "" {
		q.Page, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := c.QueryParam("minPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			q.MinPrice = &d
		}
	}
	if v := c.QueryParam("maxPrice"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			q.MaxPrice = &d
		}
	}

	page, err := h.backend.ListProducts(ctx, q)
	if err != nil {
		return fail(c, err, "Gagal memuat produk.")
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.backend.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err, "Produk tidak ditemukan.")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := h.bindForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
	}
	if err := form.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
	}

	product, err := h.backend.CreateProduct(ctx, *form)
	if err != nil {
		return fail(c, err, "Gagal menyimpan produk")
	}
	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := h.bindForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
	}
	if err := form.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
	}

	product, err := h.backend.UpdateProduct(ctx, c.Param("id"), *form)
	if err != nil {
		return fail(c, err, "Gagal menyimpan produk")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) SoftDelete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.backend.SoftDeleteProduct(ctx, c.Param("id")); err != nil {
		return fail(c, err, "Gagal menghapus produk.")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) Restore(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.backend.RestoreProduct(ctx, c.Param("id")); err != nil {
		return fail(c, err, "Gagal memulihkan produk.")
	}
	return c.NoContent(http.StatusNoContent)
}

// bindForm reads the incoming multipart product form. The image, when
// present, is pulled into memory so validation can see its size before
// anything goes over the wire.
func (h *ProductHandler) bindForm(c echo.Context) (*api.ProductForm, error) {
	form := &api.ProductForm{
		Name:        strings.TrimSpace(c.FormValue("name")),
		Description: strings.TrimSpace(c.FormValue("description")),
	}

	if v := c.FormValue("price"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return nil, fmt.Errorf("Harga harus berupa angka ≥ 0.")
		}
		form.Price = d
	}
	if v := c.FormValue("stock"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("Stok harus berupa angka ≥ 0.")
		}
		form.Stock = n
	}

	fh, err := c.FormFile("image")
	if err != nil {
		// no image attached
		return form, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("File gambar tidak valid.")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("File gambar tidak valid.")
	}
	form.Image = &api.ImageFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}
	return form, nil
}
