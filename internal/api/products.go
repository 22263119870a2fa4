package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/teukusulthan/ninetyn-client/internal/model"
)

const defaultPageLimit = 12

// ProductQuery is the browse filter for GET /products. Page is 1-based and
// converted to limit/offset on the wire.
type ProductQuery struct {
	Search   string
	SortBy   string
	Order    string
	Page     int
	Limit    int
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

type ProductPage struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type rawProduct struct {
	ID          flexString       `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int64           `json:"stock"`
	ImageURL    string           `json:"imageUrl"`
	SupplierID  flexString       `json:"supplierId"`
	DeletedAt   string           `json:"deletedAt"`
	CreatedAt   string           `json:"createdAt"`
	UpdatedAt   string           `json:"updatedAt"`
}

func (c *Client) toProduct(raw rawProduct) model.Product {
	p := model.Product{
		ID:          string(raw.ID),
		Name:        raw.Name,
		Description: raw.Description,
		ImageURL:    c.AbsoluteImageURL(raw.ImageURL),
		SupplierID:  string(raw.SupplierID),
		DeletedAt:   raw.DeletedAt,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.UpdatedAt,
	}
	if raw.Price != nil {
		p.Price = *raw.Price
	}
	if raw.Stock != nil {
		p.Stock = *raw.Stock
	}
	return p
}

// ListProducts browses the catalog. The search term is sent under every
// spelling the backend variants have used (search, name, q) plus
// searchBy=name so any of them can match.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	if q.SortBy != "" {
		params.Set("sortBy", q.SortBy)
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	if q.MinPrice != nil {
		params.Set("minPrice", q.MinPrice.String())
	}
	if q.MaxPrice != nil {
		params.Set("maxPrice", q.MaxPrice.String())
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		params.Set("search", search)
		params.Set("name", search)
		params.Set("q", search)
		params.Set("searchBy", "name")
	}

	resp, err := c.do(ctx, http.MethodGet, "/products?"+params.Encode(), nil, "")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode products response: %w", err)
	}

	rawItems := env.Data
	if isNull(rawItems) {
		rawItems = env.Items
	}
	var raws []rawProduct
	if !isNull(rawItems) {
		if err := json.Unmarshal(rawItems, &raws); err != nil {
			return nil, fmt.Errorf("decode product list: %w", err)
		}
	}

	items := make([]model.Product, len(raws))
	for i, r := range raws {
		items[i] = c.toProduct(r)
	}

	total := int64(len(items))
	switch {
	case env.Total != nil:
		total = *env.Total
	case env.Meta != nil && env.Meta.Total != nil:
		total = *env.Meta.Total
	case env.Meta != nil && env.Meta.TotalCount != nil:
		total = *env.Meta.TotalCount
	}

	return &ProductPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// GetProduct fetches one product, {data: product} or a bare product.
func (c *Client) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var raw rawProduct
	if err := c.doJSON(ctx, http.MethodGet, "/product/"+url.PathEscape(id), nil, "", &raw); err != nil {
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	p := c.toProduct(raw)
	return &p, nil
}

// maxImageBytes is the client-side cap on product images.
const maxImageBytes = 2 * 1024 * 1024

// ImageFile is an in-memory upload for the product form.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ProductForm carries the multipart fields for create and update.
type ProductForm struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int64
	Image       *ImageFile
}

// Validate runs the same checks the web form ran before submitting, so an
// invalid form never reaches the network.
func (f *ProductForm) Validate() error {
	var errs []string
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, "Nama produk wajib diisi.")
	}
	if f.Price.IsNegative() {
		errs = append(errs, "Harga harus berupa angka ≥ 0.")
	}
	if f.Stock < 0 {
		errs = append(errs, "Stok harus berupa angka ≥ 0.")
	}
	if f.Image != nil {
		if !strings.HasPrefix(f.Image.ContentType, "image/") {
			errs = append(errs, "File gambar tidak valid.")
		}
		if len(f.Image.Data) > maxImageBytes {
			errs = append(errs, "Ukuran gambar maksimal 2 MB.")
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " "))
	}
	return nil
}

func (f *ProductForm) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"name":        strings.TrimSpace(f.Name),
		"description": strings.TrimSpace(f.Description),
		"price":       f.Price.Truncate(0).String(),
		"stock":       strconv.FormatInt(f.Stock, 10),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", name, err)
		}
	}

	if f.Image != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="image"; filename=%q`, f.Image.Name))
		header.Set("Content-Type", f.Image.ContentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(f.Image.Data); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// CreateProduct submits a new product as multipart form data.
func (c *Client) CreateProduct(ctx context.Context, form ProductForm) (*model.Product, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	body, contentType, err := form.encode()
	if err != nil {
		return nil, err
	}
	var raw rawProduct
	if err := c.doJSON(ctx, http.MethodPost, "/products", body, contentType, &raw); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	p := c.toProduct(raw)
	return &p, nil
}

// UpdateProduct patches an existing product with the same multipart fields.
func (c *Client) UpdateProduct(ctx context.Context, id string, form ProductForm) (*model.Product, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	body, contentType, err := form.encode()
	if err != nil {
		return nil, err
	}
	var raw rawProduct
	if err := c.doJSON(ctx, http.MethodPatch, "/product/"+url.PathEscape(id), body, contentType, &raw); err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}
	p := c.toProduct(raw)
	return &p, nil
}

// SoftDeleteProduct hides a product; RestoreProduct brings it back.
func (c *Client) SoftDeleteProduct(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/product/"+url.PathEscape(id), nil, "", nil); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

func (c *Client) RestoreProduct(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodPatch, "/product/"+url.PathEscape(id)+"/restore", nil, "", nil); err != nil {
		return fmt.Errorf("restore product %s: %w", id, err)
	}
	return nil
}
